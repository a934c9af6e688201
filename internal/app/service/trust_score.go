package service

import (
	"github.com/ikkim/vendortrust-backend/internal/app/model"
)

// 카테고리별 점수 가중치 (합계 100)
var categoryWeights = map[model.VerificationCategory]int{
	model.CategoryPhone:        15,
	model.CategoryEmail:        15,
	model.CategoryGovernmentID: 25,
	model.CategoryFacial:       20,
	model.CategoryBusinessDocs: 15,
	model.CategoryAddress:      10,
}

// 종합 상태 임계값
const (
	verifiedThreshold  = 90
	partialThreshold   = 30
	trustedBadgeScore  = 90
	premiumBadgeScore  = 100
)

// 신뢰 등급 임계값
const (
	premiumTrustThreshold = 100
	trustedTrustThreshold = 75
	basicTrustThreshold   = 40
)

// CalculateVerificationScore 승인된 카테고리의 가중치 합 (0~100)
// 승인 외의 상태(pending, rejected, expired 포함)는 0점 처리
func CalculateVerificationScore(v *model.VendorVerification) int {
	score := 0
	for _, category := range model.AllCategories {
		if v.Item(category).Status == model.ItemStatusApproved {
			score += categoryWeights[category]
		}
	}
	return score
}

// DeriveOverallStatus 점수로부터 종합 상태 파생
// suspended는 점수와 무관하게 유지 (해제는 Reinstate로만)
func DeriveOverallStatus(score int, current string) string {
	if current == model.OverallStatusSuspended {
		return model.OverallStatusSuspended
	}
	switch {
	case score >= verifiedThreshold:
		return model.OverallStatusVerified
	case score >= partialThreshold:
		return model.OverallStatusPartiallyVerified
	default:
		return model.OverallStatusUnverified
	}
}

// DeriveTrustLevel 점수로부터 신뢰 등급 파생
func DeriveTrustLevel(score int) string {
	switch {
	case score >= premiumTrustThreshold:
		return model.TrustLevelPremium
	case score >= trustedTrustThreshold:
		return model.TrustLevelTrusted
	case score >= basicTrustThreshold:
		return model.TrustLevelBasic
	default:
		return model.TrustLevelNew
	}
}

// DeriveBadges 배지 목록 파생
// 승인 카테고리마다 "<category>_verified", 점수 90 이상이면 trusted_vendor,
// 100이면 premium_vendor 추가. AllCategories 순서를 따르므로 결정적
func DeriveBadges(v *model.VendorVerification, score int) model.StringList {
	badges := model.StringList{}
	for _, category := range model.AllCategories {
		if v.Item(category).Status == model.ItemStatusApproved {
			badges = append(badges, string(category)+"_verified")
		}
	}
	if score >= trustedBadgeScore {
		badges = append(badges, model.BadgeTrustedVendor)
	}
	if score >= premiumBadgeScore {
		badges = append(badges, model.BadgePremiumVendor)
	}
	return badges
}

// RecomputeDerivedFields 파생 필드 4종을 정해진 순서로 전체 재계산
// 순서 고정: 점수 -> 종합 상태 -> 신뢰 등급 -> 배지
func RecomputeDerivedFields(v *model.VendorVerification) {
	score := CalculateVerificationScore(v)
	v.VerificationScore = score
	v.OverallStatus = DeriveOverallStatus(score, v.OverallStatus)
	v.TrustLevel = DeriveTrustLevel(score)
	v.BadgeDisplay = DeriveBadges(v, score)
}
