package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// VerificationCategory 검증 카테고리 (6종)
type VerificationCategory string

const (
	CategoryPhone        VerificationCategory = "phone"              // 휴대폰 인증
	CategoryEmail        VerificationCategory = "email"              // 이메일 인증
	CategoryGovernmentID VerificationCategory = "government_id"      // 신분증 인증
	CategoryFacial       VerificationCategory = "facial"             // 얼굴(본인) 인증
	CategoryBusinessDocs VerificationCategory = "business_documents" // 사업자 서류 인증
	CategoryAddress      VerificationCategory = "address"            // 주소 인증
)

// AllCategories 카테고리 순회용 고정 순서
var AllCategories = []VerificationCategory{
	CategoryPhone,
	CategoryEmail,
	CategoryGovernmentID,
	CategoryFacial,
	CategoryBusinessDocs,
	CategoryAddress,
}

// IsValidCategory 카테고리 문자열 검증
func IsValidCategory(c VerificationCategory) bool {
	switch c {
	case CategoryPhone, CategoryEmail, CategoryGovernmentID,
		CategoryFacial, CategoryBusinessDocs, CategoryAddress:
		return true
	}
	return false
}

// 카테고리별 상태
const (
	ItemStatusNotStarted = "not_started" // 미시작
	ItemStatusPending    = "pending"     // 증빙 제출됨, 검토 대기
	ItemStatusApproved   = "approved"    // 승인됨
	ItemStatusRejected   = "rejected"    // 반려됨
	ItemStatusExpired    = "expired"     // 유효기간 만료
)

// 판매자 종합 상태
const (
	OverallStatusUnverified        = "unverified"         // 미인증
	OverallStatusPartiallyVerified = "partially_verified" // 부분 인증
	OverallStatusVerified          = "verified"           // 인증 완료
	OverallStatusSuspended         = "suspended"          // 관리자 정지 (sticky)
)

// 신뢰 등급
const (
	TrustLevelNew     = "new"
	TrustLevelBasic   = "basic"
	TrustLevelTrusted = "trusted"
	TrustLevelPremium = "premium"
)

// 등급 배지 (카테고리 배지는 "<category>_verified")
const (
	BadgeTrustedVendor = "trusted_vendor" // 점수 90 이상
	BadgePremiumVendor = "premium_vendor" // 점수 100
)

// 감사 로그의 vendor 단위 액션에 쓰는 카테고리 센티넬
const VerificationTypeVendor = "vendor"

// StringList JSON 배열로 저장되는 문자열 목록 (배지 표시용)
// PostgreSQL과 테스트용 SQLite 양쪽에서 동작하도록 TEXT 컬럼에 JSON으로 직렬화
type StringList []string

// Value database/sql/driver.Valuer 구현
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

// Scan database/sql.Scanner 구현
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return errors.New("failed to scan StringList")
}

// Contains 배지 포함 여부
func (s StringList) Contains(item string) bool {
	for _, v := range s {
		if v == item {
			return true
		}
	}
	return false
}

// VerificationItem 카테고리 1건의 검증 상태
// VendorVerification에 6번 임베딩됨 (카테고리별 prefix 컬럼)
// VerifiedAt/RejectedAt은 상호 배타: 전이 시 반대쪽 필드를 반드시 비움
type VerificationItem struct {
	Status          string     `gorm:"type:varchar(20);default:'not_started'" json:"status"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`                          // 승인 일시
	VerifiedBy      *uint      `json:"verified_by,omitempty"`                          // 승인한 관리자 ID
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`                          // 반려 일시
	RejectedBy      *uint      `json:"rejected_by,omitempty"`                          // 반려한 관리자 ID
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`    // 반려 사유
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`                           // 승인 유효기간
	EvidenceURL     string     `gorm:"type:text" json:"evidence_url,omitempty"`        // 증빙 참조 (URL/key, 원본 파일 아님)
	EvidenceName    string     `gorm:"type:varchar(255)" json:"evidence_name,omitempty"` // 증빙 표시 이름
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`               // 관리자 메모
	LastUpdated     time.Time  `json:"last_updated"`                                   // 필드 변경 시 항상 갱신
}

// VendorVerification 판매자별 검증 원장 (판매자당 1건, 최초 접근 시 생성, 삭제 없음)
// 파생 필드(score/overall/trust/badges)는 외부에서 직접 설정하지 않고 항상 재계산으로만 갱신
type VendorVerification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VendorID     uint   `gorm:"uniqueIndex;not null" json:"vendor_id"` // 판매자 ID (1:1)
	VendorName   string `gorm:"not null" json:"vendor_name"`
	VendorEmail  string `gorm:"not null" json:"vendor_email"`
	BusinessName string `gorm:"type:varchar(255)" json:"business_name,omitempty"` // 상호명 (선택)

	// 카테고리별 검증 항목 (이 레코드가 단독 소유)
	Phone        VerificationItem `gorm:"embedded;embeddedPrefix:phone_" json:"phone"`
	Email        VerificationItem `gorm:"embedded;embeddedPrefix:email_" json:"email"`
	GovernmentID VerificationItem `gorm:"embedded;embeddedPrefix:government_id_" json:"government_id"`
	Facial       VerificationItem `gorm:"embedded;embeddedPrefix:facial_" json:"facial"`
	BusinessDocs VerificationItem `gorm:"embedded;embeddedPrefix:business_docs_" json:"business_documents"`
	Address      VerificationItem `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	// 파생 필드 (항상 전체 재계산)
	VerificationScore int        `gorm:"default:0" json:"verification_score"`                            // 0~100
	OverallStatus     string     `gorm:"type:varchar(30);default:'unverified';index" json:"overall_status"`
	TrustLevel        string     `gorm:"type:varchar(20);default:'new'" json:"trust_level"`
	BadgeDisplay      StringList `gorm:"type:text" json:"badge_display"`

	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"` // 마지막 관리자 검토 일시
	LastReviewedBy *uint      `json:"last_reviewed_by,omitempty"` // 마지막 검토 관리자 ID
}

func (VendorVerification) TableName() string {
	return "vendor_verifications"
}

// Item 카테고리에 해당하는 항목 포인터 반환
// 문자열 키 맵 대신 명시적 switch로 디스패치 (컴파일 타임에 카테고리 누락 방지)
func (v *VendorVerification) Item(category VerificationCategory) *VerificationItem {
	switch category {
	case CategoryPhone:
		return &v.Phone
	case CategoryEmail:
		return &v.Email
	case CategoryGovernmentID:
		return &v.GovernmentID
	case CategoryFacial:
		return &v.Facial
	case CategoryBusinessDocs:
		return &v.BusinessDocs
	case CategoryAddress:
		return &v.Address
	}
	return nil
}
