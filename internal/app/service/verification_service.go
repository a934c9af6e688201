package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"github.com/ikkim/vendortrust-backend/pkg/redis"
	"gorm.io/gorm"
)

// VerificationService 판매자 검증 원장 관리
// 한 판매자에 대한 읽기-계산-쓰기는 판매자별 잠금 아래에서 원자적으로 수행됨
type VerificationService interface {
	Initialize(vendorID uint, name, email, businessName string) (*model.VendorVerification, error)
	GetByVendorID(vendorID uint) (*model.VendorVerification, error)
	GetOverallStatus(vendorID uint) (string, error)
	SubmitEvidence(vendorID uint, category model.VerificationCategory, evidenceURL, evidenceName string) (*model.VendorVerification, error)
	Approve(vendorID uint, category model.VerificationCategory, adminID uint, adminEmail, notes string) (*model.VendorVerification, error)
	Reject(vendorID uint, category model.VerificationCategory, adminID uint, adminEmail, reason string) (*model.VendorVerification, error)
	ApproveAllPending(vendorID, adminID uint, adminEmail string) (*model.VendorVerification, []model.VerificationCategory, error)
	Suspend(vendorID, adminID uint, adminEmail, reason string) (*model.VendorVerification, error)
	Reinstate(vendorID, adminID uint, adminEmail string) (*model.VendorVerification, error)
	ListByOverallStatus(status string) ([]model.VendorVerification, error)
	ListPendingReview() ([]model.VendorVerification, error)
	ExpireOverdueVerifications(now time.Time) (int, error)
}

type verificationService struct {
	vendorRepo          repository.VendorVerificationRepository
	auditService        AuditService
	notificationService NotificationService
	publisher           EventPublisher

	// 판매자별 잠금
	locksMu sync.Mutex
	locks   map[uint]*sync.Mutex
}

func NewVerificationService(
	vendorRepo repository.VendorVerificationRepository,
	auditService AuditService,
	notificationService NotificationService,
	publisher EventPublisher,
) VerificationService {
	return &verificationService{
		vendorRepo:          vendorRepo,
		auditService:        auditService,
		notificationService: notificationService,
		publisher:           publisher,
		locks:               make(map[uint]*sync.Mutex),
	}
}

// vendorLock 판매자별 뮤텍스 반환 (없으면 생성)
func (s *verificationService) vendorLock(vendorID uint) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[vendorID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[vendorID] = lock
	}
	return lock
}

func (s *verificationService) publish(eventType string, v *model.VendorVerification) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(Event{
		Type:       eventType,
		VendorID:   v.VendorID,
		VendorName: v.VendorName,
		Payload: map[string]interface{}{
			"verification_score": v.VerificationScore,
			"overall_status":     v.OverallStatus,
			"trust_level":        v.TrustLevel,
		},
		Timestamp: time.Now(),
	})
}

// Initialize 검증 레코드 멱등 생성 (이미 있으면 그대로 반환)
func (s *verificationService) Initialize(vendorID uint, name, email, businessName string) (*model.VendorVerification, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.vendorRepo.FindByVendorID(vendorID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	item := model.VerificationItem{Status: model.ItemStatusNotStarted, LastUpdated: now}
	verification := &model.VendorVerification{
		VendorID:          vendorID,
		VendorName:        name,
		VendorEmail:       email,
		BusinessName:      businessName,
		Phone:             item,
		Email:             item,
		GovernmentID:      item,
		Facial:            item,
		BusinessDocs:      item,
		Address:           item,
		VerificationScore: 0,
		OverallStatus:     model.OverallStatusUnverified,
		TrustLevel:        model.TrustLevelNew,
		BadgeDisplay:      model.StringList{},
	}

	if err := s.vendorRepo.Create(verification); err != nil {
		return nil, err
	}

	logger.Info("Vendor verification initialized", map[string]interface{}{
		"vendor_id":    vendorID,
		"vendor_email": email,
	})
	return verification, nil
}

func (s *verificationService) GetByVendorID(vendorID uint) (*model.VendorVerification, error) {
	verification, err := s.vendorRepo.FindByVendorID(vendorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}
	return verification, nil
}

// GetOverallStatus 게시 게이트용 종합 상태 조회 (캐시 우선)
func (s *verificationService) GetOverallStatus(vendorID uint) (string, error) {
	ctx := context.Background()

	if cached, err := redis.GetCachedVendorStatus(ctx, vendorID); err == nil && cached != "" {
		return cached, nil
	}

	verification, err := s.GetByVendorID(vendorID)
	if err != nil {
		return "", err
	}

	if err := redis.CacheVendorStatus(ctx, vendorID, verification.OverallStatus); err != nil {
		logger.Warn("Failed to cache vendor status", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
	}
	return verification.OverallStatus, nil
}

// invalidateStatusCache 상태 변경 후 캐시 무효화 (실패해도 본 연산은 유지)
func (s *verificationService) invalidateStatusCache(vendorID uint) {
	if err := redis.InvalidateVendorStatus(context.Background(), vendorID); err != nil {
		logger.Warn("Failed to invalidate vendor status cache", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
	}
}

// SubmitEvidence 카테고리를 pending으로 전환하고 증빙 참조 저장
// pending은 점수에 기여하지 않지만 파생 필드는 규약대로 전체 재계산
func (s *verificationService) SubmitEvidence(vendorID uint, category model.VerificationCategory, evidenceURL, evidenceName string) (*model.VendorVerification, error) {
	if !model.IsValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	verification, err := s.GetByVendorID(vendorID)
	if err != nil {
		return nil, err
	}

	item := verification.Item(category)
	previousStatus := item.Status
	now := time.Now()

	item.Status = model.ItemStatusPending
	item.EvidenceURL = evidenceURL
	item.EvidenceName = evidenceName
	item.LastUpdated = now

	RecomputeDerivedFields(verification)

	if err := s.vendorRepo.Update(verification); err != nil {
		return nil, err
	}

	if err := s.auditService.Record(&model.VerificationAuditLog{
		Action:           model.AuditActionEvidenceSubmitted,
		VendorID:         vendorID,
		VendorName:       verification.VendorName,
		VerificationType: string(category),
		PreviousStatus:   previousStatus,
		NewStatus:        model.ItemStatusPending,
		Details:          evidenceName,
	}); err != nil {
		return nil, err
	}

	s.invalidateStatusCache(vendorID)
	s.publish("evidence_submitted", verification)

	logger.Info("Verification evidence submitted", map[string]interface{}{
		"vendor_id": vendorID,
		"category":  category,
	})
	return verification, nil
}

// Approve 카테고리 승인
// 반려 필드를 비우고 승인 필드를 채운 뒤 점수 -> 종합 상태 -> 신뢰 등급 -> 배지 순으로 재계산
func (s *verificationService) Approve(vendorID uint, category model.VerificationCategory, adminID uint, adminEmail, notes string) (*model.VendorVerification, error) {
	if !model.IsValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	return s.approveLocked(vendorID, category, adminID, adminEmail, notes)
}

// approveLocked 호출자가 판매자 잠금을 보유한 상태에서의 승인 처리
func (s *verificationService) approveLocked(vendorID uint, category model.VerificationCategory, adminID uint, adminEmail, notes string) (*model.VendorVerification, error) {
	verification, err := s.GetByVendorID(vendorID)
	if err != nil {
		return nil, err
	}

	item := verification.Item(category)
	previousStatus := item.Status
	now := time.Now()

	item.Status = model.ItemStatusApproved
	item.VerifiedAt = &now
	item.VerifiedBy = &adminID
	item.RejectedAt = nil
	item.RejectedBy = nil
	item.RejectionReason = ""
	item.Notes = notes
	item.LastUpdated = now

	RecomputeDerivedFields(verification)
	verification.LastReviewedAt = &now
	verification.LastReviewedBy = &adminID

	if err := s.vendorRepo.Update(verification); err != nil {
		return nil, err
	}

	if err := s.auditService.Record(&model.VerificationAuditLog{
		Action:           model.AuditActionVerificationApproved,
		VendorID:         vendorID,
		VendorName:       verification.VendorName,
		VerificationType: string(category),
		AdminID:          &adminID,
		AdminEmail:       adminEmail,
		PreviousStatus:   previousStatus,
		NewStatus:        model.ItemStatusApproved,
		Details:          notes,
	}); err != nil {
		return nil, err
	}

	s.invalidateStatusCache(vendorID)
	s.publish("verification_approved", verification)
	s.notifyCategoryResult(verification, category, model.NotificationTypeCategoryApproved,
		"검증 항목이 승인되었습니다",
		fmt.Sprintf("%s 항목 검증이 승인되었습니다.", category))

	logger.Info("Verification category approved", map[string]interface{}{
		"vendor_id": vendorID,
		"category":  category,
		"admin_id":  adminID,
		"score":     verification.VerificationScore,
		"status":    verification.OverallStatus,
	})
	return verification, nil
}

// Reject 카테고리 반려 (사유 필수)
// 승인 필드를 비우고 반려 필드를 채움
func (s *verificationService) Reject(vendorID uint, category model.VerificationCategory, adminID uint, adminEmail, reason string) (*model.VendorVerification, error) {
	if !model.IsValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}

	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	verification, err := s.GetByVendorID(vendorID)
	if err != nil {
		return nil, err
	}

	item := verification.Item(category)
	previousStatus := item.Status
	now := time.Now()

	item.Status = model.ItemStatusRejected
	item.RejectedAt = &now
	item.RejectedBy = &adminID
	item.RejectionReason = reason
	item.VerifiedAt = nil
	item.VerifiedBy = nil
	item.LastUpdated = now

	RecomputeDerivedFields(verification)
	verification.LastReviewedAt = &now
	verification.LastReviewedBy = &adminID

	if err := s.vendorRepo.Update(verification); err != nil {
		return nil, err
	}

	if err := s.auditService.Record(&model.VerificationAuditLog{
		Action:           model.AuditActionVerificationRejected,
		VendorID:         vendorID,
		VendorName:       verification.VendorName,
		VerificationType: string(category),
		AdminID:          &adminID,
		AdminEmail:       adminEmail,
		PreviousStatus:   previousStatus,
		NewStatus:        model.ItemStatusRejected,
		Details:          reason,
	}); err != nil {
		return nil, err
	}

	s.invalidateStatusCache(vendorID)
	s.publish("verification_rejected", verification)
	s.notifyCategoryResult(verification, category, model.NotificationTypeCategoryRejected,
		"검증 항목이 반려되었습니다",
		fmt.Sprintf("%s 항목 검증이 반려되었습니다. 사유: %s", category, reason))

	logger.Info("Verification category rejected", map[string]interface{}{
		"vendor_id": vendorID,
		"category":  category,
		"admin_id":  adminID,
		"reason":    reason,
	})
	return verification, nil
}

// ApproveAllPending 현재 pending인 카테고리를 각각 개별 승인
// 잠금 획득 시점에 pending으로 관찰된 카테고리만 전환, 카테고리마다 감사 로그 1건
func (s *verificationService) ApproveAllPending(vendorID, adminID uint, adminEmail string) (*model.VendorVerification, []model.VerificationCategory, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	verification, err := s.GetByVendorID(vendorID)
	if err != nil {
		return nil, nil, err
	}

	var pending []model.VerificationCategory
	for _, category := range model.AllCategories {
		if verification.Item(category).Status == model.ItemStatusPending {
			pending = append(pending, category)
		}
	}

	approved := make([]model.VerificationCategory, 0, len(pending))
	for _, category := range pending {
		verification, err = s.approveLocked(vendorID, category, adminID, adminEmail, "Batch approval")
		if err != nil {
			return verification, approved, err
		}
		approved = append(approved, category)
	}

	logger.Info("Batch approval completed", map[string]interface{}{
		"vendor_id":      vendorID,
		"admin_id":       adminID,
		"approved_count": len(approved),
	})
	return verification, approved, nil
}

// Suspend 판매자 정지 (sticky: 이후 재계산이 덮어쓰지 못함)
func (s *verificationService) Suspend(vendorID, adminID uint, adminEmail, reason string) (*model.VendorVerification, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	verification, err := s.GetByVendorID(vendorID)
	if err != nil {
		return nil, err
	}
	if verification.OverallStatus == model.OverallStatusSuspended {
		return nil, ErrVendorSuspended
	}

	previousStatus := verification.OverallStatus
	now := time.Now()

	verification.OverallStatus = model.OverallStatusSuspended
	verification.LastReviewedAt = &now
	verification.LastReviewedBy = &adminID

	if err := s.vendorRepo.Update(verification); err != nil {
		return nil, err
	}

	if err := s.auditService.Record(&model.VerificationAuditLog{
		Action:           model.AuditActionVendorSuspended,
		VendorID:         vendorID,
		VendorName:       verification.VendorName,
		VerificationType: model.VerificationTypeVendor,
		AdminID:          &adminID,
		AdminEmail:       adminEmail,
		PreviousStatus:   previousStatus,
		NewStatus:        model.OverallStatusSuspended,
		Details:          reason,
	}); err != nil {
		return nil, err
	}

	s.invalidateStatusCache(vendorID)
	s.publish("vendor_suspended", verification)
	s.notifyVendor(verification, model.NotificationTypeAccountSuspended,
		"판매자 계정이 정지되었습니다",
		fmt.Sprintf("검증 상태가 정지되었습니다. 사유: %s", reason))

	logger.Warn("Vendor verification suspended", map[string]interface{}{
		"vendor_id": vendorID,
		"admin_id":  adminID,
		"reason":    reason,
	})
	return verification, nil
}

// Reinstate 정지 해제 후 현재 점수 기준으로 종합 상태 재파생
func (s *verificationService) Reinstate(vendorID, adminID uint, adminEmail string) (*model.VendorVerification, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	verification, err := s.GetByVendorID(vendorID)
	if err != nil {
		return nil, err
	}
	if verification.OverallStatus != model.OverallStatusSuspended {
		return nil, ErrVendorNotSuspended
	}

	now := time.Now()

	// sticky 해제: 점수 기준 상태로 재파생 (캐시된 과거 값 사용 금지)
	verification.OverallStatus = model.OverallStatusUnverified
	RecomputeDerivedFields(verification)
	verification.LastReviewedAt = &now
	verification.LastReviewedBy = &adminID

	if err := s.vendorRepo.Update(verification); err != nil {
		return nil, err
	}

	if err := s.auditService.Record(&model.VerificationAuditLog{
		Action:           model.AuditActionVendorReinstated,
		VendorID:         vendorID,
		VendorName:       verification.VendorName,
		VerificationType: model.VerificationTypeVendor,
		AdminID:          &adminID,
		AdminEmail:       adminEmail,
		PreviousStatus:   model.OverallStatusSuspended,
		NewStatus:        verification.OverallStatus,
	}); err != nil {
		return nil, err
	}

	s.invalidateStatusCache(vendorID)
	s.publish("vendor_reinstated", verification)
	s.notifyVendor(verification, model.NotificationTypeAccountReinstated,
		"판매자 계정 정지가 해제되었습니다",
		"검증 상태 정지가 해제되었습니다.")

	logger.Info("Vendor verification reinstated", map[string]interface{}{
		"vendor_id":  vendorID,
		"admin_id":   adminID,
		"new_status": verification.OverallStatus,
	})
	return verification, nil
}

func (s *verificationService) ListByOverallStatus(status string) ([]model.VendorVerification, error) {
	return s.vendorRepo.ListByOverallStatus(status)
}

func (s *verificationService) ListPendingReview() ([]model.VendorVerification, error) {
	return s.vendorRepo.ListWithPendingItems()
}

// ExpireOverdueVerifications 유효기간이 지난 승인 카테고리를 expired로 전환 (스케줄러에서 호출)
func (s *verificationService) ExpireOverdueVerifications(now time.Time) (int, error) {
	candidates, err := s.vendorRepo.ListWithExpiredApprovals(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range candidates {
		vendorID := candidates[i].VendorID

		lock := s.vendorLock(vendorID)
		lock.Lock()

		// 잠금 획득 후 재조회 (그 사이 상태가 바뀌었을 수 있음)
		verification, err := s.GetByVendorID(vendorID)
		if err != nil {
			lock.Unlock()
			logger.Error("Failed to reload vendor verification for expiry", err, map[string]interface{}{
				"vendor_id": vendorID,
			})
			continue
		}

		changed := false
		for _, category := range model.AllCategories {
			item := verification.Item(category)
			if item.Status != model.ItemStatusApproved || item.ExpiresAt == nil || !item.ExpiresAt.Before(now) {
				continue
			}

			previousStatus := item.Status
			item.Status = model.ItemStatusExpired
			item.LastUpdated = now
			changed = true

			RecomputeDerivedFields(verification)

			if err := s.vendorRepo.Update(verification); err != nil {
				logger.Error("Failed to expire verification category", err, map[string]interface{}{
					"vendor_id": vendorID,
					"category":  category,
				})
				break
			}

			if err := s.auditService.Record(&model.VerificationAuditLog{
				Action:           model.AuditActionVerificationExpired,
				VendorID:         vendorID,
				VendorName:       verification.VendorName,
				VerificationType: string(category),
				PreviousStatus:   previousStatus,
				NewStatus:        model.ItemStatusExpired,
				Details:          "Approval validity window elapsed",
			}); err != nil {
				logger.Error("Failed to record expiry audit entry", err, map[string]interface{}{
					"vendor_id": vendorID,
					"category":  category,
				})
				break
			}
			expired++
		}

		if changed {
			s.invalidateStatusCache(vendorID)
			s.publish("verification_expired", verification)
		}
		lock.Unlock()
	}

	if expired > 0 {
		logger.Info("Expired overdue verification approvals", map[string]interface{}{
			"expired_count": expired,
		})
	}
	return expired, nil
}

// notifyCategoryResult 카테고리 검토 결과 알림 (실패는 로그만)
func (s *verificationService) notifyCategoryResult(v *model.VendorVerification, category model.VerificationCategory, notifType model.NotificationType, title, content string) {
	if s.notificationService == nil {
		return
	}
	err := s.notificationService.Notify(v.VendorID, notifType, title, content, "/seller/verification", nil, string(category))
	if err != nil {
		logger.Warn("Failed to create category result notification", map[string]interface{}{
			"vendor_id": v.VendorID,
			"category":  category,
			"error":     err.Error(),
		})
	}
}

// notifyVendor 판매자 단위 알림 (실패는 로그만)
func (s *verificationService) notifyVendor(v *model.VendorVerification, notifType model.NotificationType, title, content string) {
	if s.notificationService == nil {
		return
	}
	err := s.notificationService.Notify(v.VendorID, notifType, title, content, "/seller/verification", nil, model.VerificationTypeVendor)
	if err != nil {
		logger.Warn("Failed to create vendor notification", map[string]interface{}{
			"vendor_id": v.VendorID,
			"error":     err.Error(),
		})
	}
}
