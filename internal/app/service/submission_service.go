package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/pkg/kyc"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"gorm.io/gorm"
)

// SubmissionInfoUpdate 신원 정보 부분 수정 (nil 필드는 유지)
type SubmissionInfoUpdate struct {
	IDNumber       *string
	IDType         *string
	IDIssueDate    *string
	CurrentAddress *string
}

// SubmissionService 본인/사업자 확인 제출 건 워크플로
// 제출 건 상태 머신:
// draft -> submitted -> under_review -> approved | rejected | pending_resubmit -> submitted
type SubmissionService interface {
	CreateSubmission(vendorID uint, name, email string) (*model.VerificationSubmission, error)
	GetByVendorID(vendorID uint) (*model.VerificationSubmission, error)
	GetByID(id uint) (*model.VerificationSubmission, error)
	UploadDocument(vendorID uint, slot model.DocumentSlot, evidenceURL string) (*model.VerificationSubmission, error)
	AddBusinessDocument(vendorID uint, name, evidenceURL string) (*model.VerificationSubmission, error)
	RemoveBusinessDocument(vendorID uint, docID string) (*model.VerificationSubmission, error)
	UpdateSubmissionInfo(vendorID uint, update SubmissionInfoUpdate) (*model.VerificationSubmission, error)
	SubmitForReview(ctx context.Context, vendorID uint) (*model.VerificationSubmission, error)
	SaveDraft(vendorID uint) (*model.VerificationSubmission, error)
	StartReview(vendorID, adminID uint, adminEmail string) (*model.VerificationSubmission, error)
	ApproveSubmission(vendorID, adminID uint, adminEmail, notes string) (*model.VerificationSubmission, error)
	RejectSubmission(vendorID, adminID uint, adminEmail, reason string) (*model.VerificationSubmission, error)
	RequestResubmit(vendorID, adminID uint, adminEmail, reason string) (*model.VerificationSubmission, error)
	ListByStatus(status model.SubmissionStatus) ([]model.VerificationSubmission, error)
	ListByVendorID(vendorID uint) ([]model.VerificationSubmission, error)
}

type submissionService struct {
	submissionRepo      repository.VerificationSubmissionRepository
	auditService        AuditService
	notificationService NotificationService
	provider            kyc.Provider
	publisher           EventPublisher

	// 판매자별 잠금 (검증 원장과는 독립적으로 잠금)
	locksMu sync.Mutex
	locks   map[uint]*sync.Mutex
}

func NewSubmissionService(
	submissionRepo repository.VerificationSubmissionRepository,
	auditService AuditService,
	notificationService NotificationService,
	provider kyc.Provider,
	publisher EventPublisher,
) SubmissionService {
	return &submissionService{
		submissionRepo:      submissionRepo,
		auditService:        auditService,
		notificationService: notificationService,
		provider:            provider,
		publisher:           publisher,
		locks:               make(map[uint]*sync.Mutex),
	}
}

func (s *submissionService) vendorLock(vendorID uint) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[vendorID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[vendorID] = lock
	}
	return lock
}

func (s *submissionService) publish(eventType string, sub *model.VerificationSubmission) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(Event{
		Type:       eventType,
		VendorID:   sub.VendorID,
		VendorName: sub.VendorName,
		Payload: map[string]interface{}{
			"submission_id": sub.ID,
			"status":        sub.Status,
		},
		Timestamp: time.Now(),
	})
}

// CreateSubmission 멱등 생성: 반려되지 않은 제출 건이 있으면 그대로 반환
func (s *submissionService) CreateSubmission(vendorID uint, name, email string) (*model.VerificationSubmission, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.submissionRepo.FindActiveByVendorID(vendorID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	submission := &model.VerificationSubmission{
		VendorID:    vendorID,
		VendorName:  name,
		VendorEmail: email,
		Status:      model.SubmissionStatusDraft,
	}

	if err := s.submissionRepo.Create(submission); err != nil {
		return nil, err
	}

	logger.Info("Verification submission created", map[string]interface{}{
		"vendor_id":     vendorID,
		"submission_id": submission.ID,
	})
	return submission, nil
}

func (s *submissionService) GetByVendorID(vendorID uint) (*model.VerificationSubmission, error) {
	submission, err := s.submissionRepo.FindActiveByVendorID(vendorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 반려된 제출 건만 남았을 수 있으므로 최신 건으로 폴백
		submission, err = s.submissionRepo.FindLatestByVendorID(vendorID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *submissionService) GetByID(id uint) (*model.VerificationSubmission, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// activeSubmission 반려되지 않은 제출 건 조회 (없으면 ErrSubmissionNotFound)
func (s *submissionService) activeSubmission(vendorID uint) (*model.VerificationSubmission, error) {
	submission, err := s.submissionRepo.FindActiveByVendorID(vendorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// UploadDocument 고정 슬롯에 증빙 덮어쓰기 (업로드 시각 갱신, 상태 변경 없음)
func (s *submissionService) UploadDocument(vendorID uint, slot model.DocumentSlot, evidenceURL string) (*model.VerificationSubmission, error) {
	if !model.IsValidSlot(slot) {
		return nil, ErrInvalidSlot
	}

	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	submission, err := s.activeSubmission(vendorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch slot {
	case model.SlotGovernmentID:
		submission.GovernmentIDURL = evidenceURL
		submission.GovernmentIDUploadedAt = &now
	case model.SlotGovernmentIDBack:
		submission.GovernmentIDBackURL = evidenceURL
		submission.GovernmentIDBackUploadedAt = &now
	case model.SlotSelfie:
		submission.SelfieURL = evidenceURL
		submission.SelfieUploadedAt = &now
	}

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, err
	}

	logger.Debug("Submission document uploaded", map[string]interface{}{
		"vendor_id":     vendorID,
		"submission_id": submission.ID,
		"slot":          slot,
	})
	return submission, nil
}

// AddBusinessDocument 사업자 서류 추가 (생성된 uuid를 문서 키로 사용)
func (s *submissionService) AddBusinessDocument(vendorID uint, name, evidenceURL string) (*model.VerificationSubmission, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	submission, err := s.activeSubmission(vendorID)
	if err != nil {
		return nil, err
	}

	doc := &model.SubmissionDocument{
		SubmissionID: submission.ID,
		DocID:        uuid.New().String(),
		Name:         name,
		URL:          evidenceURL,
		UploadedAt:   time.Now(),
	}
	if err := s.submissionRepo.AddDocument(doc); err != nil {
		return nil, err
	}

	return s.GetByID(submission.ID)
}

func (s *submissionService) RemoveBusinessDocument(vendorID uint, docID string) (*model.VerificationSubmission, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	submission, err := s.activeSubmission(vendorID)
	if err != nil {
		return nil, err
	}

	removed, err := s.submissionRepo.RemoveDocument(submission.ID, docID)
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		return nil, ErrDocumentNotFound
	}

	return s.GetByID(submission.ID)
}

// UpdateSubmissionInfo 신원 정보 병합 (nil 필드는 기존 값 유지)
func (s *submissionService) UpdateSubmissionInfo(vendorID uint, update SubmissionInfoUpdate) (*model.VerificationSubmission, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	submission, err := s.activeSubmission(vendorID)
	if err != nil {
		return nil, err
	}

	if update.IDNumber != nil {
		submission.IDNumber = *update.IDNumber
	}
	if update.IDType != nil {
		submission.IDType = *update.IDType
	}
	if update.IDIssueDate != nil {
		submission.IDIssueDate = *update.IDIssueDate
	}
	if update.CurrentAddress != nil {
		submission.CurrentAddress = *update.CurrentAddress
	}

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// validateForReview 제출 전 필수 항목 검증, 누락 항목 표시 이름 목록 반환
func validateForReview(submission *model.VerificationSubmission) []string {
	var missing []string
	if submission.GovernmentIDURL == "" {
		missing = append(missing, "government ID")
	}
	if submission.SelfieURL == "" {
		missing = append(missing, "selfie photo")
	}
	if submission.IDNumber == "" {
		missing = append(missing, "ID number")
	}
	if submission.IDType == "" {
		missing = append(missing, "ID type")
	}
	return missing
}

// SubmitForReview 검증 제공자 호출 후 제출 건을 submitted로 전환
// 필수 항목 누락 시 ValidationError, 상태 변경 없음
// 제공자 호출 실패 시 ProviderError, 상태 변경 없음
func (s *submissionService) SubmitForReview(ctx context.Context, vendorID uint) (*model.VerificationSubmission, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	submission, err := s.activeSubmission(vendorID)
	if err != nil {
		return nil, err
	}

	if submission.Status != model.SubmissionStatusDraft && submission.Status != model.SubmissionStatusPendingResubmit {
		return nil, &InvalidStateError{Current: string(submission.Status), Attempted: "submit"}
	}

	if missing := validateForReview(submission); len(missing) > 0 {
		return nil, &ValidationError{MissingFields: missing}
	}

	result, err := s.provider.VerifyIdentity(ctx, kyc.VerifyRequest{
		SubmissionID:    submission.ID,
		VendorID:        submission.VendorID,
		VendorName:      submission.VendorName,
		VendorEmail:     submission.VendorEmail,
		IDNumber:        submission.IDNumber,
		IDType:          submission.IDType,
		GovernmentIDURL: submission.GovernmentIDURL,
		SelfieURL:       submission.SelfieURL,
	})
	if err != nil {
		logger.Error("Verification provider call failed", err, map[string]interface{}{
			"vendor_id":     vendorID,
			"submission_id": submission.ID,
			"provider":      s.provider.Name(),
		})
		return nil, &ProviderError{Provider: s.provider.Name(), Err: err}
	}

	previousStatus := submission.Status
	now := time.Now()

	// 상태, 제출 시각, 제공자 참조는 함께 갱신
	submission.Status = model.SubmissionStatusSubmitted
	submission.SubmittedAt = &now
	submission.Provider = s.provider.Name()
	submission.ProviderRef = result.ProviderRef
	submission.ProviderStatus = result.Status
	submission.ResubmitRequested = false
	submission.ResubmitReason = ""

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, err
	}

	if err := s.auditService.Record(&model.VerificationAuditLog{
		Action:           model.AuditActionSubmissionSubmitted,
		VendorID:         vendorID,
		VendorName:       submission.VendorName,
		VerificationType: model.VerificationTypeVendor,
		PreviousStatus:   string(previousStatus),
		NewStatus:        string(model.SubmissionStatusSubmitted),
		Details:          fmt.Sprintf("Provider %s ref %s", submission.Provider, submission.ProviderRef),
	}); err != nil {
		return nil, err
	}

	s.publish("submission_submitted", submission)

	logger.Info("Submission sent for review", map[string]interface{}{
		"vendor_id":     vendorID,
		"submission_id": submission.ID,
		"provider":      submission.Provider,
		"provider_ref":  submission.ProviderRef,
	})
	return submission, nil
}

// SaveDraft 상태를 draft로 되돌림 (재제출 전 수정용, 종결 상태에서는 불가)
func (s *submissionService) SaveDraft(vendorID uint) (*model.VerificationSubmission, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	submission, err := s.activeSubmission(vendorID)
	if err != nil {
		return nil, err
	}
	if submission.Status.IsTerminal() {
		return nil, &InvalidStateError{Current: string(submission.Status), Attempted: "save draft"}
	}

	submission.Status = model.SubmissionStatusDraft
	submission.SubmittedAt = nil

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// StartReview submitted -> under_review 전이
// submitted가 아니면 상태 변경 없이 그대로 반환 (검토 중복 시작 방지)
func (s *submissionService) StartReview(vendorID, adminID uint, adminEmail string) (*model.VerificationSubmission, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	submission, err := s.activeSubmission(vendorID)
	if err != nil {
		return nil, err
	}

	if submission.Status != model.SubmissionStatusSubmitted {
		logger.Warn("Start review skipped, submission not in submitted state", map[string]interface{}{
			"vendor_id":     vendorID,
			"submission_id": submission.ID,
			"status":        submission.Status,
		})
		return submission, nil
	}

	submission.Status = model.SubmissionStatusUnderReview

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, err
	}

	if err := s.auditService.Record(&model.VerificationAuditLog{
		Action:           model.AuditActionReviewStarted,
		VendorID:         vendorID,
		VendorName:       submission.VendorName,
		VerificationType: model.VerificationTypeVendor,
		AdminID:          &adminID,
		AdminEmail:       adminEmail,
		PreviousStatus:   string(model.SubmissionStatusSubmitted),
		NewStatus:        string(model.SubmissionStatusUnderReview),
	}); err != nil {
		return nil, err
	}

	s.publish("submission_review_started", submission)
	return submission, nil
}

// reviewTransition under_review에서만 허용되는 검토 종결 전이 공통 처리
func (s *submissionService) reviewTransition(
	vendorID, adminID uint,
	adminEmail string,
	target model.SubmissionStatus,
	action string,
	details string,
	mutate func(*model.VerificationSubmission),
) (*model.VerificationSubmission, error) {
	lock := s.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	submission, err := s.activeSubmission(vendorID)
	if err != nil {
		return nil, err
	}
	if submission.Status != model.SubmissionStatusUnderReview {
		return nil, &InvalidStateError{Current: string(submission.Status), Attempted: string(target)}
	}

	previousStatus := submission.Status
	now := time.Now()

	submission.Status = target
	submission.ReviewedAt = &now
	submission.ReviewedBy = &adminID
	mutate(submission)

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, err
	}

	if err := s.auditService.Record(&model.VerificationAuditLog{
		Action:           action,
		VendorID:         vendorID,
		VendorName:       submission.VendorName,
		VerificationType: model.VerificationTypeVendor,
		AdminID:          &adminID,
		AdminEmail:       adminEmail,
		PreviousStatus:   string(previousStatus),
		NewStatus:        string(target),
		Details:          details,
	}); err != nil {
		return nil, err
	}

	s.publish(action, submission)
	return submission, nil
}

func (s *submissionService) ApproveSubmission(vendorID, adminID uint, adminEmail, notes string) (*model.VerificationSubmission, error) {
	submission, err := s.reviewTransition(vendorID, adminID, adminEmail,
		model.SubmissionStatusApproved, model.AuditActionSubmissionApproved, notes,
		func(sub *model.VerificationSubmission) {
			sub.ReviewNotes = notes
		})
	if err != nil {
		return nil, err
	}

	s.notifySubmissionResult(submission, model.NotificationTypeSubmissionResult,
		"본인 확인 제출이 승인되었습니다",
		"제출하신 본인 확인 서류가 승인되었습니다.")

	logger.Info("Submission approved", map[string]interface{}{
		"vendor_id":     vendorID,
		"submission_id": submission.ID,
		"admin_id":      adminID,
	})
	return submission, nil
}

func (s *submissionService) RejectSubmission(vendorID, adminID uint, adminEmail, reason string) (*model.VerificationSubmission, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	submission, err := s.reviewTransition(vendorID, adminID, adminEmail,
		model.SubmissionStatusRejected, model.AuditActionSubmissionRejected, reason,
		func(sub *model.VerificationSubmission) {
			sub.RejectionReason = reason
		})
	if err != nil {
		return nil, err
	}

	s.notifySubmissionResult(submission, model.NotificationTypeSubmissionResult,
		"본인 확인 제출이 반려되었습니다",
		fmt.Sprintf("제출하신 본인 확인 서류가 반려되었습니다. 사유: %s", reason))

	logger.Info("Submission rejected", map[string]interface{}{
		"vendor_id":     vendorID,
		"submission_id": submission.ID,
		"admin_id":      adminID,
		"reason":        reason,
	})
	return submission, nil
}

// RequestResubmit 재제출 요청 (비종결: 판매자가 수정 후 다시 submitForReview)
func (s *submissionService) RequestResubmit(vendorID, adminID uint, adminEmail, reason string) (*model.VerificationSubmission, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	submission, err := s.reviewTransition(vendorID, adminID, adminEmail,
		model.SubmissionStatusPendingResubmit, model.AuditActionResubmitRequested, reason,
		func(sub *model.VerificationSubmission) {
			sub.ResubmitRequested = true
			sub.ResubmitReason = reason
		})
	if err != nil {
		return nil, err
	}

	s.notifySubmissionResult(submission, model.NotificationTypeResubmitRequested,
		"서류 재제출이 필요합니다",
		fmt.Sprintf("제출하신 서류의 재제출이 요청되었습니다. 사유: %s", reason))

	logger.Info("Submission resubmit requested", map[string]interface{}{
		"vendor_id":     vendorID,
		"submission_id": submission.ID,
		"admin_id":      adminID,
		"reason":        reason,
	})
	return submission, nil
}

func (s *submissionService) ListByStatus(status model.SubmissionStatus) ([]model.VerificationSubmission, error) {
	return s.submissionRepo.ListByStatus(status)
}

func (s *submissionService) ListByVendorID(vendorID uint) ([]model.VerificationSubmission, error) {
	return s.submissionRepo.ListByVendorID(vendorID)
}

// notifySubmissionResult 제출 건 검토 결과 알림 (실패는 로그만)
func (s *submissionService) notifySubmissionResult(sub *model.VerificationSubmission, notifType model.NotificationType, title, content string) {
	if s.notificationService == nil {
		return
	}
	submissionID := sub.ID
	err := s.notificationService.Notify(sub.VendorID, notifType, title, content, "/seller/verification/submission", &submissionID, "")
	if err != nil {
		logger.Warn("Failed to create submission result notification", map[string]interface{}{
			"vendor_id":     sub.VendorID,
			"submission_id": sub.ID,
			"error":         err.Error(),
		})
	}
}
