package model

import (
	"time"
)

// 감사 로그 액션 이름
const (
	AuditActionEvidenceSubmitted    = "evidence_submitted"         // 카테고리 증빙 제출
	AuditActionVerificationApproved = "verification_approved"      // 카테고리 승인
	AuditActionVerificationRejected = "verification_rejected"      // 카테고리 반려
	AuditActionVerificationExpired  = "verification_expired"       // 카테고리 유효기간 만료
	AuditActionVendorSuspended      = "vendor_suspended"           // 판매자 정지
	AuditActionVendorReinstated     = "vendor_reinstated"          // 판매자 정지 해제
	AuditActionSubmissionSubmitted  = "submission_submitted"       // 제출 건 접수
	AuditActionReviewStarted        = "submission_review_started"  // 제출 건 검토 시작
	AuditActionSubmissionApproved   = "submission_approved"        // 제출 건 승인
	AuditActionSubmissionRejected   = "submission_rejected"        // 제출 건 반려
	AuditActionResubmitRequested    = "submission_resubmit_requested" // 재제출 요청
)

// VerificationAuditLog 검증 상태 변경 감사 로그
// append-only: 생성 이후 수정/삭제 금지 (보존 개수 초과분의 스케줄 정리는 예외)
type VerificationAuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Action     string `gorm:"type:varchar(50);not null;index" json:"action"`
	VendorID   uint   `gorm:"index;not null" json:"vendor_id"`
	VendorName string `json:"vendor_name"`

	// 6개 카테고리 중 하나, 또는 vendor 단위 액션이면 "vendor"
	VerificationType string `gorm:"type:varchar(30);not null" json:"verification_type"`

	AdminID    *uint  `json:"admin_id,omitempty"` // 시스템 액션(만료 등)이면 비어 있음
	AdminEmail string `gorm:"type:varchar(255)" json:"admin_email,omitempty"`

	PreviousStatus string `gorm:"type:varchar(30)" json:"previous_status"`
	NewStatus      string `gorm:"type:varchar(30)" json:"new_status"`
	Details        string `gorm:"type:text" json:"details,omitempty"`
}

func (VerificationAuditLog) TableName() string {
	return "verification_audit_logs"
}
