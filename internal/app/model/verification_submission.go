package model

import (
	"time"
)

// SubmissionStatus 제출 건(번들) 워크플로 상태
// 카테고리별 상태(VendorVerification)와는 별개의 상태 머신
type SubmissionStatus string

const (
	SubmissionStatusDraft           SubmissionStatus = "draft"            // 작성 중
	SubmissionStatusSubmitted       SubmissionStatus = "submitted"        // 제출됨, 검토 대기
	SubmissionStatusUnderReview     SubmissionStatus = "under_review"     // 관리자 검토 중
	SubmissionStatusPendingResubmit SubmissionStatus = "pending_resubmit" // 재제출 요청됨
	SubmissionStatusApproved        SubmissionStatus = "approved"         // 승인 (종결)
	SubmissionStatusRejected        SubmissionStatus = "rejected"         // 반려 (종결, 새 제출 건 생성 가능)
)

// DocumentSlot 제출 건의 고정 문서 슬롯
type DocumentSlot string

const (
	SlotGovernmentID     DocumentSlot = "government_id"      // 신분증 앞면
	SlotGovernmentIDBack DocumentSlot = "government_id_back" // 신분증 뒷면
	SlotSelfie           DocumentSlot = "selfie"             // 셀피(본인 확인 사진)
)

// IsValidSlot 슬롯 문자열 검증
func IsValidSlot(s DocumentSlot) bool {
	switch s {
	case SlotGovernmentID, SlotGovernmentIDBack, SlotSelfie:
		return true
	}
	return false
}

// VerificationSubmission 판매자 본인/사업자 확인 제출 건
// 판매자당 반려(rejected)되지 않은 제출 건은 최대 1건
// SubmittedAt은 draft를 벗어나기 전까지 비어 있음
type VerificationSubmission struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VendorID    uint   `gorm:"index;not null" json:"vendor_id"` // 판매자 ID
	VendorName  string `gorm:"not null" json:"vendor_name"`
	VendorEmail string `gorm:"not null" json:"vendor_email"`

	// 문서 슬롯: 증빙 참조(URL/key)만 저장, 원본 파일은 저장소 협력자 소유
	GovernmentIDURL            string     `gorm:"type:text" json:"government_id_url,omitempty"`
	GovernmentIDUploadedAt     *time.Time `json:"government_id_uploaded_at,omitempty"`
	GovernmentIDBackURL        string     `gorm:"type:text" json:"government_id_back_url,omitempty"`
	GovernmentIDBackUploadedAt *time.Time `json:"government_id_back_uploaded_at,omitempty"`
	SelfieURL                  string     `gorm:"type:text" json:"selfie_url,omitempty"`
	SelfieUploadedAt           *time.Time `json:"selfie_uploaded_at,omitempty"`

	// 사업자 서류 (순서 보존 목록, 1:N)
	BusinessDocuments []SubmissionDocument `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"business_documents,omitempty"`

	// 신원 정보
	IDNumber       string `gorm:"type:varchar(100)" json:"id_number,omitempty"`   // 신분증 번호
	IDType         string `gorm:"type:varchar(50)" json:"id_type,omitempty"`      // 신분증 종류 (주민등록증, 운전면허증, 여권 등)
	IDIssueDate    string `gorm:"type:varchar(20)" json:"id_issue_date,omitempty"`
	CurrentAddress string `gorm:"type:text" json:"current_address,omitempty"`

	Status      SubmissionStatus `gorm:"type:varchar(30);default:'draft';index" json:"status"`
	SubmittedAt *time.Time       `json:"submitted_at,omitempty"`

	// 검증 제공자 정보
	Provider       string `gorm:"type:varchar(50)" json:"provider,omitempty"`        // 처리한 제공자 (기본: manual)
	ProviderRef    string `gorm:"type:varchar(100)" json:"provider_ref,omitempty"`   // 제공자 측 상관 ID
	ProviderStatus string `gorm:"type:varchar(30)" json:"provider_status,omitempty"` // 제공자가 반환한 원시 상태

	// 검토 메타데이터
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy        *uint      `json:"reviewed_by,omitempty"`
	ReviewNotes       string     `gorm:"type:text" json:"review_notes,omitempty"`
	RejectionReason   string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	ResubmitRequested bool       `gorm:"default:false" json:"resubmit_requested"`
	ResubmitReason    string     `gorm:"type:text" json:"resubmit_reason,omitempty"`
}

func (VerificationSubmission) TableName() string {
	return "verification_submissions"
}

// IsTerminal 종결 상태 여부 (rejected만 새 제출 건 생성을 허용)
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusApproved || s == SubmissionStatusRejected
}

// SubmissionDocument 사업자 서류 1건 (uuid 키, 삽입 순서 보존)
type SubmissionDocument struct {
	ID           uint      `gorm:"primarykey" json:"-"`
	SubmissionID uint      `gorm:"index;not null" json:"-"`
	DocID        string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"doc_id"` // 생성된 문서 ID (uuid)
	Name         string    `gorm:"type:varchar(255)" json:"name"`                       // 표시 이름
	URL          string    `gorm:"type:text;not null" json:"url"`                       // 증빙 참조
	UploadedAt   time.Time `json:"uploaded_at"`
}

func (SubmissionDocument) TableName() string {
	return "submission_documents"
}
