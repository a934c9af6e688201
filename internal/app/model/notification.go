package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeCategoryApproved  NotificationType = "category_approved"
	NotificationTypeCategoryRejected  NotificationType = "category_rejected"
	NotificationTypeSubmissionResult  NotificationType = "submission_result"
	NotificationTypeResubmitRequested NotificationType = "resubmit_requested"
	NotificationTypeAccountSuspended  NotificationType = "account_suspended"
	NotificationTypeAccountReinstated NotificationType = "account_reinstated"
)

// Notification 판매자 알림 모델 (검토 결과 통지)
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 알림 받을 판매자
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Link    string `gorm:"type:text" json:"link,omitempty"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// 관련 데이터 (nullable)
	RelatedSubmissionID *uint  `gorm:"index" json:"related_submission_id,omitempty"`
	VerificationType    string `gorm:"type:varchar(30)" json:"verification_type,omitempty"` // 카테고리 알림일 때
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationSettings 사용자별 알림 설정
type NotificationSettings struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Enabled bool `gorm:"default:true;not null" json:"enabled"`

	// 끄고 싶은 알림 타입 목록 (예: ["category_approved"])
	// 배지 목록과 같은 방식으로 TEXT 컬럼에 JSON 직렬화 (PostgreSQL/SQLite 공용)
	MutedTypes StringList `gorm:"type:text;not null" json:"muted_types"`
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}
