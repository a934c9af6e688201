package service

import (
	"errors"

	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"gorm.io/gorm"
)

// NotificationService 판매자 알림 (검토 결과 통지)
type NotificationService interface {
	Notify(userID uint, notifType model.NotificationType, title, content, link string, relatedSubmissionID *uint, verificationType string) error
	ListForUser(userID uint, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error)
	CountUnread(userID uint) (int64, error)
	MarkAsRead(id, userID uint) error
	MarkAllAsRead(userID uint) (int64, error)
	GetSettings(userID uint) (*model.NotificationSettings, error)
	UpdateSettings(userID uint, enabled bool, mutedTypes []string) (*model.NotificationSettings, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// Notify 알림 생성. 설정에서 해당 타입을 껐으면 조용히 건너뜀
// 알림 실패가 검증 상태 변경 자체를 되돌려서는 안 되므로 호출자는 에러를 로그만 남김
func (s *notificationService) Notify(userID uint, notifType model.NotificationType, title, content, link string, relatedSubmissionID *uint, verificationType string) error {
	settings, err := s.notificationRepo.GetSettings(userID)
	if err == nil {
		if !settings.Enabled {
			return nil
		}
		for _, muted := range settings.MutedTypes {
			if muted == string(notifType) {
				return nil
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	notification := &model.Notification{
		UserID:              userID,
		Type:                notifType,
		Title:               title,
		Content:             content,
		Link:                link,
		RelatedSubmissionID: relatedSubmissionID,
		VerificationType:    verificationType,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	logger.Debug("Notification created", map[string]interface{}{
		"user_id": userID,
		"type":    notifType,
	})
	return nil
}

func (s *notificationService) ListForUser(userID uint, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error) {
	return s.notificationRepo.ListByUserID(userID, unreadOnly, limit, offset)
}

func (s *notificationService) CountUnread(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

func (s *notificationService) MarkAsRead(id, userID uint) error {
	err := s.notificationRepo.MarkAsRead(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllAsRead(userID uint) (int64, error) {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) GetSettings(userID uint) (*model.NotificationSettings, error) {
	settings, err := s.notificationRepo.GetSettings(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 설정이 없으면 기본값 (전체 수신)
		return &model.NotificationSettings{UserID: userID, Enabled: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *notificationService) UpdateSettings(userID uint, enabled bool, mutedTypes []string) (*model.NotificationSettings, error) {
	settings, err := s.notificationRepo.GetSettings(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = &model.NotificationSettings{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	settings.Enabled = enabled
	settings.MutedTypes = model.StringList(mutedTypes)
	if settings.MutedTypes == nil {
		settings.MutedTypes = model.StringList{}
	}

	if err := s.notificationRepo.SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
