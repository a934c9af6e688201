package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	apperrors "github.com/ikkim/vendortrust-backend/internal/errors"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
)

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

type UpdateNotificationSettingsRequest struct {
	Enabled    *bool    `json:"enabled" binding:"required"`
	MutedTypes []string `json:"muted_types"`
}

// ListNotifications lists the caller's notifications
// GET /api/v1/notifications?unread_only=true&limit=20&offset=0
func (ctrl *NotificationController) ListNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	unreadOnly := c.Query("unread_only") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, total, err := ctrl.notificationService.ListForUser(userID, unreadOnly, limit, offset)
	if err != nil {
		log.Error("Failed to list notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
	})
}

// GetUnreadCount returns the caller's unread notification count
// GET /api/v1/notifications/unread-count
func (ctrl *NotificationController) GetUnreadCount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	count, err := ctrl.notificationService.CountUnread(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkAsRead marks one notification as read
// POST /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "알림 ID가 올바르지 않습니다")
		return
	}

	if err := ctrl.notificationService.MarkAsRead(uint(id), userID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "알림을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "알림을 읽음 처리했습니다",
	})
}

// MarkAllAsRead marks every unread notification as read
// POST /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	updated, err := ctrl.notificationService.MarkAllAsRead(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updated_count": updated,
	})
}

// GetSettings returns the caller's notification settings
// GET /api/v1/notifications/settings
func (ctrl *NotificationController) GetSettings(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	settings, err := ctrl.notificationService.GetSettings(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateSettings updates the caller's notification settings
// PUT /api/v1/notifications/settings
func (ctrl *NotificationController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	settings, err := ctrl.notificationService.UpdateSettings(userID, *req.Enabled, req.MutedTypes)
	if err != nil {
		log.Error("Failed to update notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}
