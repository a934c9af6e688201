package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	apperrors "github.com/ikkim/vendortrust-backend/internal/errors"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
)

type AuditController struct {
	auditService service.AuditService
}

func NewAuditController(auditService service.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// ListAuditLogs lists audit entries, most recent first (Admin only)
// GET /api/v1/admin/audit-logs?vendor_id=1&action=verification_approved&limit=50&offset=0
func (ctrl *AuditController) ListAuditLogs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var vendorID *uint
	if raw := c.Query("vendor_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "판매자 ID가 올바르지 않습니다")
			return
		}
		id := uint(parsed)
		vendorID = &id
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	action := c.Query("action")

	entries, total, err := ctrl.auditService.List(vendorID, action, limit, offset)
	if err != nil {
		log.Error("Failed to list audit logs", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ExportAuditLogs streams the audit trail as an Excel file (Admin only)
// GET /api/v1/admin/audit-logs/export?vendor_id=1
func (ctrl *AuditController) ExportAuditLogs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var vendorID *uint
	if raw := c.Query("vendor_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "판매자 ID가 올바르지 않습니다")
			return
		}
		id := uint(parsed)
		vendorID = &id
	}

	f, err := ctrl.auditService.ExportExcel(vendorID)
	if err != nil {
		log.Error("Failed to export audit logs", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.AuditExportFailed, "감사 로그 내보내기에 실패했습니다")
		return
	}

	filename := fmt.Sprintf("audit-log-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream audit log export", err, nil)
		return
	}

	adminID, _ := middleware.GetUserID(c)
	log.Info("Audit logs exported", map[string]interface{}{
		"admin_id": adminID,
	})
}
