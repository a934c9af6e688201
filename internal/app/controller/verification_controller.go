package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	apperrors "github.com/ikkim/vendortrust-backend/internal/errors"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
)

type VerificationController struct {
	verificationService service.VerificationService
	authService         service.AuthService
}

func NewVerificationController(verificationService service.VerificationService, authService service.AuthService) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
		authService:         authService,
	}
}

type SubmitEvidenceRequest struct {
	Category     string `json:"category" binding:"required"`
	EvidenceURL  string `json:"evidence_url" binding:"required"`
	EvidenceName string `json:"evidence_name"`
}

type ReviewCategoryRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

type SuspendVendorRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// parseVendorID :vendor_id 경로 파라미터 파싱
func parseVendorID(c *gin.Context) (uint, bool) {
	idStr := c.Param("vendor_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "판매자 ID가 올바르지 않습니다")
		return 0, false
	}
	return uint(id), true
}

// GetMyVerification returns (and lazily creates) the seller's own verification record
// GET /api/v1/seller/verification
func (ctrl *VerificationController) GetMyVerification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _ := middleware.GetUserID(c)
	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		log.Error("Failed to load seller profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	verification, err := ctrl.verificationService.Initialize(user.ID, user.Name, user.Email, user.BusinessName)
	if err != nil {
		log.Error("Failed to initialize vendor verification", err, map[string]interface{}{
			"vendor_id": user.ID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create verification")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verification": verification,
	})
}

// SubmitEvidence records category evidence from the seller
// POST /api/v1/seller/verification/evidence
func (ctrl *VerificationController) SubmitEvidence(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _ := middleware.GetUserID(c)

	var req SubmitEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	verification, err := ctrl.verificationService.SubmitEvidence(
		userID, model.VerificationCategory(req.Category), req.EvidenceURL, req.EvidenceName,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory):
			apperrors.BadRequest(c, apperrors.VerifyInvalidCategory, "검증 카테고리가 올바르지 않습니다")
		case errors.Is(err, service.ErrVendorNotFound):
			apperrors.NotFound(c, apperrors.VerifyVendorNotFound, "판매자 검증 정보를 찾을 수 없습니다")
		default:
			log.Error("Failed to submit verification evidence", err, map[string]interface{}{
				"vendor_id": userID,
				"category":  req.Category,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update verification")
		}
		return
	}

	log.Info("Verification evidence submitted", map[string]interface{}{
		"vendor_id": userID,
		"category":  req.Category,
	})

	c.JSON(http.StatusOK, gin.H{
		"verification": verification,
	})
}

// GetVendorStatus returns only the overall status, for the publish gate
// GET /api/v1/vendors/:vendor_id/status
func (ctrl *VerificationController) GetVendorStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}

	status, err := ctrl.verificationService.GetOverallStatus(vendorID)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			apperrors.NotFound(c, apperrors.VerifyVendorNotFound, "판매자 검증 정보를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch vendor status", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendor_id":      vendorID,
		"overall_status": status,
		"can_publish":    status == model.OverallStatusVerified,
	})
}

// GetVendorVerification returns a vendor's full verification record (Admin only)
// GET /api/v1/admin/verifications/:vendor_id
func (ctrl *VerificationController) GetVendorVerification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}

	verification, err := ctrl.verificationService.GetByVendorID(vendorID)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			apperrors.NotFound(c, apperrors.VerifyVendorNotFound, "판매자 검증 정보를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch vendor verification", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verification": verification,
	})
}

// ListVerifications lists verification records, optionally filtered by overall status (Admin only)
// GET /api/v1/admin/verifications?status=partially_verified
func (ctrl *VerificationController) ListVerifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := c.Query("status")
	verifications, err := ctrl.verificationService.ListByOverallStatus(status)
	if err != nil {
		log.Error("Failed to list vendor verifications", err, map[string]interface{}{
			"status": status,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verifications": verifications,
		"count":         len(verifications),
	})
}

// ListPendingReview lists vendors with at least one pending category (Admin only)
// GET /api/v1/admin/verifications/pending
func (ctrl *VerificationController) ListPendingReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	verifications, err := ctrl.verificationService.ListPendingReview()
	if err != nil {
		log.Error("Failed to list pending verifications", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verifications": verifications,
		"count":         len(verifications),
	})
}

// ApproveCategory approves one verification category (Admin only)
// POST /api/v1/admin/verifications/:vendor_id/categories/:category/approve
func (ctrl *VerificationController) ApproveCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	category := model.VerificationCategory(c.Param("category"))
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	var req ReviewCategoryRequest
	_ = c.ShouldBindJSON(&req)

	verification, err := ctrl.verificationService.Approve(vendorID, category, adminID, adminEmail, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory):
			apperrors.BadRequest(c, apperrors.VerifyInvalidCategory, "검증 카테고리가 올바르지 않습니다")
		case errors.Is(err, service.ErrVendorNotFound):
			apperrors.NotFound(c, apperrors.VerifyVendorNotFound, "판매자 검증 정보를 찾을 수 없습니다")
		default:
			log.Error("Failed to approve verification category", err, map[string]interface{}{
				"vendor_id": vendorID,
				"category":  category,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review verification")
		}
		return
	}

	log.Info("Verification category approved", map[string]interface{}{
		"vendor_id": vendorID,
		"category":  category,
		"admin_id":  adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"verification": verification,
	})
}

// RejectCategory rejects one verification category with a mandatory reason (Admin only)
// POST /api/v1/admin/verifications/:vendor_id/categories/:category/reject
func (ctrl *VerificationController) RejectCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	category := model.VerificationCategory(c.Param("category"))
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	var req ReviewCategoryRequest
	_ = c.ShouldBindJSON(&req)

	verification, err := ctrl.verificationService.Reject(vendorID, category, adminID, adminEmail, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory):
			apperrors.BadRequest(c, apperrors.VerifyInvalidCategory, "검증 카테고리가 올바르지 않습니다")
		case errors.Is(err, service.ErrReasonRequired):
			apperrors.BadRequest(c, apperrors.VerifyReasonRequired, "반려 사유를 입력해주세요")
		case errors.Is(err, service.ErrVendorNotFound):
			apperrors.NotFound(c, apperrors.VerifyVendorNotFound, "판매자 검증 정보를 찾을 수 없습니다")
		default:
			log.Error("Failed to reject verification category", err, map[string]interface{}{
				"vendor_id": vendorID,
				"category":  category,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review verification")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verification": verification,
	})
}

// ApproveAllPending approves every currently-pending category for a vendor (Admin only)
// POST /api/v1/admin/verifications/:vendor_id/approve-all
func (ctrl *VerificationController) ApproveAllPending(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	verification, approved, err := ctrl.verificationService.ApproveAllPending(vendorID, adminID, adminEmail)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			apperrors.NotFound(c, apperrors.VerifyVendorNotFound, "판매자 검증 정보를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to batch approve verifications", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review verification")
		return
	}

	log.Info("Batch approval completed", map[string]interface{}{
		"vendor_id":      vendorID,
		"admin_id":       adminID,
		"approved_count": len(approved),
	})

	c.JSON(http.StatusOK, gin.H{
		"verification":        verification,
		"approved_categories": approved,
	})
}

// SuspendVendor force-suspends a vendor (Admin only)
// POST /api/v1/admin/verifications/:vendor_id/suspend
func (ctrl *VerificationController) SuspendVendor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	var req SuspendVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.VerifyReasonRequired, "정지 사유를 입력해주세요")
		return
	}

	verification, err := ctrl.verificationService.Suspend(vendorID, adminID, adminEmail, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			apperrors.NotFound(c, apperrors.VerifyVendorNotFound, "판매자 검증 정보를 찾을 수 없습니다")
		case errors.Is(err, service.ErrVendorSuspended):
			apperrors.Conflict(c, apperrors.VerifyAlreadySuspended, "이미 정지된 판매자입니다")
		default:
			log.Error("Failed to suspend vendor", err, map[string]interface{}{
				"vendor_id": vendorID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review verification")
		}
		return
	}

	log.Warn("Vendor suspended", map[string]interface{}{
		"vendor_id": vendorID,
		"admin_id":  adminID,
		"reason":    req.Reason,
	})

	c.JSON(http.StatusOK, gin.H{
		"verification": verification,
	})
}

// ReinstateVendor lifts a suspension (Admin only)
// POST /api/v1/admin/verifications/:vendor_id/reinstate
func (ctrl *VerificationController) ReinstateVendor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	verification, err := ctrl.verificationService.Reinstate(vendorID, adminID, adminEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			apperrors.NotFound(c, apperrors.VerifyVendorNotFound, "판매자 검증 정보를 찾을 수 없습니다")
		case errors.Is(err, service.ErrVendorNotSuspended):
			apperrors.Conflict(c, apperrors.VerifyNotSuspended, "정지 상태가 아닌 판매자입니다")
		default:
			log.Error("Failed to reinstate vendor", err, map[string]interface{}{
				"vendor_id": vendorID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review verification")
		}
		return
	}

	log.Info("Vendor reinstated", map[string]interface{}{
		"vendor_id":  vendorID,
		"admin_id":   adminID,
		"new_status": verification.OverallStatus,
	})

	c.JSON(http.StatusOK, gin.H{
		"verification": verification,
	})
}
