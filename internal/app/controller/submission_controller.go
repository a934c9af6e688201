package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	apperrors "github.com/ikkim/vendortrust-backend/internal/errors"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
)

type SubmissionController struct {
	submissionService service.SubmissionService
	authService       service.AuthService
}

func NewSubmissionController(submissionService service.SubmissionService, authService service.AuthService) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
		authService:       authService,
	}
}

type UploadSlotRequest struct {
	Slot        string `json:"slot" binding:"required"`
	EvidenceURL string `json:"evidence_url" binding:"required"`
}

type AddBusinessDocumentRequest struct {
	Name        string `json:"name" binding:"required"`
	EvidenceURL string `json:"evidence_url" binding:"required"`
}

type UpdateSubmissionInfoRequest struct {
	IDNumber       *string `json:"id_number"`
	IDType         *string `json:"id_type"`
	IDIssueDate    *string `json:"id_issue_date"`
	CurrentAddress *string `json:"current_address"`
}

type ReviewSubmissionRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// respondSubmissionError 제출 건 서비스 에러 공통 매핑
func respondSubmissionError(c *gin.Context, err error, context string) {
	var validationErr *service.ValidationError
	var stateErr *service.InvalidStateError
	var providerErr *service.ProviderError

	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		apperrors.NotFound(c, apperrors.SubmissionNotFound, "제출 건을 찾을 수 없습니다")
	case errors.Is(err, service.ErrInvalidSlot):
		apperrors.BadRequest(c, apperrors.SubmissionInvalidSlot, "문서 슬롯이 올바르지 않습니다")
	case errors.Is(err, service.ErrDocumentNotFound):
		apperrors.NotFound(c, apperrors.SubmissionDocNotFound, "사업자 서류를 찾을 수 없습니다")
	case errors.Is(err, service.ErrReasonRequired):
		apperrors.BadRequest(c, apperrors.VerifyReasonRequired, "사유를 입력해주세요")
	case errors.As(err, &validationErr):
		apperrors.RespondWithMissingFields(c, validationErr.MissingFields)
	case errors.As(err, &stateErr):
		apperrors.RespondWithError(c, http.StatusConflict, apperrors.SubmissionInvalidState,
			"현재 상태에서 수행할 수 없는 작업입니다: "+stateErr.Error())
	case errors.As(err, &providerErr):
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.SubmissionProviderFailed,
			"검증 제공자 호출에 실패했습니다. 잠시 후 다시 시도해주세요")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// GetMySubmission returns (and lazily creates) the seller's submission
// GET /api/v1/seller/submission
func (ctrl *SubmissionController) GetMySubmission(c *gin.Context) {
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

	submission, err := ctrl.submissionService.CreateSubmission(user.ID, user.Name, user.Email)
	if err != nil {
		log.Error("Failed to create submission", err, map[string]interface{}{
			"vendor_id": user.ID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// UploadDocument overwrites a fixed document slot
// PUT /api/v1/seller/submission/documents
func (ctrl *SubmissionController) UploadDocument(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req UploadSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	submission, err := ctrl.submissionService.UploadDocument(userID, model.DocumentSlot(req.Slot), req.EvidenceURL)
	if err != nil {
		log.Warn("Document upload failed", map[string]interface{}{
			"vendor_id": userID,
			"slot":      req.Slot,
			"error":     err.Error(),
		})
		respondSubmissionError(c, err, "update submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// AddBusinessDocument appends a business document
// POST /api/v1/seller/submission/business-documents
func (ctrl *SubmissionController) AddBusinessDocument(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req AddBusinessDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	submission, err := ctrl.submissionService.AddBusinessDocument(userID, req.Name, req.EvidenceURL)
	if err != nil {
		respondSubmissionError(c, err, "update submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// RemoveBusinessDocument removes a business document by its generated id
// DELETE /api/v1/seller/submission/business-documents/:doc_id
func (ctrl *SubmissionController) RemoveBusinessDocument(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	docID := c.Param("doc_id")

	submission, err := ctrl.submissionService.RemoveBusinessDocument(userID, docID)
	if err != nil {
		respondSubmissionError(c, err, "update submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// UpdateInfo merges identity fields into the submission
// PATCH /api/v1/seller/submission/info
func (ctrl *SubmissionController) UpdateInfo(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateSubmissionInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	submission, err := ctrl.submissionService.UpdateSubmissionInfo(userID, service.SubmissionInfoUpdate{
		IDNumber:       req.IDNumber,
		IDType:         req.IDType,
		IDIssueDate:    req.IDIssueDate,
		CurrentAddress: req.CurrentAddress,
	})
	if err != nil {
		respondSubmissionError(c, err, "update submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// SubmitForReview validates and forwards the submission to the verification provider
// POST /api/v1/seller/submission/submit
func (ctrl *SubmissionController) SubmitForReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	submission, err := ctrl.submissionService.SubmitForReview(c.Request.Context(), userID)
	if err != nil {
		log.Warn("Submit for review failed", map[string]interface{}{
			"vendor_id": userID,
			"error":     err.Error(),
		})
		respondSubmissionError(c, err, "update submission")
		return
	}

	log.Info("Submission sent for review", map[string]interface{}{
		"vendor_id":     userID,
		"submission_id": submission.ID,
		"provider_ref":  submission.ProviderRef,
	})

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// SaveDraft forces the submission back to draft for edits
// POST /api/v1/seller/submission/draft
func (ctrl *SubmissionController) SaveDraft(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	submission, err := ctrl.submissionService.SaveDraft(userID)
	if err != nil {
		respondSubmissionError(c, err, "update submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// ListSubmissions lists submissions by workflow status (Admin only)
// GET /api/v1/admin/submissions?status=submitted
func (ctrl *SubmissionController) ListSubmissions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.SubmissionStatus(c.Query("status"))
	submissions, err := ctrl.submissionService.ListByStatus(status)
	if err != nil {
		log.Error("Failed to list submissions", err, map[string]interface{}{
			"status": status,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// GetVendorSubmission returns a vendor's submission history (Admin only)
// GET /api/v1/admin/submissions/:vendor_id
func (ctrl *SubmissionController) GetVendorSubmission(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}

	submissions, err := ctrl.submissionService.ListByVendorID(vendorID)
	if err != nil {
		log.Error("Failed to fetch vendor submissions", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// StartReview transitions a submitted submission to under_review (Admin only)
// POST /api/v1/admin/submissions/:vendor_id/start-review
func (ctrl *SubmissionController) StartReview(c *gin.Context) {
	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	submission, err := ctrl.submissionService.StartReview(vendorID, adminID, adminEmail)
	if err != nil {
		respondSubmissionError(c, err, "review submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// ApproveSubmission approves an under_review submission (Admin only)
// POST /api/v1/admin/submissions/:vendor_id/approve
func (ctrl *SubmissionController) ApproveSubmission(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	var req ReviewSubmissionRequest
	_ = c.ShouldBindJSON(&req)

	submission, err := ctrl.submissionService.ApproveSubmission(vendorID, adminID, adminEmail, req.Notes)
	if err != nil {
		respondSubmissionError(c, err, "review submission")
		return
	}

	log.Info("Submission approved", map[string]interface{}{
		"vendor_id":     vendorID,
		"submission_id": submission.ID,
		"admin_id":      adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// RejectSubmission rejects an under_review submission (Admin only)
// POST /api/v1/admin/submissions/:vendor_id/reject
func (ctrl *SubmissionController) RejectSubmission(c *gin.Context) {
	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	var req ReviewSubmissionRequest
	_ = c.ShouldBindJSON(&req)

	submission, err := ctrl.submissionService.RejectSubmission(vendorID, adminID, adminEmail, req.Reason)
	if err != nil {
		respondSubmissionError(c, err, "review submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}

// RequestResubmit asks the seller to re-upload evidence (Admin only)
// POST /api/v1/admin/submissions/:vendor_id/request-resubmit
func (ctrl *SubmissionController) RequestResubmit(c *gin.Context) {
	vendorID, ok := parseVendorID(c)
	if !ok {
		return
	}
	adminID, _ := middleware.GetUserID(c)
	adminEmail, _ := middleware.GetUserEmail(c)

	var req ReviewSubmissionRequest
	_ = c.ShouldBindJSON(&req)

	submission, err := ctrl.submissionService.RequestResubmit(vendorID, adminID, adminEmail, req.Reason)
	if err != nil {
		respondSubmissionError(c, err, "review submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
	})
}
