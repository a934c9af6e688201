package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/vendortrust-backend/internal/errors"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
	"github.com/ikkim/vendortrust-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=identity business category"`
}

// 증빙으로 허용하는 파일 형식 (이미지 + PDF)
var allowedEvidenceTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
	"application/pdf",
}

// GenerateEvidenceURL issues a presigned S3 upload URL for verification evidence
// POST /api/v1/seller/uploads/evidence
func (ctrl *UploadController) GenerateEvidenceURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedEvidenceTypes); err != nil {
		log.Warn("Invalid evidence content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "이미지 또는 PDF 파일만 업로드할 수 있습니다")
		return
	}

	var folder string
	switch req.Kind {
	case "identity":
		folder = storage.FolderIdentityEvidence
	case "business":
		folder = storage.FolderBusinessEvidence
	default:
		folder = storage.FolderCategoryEvidence
	}

	response, err := ctrl.storage.GenerateEvidenceUploadURL(userID, req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"vendor_id": userID,
			"kind":      req.Kind,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "업로드 URL 생성에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, response)
}
