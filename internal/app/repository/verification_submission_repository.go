package repository

import (
	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"gorm.io/gorm"
)

type VerificationSubmissionRepository interface {
	Create(submission *model.VerificationSubmission) error
	FindByID(id uint) (*model.VerificationSubmission, error)
	FindActiveByVendorID(vendorID uint) (*model.VerificationSubmission, error)
	FindLatestByVendorID(vendorID uint) (*model.VerificationSubmission, error)
	Update(submission *model.VerificationSubmission) error
	ListByStatus(status model.SubmissionStatus) ([]model.VerificationSubmission, error)
	ListByVendorID(vendorID uint) ([]model.VerificationSubmission, error)
	AddDocument(doc *model.SubmissionDocument) error
	RemoveDocument(submissionID uint, docID string) (int64, error)
}

type verificationSubmissionRepository struct {
	db *gorm.DB
}

func NewVerificationSubmissionRepository(db *gorm.DB) VerificationSubmissionRepository {
	return &verificationSubmissionRepository{db: db}
}

func (r *verificationSubmissionRepository) Create(submission *model.VerificationSubmission) error {
	logger.Debug("Creating verification submission in database", map[string]interface{}{
		"vendor_id": submission.VendorID,
	})

	if err := r.db.Create(submission).Error; err != nil {
		logger.Error("Failed to create verification submission in database", err, map[string]interface{}{
			"vendor_id": submission.VendorID,
		})
		return err
	}
	return nil
}

func (r *verificationSubmissionRepository) FindByID(id uint) (*model.VerificationSubmission, error) {
	var submission model.VerificationSubmission
	err := r.db.Preload("BusinessDocuments", func(db *gorm.DB) *gorm.DB {
		return db.Order("submission_documents.id ASC")
	}).First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindActiveByVendorID 반려(rejected)되지 않은 제출 건 조회
// 판매자당 이런 제출 건은 최대 1건이라는 불변식에 의존
func (r *verificationSubmissionRepository) FindActiveByVendorID(vendorID uint) (*model.VerificationSubmission, error) {
	var submission model.VerificationSubmission
	err := r.db.Preload("BusinessDocuments", func(db *gorm.DB) *gorm.DB {
		return db.Order("submission_documents.id ASC")
	}).
		Where("vendor_id = ? AND status != ?", vendorID, model.SubmissionStatusRejected).
		Order("id DESC").
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *verificationSubmissionRepository) FindLatestByVendorID(vendorID uint) (*model.VerificationSubmission, error) {
	var submission model.VerificationSubmission
	err := r.db.Preload("BusinessDocuments", func(db *gorm.DB) *gorm.DB {
		return db.Order("submission_documents.id ASC")
	}).
		Where("vendor_id = ?", vendorID).
		Order("id DESC").
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *verificationSubmissionRepository) Update(submission *model.VerificationSubmission) error {
	logger.Debug("Updating verification submission in database", map[string]interface{}{
		"submission_id": submission.ID,
		"status":        submission.Status,
	})

	if err := r.db.Save(submission).Error; err != nil {
		logger.Error("Failed to update verification submission in database", err, map[string]interface{}{
			"submission_id": submission.ID,
		})
		return err
	}
	return nil
}

func (r *verificationSubmissionRepository) ListByStatus(status model.SubmissionStatus) ([]model.VerificationSubmission, error) {
	var submissions []model.VerificationSubmission
	query := r.db.Preload("BusinessDocuments").Order("submitted_at ASC, id ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&submissions).Error; err != nil {
		logger.Error("Failed to list verification submissions by status", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return submissions, nil
}

func (r *verificationSubmissionRepository) ListByVendorID(vendorID uint) ([]model.VerificationSubmission, error) {
	var submissions []model.VerificationSubmission
	err := r.db.Preload("BusinessDocuments").
		Where("vendor_id = ?", vendorID).
		Order("id DESC").
		Find(&submissions).Error
	if err != nil {
		logger.Error("Failed to list verification submissions by vendor", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		return nil, err
	}
	return submissions, nil
}

func (r *verificationSubmissionRepository) AddDocument(doc *model.SubmissionDocument) error {
	logger.Debug("Adding submission document in database", map[string]interface{}{
		"submission_id": doc.SubmissionID,
		"doc_id":        doc.DocID,
	})

	if err := r.db.Create(doc).Error; err != nil {
		logger.Error("Failed to add submission document in database", err, map[string]interface{}{
			"submission_id": doc.SubmissionID,
		})
		return err
	}
	return nil
}

// RemoveDocument 문서 삭제, 삭제된 행 수 반환 (0이면 미존재)
func (r *verificationSubmissionRepository) RemoveDocument(submissionID uint, docID string) (int64, error) {
	result := r.db.Where("submission_id = ? AND doc_id = ?", submissionID, docID).
		Delete(&model.SubmissionDocument{})
	if result.Error != nil {
		logger.Error("Failed to remove submission document in database", result.Error, map[string]interface{}{
			"submission_id": submissionID,
			"doc_id":        docID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
