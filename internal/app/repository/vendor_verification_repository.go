package repository

import (
	"fmt"
	"time"

	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"gorm.io/gorm"
)

// 임베딩 prefix에 대응하는 카테고리별 컬럼 prefix
var categoryColumnPrefixes = map[model.VerificationCategory]string{
	model.CategoryPhone:        "phone",
	model.CategoryEmail:        "email",
	model.CategoryGovernmentID: "government_id",
	model.CategoryFacial:       "facial",
	model.CategoryBusinessDocs: "business_docs",
	model.CategoryAddress:      "address",
}

type VendorVerificationRepository interface {
	Create(verification *model.VendorVerification) error
	FindByVendorID(vendorID uint) (*model.VendorVerification, error)
	Update(verification *model.VendorVerification) error
	ListByOverallStatus(status string) ([]model.VendorVerification, error)
	ListWithPendingItems() ([]model.VendorVerification, error)
	ListWithExpiredApprovals(now time.Time) ([]model.VendorVerification, error)
}

type vendorVerificationRepository struct {
	db *gorm.DB
}

func NewVendorVerificationRepository(db *gorm.DB) VendorVerificationRepository {
	return &vendorVerificationRepository{db: db}
}

func (r *vendorVerificationRepository) Create(verification *model.VendorVerification) error {
	logger.Debug("Creating vendor verification in database", map[string]interface{}{
		"vendor_id": verification.VendorID,
	})

	if err := r.db.Create(verification).Error; err != nil {
		logger.Error("Failed to create vendor verification in database", err, map[string]interface{}{
			"vendor_id": verification.VendorID,
		})
		return err
	}
	return nil
}

func (r *vendorVerificationRepository) FindByVendorID(vendorID uint) (*model.VendorVerification, error) {
	var verification model.VendorVerification
	err := r.db.Where("vendor_id = ?", vendorID).First(&verification).Error
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *vendorVerificationRepository) Update(verification *model.VendorVerification) error {
	logger.Debug("Updating vendor verification in database", map[string]interface{}{
		"vendor_id": verification.VendorID,
		"score":     verification.VerificationScore,
		"status":    verification.OverallStatus,
	})

	if err := r.db.Save(verification).Error; err != nil {
		logger.Error("Failed to update vendor verification in database", err, map[string]interface{}{
			"vendor_id": verification.VendorID,
		})
		return err
	}
	return nil
}

func (r *vendorVerificationRepository) ListByOverallStatus(status string) ([]model.VendorVerification, error) {
	var verifications []model.VendorVerification
	query := r.db.Order("updated_at DESC")
	if status != "" {
		query = query.Where("overall_status = ?", status)
	}
	if err := query.Find(&verifications).Error; err != nil {
		logger.Error("Failed to list vendor verifications by status", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return verifications, nil
}

// ListWithPendingItems 검토 대기(pending) 카테고리가 하나라도 있는 판매자 조회
func (r *vendorVerificationRepository) ListWithPendingItems() ([]model.VendorVerification, error) {
	var verifications []model.VendorVerification

	query := r.db
	conditions := r.db.Where("1 = 0")
	for _, prefix := range categoryColumnPrefixes {
		conditions = conditions.Or(fmt.Sprintf("%s_status = ?", prefix), model.ItemStatusPending)
	}

	if err := query.Where(conditions).Order("updated_at ASC").Find(&verifications).Error; err != nil {
		logger.Error("Failed to list vendor verifications with pending items", err)
		return nil, err
	}
	return verifications, nil
}

// ListWithExpiredApprovals 승인 유효기간이 지난 카테고리가 있는 판매자 조회 (만료 스케줄러용)
func (r *vendorVerificationRepository) ListWithExpiredApprovals(now time.Time) ([]model.VendorVerification, error) {
	var verifications []model.VendorVerification

	conditions := r.db.Where("1 = 0")
	for _, prefix := range categoryColumnPrefixes {
		conditions = conditions.Or(
			fmt.Sprintf("%s_status = ? AND %s_expires_at IS NOT NULL AND %s_expires_at < ?", prefix, prefix, prefix),
			model.ItemStatusApproved, now,
		)
	}

	if err := r.db.Where(conditions).Find(&verifications).Error; err != nil {
		logger.Error("Failed to list vendor verifications with expired approvals", err)
		return nil, err
	}
	return verifications, nil
}
