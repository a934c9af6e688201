package repository

import (
	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"gorm.io/gorm"
)

// AuditLogFilter 감사 로그 조회 필터
type AuditLogFilter struct {
	VendorID *uint
	Action   string
	Limit    int
	Offset   int
}

type AuditLogRepository interface {
	Create(entry *model.VerificationAuditLog) error
	List(filter AuditLogFilter) ([]model.VerificationAuditLog, int64, error)
	CountAll() (int64, error)
	PruneToLimit(max int) (int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(entry *model.VerificationAuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create audit log entry in database", err, map[string]interface{}{
			"action":    entry.Action,
			"vendor_id": entry.VendorID,
		})
		return err
	}
	return nil
}

// List 최신순(생성 역순) 조회. 같은 시각의 항목은 id 역순으로 안정 정렬
func (r *auditLogRepository) List(filter AuditLogFilter) ([]model.VerificationAuditLog, int64, error) {
	var entries []model.VerificationAuditLog
	var total int64

	query := r.db.Model(&model.VerificationAuditLog{})
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count audit log entries", err)
		return nil, 0, err
	}

	query = query.Order("created_at DESC, id DESC")
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&entries).Error; err != nil {
		logger.Error("Failed to list audit log entries", err)
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *auditLogRepository) CountAll() (int64, error) {
	var total int64
	if err := r.db.Model(&model.VerificationAuditLog{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// PruneToLimit 최신 max건만 남기고 오래된 항목 삭제, 삭제된 행 수 반환
func (r *auditLogRepository) PruneToLimit(max int) (int64, error) {
	if max <= 0 {
		return 0, nil
	}

	total, err := r.CountAll()
	if err != nil {
		return 0, err
	}
	if total <= int64(max) {
		return 0, nil
	}

	// 잘라낼 경계 id: 최신순으로 max번째 항목
	var boundaryIDs []uint
	err = r.db.Model(&model.VerificationAuditLog{}).
		Order("id DESC").
		Offset(max - 1).
		Limit(1).
		Pluck("id", &boundaryIDs).Error
	if err != nil {
		logger.Error("Failed to find audit log prune boundary", err)
		return 0, err
	}
	if len(boundaryIDs) == 0 {
		return 0, nil
	}
	boundaryID := boundaryIDs[0]

	result := r.db.Where("id < ?", boundaryID).Delete(&model.VerificationAuditLog{})
	if result.Error != nil {
		logger.Error("Failed to prune audit log entries", result.Error, map[string]interface{}{
			"boundary_id": boundaryID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
