package service

import (
	"fmt"
	"time"

	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// AuditService 검증 상태 변경 감사 추적
// 모든 상태 변경 연산은 같은 논리 트랜잭션 안에서 Record를 호출해야 함
type AuditService interface {
	Record(entry *model.VerificationAuditLog) error
	List(vendorID *uint, action string, limit, offset int) ([]model.VerificationAuditLog, int64, error)
	Prune() (int64, error)
	ExportExcel(vendorID *uint) (*excelize.File, error)
}

type auditService struct {
	auditRepo  repository.AuditLogRepository
	maxEntries int
}

func NewAuditService(auditRepo repository.AuditLogRepository, maxEntries int) AuditService {
	return &auditService{
		auditRepo:  auditRepo,
		maxEntries: maxEntries,
	}
}

func (s *auditService) Record(entry *model.VerificationAuditLog) error {
	if err := s.auditRepo.Create(entry); err != nil {
		return err
	}

	logger.Info("Audit log entry recorded", map[string]interface{}{
		"action":            entry.Action,
		"vendor_id":         entry.VendorID,
		"verification_type": entry.VerificationType,
		"previous_status":   entry.PreviousStatus,
		"new_status":        entry.NewStatus,
	})
	return nil
}

func (s *auditService) List(vendorID *uint, action string, limit, offset int) ([]model.VerificationAuditLog, int64, error) {
	return s.auditRepo.List(repository.AuditLogFilter{
		VendorID: vendorID,
		Action:   action,
		Limit:    limit,
		Offset:   offset,
	})
}

// Prune 보존 한도 초과분 삭제 (스케줄러에서 호출)
func (s *auditService) Prune() (int64, error) {
	pruned, err := s.auditRepo.PruneToLimit(s.maxEntries)
	if err != nil {
		logger.Error("Failed to prune audit log", err, map[string]interface{}{
			"max_entries": s.maxEntries,
		})
		return 0, err
	}

	if pruned > 0 {
		logger.Info("Audit log pruned", map[string]interface{}{
			"pruned_count": pruned,
			"max_entries":  s.maxEntries,
		})
	}
	return pruned, nil
}

var auditExportHeaders = []string{
	"ID", "일시", "액션", "판매자 ID", "판매자명", "검증 항목",
	"관리자 ID", "관리자 이메일", "이전 상태", "변경 상태", "상세",
}

// ExportExcel 감사 로그 엑셀 내보내기 (최신순)
func (s *auditService) ExportExcel(vendorID *uint) (*excelize.File, error) {
	entries, _, err := s.auditRepo.List(repository.AuditLogFilter{VendorID: vendorID})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "AuditLog"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range auditExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, entry := range entries {
		adminID := ""
		if entry.AdminID != nil {
			adminID = fmt.Sprintf("%d", *entry.AdminID)
		}
		values := []interface{}{
			entry.ID,
			entry.CreatedAt.Format(time.RFC3339),
			entry.Action,
			entry.VendorID,
			entry.VendorName,
			entry.VerificationType,
			adminID,
			entry.AdminEmail,
			entry.PreviousStatus,
			entry.NewStatus,
			entry.Details,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("Audit log exported to Excel", map[string]interface{}{
		"entry_count": len(entries),
	})
	return f, nil
}
