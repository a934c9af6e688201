package scheduler

import (
	"time"

	"github.com/ikkim/vendortrust-backend/config"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// VerificationScheduler 검증 관련 주기 작업 스케줄러
// 승인 유효기간 만료 처리와 감사 로그 보존 정리를 담당함
type VerificationScheduler struct {
	cron                *cron.Cron
	verificationService service.VerificationService
	auditService        service.AuditService
	cfg                 *config.AuditConfig
}

// NewVerificationScheduler 검증 스케줄러 생성
func NewVerificationScheduler(
	verificationService service.VerificationService,
	auditService service.AuditService,
	cfg *config.AuditConfig,
) *VerificationScheduler {
	return &VerificationScheduler{
		cron:                cron.New(),
		verificationService: verificationService,
		auditService:        auditService,
		cfg:                 cfg,
	}
}

// Start 스케줄러 시작
func (s *VerificationScheduler) Start() error {
	// 승인 유효기간이 지난 항목을 만료 처리
	_, err := s.cron.AddFunc(s.cfg.ExpiryCron, func() {
		logger.Info("Starting scheduled verification expiry sweep", nil)

		expired, err := s.verificationService.ExpireOverdueVerifications(time.Now())
		if err != nil {
			logger.Error("Failed to expire overdue verifications", err, nil)
			return
		}

		logger.Info("Verification expiry sweep completed", map[string]interface{}{
			"expired_count": expired,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for verification expiry", err, nil)
		return err
	}

	// 보존 상한을 초과한 감사 로그 정리
	_, err = s.cron.AddFunc(s.cfg.RetentionCron, func() {
		logger.Info("Starting scheduled audit log pruning", nil)

		pruned, err := s.auditService.Prune()
		if err != nil {
			logger.Error("Failed to prune audit logs", err, nil)
			return
		}

		logger.Info("Audit log pruning completed", map[string]interface{}{
			"pruned_count": pruned,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for audit log pruning", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Verification scheduler started", map[string]interface{}{
		"expiry_cron":    s.cfg.ExpiryCron,
		"retention_cron": s.cfg.RetentionCron,
	})

	return nil
}

// Stop 스케줄러 중지
func (s *VerificationScheduler) Stop() {
	logger.Info("Stopping verification scheduler...", nil)
	s.cron.Stop()
	logger.Info("Verification scheduler stopped", nil)
}
