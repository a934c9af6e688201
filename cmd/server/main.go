package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/vendortrust-backend/config"
	"github.com/ikkim/vendortrust-backend/internal/app/controller"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	"github.com/ikkim/vendortrust-backend/internal/db"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
	"github.com/ikkim/vendortrust-backend/internal/router"
	"github.com/ikkim/vendortrust-backend/internal/scheduler"
	"github.com/ikkim/vendortrust-backend/internal/storage"
	ws "github.com/ikkim/vendortrust-backend/internal/websocket"
	"github.com/ikkim/vendortrust-backend/pkg/kyc"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"github.com/ikkim/vendortrust-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting VENDORTRUST Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (status cache, token blacklist). The server runs
	// without it, falling back to direct DB reads.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, running without cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize S3 storage for evidence uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Select the identity verification provider
	kycConfig := kyc.Config{
		Provider: cfg.KYC.Provider,
		APIKey:   cfg.KYC.APIKey,
		BaseURL:  cfg.KYC.BaseURL,
	}
	if err := kycConfig.Validate(); err != nil {
		logger.Fatal("Invalid KYC provider configuration", err, map[string]interface{}{
			"provider": cfg.KYC.Provider,
		})
	}
	var kycProvider kyc.Provider
	switch cfg.KYC.Provider {
	case kyc.ProviderManual:
		kycProvider = kyc.NewManualProvider()
	default:
		logger.Fatal("Unknown KYC provider", nil, map[string]interface{}{
			"provider": cfg.KYC.Provider,
		})
	}

	// Start the admin event feed hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	vendorRepo := repository.NewVendorVerificationRepository(db.GetDB())
	submissionRepo := repository.NewVerificationSubmissionRepository(db.GetDB())
	auditRepo := repository.NewAuditLogRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	auditService := service.NewAuditService(auditRepo, cfg.Audit.MaxEntries)
	notificationService := service.NewNotificationService(notificationRepo)
	verificationService := service.NewVerificationService(
		vendorRepo,
		auditService,
		notificationService,
		hub,
	)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		auditService,
		notificationService,
		kycProvider,
		hub,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.Secret)
	verificationController := controller.NewVerificationController(verificationService, authService)
	submissionController := controller.NewSubmissionController(submissionService, authService)
	auditController := controller.NewAuditController(auditService)
	notificationController := controller.NewNotificationController(notificationService)
	uploadController := controller.NewUploadController(s3Storage)
	eventController := controller.NewEventController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start scheduled jobs (approval expiry sweep, audit log retention)
	verificationScheduler := scheduler.NewVerificationScheduler(
		verificationService,
		auditService,
		&cfg.Audit,
	)
	if err := verificationScheduler.Start(); err != nil {
		logger.Fatal("Failed to start verification scheduler", err)
	}
	defer verificationScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		verificationController,
		submissionController,
		auditController,
		notificationController,
		uploadController,
		eventController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
