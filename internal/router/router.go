package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendortrust-backend/config"
	"github.com/ikkim/vendortrust-backend/internal/app/controller"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	verificationController *controller.VerificationController
	submissionController   *controller.SubmissionController
	auditController        *controller.AuditController
	notificationController *controller.NotificationController
	uploadController       *controller.UploadController
	eventController        *controller.EventController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	verificationController *controller.VerificationController,
	submissionController *controller.SubmissionController,
	auditController *controller.AuditController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	eventController *controller.EventController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		verificationController: verificationController,
		submissionController:   submissionController,
		auditController:        auditController,
		notificationController: notificationController,
		uploadController:       uploadController,
		eventController:        eventController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "VENDORTRUST API is running",
		})
	})

	// 관리자 실시간 이벤트 피드 (쿼리 파라미터 토큰 인증)
	router.GET("/ws/admin/events",
		r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireRole("admin"),
		r.eventController.StreamEvents,
	)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		// 공개 판매자 상태 조회 (게시 가능 여부 판단용)
		vendors := v1.Group("/vendors")
		{
			vendors.GET("/:vendor_id/status", r.verificationController.GetVendorStatus)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.ListNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.POST("/:id/read", r.notificationController.MarkAsRead)
			notifications.POST("/read-all", r.notificationController.MarkAllAsRead)
			notifications.GET("/settings", r.notificationController.GetSettings)
			notifications.PUT("/settings", r.notificationController.UpdateSettings)
		}

		seller := v1.Group("/seller")
		seller.Use(r.authMiddleware.Authenticate())
		seller.Use(r.authMiddleware.RequireRole("seller", "admin"))
		{
			seller.GET("/verification", r.verificationController.GetMyVerification)
			seller.POST("/verification/evidence", r.verificationController.SubmitEvidence)

			seller.GET("/submission", r.submissionController.GetMySubmission)
			seller.PUT("/submission/documents", r.submissionController.UploadDocument)
			seller.POST("/submission/business-documents", r.submissionController.AddBusinessDocument)
			seller.DELETE("/submission/business-documents/:doc_id", r.submissionController.RemoveBusinessDocument)
			seller.PATCH("/submission/info", r.submissionController.UpdateInfo)
			seller.POST("/submission/submit", r.submissionController.SubmitForReview)
			seller.POST("/submission/draft", r.submissionController.SaveDraft)

			seller.POST("/uploads/evidence", r.uploadController.GenerateEvidenceURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/verifications", r.verificationController.ListVerifications)
			admin.GET("/verifications/pending", r.verificationController.ListPendingReview)
			admin.GET("/verifications/:vendor_id", r.verificationController.GetVendorVerification)
			admin.POST("/verifications/:vendor_id/categories/:category/approve", r.verificationController.ApproveCategory)
			admin.POST("/verifications/:vendor_id/categories/:category/reject", r.verificationController.RejectCategory)
			admin.POST("/verifications/:vendor_id/approve-all", r.verificationController.ApproveAllPending)
			admin.POST("/verifications/:vendor_id/suspend", r.verificationController.SuspendVendor)
			admin.POST("/verifications/:vendor_id/reinstate", r.verificationController.ReinstateVendor)

			admin.GET("/submissions", r.submissionController.ListSubmissions)
			admin.GET("/submissions/:vendor_id", r.submissionController.GetVendorSubmission)
			admin.POST("/submissions/:vendor_id/start-review", r.submissionController.StartReview)
			admin.POST("/submissions/:vendor_id/approve", r.submissionController.ApproveSubmission)
			admin.POST("/submissions/:vendor_id/reject", r.submissionController.RejectSubmission)
			admin.POST("/submissions/:vendor_id/request-resubmit", r.submissionController.RequestResubmit)

			admin.GET("/audit-logs", r.auditController.ListAuditLogs)
			admin.GET("/audit-logs/export", r.auditController.ExportAuditLogs)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
