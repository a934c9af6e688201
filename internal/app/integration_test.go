package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendortrust-backend/config"
	"github.com/ikkim/vendortrust-backend/internal/app/controller"
	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	"github.com/ikkim/vendortrust-backend/internal/db"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
	"github.com/ikkim/vendortrust-backend/pkg/kyc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	vendorRepo := repository.NewVendorVerificationRepository(testDB)
	submissionRepo := repository.NewVerificationSubmissionRepository(testDB)
	auditRepo := repository.NewAuditLogRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	authService := service.NewAuthService(userRepo, &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	})
	auditService := service.NewAuditService(auditRepo, 1000)
	notificationService := service.NewNotificationService(notificationRepo)
	verificationService := service.NewVerificationService(vendorRepo, auditService, notificationService, nil)
	submissionService := service.NewSubmissionService(
		submissionRepo, auditService, notificationService, kyc.NewManualProvider(), nil,
	)

	authController := controller.NewAuthController(authService, "test-secret")
	verificationController := controller.NewVerificationController(verificationService, authService)
	submissionController := controller.NewSubmissionController(submissionService, authService)
	auditController := controller.NewAuditController(auditService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	vendors := router.Group("/api/v1/vendors")
	{
		vendors.GET("/:vendor_id/status", verificationController.GetVendorStatus)
	}

	seller := router.Group("/api/v1/seller")
	seller.Use(authMiddleware.Authenticate())
	seller.Use(authMiddleware.RequireRole("seller", "admin"))
	{
		seller.GET("/verification", verificationController.GetMyVerification)
		seller.POST("/verification/evidence", verificationController.SubmitEvidence)
		seller.GET("/submission", submissionController.GetMySubmission)
		seller.PUT("/submission/documents", submissionController.UploadDocument)
		seller.PATCH("/submission/info", submissionController.UpdateInfo)
		seller.POST("/submission/submit", submissionController.SubmitForReview)
	}

	admin := router.Group("/api/v1/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(authMiddleware.RequireRole("admin"))
	{
		admin.POST("/verifications/:vendor_id/categories/:category/approve", verificationController.ApproveCategory)
		admin.POST("/verifications/:vendor_id/approve-all", verificationController.ApproveAllPending)
		admin.POST("/submissions/:vendor_id/start-review", submissionController.StartReview)
		admin.POST("/submissions/:vendor_id/approve", submissionController.ApproveSubmission)
		admin.GET("/audit-logs", auditController.ListAuditLogs)
	}

	return &TestServer{
		Router:      router,
		DB:          testDB,
		AuthService: authService,
	}
}

func (ts *TestServer) doJSON(t *testing.T, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, ts *TestServer, email, name, role string) string {
	t.Helper()

	w := ts.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     name,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	tokens := response["tokens"].(map[string]interface{})
	return tokens["access_token"].(string)
}

// 판매자 가입부터 전체 인증 완료, 게시 가능 상태까지의 전 과정
func TestCompleteVendorVerificationJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	sellerToken := registerAndLogin(t, ts, "seller@example.com", "판매자", "seller")

	// 가입 API는 admin 역할을 허용하지 않으므로 직접 승격 후 재로그인
	registerAndLogin(t, ts, "admin@example.com", "관리자", "user")
	require.NoError(t, ts.DB.Model(&model.User{}).
		Where("email = ?", "admin@example.com").
		Update("role", model.RoleAdmin).Error)
	adminToken := login(t, ts, "admin@example.com")

	// 1. 판매자가 검증 레코드 조회 (최초 접근 시 생성)
	t.Log("Step 1: Seller fetches verification record")
	w := ts.doJSON(t, http.MethodGet, "/api/v1/seller/verification", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	verification := response["verification"].(map[string]interface{})
	vendorID := uint(verification["vendor_id"].(float64))
	assert.Equal(t, model.OverallStatusUnverified, verification["overall_status"])
	assert.Equal(t, "new", verification["trust_level"])

	// 2. 게시 가능 여부: 미인증 상태에서는 불가
	t.Log("Step 2: Publish gate rejects unverified vendor")
	statusURL := fmt.Sprintf("/api/v1/vendors/%d/status", vendorID)
	w = ts.doJSON(t, http.MethodGet, statusURL, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["can_publish"])

	// 3. 판매자가 카테고리 증빙 제출
	t.Log("Step 3: Seller submits evidence")
	for _, category := range []string{"phone", "email", "address"} {
		w = ts.doJSON(t, http.MethodPost, "/api/v1/seller/verification/evidence", sellerToken, map[string]string{
			"category":     category,
			"evidence_url": "https://cdn.example.com/evidence/" + category + ".png",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	// 4. 판매자가 본인 확인 제출 건 작성 후 제출
	t.Log("Step 4: Seller completes identity submission")
	w = ts.doJSON(t, http.MethodGet, "/api/v1/seller/submission", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, slot := range []string{"government_id", "selfie"} {
		w = ts.doJSON(t, http.MethodPut, "/api/v1/seller/submission/documents", sellerToken, map[string]string{
			"slot":         slot,
			"evidence_url": "https://cdn.example.com/docs/" + slot + ".png",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = ts.doJSON(t, http.MethodPatch, "/api/v1/seller/submission/info", sellerToken, map[string]string{
		"id_number": "900101-1234567",
		"id_type":   "주민등록증",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.doJSON(t, http.MethodPost, "/api/v1/seller/submission/submit", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	submission := response["submission"].(map[string]interface{})
	assert.Equal(t, string(model.SubmissionStatusSubmitted), submission["status"])

	// 5. 관리자가 제출 건 검토 후 승인
	t.Log("Step 5: Admin reviews and approves submission")
	w = ts.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/submissions/%d/start-review", vendorID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/submissions/%d/approve", vendorID), adminToken,
		map[string]string{"notes": "서류 확인 완료"})
	require.Equal(t, http.StatusOK, w.Code)

	// 6. 관리자가 pending 카테고리 일괄 승인
	t.Log("Step 6: Admin batch-approves pending categories")
	w = ts.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/verifications/%d/approve-all", vendorID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	approved := response["approved_categories"].([]interface{})
	assert.Len(t, approved, 3) // phone, email, address

	verification = response["verification"].(map[string]interface{})
	assert.Equal(t, float64(40), verification["verification_score"])
	assert.Equal(t, model.OverallStatusPartiallyVerified, verification["overall_status"])
	assert.Equal(t, "basic", verification["trust_level"])

	// 7. 나머지 카테고리 개별 승인으로 완전 인증 도달
	t.Log("Step 7: Admin approves remaining categories")
	for _, category := range []string{"government_id", "facial", "business_documents"} {
		url := fmt.Sprintf("/api/v1/admin/verifications/%d/categories/%s/approve", vendorID, category)
		w = ts.doJSON(t, http.MethodPost, url, adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	verification = response["verification"].(map[string]interface{})
	assert.Equal(t, float64(100), verification["verification_score"])
	assert.Equal(t, model.OverallStatusVerified, verification["overall_status"])
	assert.Equal(t, "premium", verification["trust_level"])

	badges := verification["badge_display"].([]interface{})
	assert.Contains(t, badges, model.BadgeTrustedVendor)
	assert.Contains(t, badges, model.BadgePremiumVendor)

	// 8. 게시 가능
	t.Log("Step 8: Publish gate accepts verified vendor")
	w = ts.doJSON(t, http.MethodGet, statusURL, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["can_publish"])

	// 9. 감사 로그에 전 과정이 남음
	t.Log("Step 9: Audit trail covers the whole journey")
	w = ts.doJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/audit-logs?vendor_id=%d", vendorID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	// 증빙 3 + 제출 1 + 검토 시작 1 + 제출 승인 1 + 카테고리 승인 6
	assert.Equal(t, float64(12), response["total"])
}

// login 기존 계정으로 재로그인 (역할 변경 후 새 토큰 발급)
func login(t *testing.T, ts *TestServer, email string) string {
	t.Helper()

	w := ts.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	tokens := response["tokens"].(map[string]interface{})
	return tokens["access_token"].(string)
}

// 판매자 토큰으로는 관리자 API 접근 불가
func TestAdminEndpointsRejectSeller(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	sellerToken := registerAndLogin(t, ts, "seller2@example.com", "판매자", "seller")

	w := ts.doJSON(t, http.MethodPost, "/api/v1/admin/verifications/1/approve-all", sellerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTHZ_FORBIDDEN", response["error"])
}

// 토큰 없이 보호된 엔드포인트 접근 불가
func TestProtectedEndpointsRequireToken(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	w := ts.doJSON(t, http.MethodGet, "/api/v1/seller/verification", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
