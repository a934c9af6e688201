package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendortrust-backend/config"
	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	"github.com/ikkim/vendortrust-backend/internal/db"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
	"github.com/ikkim/vendortrust-backend/pkg/kyc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubmissionControllerTest(t *testing.T) (*SubmissionController, *gin.Engine, service.SubmissionService, *model.User, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	submissionRepo := repository.NewVerificationSubmissionRepository(testDB)
	auditRepo := repository.NewAuditLogRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	auditService := service.NewAuditService(auditRepo, 1000)
	notificationService := service.NewNotificationService(notificationRepo)
	submissionService := service.NewSubmissionService(
		submissionRepo, auditService, notificationService, kyc.NewManualProvider(), nil,
	)
	authService := service.NewAuthService(userRepo, &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: time.Hour,
	})

	submissionController := NewSubmissionController(submissionService, authService)

	seller := &model.User{
		Email:        fmt.Sprintf("seller-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "hashed-password",
		Name:         "테스트 판매자",
		Role:         model.RoleSeller,
	}
	require.NoError(t, testDB.Create(seller).Error)

	admin := &model.User{
		Email:        fmt.Sprintf("admin-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "hashed-password",
		Name:         "테스트 관리자",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, seller.ID)
		c.Set(middleware.UserEmailKey, seller.Email)
		c.Set(middleware.UserRoleKey, seller.Role)
		c.Next()
	})

	return submissionController, router, submissionService, seller, admin
}

// prepareCompleteDraft 제출 가능한 상태까지 채운 draft 생성
func prepareCompleteDraft(t *testing.T, svc service.SubmissionService, seller *model.User) {
	t.Helper()

	_, err := svc.CreateSubmission(seller.ID, seller.Name, seller.Email)
	require.NoError(t, err)
	_, err = svc.UploadDocument(seller.ID, model.SlotGovernmentID, "https://cdn.example.com/id-front.png")
	require.NoError(t, err)
	_, err = svc.UploadDocument(seller.ID, model.SlotSelfie, "https://cdn.example.com/selfie.png")
	require.NoError(t, err)

	idNumber := "900101-1234567"
	idType := "주민등록증"
	_, err = svc.UpdateSubmissionInfo(seller.ID, service.SubmissionInfoUpdate{
		IDNumber: &idNumber,
		IDType:   &idType,
	})
	require.NoError(t, err)
}

func TestSubmissionController_GetMySubmission_CreatesDraft(t *testing.T) {
	controller, router, _, seller, _ := setupSubmissionControllerTest(t)

	router.GET("/seller/submission", controller.GetMySubmission)

	req := httptest.NewRequest(http.MethodGet, "/seller/submission", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	submission := response["submission"].(map[string]interface{})
	assert.Equal(t, float64(seller.ID), submission["vendor_id"])
	assert.Equal(t, string(model.SubmissionStatusDraft), submission["status"])
	assert.Nil(t, submission["submitted_at"])
}

func TestSubmissionController_UploadDocument(t *testing.T) {
	controller, router, svc, seller, _ := setupSubmissionControllerTest(t)

	_, err := svc.CreateSubmission(seller.ID, seller.Name, seller.Email)
	require.NoError(t, err)

	router.PUT("/seller/submission/documents", controller.UploadDocument)

	jsonBody, _ := json.Marshal(UploadSlotRequest{
		Slot:        string(model.SlotGovernmentID),
		EvidenceURL: "https://cdn.example.com/id-front.png",
	})
	req := httptest.NewRequest(http.MethodPut, "/seller/submission/documents", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	submission := response["submission"].(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/id-front.png", submission["government_id_url"])
	assert.NotNil(t, submission["government_id_uploaded_at"])
}

func TestSubmissionController_UploadDocument_InvalidSlot(t *testing.T) {
	controller, router, svc, seller, _ := setupSubmissionControllerTest(t)

	_, err := svc.CreateSubmission(seller.ID, seller.Name, seller.Email)
	require.NoError(t, err)

	router.PUT("/seller/submission/documents", controller.UploadDocument)

	jsonBody, _ := json.Marshal(UploadSlotRequest{
		Slot:        "passport_photo",
		EvidenceURL: "https://cdn.example.com/x.png",
	})
	req := httptest.NewRequest(http.MethodPut, "/seller/submission/documents", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "SUBMISSION_INVALID_SLOT", response["error"])
}

func TestSubmissionController_SubmitForReview_MissingFields(t *testing.T) {
	controller, router, svc, seller, _ := setupSubmissionControllerTest(t)

	_, err := svc.CreateSubmission(seller.ID, seller.Name, seller.Email)
	require.NoError(t, err)
	_, err = svc.UploadDocument(seller.ID, model.SlotGovernmentID, "https://cdn.example.com/id-front.png")
	require.NoError(t, err)

	router.POST("/seller/submission/submit", controller.SubmitForReview)

	req := httptest.NewRequest(http.MethodPost, "/seller/submission/submit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_MISSING_FIELDS", response["error"])

	fields := response["fields"].([]interface{})
	assert.Contains(t, fields, "selfie photo")
	assert.Contains(t, fields, "ID number")
	assert.Contains(t, fields, "ID type")
}

func TestSubmissionController_SubmitForReview_Success(t *testing.T) {
	controller, router, svc, seller, _ := setupSubmissionControllerTest(t)

	prepareCompleteDraft(t, svc, seller)

	router.POST("/seller/submission/submit", controller.SubmitForReview)

	req := httptest.NewRequest(http.MethodPost, "/seller/submission/submit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	submission := response["submission"].(map[string]interface{})
	assert.Equal(t, string(model.SubmissionStatusSubmitted), submission["status"])
	assert.Equal(t, kyc.ProviderManual, submission["provider"])
	assert.NotNil(t, submission["submitted_at"])

	// 같은 제출 건 중복 제출 불가
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/seller/submission/submit", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "SUBMISSION_INVALID_STATE", response["error"])
}

func TestSubmissionController_BusinessDocuments(t *testing.T) {
	controller, router, svc, seller, _ := setupSubmissionControllerTest(t)

	_, err := svc.CreateSubmission(seller.ID, seller.Name, seller.Email)
	require.NoError(t, err)

	router.POST("/seller/submission/business-documents", controller.AddBusinessDocument)
	router.DELETE("/seller/submission/business-documents/:doc_id", controller.RemoveBusinessDocument)

	jsonBody, _ := json.Marshal(AddBusinessDocumentRequest{
		Name:        "사업자등록증",
		EvidenceURL: "https://cdn.example.com/business-reg.pdf",
	})
	req := httptest.NewRequest(http.MethodPost, "/seller/submission/business-documents", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	submission := response["submission"].(map[string]interface{})
	docs := submission["business_documents"].([]interface{})
	require.Len(t, docs, 1)
	docID := docs[0].(map[string]interface{})["doc_id"].(string)
	assert.NotEmpty(t, docID)

	// 생성된 doc_id로 삭제
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/seller/submission/business-documents/"+docID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// 존재하지 않는 doc_id는 404
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/seller/submission/business-documents/no-such-doc", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "SUBMISSION_DOC_NOT_FOUND", response["error"])
}

func TestSubmissionController_AdminReviewFlow(t *testing.T) {
	controller, _, svc, seller, admin := setupSubmissionControllerTest(t)

	prepareCompleteDraft(t, svc, seller)
	_, err := svc.SubmitForReview(context.Background(), seller.ID)
	require.NoError(t, err)

	router := adminRouter(admin)
	router.POST("/admin/submissions/:vendor_id/start-review", controller.StartReview)
	router.POST("/admin/submissions/:vendor_id/approve", controller.ApproveSubmission)

	// 검토 시작
	url := fmt.Sprintf("/admin/submissions/%d/start-review", seller.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	submission := response["submission"].(map[string]interface{})
	assert.Equal(t, string(model.SubmissionStatusUnderReview), submission["status"])

	// 승인
	url = fmt.Sprintf("/admin/submissions/%d/approve", seller.ID)
	jsonBody, _ := json.Marshal(ReviewSubmissionRequest{Notes: "서류 확인 완료"})
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	submission = response["submission"].(map[string]interface{})
	assert.Equal(t, string(model.SubmissionStatusApproved), submission["status"])
	assert.Equal(t, float64(admin.ID), submission["reviewed_by"])
}

func TestSubmissionController_ApproveFromDraft_Conflict(t *testing.T) {
	controller, _, svc, seller, admin := setupSubmissionControllerTest(t)

	_, err := svc.CreateSubmission(seller.ID, seller.Name, seller.Email)
	require.NoError(t, err)

	router := adminRouter(admin)
	router.POST("/admin/submissions/:vendor_id/approve", controller.ApproveSubmission)

	url := fmt.Sprintf("/admin/submissions/%d/approve", seller.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "SUBMISSION_INVALID_STATE", response["error"])
}

func TestSubmissionController_GetVendorSubmission_Empty(t *testing.T) {
	controller, _, _, _, admin := setupSubmissionControllerTest(t)

	router := adminRouter(admin)
	router.GET("/admin/submissions/:vendor_id", controller.GetVendorSubmission)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/submissions/9999", nil))

	// 이력이 없는 판매자는 빈 목록
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
}
