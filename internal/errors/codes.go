package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 본인만 가능

	// ==================== 검증 입력 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목
	ValidationMissingFields = "VALIDATION_MISSING_FIELDS" // 제출 필수 항목 누락

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 판매자 검증 (VERIFY_) ====================
	VerifyVendorNotFound     = "VERIFY_VENDOR_NOT_FOUND"     // 검증 레코드 없음
	VerifyInvalidCategory    = "VERIFY_INVALID_CATEGORY"     // 잘못된 카테고리
	VerifyReasonRequired     = "VERIFY_REASON_REQUIRED"      // 반려 사유 필수
	VerifyNotSuspended       = "VERIFY_NOT_SUSPENDED"        // 정지 상태 아님
	VerifyAlreadySuspended   = "VERIFY_ALREADY_SUSPENDED"    // 이미 정지됨

	// ==================== 제출 건 (SUBMISSION_) ====================
	SubmissionNotFound       = "SUBMISSION_NOT_FOUND"       // 제출 건 없음
	SubmissionInvalidState   = "SUBMISSION_INVALID_STATE"   // 현재 상태에서 불가한 작업
	SubmissionInvalidSlot    = "SUBMISSION_INVALID_SLOT"    // 잘못된 문서 슬롯
	SubmissionDocNotFound    = "SUBMISSION_DOC_NOT_FOUND"   // 사업자 서류 없음
	SubmissionProviderFailed = "SUBMISSION_PROVIDER_FAILED" // 검증 제공자 호출 실패

	// ==================== 감사 로그 (AUDIT_) ====================
	AuditExportFailed = "AUDIT_EXPORT_FAILED" // 감사 로그 내보내기 실패

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
