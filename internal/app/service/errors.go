package service

import (
	"errors"
	"fmt"
	"strings"
)

// 서비스 계층 공통 에러 (컨트롤러에서 에러 코드로 매핑)
var (
	ErrVendorNotFound       = errors.New("vendor verification not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrDocumentNotFound     = errors.New("business document not found")

	ErrInvalidCategory = errors.New("invalid verification category")
	ErrInvalidSlot     = errors.New("invalid document slot")
	ErrReasonRequired  = errors.New("rejection reason is required")

	ErrVendorSuspended    = errors.New("vendor is already suspended")
	ErrVendorNotSuspended = errors.New("vendor is not suspended")

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError 제출 전 필수 항목 검증 실패
// 누락 항목의 표시 이름을 모두 담아 한 번에 반환
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.MissingFields, ", "))
}

// InvalidStateError 현재 상태에서 허용되지 않는 상태 전이 시도
type InvalidStateError struct {
	Current   string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a submission in %s state", e.Attempted, e.Current)
}

// ProviderError 검증 제공자 호출 실패 (제출 건 상태는 변경되지 않음)
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("verification provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
