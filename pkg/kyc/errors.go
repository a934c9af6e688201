package kyc

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid verification request")

	// ErrProviderUnavailable is returned when the provider cannot be reached
	ErrProviderUnavailable = errors.New("verification provider unavailable")

	// ErrUnknownReference is returned when a provider reference is not recognized
	ErrUnknownReference = errors.New("unknown provider reference")
)
