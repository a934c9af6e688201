package kyc

import (
	"context"
	"time"
)

// Result statuses returned by a verification provider.
const (
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

// VerifyRequest carries the submission data handed to a provider.
// Only opaque evidence references are included, never file contents.
type VerifyRequest struct {
	SubmissionID    uint
	VendorID        uint
	VendorName      string
	VendorEmail     string
	IDNumber        string
	IDType          string
	GovernmentIDURL string
	SelfieURL       string
}

// VerifyResult is the provider's answer to a verification request.
type VerifyResult struct {
	Success     bool      `json:"success"`
	Status      string    `json:"status"`       // under_review, approved, rejected
	ProviderRef string    `json:"provider_ref"` // opaque correlation id
	CheckedAt   time.Time `json:"checked_at"`
}

// Provider is the pluggable identity verification backend.
// The manual provider is the reference implementation; an automated
// KYC vendor would implement the same interface.
type Provider interface {
	// Name identifies the provider in persisted records
	Name() string

	// VerifyIdentity starts (or performs) verification of a submission
	VerifyIdentity(ctx context.Context, req VerifyRequest) (*VerifyResult, error)

	// CheckStatus looks up the current state of a previous request
	CheckStatus(ctx context.Context, providerRef string) (*VerifyResult, error)
}
