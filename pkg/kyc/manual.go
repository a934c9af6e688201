package kyc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProviderManual is the name of the built-in manual review provider
const ProviderManual = "manual"

// ManualProvider performs no real verification: every submission is
// accepted synchronously and parked at under_review for an admin to
// decide. It exists to exercise the review workflow.
type ManualProvider struct {
	mu   sync.RWMutex
	seen map[string]VerifyResult // providerRef -> last result
}

// NewManualProvider creates a manual review provider
func NewManualProvider() *ManualProvider {
	return &ManualProvider{
		seen: make(map[string]VerifyResult),
	}
}

// Name identifies the provider in persisted records
func (p *ManualProvider) Name() string {
	return ProviderManual
}

// VerifyIdentity accepts the submission and returns under_review with a
// manual_<submissionID> correlation reference
func (p *ManualProvider) VerifyIdentity(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if req.SubmissionID == 0 || req.VendorID == 0 {
		return nil, ErrInvalidRequest
	}

	result := VerifyResult{
		Success:     true,
		Status:      StatusUnderReview,
		ProviderRef: fmt.Sprintf("manual_%d", req.SubmissionID),
		CheckedAt:   time.Now(),
	}

	p.mu.Lock()
	p.seen[result.ProviderRef] = result
	p.mu.Unlock()

	return &result, nil
}

// CheckStatus returns the last known result for a reference
func (p *ManualProvider) CheckStatus(ctx context.Context, providerRef string) (*VerifyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if !strings.HasPrefix(providerRef, "manual_") {
		return nil, ErrUnknownReference
	}

	p.mu.RLock()
	result, ok := p.seen[providerRef]
	p.mu.RUnlock()

	if !ok {
		// References from a previous process are still valid manual refs:
		// manual review never resolves on the provider side
		result = VerifyResult{
			Success:     true,
			Status:      StatusUnderReview,
			ProviderRef: providerRef,
			CheckedAt:   time.Now(),
		}
	}

	return &result, nil
}
