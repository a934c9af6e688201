package kyc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualProvider_VerifyIdentity(t *testing.T) {
	provider := NewManualProvider()
	assert.Equal(t, "manual", provider.Name())

	result, err := provider.VerifyIdentity(context.Background(), VerifyRequest{
		SubmissionID: 42,
		VendorID:     7,
		VendorName:   "Test Seller",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, StatusUnderReview, result.Status)
	assert.Equal(t, "manual_42", result.ProviderRef)
}

func TestManualProvider_VerifyIdentity_InvalidRequest(t *testing.T) {
	provider := NewManualProvider()

	result, err := provider.VerifyIdentity(context.Background(), VerifyRequest{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Nil(t, result)
}

func TestManualProvider_CheckStatus(t *testing.T) {
	provider := NewManualProvider()

	_, err := provider.VerifyIdentity(context.Background(), VerifyRequest{SubmissionID: 1, VendorID: 1})
	require.NoError(t, err)

	tests := []struct {
		name    string
		ref     string
		wantErr error
	}{
		{name: "Known reference", ref: "manual_1", wantErr: nil},
		{name: "Reference from a previous process", ref: "manual_999", wantErr: nil},
		{name: "Foreign reference", ref: "acme_123", wantErr: ErrUnknownReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := provider.CheckStatus(context.Background(), tt.ref)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, StatusUnderReview, result.Status)
				assert.Equal(t, tt.ref, result.ProviderRef)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "Manual provider", config: Config{Provider: ProviderManual}, wantErr: false},
		{name: "Missing provider", config: Config{}, wantErr: true},
		{name: "External without credentials", config: Config{Provider: "acme"}, wantErr: true},
		{name: "External with credentials", config: Config{Provider: "acme", APIKey: "key", BaseURL: "https://kyc.example.com"}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
