package service

import (
	"testing"

	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func verificationWithApproved(categories ...model.VerificationCategory) *model.VendorVerification {
	v := &model.VendorVerification{
		VendorID:      1,
		OverallStatus: model.OverallStatusUnverified,
	}
	for _, category := range model.AllCategories {
		v.Item(category).Status = model.ItemStatusNotStarted
	}
	for _, category := range categories {
		v.Item(category).Status = model.ItemStatusApproved
	}
	return v
}

func TestCategoryWeights_SumTo100(t *testing.T) {
	sum := 0
	for _, category := range model.AllCategories {
		sum += categoryWeights[category]
	}
	assert.Equal(t, 100, sum)
}

func TestCalculateVerificationScore(t *testing.T) {
	tests := []struct {
		name     string
		approved []model.VerificationCategory
		want     int
	}{
		{name: "No categories approved", approved: nil, want: 0},
		{name: "Phone only", approved: []model.VerificationCategory{model.CategoryPhone}, want: 15},
		{name: "Phone and email", approved: []model.VerificationCategory{model.CategoryPhone, model.CategoryEmail}, want: 30},
		{
			name: "All but address",
			approved: []model.VerificationCategory{
				model.CategoryPhone, model.CategoryEmail, model.CategoryGovernmentID,
				model.CategoryFacial, model.CategoryBusinessDocs,
			},
			want: 90,
		},
		{name: "All categories", approved: model.AllCategories, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := verificationWithApproved(tt.approved...)
			assert.Equal(t, tt.want, CalculateVerificationScore(v))
		})
	}
}

func TestCalculateVerificationScore_NonApprovedStatusesContributeZero(t *testing.T) {
	v := verificationWithApproved(model.CategoryPhone)
	v.Email.Status = model.ItemStatusPending
	v.GovernmentID.Status = model.ItemStatusRejected
	v.Facial.Status = model.ItemStatusExpired

	assert.Equal(t, 15, CalculateVerificationScore(v))
}

func TestDeriveOverallStatus_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{score: 0, want: model.OverallStatusUnverified},
		{score: 29, want: model.OverallStatusUnverified},
		{score: 30, want: model.OverallStatusPartiallyVerified},
		{score: 89, want: model.OverallStatusPartiallyVerified},
		{score: 90, want: model.OverallStatusVerified},
		{score: 99, want: model.OverallStatusVerified},
		{score: 100, want: model.OverallStatusVerified},
	}

	for _, tt := range tests {
		got := DeriveOverallStatus(tt.score, model.OverallStatusUnverified)
		assert.Equal(t, tt.want, got, "score %d", tt.score)
	}
}

func TestDeriveOverallStatus_SuspendedIsSticky(t *testing.T) {
	for _, score := range []int{0, 30, 90, 100} {
		got := DeriveOverallStatus(score, model.OverallStatusSuspended)
		assert.Equal(t, model.OverallStatusSuspended, got, "score %d", score)
	}
}

func TestDeriveTrustLevel_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{score: 0, want: model.TrustLevelNew},
		{score: 39, want: model.TrustLevelNew},
		{score: 40, want: model.TrustLevelBasic},
		{score: 74, want: model.TrustLevelBasic},
		{score: 75, want: model.TrustLevelTrusted},
		{score: 99, want: model.TrustLevelTrusted},
		{score: 100, want: model.TrustLevelPremium},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveTrustLevel(tt.score), "score %d", tt.score)
	}
}

func TestDeriveBadges(t *testing.T) {
	t.Run("No approvals yields no badges", func(t *testing.T) {
		v := verificationWithApproved()
		badges := DeriveBadges(v, 0)
		assert.Empty(t, badges)
	})

	t.Run("One badge per approved category", func(t *testing.T) {
		v := verificationWithApproved(model.CategoryPhone, model.CategoryAddress)
		badges := DeriveBadges(v, 25)

		assert.Len(t, badges, 2)
		assert.True(t, badges.Contains("phone_verified"))
		assert.True(t, badges.Contains("address_verified"))
		assert.False(t, badges.Contains(model.BadgeTrustedVendor))
	})

	t.Run("Trusted vendor badge at score 90", func(t *testing.T) {
		v := verificationWithApproved(
			model.CategoryPhone, model.CategoryEmail, model.CategoryGovernmentID,
			model.CategoryFacial, model.CategoryBusinessDocs,
		)
		badges := DeriveBadges(v, 90)

		assert.True(t, badges.Contains(model.BadgeTrustedVendor))
		assert.False(t, badges.Contains(model.BadgePremiumVendor))
	})

	t.Run("Premium vendor badge at score 100", func(t *testing.T) {
		v := verificationWithApproved(model.AllCategories...)
		badges := DeriveBadges(v, 100)

		assert.True(t, badges.Contains(model.BadgeTrustedVendor))
		assert.True(t, badges.Contains(model.BadgePremiumVendor))
		assert.Len(t, badges, 8)
	})
}

func TestRecomputeDerivedFields_Order(t *testing.T) {
	v := verificationWithApproved(model.AllCategories...)
	v.VerificationScore = 0
	v.TrustLevel = model.TrustLevelNew
	v.BadgeDisplay = nil

	RecomputeDerivedFields(v)

	assert.Equal(t, 100, v.VerificationScore)
	assert.Equal(t, model.OverallStatusVerified, v.OverallStatus)
	assert.Equal(t, model.TrustLevelPremium, v.TrustLevel)
	assert.True(t, v.BadgeDisplay.Contains(model.BadgePremiumVendor))
}
