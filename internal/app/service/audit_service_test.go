package service

import (
	"fmt"
	"testing"

	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuditServiceTest(t *testing.T, maxEntries int) AuditService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewAuditService(repository.NewAuditLogRepository(testDB), maxEntries)
}

func recordEntries(t *testing.T, svc AuditService, vendorID uint, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		err := svc.Record(&model.VerificationAuditLog{
			Action:           model.AuditActionVerificationApproved,
			VendorID:         vendorID,
			VendorName:       "Kim Seller",
			VerificationType: string(model.CategoryPhone),
			PreviousStatus:   model.ItemStatusPending,
			NewStatus:        model.ItemStatusApproved,
			Details:          fmt.Sprintf("entry %d", i),
		})
		require.NoError(t, err)
	}
}

func TestAuditService_List(t *testing.T) {
	svc := setupAuditServiceTest(t, 10000)

	recordEntries(t, svc, 1, 3)
	recordEntries(t, svc, 2, 2)

	t.Run("All entries most recent first", func(t *testing.T) {
		entries, total, err := svc.List(nil, "", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, entries, 5)

		for i := 1; i < len(entries); i++ {
			assert.GreaterOrEqual(t, entries[i-1].ID, entries[i].ID)
		}
	})

	t.Run("Filtered by vendor", func(t *testing.T) {
		vendorID := uint(2)
		entries, total, err := svc.List(&vendorID, "", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, entry := range entries {
			assert.Equal(t, uint(2), entry.VendorID)
		}
	})

	t.Run("Paged", func(t *testing.T) {
		entries, total, err := svc.List(nil, "", 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, entries, 2)
	})
}

func TestAuditService_Prune(t *testing.T) {
	svc := setupAuditServiceTest(t, 5)

	recordEntries(t, svc, 1, 8)

	pruned, err := svc.Prune()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pruned)

	entries, total, err := svc.List(nil, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	// 최신 5건이 남아야 함
	require.Len(t, entries, 5)
	assert.Equal(t, "entry 7", entries[0].Details)
	assert.Equal(t, "entry 3", entries[4].Details)

	t.Run("Prune below limit is a no-op", func(t *testing.T) {
		pruned, err := svc.Prune()
		require.NoError(t, err)
		assert.Zero(t, pruned)
	})
}

func TestAuditService_ExportExcel(t *testing.T) {
	svc := setupAuditServiceTest(t, 10000)

	recordEntries(t, svc, 1, 2)

	f, err := svc.ExportExcel(nil)
	require.NoError(t, err)

	rows, err := f.GetRows("AuditLog")
	require.NoError(t, err)
	// 헤더 + 데이터 2행
	require.Len(t, rows, 3)
	assert.Equal(t, "액션", rows[0][2])
	assert.Equal(t, model.AuditActionVerificationApproved, rows[1][2])
}
