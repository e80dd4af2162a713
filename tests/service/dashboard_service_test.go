package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"github.com/vendaflow/crm-api/internal/service"
	"github.com/vendaflow/crm-api/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createDashboardService(db *gorm.DB) *service.DashboardService {
	return service.NewDashboardService(
		repository.NewDealRepository(db),
		repository.NewContactRepository(db),
		createGoalService(db),
		zap.NewNop(),
	)
}

func setDealCreatedAt(t *testing.T, db *gorm.DB, deal *domain.Deal, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(deal).Update("createdat", at).Error)
}

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run("counts the current month and growth against the previous", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createDashboardService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		stage := pipeline.Stages[0]

		// Two deals this month, one of them won for 1000
		open := testutil.CreateTestDeal(t, db, "Open", pipeline.ID, stage.ID, nil)
		setDealCreatedAt(t, db, open, time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC))
		won := createWonDeal(t, db, pipeline, 1000, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), nil)
		setDealCreatedAt(t, db, won, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC))

		// One deal last month, won for 500
		prevWon := createWonDeal(t, db, pipeline, 500, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), nil)
		setDealCreatedAt(t, db, prevWon, time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC))

		stats, err := svc.Stats(ctx, now)
		require.NoError(t, err)

		assert.EqualValues(t, 2, stats.TotalLeads)
		assert.EqualValues(t, 1, stats.Conversions)
		assert.Equal(t, 1000.0, stats.Revenue)
		assert.Equal(t, 50.0, stats.ConversionRate)
		assert.Equal(t, 100.0, stats.LeadsGrowth)
		assert.Equal(t, 0.0, stats.ConversionsGrowth)
		assert.Equal(t, 100.0, stats.RevenueGrowth)
	})

	t.Run("empty months report zeros, not division errors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createDashboardService(db)

		stats, err := svc.Stats(ctx, now)
		require.NoError(t, err)

		assert.Zero(t, stats.TotalLeads)
		assert.Zero(t, stats.Revenue)
		assert.Zero(t, stats.ConversionRate)
		assert.Zero(t, stats.LeadsGrowth)
		assert.Zero(t, stats.RevenueGrowth)
	})
}

func TestDashboardService_RecentDeals(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the newest deals with contact names", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createDashboardService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		stage := pipeline.Stages[0]
		contact := testutil.CreateTestContact(t, db, "Maria", "Silva", "maria@acme.com")

		older := testutil.CreateTestDeal(t, db, "Older", pipeline.ID, stage.ID, nil)
		setDealCreatedAt(t, db, older, time.Now().UTC().Add(-time.Hour))
		testutil.CreateTestDeal(t, db, "Newest", pipeline.ID, stage.ID, &contact.ID)

		rows, err := svc.RecentDeals(ctx, 1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Newest", rows[0].Title)
		assert.Equal(t, "Maria Silva", rows[0].ContactName)
	})
}
