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

func createReportService(db *gorm.DB) *service.ReportService {
	return service.NewReportService(
		repository.NewDealRepository(db),
		repository.NewExpenseRepository(db),
		zap.NewNop(),
	)
}

func TestReportService_MonthlyRevenue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("fills months without wins with zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createReportService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		createWonDeal(t, db, pipeline, 1200, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC), nil)
		createWonDeal(t, db, pipeline, 800, time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC), nil)
		createWonDeal(t, db, pipeline, 400, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), nil)

		report, err := svc.MonthlyRevenue(ctx, now, 3)
		require.NoError(t, err)
		require.Len(t, report, 3)

		assert.Equal(t, "2026-06", report[0].Month)
		assert.Equal(t, 1200.0, report[0].Revenue)
		assert.Equal(t, "2026-07", report[1].Month)
		assert.Zero(t, report[1].Revenue)
		assert.Equal(t, "2026-08", report[2].Month)
		assert.Equal(t, 1200.0, report[2].Revenue)
	})

	t.Run("defaults to six months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createReportService(db)

		report, err := svc.MonthlyRevenue(ctx, now, 0)
		require.NoError(t, err)
		require.Len(t, report, 6)
		assert.Equal(t, "2026-03", report[0].Month)
		assert.Equal(t, "2026-08", report[5].Month)
	})
}

func TestReportService_StatusDistribution(t *testing.T) {
	ctx := context.Background()

	t.Run("counts deals per status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createReportService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		stage := pipeline.Stages[0]

		testutil.CreateTestDeal(t, db, "Open one", pipeline.ID, stage.ID, nil)
		testutil.CreateTestDeal(t, db, "Open two", pipeline.ID, stage.ID, nil)
		createWonDeal(t, db, pipeline, 100, time.Now().UTC(), nil)

		rows, err := svc.StatusDistribution(ctx)
		require.NoError(t, err)

		counts := make(map[domain.DealStatus]int64)
		for _, row := range rows {
			counts[row.Status] = row.Count
		}
		assert.EqualValues(t, 2, counts[domain.DealStatusOpen])
		assert.EqualValues(t, 1, counts[domain.DealStatusWon])
	})
}

func TestReportService_ExpensesByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("sums expenses per category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createReportService(db)

		category := &domain.ExpenseCategory{Name: "Travel", IsEditable: true}
		require.NoError(t, db.Create(category).Error)
		recorder := testutil.CreateTestUser(t, db, "rep@vendaflow.io", "secret123")

		for _, amount := range []float64{120.5, 79.5} {
			expense := &domain.Expense{
				Description: "Client visit",
				Amount:      amount,
				CategoryID:  category.ID,
				ExpenseDate: time.Now().UTC(),
				RecordedBy:  recorder.ID,
			}
			require.NoError(t, db.Create(expense).Error)
		}

		rows, err := svc.ExpensesByCategory(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Travel", rows[0].Category)
		assert.Equal(t, 200.0, rows[0].Total)
	})
}
