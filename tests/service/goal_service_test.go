package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"github.com/vendaflow/crm-api/internal/service"
	"github.com/vendaflow/crm-api/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createGoalService(db *gorm.DB) *service.GoalService {
	return service.NewGoalService(
		repository.NewGoalRepository(db),
		repository.NewDealRepository(db),
		zap.NewNop(),
	)
}

func createWonDeal(t *testing.T, db *gorm.DB, pipeline *domain.Pipeline, value float64, wonAt time.Time, ownerID *uuid.UUID) *domain.Deal {
	t.Helper()
	deal := &domain.Deal{
		Title:      "Won deal",
		Value:      &value,
		Status:     domain.DealStatusWon,
		OwnerID:    ownerID,
		PipelineID: pipeline.ID,
		StageID:    pipeline.Stages[0].ID,
		WonAt:      &wonAt,
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

func TestGoalService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a goal from date strings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)

		goal, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricRevenue,
			TargetValue: 10000,
			StartDate:   "2026-08-01",
			EndDate:     "2026-08-31",
		})
		require.NoError(t, err)
		assert.Equal(t, 2026, goal.StartDate.Year())
		assert.Equal(t, time.August, goal.StartDate.Month())
	})

	t.Run("rejects unknown metrics", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)

		_, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetric("CALLS_MADE"),
			TargetValue: 10,
			StartDate:   "2026-08-01",
			EndDate:     "2026-08-31",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("rejects an end date before the start date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)

		_, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricRevenue,
			TargetValue: 10,
			StartDate:   "2026-08-31",
			EndDate:     "2026-08-01",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestGoalService_Progress(t *testing.T) {
	ctx := context.Background()

	t.Run("revenue goals sum won deals in the window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		createWonDeal(t, db, pipeline, 1000, time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC), nil)
		createWonDeal(t, db, pipeline, 500, time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC), nil)
		// Outside the window
		createWonDeal(t, db, pipeline, 9999, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), nil)

		goal, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricRevenue,
			TargetValue: 3000,
			StartDate:   "2026-08-01",
			EndDate:     "2026-08-31",
		})
		require.NoError(t, err)

		progress, err := svc.Progress(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, 1500.0, progress.CurrentValue)
		assert.Equal(t, 50.0, progress.Percent)
	})

	t.Run("the end date is inclusive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		createWonDeal(t, db, pipeline, 800, time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC), nil)

		goal, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricRevenue,
			TargetValue: 800,
			StartDate:   "2026-08-01",
			EndDate:     "2026-08-31",
		})
		require.NoError(t, err)

		progress, err := svc.Progress(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, 800.0, progress.CurrentValue)
		assert.Equal(t, 100.0, progress.Percent)
	})

	t.Run("deals-won goals count instead of summing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		createWonDeal(t, db, pipeline, 1000, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), nil)
		createWonDeal(t, db, pipeline, 2000, time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC), nil)

		goal, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricDealsWon,
			TargetValue: 4,
			StartDate:   "2026-08-01",
			EndDate:     "2026-08-31",
		})
		require.NoError(t, err)

		progress, err := svc.Progress(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, 2.0, progress.CurrentValue)
		assert.Equal(t, 50.0, progress.Percent)
	})

	t.Run("user goals only count the user's deals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		owner := testutil.CreateTestUser(t, db, "rep@vendaflow.io", "secret123")
		other := testutil.CreateTestUser(t, db, "other@vendaflow.io", "secret123")

		createWonDeal(t, db, pipeline, 700, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), &owner.ID)
		createWonDeal(t, db, pipeline, 300, time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC), &other.ID)

		goal, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricRevenue,
			TargetValue: 700,
			TargetUser:  &owner.ID,
			StartDate:   "2026-08-01",
			EndDate:     "2026-08-31",
		})
		require.NoError(t, err)

		progress, err := svc.Progress(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, 700.0, progress.CurrentValue)
	})

	t.Run("appointment goals report zero progress", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)

		goal, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricAppointments,
			TargetValue: 20,
			StartDate:   "2026-08-01",
			EndDate:     "2026-08-31",
		})
		require.NoError(t, err)

		progress, err := svc.Progress(ctx, goal.ID)
		require.NoError(t, err)
		assert.Zero(t, progress.CurrentValue)
		assert.Zero(t, progress.Percent)
	})
}

func TestGoalService_ActiveProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("only goals covering the given time are included", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createGoalService(db)

		_, err := svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricRevenue,
			TargetValue: 100,
			StartDate:   "2026-08-01",
			EndDate:     "2026-08-31",
		})
		require.NoError(t, err)
		_, err = svc.Create(ctx, &domain.CreateGoalRequest{
			Metric:      domain.GoalMetricRevenue,
			TargetValue: 100,
			StartDate:   "2026-01-01",
			EndDate:     "2026-01-31",
		})
		require.NoError(t, err)

		progress, err := svc.ActiveProgress(ctx, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, progress, 1)
	})
}
