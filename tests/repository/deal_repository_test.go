package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"github.com/vendaflow/crm-api/tests/testutil"
)

func TestDealRepository_UpdateStage(t *testing.T) {
	ctx := context.Background()

	t.Run("writes only the stage column", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewDealRepository(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0, 1)
		entry := testutil.StageByOrder(t, pipeline, 0)
		target := testutil.StageByOrder(t, pipeline, 1)

		value := 900.0
		deal := testutil.CreateTestDeal(t, db, "Big order", pipeline.ID, entry.ID, nil)
		require.NoError(t, db.Model(deal).Update("dealvalue", value).Error)

		require.NoError(t, repo.UpdateStage(ctx, deal.ID, target.ID))

		var stored domain.Deal
		require.NoError(t, db.First(&stored, "id = ?", deal.ID).Error)
		assert.Equal(t, target.ID, stored.StageID)
		assert.Equal(t, "Big order", stored.Title)
		require.NotNil(t, stored.Value)
		assert.Equal(t, 900.0, *stored.Value)
	})

	t.Run("last write wins on concurrent moves", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewDealRepository(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0, 1, 2)
		deal := testutil.CreateTestDeal(t, db, "Big order", pipeline.ID, testutil.StageByOrder(t, pipeline, 0).ID, nil)

		first := testutil.StageByOrder(t, pipeline, 1)
		second := testutil.StageByOrder(t, pipeline, 2)
		require.NoError(t, repo.UpdateStage(ctx, deal.ID, first.ID))
		require.NoError(t, repo.UpdateStage(ctx, deal.ID, second.ID))

		var stored domain.Deal
		require.NoError(t, db.First(&stored, "id = ?", deal.ID).Error)
		assert.Equal(t, second.ID, stored.StageID)
	})
}

func TestDealRepository_ListOpenByPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("returns open deals oldest first with contacts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewDealRepository(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		stage := pipeline.Stages[0]
		contact := testutil.CreateTestContact(t, db, "Maria", "Silva", "maria@acme.com")

		older := testutil.CreateTestDeal(t, db, "Older", pipeline.ID, stage.ID, &contact.ID)
		require.NoError(t, db.Model(older).Update("createdat", time.Now().UTC().Add(-time.Hour)).Error)
		testutil.CreateTestDeal(t, db, "Newer", pipeline.ID, stage.ID, nil)

		closed := testutil.CreateTestDeal(t, db, "Closed", pipeline.ID, stage.ID, nil)
		require.NoError(t, db.Model(closed).Update("status", domain.DealStatusLost).Error)

		deals, err := repo.ListOpenByPipeline(ctx, pipeline.ID)
		require.NoError(t, err)
		require.Len(t, deals, 2)
		assert.Equal(t, "Older", deals[0].Title)
		require.NotNil(t, deals[0].Contact)
		assert.Equal(t, "Maria", deals[0].Contact.FirstName)
	})
}

func TestDealRepository_WonAggregates(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to creation time when wonat is missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewDealRepository(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		stage := pipeline.Stages[0]

		createdAt := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
		value := 650.0
		deal := testutil.CreateTestDeal(t, db, "Legacy win", pipeline.ID, stage.ID, nil)
		require.NoError(t, db.Model(deal).Updates(map[string]interface{}{
			"status":    domain.DealStatusWon,
			"createdat": createdAt,
		}).Error)

		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		require.NoError(t, db.Model(deal).Update("dealvalue", value).Error)

		count, err := repo.CountWonBetween(ctx, from, to)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		sum, err := repo.SumWonValueBetween(ctx, from, to)
		require.NoError(t, err)
		assert.Equal(t, 650.0, sum)
	})
}
