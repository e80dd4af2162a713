package service_test

import (
	"context"
	"testing"

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

func createPipelineService(db *gorm.DB) *service.PipelineService {
	return service.NewPipelineService(
		repository.NewPipelineRepository(db),
		repository.NewStageRepository(db),
		repository.NewDealRepository(db),
		zap.NewNop(),
	)
}

func TestPipelineService_Board(t *testing.T) {
	ctx := context.Background()

	t.Run("groups open deals under their stages in order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 1, 0, 2)
		entry := testutil.StageByOrder(t, pipeline, 0)
		middle := testutil.StageByOrder(t, pipeline, 1)

		company := "Acme"
		contact := testutil.CreateTestContact(t, db, "Maria", "Silva", "maria@acme.com")
		require.NoError(t, db.Model(contact).Update("company", company).Error)

		testutil.CreateTestDeal(t, db, "First deal", pipeline.ID, entry.ID, &contact.ID)
		testutil.CreateTestDeal(t, db, "Second deal", pipeline.ID, middle.ID, nil)

		board, err := svc.Board(ctx)
		require.NoError(t, err)
		require.Len(t, board, 1)
		require.Len(t, board[0].Stages, 3)

		// Stages come back sorted by order, not insertion
		assert.Equal(t, 0, board[0].Stages[0].Order)
		assert.Equal(t, 1, board[0].Stages[1].Order)
		assert.Equal(t, 2, board[0].Stages[2].Order)

		require.Len(t, board[0].Stages[0].Deals, 1)
		card := board[0].Stages[0].Deals[0]
		assert.Equal(t, "First deal", card.Title)
		assert.Equal(t, "Maria Silva", card.ContactName)
		assert.Equal(t, "Acme", card.Company)

		require.Len(t, board[0].Stages[1].Deals, 1)
		assert.Equal(t, "Second deal", board[0].Stages[1].Deals[0].Title)
	})

	t.Run("stages without deals are empty arrays", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)
		testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0, 1)

		board, err := svc.Board(ctx)
		require.NoError(t, err)
		require.Len(t, board, 1)
		for _, stage := range board[0].Stages {
			assert.NotNil(t, stage.Deals)
			assert.Empty(t, stage.Deals)
		}
	})

	t.Run("closed deals are excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		stage := pipeline.Stages[0]

		testutil.CreateTestDeal(t, db, "Open deal", pipeline.ID, stage.ID, nil)
		closed := testutil.CreateTestDeal(t, db, "Won deal", pipeline.ID, stage.ID, nil)
		require.NoError(t, db.Model(closed).Update("status", domain.DealStatusWon).Error)

		board, err := svc.Board(ctx)
		require.NoError(t, err)
		require.Len(t, board, 1)
		require.Len(t, board[0].Stages[0].Deals, 1)
		assert.Equal(t, "Open deal", board[0].Stages[0].Deals[0].Title)
	})
}

func TestPipelineService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pipeline with stages", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)

		pipeline, err := svc.Create(ctx, &domain.CreatePipelineRequest{
			Name: "Renewals",
			Type: domain.PipelineTypePostSales,
			Stages: []domain.CreateStageRequest{
				{Name: "Incoming", Order: 0},
				{Name: "Renewed", Order: 1},
			},
		})
		require.NoError(t, err)
		assert.True(t, pipeline.IsEditable)
		assert.Len(t, pipeline.Stages, 2)
	})

	t.Run("rejects unknown pipeline types", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)

		_, err := svc.Create(ctx, &domain.CreatePipelineRequest{
			Name: "Bad",
			Type: domain.PipelineType("KANBAN"),
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestPipelineService_LockedPipelines(t *testing.T) {
	ctx := context.Background()

	t.Run("locked pipelines cannot be renamed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		require.NoError(t, db.Model(pipeline).Update("iseditable", false).Error)

		_, err := svc.Rename(ctx, pipeline.ID, "Renamed")
		assert.ErrorIs(t, err, service.ErrNotEditable)
	})

	t.Run("locked pipelines cannot be deleted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		require.NoError(t, db.Model(pipeline).Update("iseditable", false).Error)

		err := svc.Delete(ctx, pipeline.ID)
		assert.ErrorIs(t, err, service.ErrNotEditable)
	})

	t.Run("editable pipelines can be renamed and deleted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		renamed, err := svc.Rename(ctx, pipeline.ID, "Outbound")
		require.NoError(t, err)
		assert.Equal(t, "Outbound", renamed.Name)

		require.NoError(t, svc.Delete(ctx, pipeline.ID))
		_, err = svc.GetByID(ctx, pipeline.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestPipelineService_Stages(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a stage to an existing pipeline", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		stage, err := svc.AddStage(ctx, pipeline.ID, &domain.CreateStageRequest{Name: "Closing", Order: 1})
		require.NoError(t, err)
		assert.Equal(t, pipeline.ID, stage.PipelineID)

		fetched, err := svc.GetByID(ctx, pipeline.ID)
		require.NoError(t, err)
		assert.Len(t, fetched.Stages, 2)
	})

	t.Run("adding a stage to an unknown pipeline fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)

		_, err := svc.AddStage(ctx, uuid.New(), &domain.CreateStageRequest{Name: "Closing", Order: 0})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("updates a stage name and order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createPipelineService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		stage := pipeline.Stages[0]

		name := "Qualified"
		order := 5
		updated, err := svc.UpdateStage(ctx, stage.ID, &domain.UpdateStageRequest{Name: &name, Order: &order})
		require.NoError(t, err)
		assert.Equal(t, "Qualified", updated.Name)
		assert.Equal(t, 5, updated.Order)
	})
}
