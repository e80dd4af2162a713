package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/events"
	"github.com/vendaflow/crm-api/internal/repository"
	"github.com/vendaflow/crm-api/internal/service"
	"github.com/vendaflow/crm-api/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createLeadService(db *gorm.DB) *service.LeadService {
	return service.NewLeadService(
		repository.NewContactRepository(db),
		repository.NewPipelineRepository(db),
		repository.NewStageRepository(db),
		repository.NewDealRepository(db),
		events.NopPublisher{},
		zap.NewNop(),
	)
}

func TestSplitName(t *testing.T) {
	t.Run("single token is used for both names", func(t *testing.T) {
		first, last := service.SplitName("Cher")
		assert.Equal(t, "Cher", first)
		assert.Equal(t, "Cher", last)
	})

	t.Run("two tokens split into first and last", func(t *testing.T) {
		first, last := service.SplitName("Maria Silva")
		assert.Equal(t, "Maria", first)
		assert.Equal(t, "Silva", last)
	})

	t.Run("extra tokens join into the last name", func(t *testing.T) {
		first, last := service.SplitName("Ana Maria de Souza")
		assert.Equal(t, "Ana", first)
		assert.Equal(t, "Maria de Souza", last)
	})

	t.Run("surrounding whitespace is ignored", func(t *testing.T) {
		first, last := service.SplitName("  Maria   Silva  ")
		assert.Equal(t, "Maria", first)
		assert.Equal(t, "Silva", last)
	})
}

func TestParseLeadValue(t *testing.T) {
	t.Run("json number", func(t *testing.T) {
		value := service.ParseLeadValue(json.RawMessage(`1500.5`))
		require.NotNil(t, value)
		assert.Equal(t, 1500.5, *value)
	})

	t.Run("numeric string", func(t *testing.T) {
		value := service.ParseLeadValue(json.RawMessage(`"2500"`))
		require.NotNil(t, value)
		assert.Equal(t, 2500.0, *value)
	})

	t.Run("absent value yields nil", func(t *testing.T) {
		assert.Nil(t, service.ParseLeadValue(nil))
	})

	t.Run("non-numeric string yields nil", func(t *testing.T) {
		assert.Nil(t, service.ParseLeadValue(json.RawMessage(`"a lot"`)))
	})

	t.Run("json null yields nil", func(t *testing.T) {
		assert.Nil(t, service.ParseLeadValue(json.RawMessage(`null`)))
	})
}

func TestLeadService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates contact and deal on the entry stage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0, 1, 2)

		result, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:    "Maria Silva",
			Email:   "maria@acme.com",
			Company: "Acme",
			Value:   json.RawMessage(`1500`),
		})
		require.NoError(t, err)

		var deal domain.Deal
		require.NoError(t, db.First(&deal, "id = ?", result.DealID).Error)
		assert.Equal(t, "Lead: Maria Silva - Acme", deal.Title)
		assert.Equal(t, domain.DealStatusOpen, deal.Status)
		assert.Equal(t, pipeline.ID, deal.PipelineID)
		assert.Equal(t, testutil.StageByOrder(t, pipeline, 0).ID, deal.StageID)
		require.NotNil(t, deal.Value)
		assert.Equal(t, 1500.0, *deal.Value)

		var contact domain.Contact
		require.NoError(t, db.First(&contact, "id = ?", result.ContactID).Error)
		assert.Equal(t, "Maria", contact.FirstName)
		assert.Equal(t, "Silva", contact.LastName)
		require.NotNil(t, contact.Company)
		assert.Equal(t, "Acme", *contact.Company)
	})

	t.Run("deal title has no company suffix when company is absent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		result, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:  "Maria Silva",
			Email: "maria@acme.com",
		})
		require.NoError(t, err)

		var deal domain.Deal
		require.NoError(t, db.First(&deal, "id = ?", result.DealID).Error)
		assert.Equal(t, "Lead: Maria Silva", deal.Title)
		assert.Nil(t, deal.Value)
	})

	t.Run("missing name or email rejects the lead without writes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		_, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{Email: "maria@acme.com"})
		assert.ErrorIs(t, err, service.ErrMissingLeadFields)

		_, err = svc.Ingest(ctx, &domain.IncomingLeadRequest{Name: "Maria Silva"})
		assert.ErrorIs(t, err, service.ErrMissingLeadFields)

		_, err = svc.Ingest(ctx, &domain.IncomingLeadRequest{Name: "   ", Email: "maria@acme.com"})
		assert.ErrorIs(t, err, service.ErrMissingLeadFields)

		var contacts, deals int64
		require.NoError(t, db.Model(&domain.Contact{}).Count(&contacts).Error)
		require.NoError(t, db.Model(&domain.Deal{}).Count(&deals).Error)
		assert.Zero(t, contacts)
		assert.Zero(t, deals)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		for _, email := range []string{"not-an-email", "maria@acme", "ma ria@acme.com", "@acme.com"} {
			_, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{Name: "Maria Silva", Email: email})
			assert.ErrorIs(t, err, service.ErrInvalidLeadEmail, "email %q should be rejected", email)
		}
	})

	t.Run("reuses the oldest contact with the same email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)

		older := testutil.CreateTestContact(t, db, "Maria", "Silva", "maria@acme.com")
		require.NoError(t, db.Model(older).Update("createdat", time.Now().UTC().Add(-48*time.Hour)).Error)
		newer := testutil.CreateTestContact(t, db, "Maria", "S.", "maria@acme.com")

		result, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:  "Maria Silva",
			Email: "maria@acme.com",
		})
		require.NoError(t, err)
		assert.Equal(t, older.ID, result.ContactID)
		assert.NotEqual(t, newer.ID, result.ContactID)

		var contacts int64
		require.NoError(t, db.Model(&domain.Contact{}).Count(&contacts).Error)
		assert.EqualValues(t, 2, contacts)
	})

	t.Run("email match is exact, different case creates a new contact", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		existing := testutil.CreateTestContact(t, db, "Maria", "Silva", "maria@acme.com")

		result, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:  "Maria Silva",
			Email: "MARIA@acme.com",
		})
		require.NoError(t, err)
		assert.NotEqual(t, existing.ID, result.ContactID)
	})

	t.Run("entry stage is the lowest order, not the first inserted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 3, 1, 2)

		result, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:  "Maria Silva",
			Email: "maria@acme.com",
		})
		require.NoError(t, err)

		var deal domain.Deal
		require.NoError(t, db.First(&deal, "id = ?", result.DealID).Error)
		assert.Equal(t, testutil.StageByOrder(t, pipeline, 1).ID, deal.StageID)
	})

	t.Run("targets the oldest sales pipeline", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)

		older := testutil.CreateTestPipeline(t, db, "Old Sales", domain.PipelineTypeSales, 0)
		require.NoError(t, db.Model(&domain.Pipeline{}).
			Where("id = ?", older.ID).
			Update("createdat", time.Now().UTC().Add(-24*time.Hour)).Error)
		testutil.CreateTestPipeline(t, db, "New Sales", domain.PipelineTypeSales, 0)

		result, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:  "Maria Silva",
			Email: "maria@acme.com",
		})
		require.NoError(t, err)

		var deal domain.Deal
		require.NoError(t, db.First(&deal, "id = ?", result.DealID).Error)
		assert.Equal(t, older.ID, deal.PipelineID)
	})

	t.Run("fails without a sales pipeline", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		testutil.CreateTestPipeline(t, db, "Prospecting", domain.PipelineTypeProspecting, 0)

		_, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:  "Maria Silva",
			Email: "maria@acme.com",
		})
		assert.ErrorIs(t, err, service.ErrNoSalesPipeline)
	})

	t.Run("fails when the sales pipeline has no stages", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales)

		_, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:  "Maria Silva",
			Email: "maria@acme.com",
		})
		assert.ErrorIs(t, err, service.ErrPipelineHasNoStages)
	})

	t.Run("contact survives a failed deal insert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createLeadService(db)
		testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales)

		_, err := svc.Ingest(ctx, &domain.IncomingLeadRequest{
			Name:  "Maria Silva",
			Email: "maria@acme.com",
		})
		require.ErrorIs(t, err, service.ErrPipelineHasNoStages)

		var contacts int64
		require.NoError(t, db.Model(&domain.Contact{}).Count(&contacts).Error)
		assert.EqualValues(t, 1, contacts)
	})
}
