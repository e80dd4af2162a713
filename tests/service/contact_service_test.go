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

func createContactService(db *gorm.DB) *service.ContactService {
	return service.NewContactService(
		repository.NewContactRepository(db),
		repository.NewDealRepository(db),
		zap.NewNop(),
	)
}

func TestContactService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("records who imported the contact", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createContactService(db)
		creator := testutil.CreateTestUser(t, db, "rep@vendaflow.io", "secret123")

		email := "maria@acme.com"
		contact, err := svc.Create(ctx, &domain.CreateContactRequest{
			FirstName: "Maria",
			LastName:  "Silva",
			Email:     &email,
		}, &creator.ID)
		require.NoError(t, err)
		require.NotNil(t, contact.ImportedBy)
		assert.Equal(t, creator.ID, *contact.ImportedBy)
	})

	t.Run("email is optional", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createContactService(db)

		contact, err := svc.Create(ctx, &domain.CreateContactRequest{
			FirstName: "Maria",
			LastName:  "Silva",
		}, nil)
		require.NoError(t, err)
		assert.Nil(t, contact.Email)
	})
}

func TestContactService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("matches name and email case-insensitively", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createContactService(db)
		testutil.CreateTestContact(t, db, "Maria", "Silva", "maria@acme.com")
		testutil.CreateTestContact(t, db, "John", "Doe", "john@other.com")

		byName, err := svc.Search(ctx, "maRIA", 10)
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "Maria", byName[0].FirstName)

		byEmail, err := svc.Search(ctx, "acme", 10)
		require.NoError(t, err)
		assert.Len(t, byEmail, 1)
	})
}

func TestContactService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the provided fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createContactService(db)
		contact := testutil.CreateTestContact(t, db, "Maria", "Silva", "maria@acme.com")

		company := "Acme"
		isClient := true
		updated, err := svc.Update(ctx, contact.ID, &domain.UpdateContactRequest{
			Company:  &company,
			IsClient: &isClient,
		})
		require.NoError(t, err)
		assert.Equal(t, "Maria", updated.FirstName)
		require.NotNil(t, updated.Company)
		assert.Equal(t, "Acme", *updated.Company)
		assert.True(t, updated.IsClient)
	})

	t.Run("unknown contact", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createContactService(db)

		_, err := svc.Update(ctx, uuid.New(), &domain.UpdateContactRequest{})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestContactService_Deals(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the contact's deals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createContactService(db)
		pipeline := testutil.CreateTestPipeline(t, db, "Sales", domain.PipelineTypeSales, 0)
		contact := testutil.CreateTestContact(t, db, "Maria", "Silva", "maria@acme.com")

		testutil.CreateTestDeal(t, db, "Her deal", pipeline.ID, pipeline.Stages[0].ID, &contact.ID)
		testutil.CreateTestDeal(t, db, "Unrelated", pipeline.ID, pipeline.Stages[0].ID, nil)

		deals, err := svc.Deals(ctx, contact.ID)
		require.NoError(t, err)
		require.Len(t, deals, 1)
		assert.Equal(t, "Her deal", deals[0].Title)
	})
}
