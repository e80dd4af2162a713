package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"github.com/vendaflow/crm-api/internal/service"
	"github.com/vendaflow/crm-api/tests/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func createUserService(db *gorm.DB) *service.UserService {
	return service.NewUserService(repository.NewUserRepository(db), zap.NewNop())
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createUserService(db)

		user, err := svc.Create(ctx, &domain.CreateUserRequest{
			FirstName: "Ana",
			LastName:  "Costa",
			Email:     "ana@vendaflow.io",
			Password:  "supersecret",
		})
		require.NoError(t, err)
		assert.NotEqual(t, "supersecret", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")))
	})

	t.Run("duplicate emails are rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createUserService(db)
		testutil.CreateTestUser(t, db, "ana@vendaflow.io", "secret123")

		_, err := svc.Create(ctx, &domain.CreateUserRequest{
			FirstName: "Ana",
			LastName:  "Costa",
			Email:     "ana@vendaflow.io",
			Password:  "supersecret",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createUserService(db)
		created := testutil.CreateTestUser(t, db, "ana@vendaflow.io", "secret123")

		user, err := svc.Authenticate(ctx, "ana@vendaflow.io", "secret123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createUserService(db)
		testutil.CreateTestUser(t, db, "ana@vendaflow.io", "secret123")

		_, err := svc.Authenticate(ctx, "ana@vendaflow.io", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createUserService(db)

		_, err := svc.Authenticate(ctx, "ghost@vendaflow.io", "whatever")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("a new password is re-hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createUserService(db)
		created := testutil.CreateTestUser(t, db, "ana@vendaflow.io", "secret123")

		password := "newsecret99"
		_, err := svc.Update(ctx, created.ID, &domain.UpdateUserRequest{Password: &password})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "ana@vendaflow.io", "newsecret99")
		assert.NoError(t, err)
		_, err = svc.Authenticate(ctx, "ana@vendaflow.io", "secret123")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}
