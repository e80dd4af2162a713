package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-api/internal/auth"
	"github.com/vendaflow/crm-api/internal/config"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/http/handler"
	"github.com/vendaflow/crm-api/internal/repository"
	"github.com/vendaflow/crm-api/internal/service"
	"github.com/vendaflow/crm-api/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createAuthHandler(db *gorm.DB) *handler.AuthHandler {
	userService := service.NewUserService(repository.NewUserRepository(db), zap.NewNop())
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  3600,
		Issuer:    "vendaflow-test",
	})
	return handler.NewAuthHandler(userService, tokens, zap.NewNop())
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials return a token and the user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		h := createAuthHandler(db)
		testutil.CreateTestUser(t, db, "ana@vendaflow.io", "secret123")

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"ana@vendaflow.io","password":"secret123"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp domain.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		require.NotNil(t, resp.User)
		assert.Equal(t, "ana@vendaflow.io", resp.User.Email)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		h := createAuthHandler(db)
		testutil.CreateTestUser(t, db, "ana@vendaflow.io", "secret123")

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"ana@vendaflow.io","password":"wrong"}`))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		h := createAuthHandler(db)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@vendaflow.io"}`))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("returns the authenticated user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		h := createAuthHandler(db)
		user := testutil.CreateTestUser(t, db, "ana@vendaflow.io", "secret123")

		ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
			UserID: user.ID,
			Email:  user.Email,
		})
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got domain.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, user.ID, got.ID)
		assert.Empty(t, got.PasswordHash)
	})

	t.Run("missing user context is unauthorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		h := createAuthHandler(db)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
