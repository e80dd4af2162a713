package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/vendaflow/crm-api/internal/auth"
	"github.com/vendaflow/crm-api/internal/config"
	"github.com/vendaflow/crm-api/internal/http/middleware"
	"go.uber.org/zap"
)

func rateLimitConfig(perMinute int) *config.RateLimitConfig {
	return &config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     perMinute,
		RequestsPerMinuteAuth: perMinute,
	}
}

func TestRateLimiter_LimitByIP(t *testing.T) {
	t.Run("requests over the limit get 429", func(t *testing.T) {
		rl := middleware.NewRateLimiter(rateLimitConfig(2), zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.1.2.3:4567"
			last = httptest.NewRecorder()
			handler.ServeHTTP(last, req)
		}

		assert.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.Equal(t, "60", last.Header().Get("Retry-After"))
	})

	t.Run("disabled limiter passes everything", func(t *testing.T) {
		cfg := rateLimitConfig(1)
		cfg.Enabled = false
		rl := middleware.NewRateLimiter(cfg, zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.1.2.3:4567"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusOK, rr.Code)
		}
	})

	t.Run("whitelisted paths are never limited", func(t *testing.T) {
		cfg := rateLimitConfig(1)
		cfg.WhitelistPaths = []string{"/health"}
		rl := middleware.NewRateLimiter(cfg, zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = "10.1.2.3:4567"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusOK, rr.Code)
		}
	})

	t.Run("whitelisted IPs are never limited", func(t *testing.T) {
		cfg := rateLimitConfig(1)
		cfg.WhitelistIPs = []string{"10.1.2.3"}
		rl := middleware.NewRateLimiter(cfg, zap.NewNop())
		handler := rl.LimitByIP(okHandler())

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.1.2.3:4567"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusOK, rr.Code)
		}
	})
}

func TestRateLimiter_Limit(t *testing.T) {
	t.Run("authenticated users are limited per user, not per IP", func(t *testing.T) {
		rl := middleware.NewRateLimiter(rateLimitConfig(2), zap.NewNop())
		handler := rl.Limit(okHandler())

		userA := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: uuid.New()})
		userB := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: uuid.New()})

		// Exhaust the budget for user A from one IP
		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil).WithContext(userA)
			req.RemoteAddr = "10.1.2.3:4567"
			last = httptest.NewRecorder()
			handler.ServeHTTP(last, req)
		}
		assert.Equal(t, http.StatusTooManyRequests, last.Code)

		// User B from the same IP still has their own budget
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil).WithContext(userB)
		req.RemoteAddr = "10.1.2.3:4567"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
