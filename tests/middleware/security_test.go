package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vendaflow/crm-api/internal/config"
	"github.com/vendaflow/crm-api/internal/http/middleware"
)

func TestSecurityHeaders(t *testing.T) {
	t.Run("configured headers are set", func(t *testing.T) {
		cfg := &config.SecurityConfig{
			ContentTypeNosniff:    true,
			FrameOptions:          "DENY",
			XSSProtection:         "1; mode=block",
			ContentSecurityPolicy: "default-src 'self'",
			ReferrerPolicy:        "strict-origin-when-cross-origin",
		}
		handler := middleware.SecurityHeaders(cfg)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "1; mode=block", rr.Header().Get("X-XSS-Protection"))
		assert.Equal(t, "default-src 'self'", rr.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "strict-origin-when-cross-origin", rr.Header().Get("Referrer-Policy"))
	})

	t.Run("HSTS directives are assembled", func(t *testing.T) {
		cfg := &config.SecurityConfig{
			EnableHSTS:            true,
			HSTSMaxAge:            31536000,
			HSTSIncludeSubdomains: true,
		}
		handler := middleware.SecurityHeaders(cfg)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("unset options add no headers", func(t *testing.T) {
		handler := middleware.SecurityHeaders(&config.SecurityConfig{})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("X-Frame-Options"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})
}
