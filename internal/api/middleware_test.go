package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ashishpal07/qp-assessment/internal/auth"
	"github.com/ashishpal07/qp-assessment/internal/config"
	"github.com/ashishpal07/qp-assessment/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: 10,
		},
		Catalog: config.CatalogConfig{DefaultStock: 1},
	}
	return NewServer(nil, cfg, zap.NewNop())
}

func bearerToken(t *testing.T, s *Server, userID int64, role string) string {
	t.Helper()
	token, err := s.tokens.Issue(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticateMissingToken(t *testing.T) {
	s := newTestServer(t)
	handler := s.authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	for _, header := range []string{"", "Bearer ", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "header %q", header)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	s := newTestServer(t)
	handler := s.authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	s := newTestServer(t)

	var got auth.Identity
	handler := s.authenticate(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFrom(r.Context())
		require.True(t, ok)
		got = identity
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearerToken(t, s, 7, models.RoleCustomer))
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, models.RoleCustomer, got.Role)
}

func TestRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	reached := false
	handler := s.authenticate(s.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", bearerToken(t, s, 1, models.RoleCustomer))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", bearerToken(t, s, 1, models.RoleAdmin))
	rec = httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}
