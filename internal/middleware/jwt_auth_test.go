package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/models"
)

// mockAuthSvc validates exactly one token value.
type mockAuthSvc struct {
	token     string
	principal models.Principal
}

func (m *mockAuthSvc) Register(context.Context, string, string, string, string) (*models.Account, error) {
	return nil, errors.New("not implemented")
}
func (m *mockAuthSvc) Login(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}
func (m *mockAuthSvc) ValidateToken(_ context.Context, token string) (models.Principal, error) {
	if token != m.token {
		return models.Principal{}, errors.New("invalid token")
	}
	return m.principal, nil
}

func TestJWTAuth(t *testing.T) {
	accountID := uuid.New()
	svc := &mockAuthSvc{
		token:     "good-token",
		principal: models.Principal{AccountID: accountID, Role: models.RoleParent},
	}

	var seen *models.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromCtx(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := JWTAuth(svc)(inner)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token sets principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if seen == nil || seen.AccountID != accountID || seen.Role != models.RoleParent {
			t.Errorf("principal in context = %+v, want account %s role parent", seen, accountID)
		}
	})
}

func TestRequireRole(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole(models.RoleSitter)(inner)

	t.Run("no principal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), &models.Principal{AccountID: uuid.New(), Role: models.RoleParent}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("matching role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), &models.Principal{AccountID: uuid.New(), Role: models.RoleSitter}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})
}
