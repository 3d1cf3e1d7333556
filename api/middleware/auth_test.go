package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/velora-app/velora-backend/pkg/auth"
	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
)

type stubUserLoader struct {
	user *models.User
	err  error
}

func (s stubUserLoader) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

func testCfg() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, version int) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID:       userID,
		Email:        "member@example.com",
		UserType:     enums.UserTypeMember,
		TokenVersion: version,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func activeUser(id uuid.UUID, version int) *models.User {
	return &models.User{
		ID:           id,
		Email:        "member@example.com",
		UserType:     enums.UserTypeMember,
		TokenVersion: version,
		IsActive:     true,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testCfg(), stubUserLoader{}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testCfg(), stubUserLoader{}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	cfg := testCfg()
	userID := uuid.New()
	token := mintTestToken(t, cfg, userID, 2)

	var captured struct {
		user   string
		claims *auth.AccessTokenClaims
	}
	handler := Auth(cfg, stubUserLoader{user: activeUser(userID, 2)}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.claims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user != userID.String() {
		t.Fatalf("expected user id in context, got %q", captured.user)
	}
	if captured.claims == nil || captured.claims.TokenVersion != 2 {
		t.Fatalf("expected claims in context, got %+v", captured.claims)
	}
}

func TestAuthRejectsStaleTokenVersion(t *testing.T) {
	cfg := testCfg()
	userID := uuid.New()
	token := mintTestToken(t, cfg, userID, 1)

	handler := Auth(cfg, stubUserLoader{user: activeUser(userID, 2)}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale version, got %d", resp.Code)
	}
}

func TestAuthRejectsInactiveUser(t *testing.T) {
	cfg := testCfg()
	userID := uuid.New()
	token := mintTestToken(t, cfg, userID, 0)

	user := activeUser(userID, 0)
	user.IsActive = false
	handler := Auth(cfg, stubUserLoader{user: user}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for inactive user, got %d", resp.Code)
	}
}

func TestAuthRejectsMissingUser(t *testing.T) {
	cfg := testCfg()
	userID := uuid.New()
	token := mintTestToken(t, cfg, userID, 0)

	loader := stubUserLoader{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	handler := Auth(cfg, loader, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing user, got %d", resp.Code)
	}
}
