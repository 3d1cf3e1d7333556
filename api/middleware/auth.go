package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"github.com/velora-app/velora-backend/api/responses"
	pkgAuth "github.com/velora-app/velora-backend/pkg/auth"
	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db/models"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/logger"
)

const sessionExpiredMessage = "session expired, please login again"

// SessionUserLoader re-reads the token's subject so revocation takes effect
// immediately.
type SessionUserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth validates a bearer token and seeds the request context with the claims.
// The embedded token version must match the user's stored counter; bumping the
// counter invalidates every token minted before the bump.
func Auth(cfg config.JWTConfig, users SessionUserLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if users == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session verification unavailable"))
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				typed := pkgerrors.As(err)
				if errors.Is(err, gorm.ErrRecordNotFound) || (typed != nil && typed.Code() == pkgerrors.CodeNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session user"))
				return
			}

			if !user.IsActive || user.TokenVersion != claims.TokenVersion {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxClaims, claims)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":   claims.UserID.String(),
					"user_type": string(claims.UserType),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
