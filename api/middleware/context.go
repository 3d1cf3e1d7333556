package middleware

import (
	"context"

	pkgAuth "github.com/velora-app/velora-backend/pkg/auth"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxClaims contextKey = "claims"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// ClaimsFromContext returns the verified session claims, nil when absent.
func ClaimsFromContext(ctx context.Context) *pkgAuth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(*pkgAuth.AccessTokenClaims); ok {
		return v
	}
	return nil
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithClaims injects the session claims into the context.
func WithClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}
