package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/velora-app/velora-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	Email        string
	UserType     enums.UserType
	TokenVersion int
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to clients.
// TokenVersion is compared against the user's stored counter on every
// authenticated request; a mismatch means the session was revoked.
type AccessTokenClaims struct {
	UserID       uuid.UUID      `json:"user_id"`
	Email        string         `json:"email"`
	UserType     enums.UserType `json:"user_type"`
	TokenVersion int            `json:"token_version"`
	jwt.RegisteredClaims
}
