package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/security"
)

// resetTokenInvalidMessage deliberately does not distinguish unknown,
// expired and already-used tokens.
const resetTokenInvalidMessage = "invalid or expired token"

// ChangePassword swaps the password of an authenticated user and bumps
// the token version, which revokes every outstanding session token.
func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.ChangePassword(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "change password")
	}
	return nil
}

// ForgotPassword stores a hashed single-use reset token and mails the
// raw token to the account. The caller always gets the same answer, so
// the endpoint cannot be used to probe which emails exist.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	raw, err := security.NewResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	expires := s.now().UTC().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, security.HashToken(raw), expires); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	s.dispatch(ctx, "password_reset_email", func(ctx context.Context) error {
		return s.notifier.SendPasswordResetEmail(ctx, user.Email, displayName(user), raw)
	})
	return nil
}

// ValidateResetToken lets the client check a token before showing the
// new-password form.
func (s *service) ValidateResetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeBadRequest, resetTokenInvalidMessage)
	}

	user, err := s.users.FindByResetTokenHash(ctx, security.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeBadRequest, resetTokenInvalidMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset token")
	}

	now := s.now().UTC()
	if user.PasswordResetUsedAt != nil || user.PasswordResetExpires == nil || user.PasswordResetExpires.Before(now) {
		return pkgerrors.New(pkgerrors.CodeBadRequest, resetTokenInvalidMessage)
	}
	return nil
}

// ResetPassword consumes a reset token. Consumption is a single
// conditional update, so two concurrent resets with the same token
// produce exactly one winner.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeBadRequest, resetTokenInvalidMessage)
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	consumed, err := s.users.ConsumeResetToken(ctx, security.HashToken(token), hash, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume reset token")
	}
	if !consumed {
		return pkgerrors.New(pkgerrors.CodeBadRequest, resetTokenInvalidMessage)
	}
	return nil
}
