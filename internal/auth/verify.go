package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/internal/users"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/security"
)

// VerifyEmail confirms ownership of an address and opens a session so
// the client can log the user straight in.
func (s *service) VerifyEmail(ctx context.Context, token string) (*SessionResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid token")
	}

	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup verification token")
	}

	now := s.now().UTC()
	if user.EmailVerificationExpires == nil || user.EmailVerificationExpires.Before(now) {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "token expired")
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark email verified")
	}
	user.EmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil

	s.dispatch(ctx, "welcome_email", func(ctx context.Context) error {
		return s.notifier.SendWelcomeEmail(ctx, user.Email, displayName(user))
	})

	sessionToken, err := s.mintToken(user, now)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{User: users.FromModel(user), Token: sessionToken}, nil
}

// ResendVerification issues a fresh token, replacing whatever token was
// outstanding for the account.
func (s *service) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeBadRequest, "email not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.EmailVerified {
		return pkgerrors.New(pkgerrors.CodeBadRequest, "email already verified")
	}

	token := security.NewVerificationToken()
	expires := s.now().UTC().Add(verificationTokenTTL)
	if err := s.users.SetVerificationToken(ctx, user.ID, token, expires); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification token")
	}

	s.dispatch(ctx, "verification_email", func(ctx context.Context) error {
		return s.notifier.SendVerificationEmail(ctx, user.Email, displayName(user), token)
	})
	return nil
}
