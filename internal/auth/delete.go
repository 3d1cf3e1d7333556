package auth

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
)

// SoftDelete deactivates an account and bumps the token version so no
// outstanding JWT survives. Repeat calls are no-ops that echo the
// original deletion time without bumping the version again.
func (s *service) SoftDelete(ctx context.Context, userID uuid.UUID) (*SoftDeleteResponse, error) {
	now := s.now().UTC()
	deleted, err := s.users.SoftDelete(ctx, userID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "soft delete user")
	}

	if !deleted {
		user, err := s.loadUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.SoftDeletedAt != nil {
			return &SoftDeleteResponse{SoftDeletedAt: *user.SoftDeletedAt}, nil
		}
		return &SoftDeleteResponse{SoftDeletedAt: now}, nil
	}

	if s.ads != nil {
		// Best effort: the account is already deactivated even if
		// hiding its listings fails.
		s.dispatch(ctx, "hide_advertisements", func(ctx context.Context) error {
			_, err := s.ads.HideOwnedBy(ctx, userID)
			return err
		})
	}

	return &SoftDeleteResponse{SoftDeletedAt: now}, nil
}
