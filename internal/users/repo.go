package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByVerificationToken loads the user holding an email verification token.
func (r *Repository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email_verification_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetTokenHash loads the user holding a password reset token hash.
func (r *Repository) FindByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("password_reset_token_hash = ?", hash).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// MarkEmailVerified flips the verification flag and clears the token state.
func (r *Repository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"email_verified":             true,
			"email_verification_token":   nil,
			"email_verification_expires": nil,
		}).Error
}

// SetVerificationToken stores a fresh verification token and expiry.
func (r *Repository) SetVerificationToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"email_verification_token":   token,
			"email_verification_expires": expires,
		}).Error
}

// SetResetToken stores the reset token hash and expiry, clearing any prior
// consumption marker so the new token starts unused.
func (r *Repository) SetResetToken(ctx context.Context, id uuid.UUID, hash string, expires time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_reset_token_hash": hash,
			"password_reset_expires":    expires,
			"password_reset_used_at":    nil,
		}).Error
}

// ChangePassword swaps the hash, bumps the token version so every live
// session dies, and clears outstanding reset state.
func (r *Repository) ChangePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":             passwordHash,
			"token_version":             gorm.Expr("token_version + 1"),
			"password_reset_token_hash": nil,
			"password_reset_expires":    nil,
			"password_reset_used_at":    nil,
		}).Error
}

// ConsumeResetToken atomically finalizes a password reset. The WHERE clause
// makes concurrent resets race on a single row update: exactly one caller
// sees rows affected, everyone else loses.
func (r *Repository) ConsumeResetToken(ctx context.Context, hash, passwordHash string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("password_reset_token_hash = ? AND password_reset_used_at IS NULL AND password_reset_expires > ?", hash, now).
		Updates(map[string]any{
			"password_hash":             passwordHash,
			"token_version":             gorm.Expr("token_version + 1"),
			"password_reset_token_hash": nil,
			"password_reset_expires":    nil,
			"password_reset_used_at":    now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SoftDelete deactivates the account and kills outstanding sessions. The
// is_active guard makes repeat calls no-ops.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":       false,
			"soft_deleted_at": now,
			"token_version":   gorm.Expr("token_version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// BumpTokenVersion invalidates every outstanding session token.
func (r *Repository) BumpTokenVersion(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}

// AcceptPrivacyConsent records the consent timestamp.
func (r *Repository) AcceptPrivacyConsent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("privacy_consent_accepted_at", at).Error
}
