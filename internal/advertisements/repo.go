package advertisements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
)

// Repository exposes persistence helpers for advertisements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ad *models.Advertisement) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Advertisement, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Advertisement, error)
	UpdateFields(ctx context.Context, id, ownerID uuid.UUID, fields map[string]any) (bool, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	HideOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	RecalculateRating(ctx context.Context, adID uuid.UUID) error
	CountActive(ctx context.Context) (int64, error)
	CountActiveCities(ctx context.Context) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an advertisements repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, ad *models.Advertisement) error {
	return r.db.WithContext(ctx).Create(ad).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *repositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// UpdateFields applies a partial update scoped to the owner. Returns
// false when no row matched.
func (r *repositoryImpl) UpdateFields(ctx context.Context, id, ownerID uuid.UUID, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Advertisement{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// HideOwnedBy flips a user's listings to hidden. Used by the account
// soft-delete cascade.
func (r *repositoryImpl) HideOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("user_id = ? AND status <> ?", userID, enums.AdStatusHidden).
		UpdateColumn("status", enums.AdStatusHidden)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// RecalculateRating recomputes the aggregate from the reviews table.
// Callers run it inside the same transaction as the review write.
func (r *repositoryImpl) RecalculateRating(ctx context.Context, adID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("id = ?", adID).
		Updates(map[string]any{
			"rating_avg":   gorm.Expr("(SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE advertisement_id = ?)", adID),
			"rating_count": gorm.Expr("(SELECT COUNT(*) FROM reviews WHERE advertisement_id = ?)", adID),
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *repositoryImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("status = ?", enums.AdStatusActive).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountActiveCities(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("status = ?", enums.AdStatusActive).
		Distinct("city").
		Count(&count).Error
	return count, err
}
