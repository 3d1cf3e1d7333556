package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
)

// Repository exposes persistence helpers for uploaded media.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.UserMedia) error
	ListByKind(ctx context.Context, userID uuid.UUID, kind enums.MediaKind) ([]models.UserMedia, error)
	CountByKind(ctx context.Context, userID uuid.UUID, kind enums.MediaKind) (int64, error)
	FindByID(ctx context.Context, userID, mediaID uuid.UUID) (*models.UserMedia, error)
	Delete(ctx context.Context, userID, mediaID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a media repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, item *models.UserMedia) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) ListByKind(ctx context.Context, userID uuid.UUID, kind enums.MediaKind) ([]models.UserMedia, error) {
	var items []models.UserMedia
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("uploaded_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

func (r *repositoryImpl) CountByKind(ctx context.Context, userID uuid.UUID, kind enums.MediaKind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserMedia{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, userID, mediaID uuid.UUID) (*models.UserMedia, error) {
	var item models.UserMedia
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mediaID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, mediaID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mediaID, userID).
		Delete(&models.UserMedia{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
