package savedsearches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db/models"
)

// Repository exposes persistence helpers for saved searches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, search *models.SavedSearch) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SavedSearch, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, searchID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a saved-search repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, search *models.SavedSearch) error {
	if search.ID == uuid.Nil {
		search.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(search).Error
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SavedSearch, error) {
	var searches []models.SavedSearch
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&searches).Error
	return searches, err
}

func (r *repositoryImpl) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SavedSearch{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, searchID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", searchID, userID).
		Delete(&models.SavedSearch{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
