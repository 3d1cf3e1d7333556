package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db/models"
)

// Repository exposes persistence helpers for reviews.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByAdvertisement(ctx context.Context, adID uuid.UUID) ([]models.Review, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Review, error)
	Delete(ctx context.Context, id, authorID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a reviews repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repositoryImpl) ListByAdvertisement(ctx context.Context, adID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("advertisement_id = ?", adID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) Delete(ctx context.Context, id, authorID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&models.Review{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
