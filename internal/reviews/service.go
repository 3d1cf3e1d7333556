package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/internal/advertisements"
	"github.com/velora-app/velora-backend/internal/notifications"
	"github.com/velora-app/velora-backend/pkg/db"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
)

// Service defines review operations. Creating or deleting a review
// recomputes the advertisement's rating aggregate in the same
// transaction.
type Service interface {
	Create(ctx context.Context, authorID uuid.UUID, authorName string, req CreateRequest) (*ReviewDTO, error)
	ListByAdvertisement(ctx context.Context, adID uuid.UUID) ([]ReviewDTO, error)
	ListMine(ctx context.Context, authorID uuid.UUID) ([]ReviewDTO, error)
	Delete(ctx context.Context, authorID, reviewID uuid.UUID) error
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies for the reviews service.
type ServiceParams struct {
	DB *db.Client
}

// NewService wires the reviews service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, authorName string, req CreateRequest) (*ReviewDTO, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	var created *models.Review
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		reviewRepo := NewRepository(tx)
		adRepo := advertisements.NewRepository(tx)
		notificationRepo := notifications.NewRepository(tx)

		ad, err := adRepo.FindByID(ctx, req.AdvertisementID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load advertisement")
		}
		if ad.UserID == authorID {
			return pkgerrors.New(pkgerrors.CodeValidation, "you cannot review your own advertisement")
		}

		review := &models.Review{
			ID:              uuid.New(),
			AdvertisementID: ad.ID,
			AuthorID:        authorID,
			AuthorName:      authorName,
			Rating:          req.Rating,
			Text:            req.Text,
		}
		if err := reviewRepo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "idx_reviews_ad_author") {
				return pkgerrors.New(pkgerrors.CodeConflict, "you already reviewed this advertisement")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}

		if err := adRepo.RecalculateRating(ctx, ad.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rating aggregate")
		}

		notification := &models.Notification{
			UserID:    ad.UserID,
			Type:      enums.NotificationTypeReview,
			Title:     "New review",
			Message:   fmt.Sprintf("%s rated your advertisement %d/5", authorName, req.Rating),
			RelatedID: &review.ID,
		}
		if err := notificationRepo.Create(ctx, notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify advertisement owner")
		}

		created = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) ListByAdvertisement(ctx context.Context, adID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListByAdvertisement(ctx, adID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return toDTOs(rows), nil
}

func (s *service) ListMine(ctx context.Context, authorID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return toDTOs(rows), nil
}

func (s *service) Delete(ctx context.Context, authorID, reviewID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		reviewRepo := NewRepository(tx)
		adRepo := advertisements.NewRepository(tx)

		review, err := reviewRepo.FindByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
		}

		deleted, err := reviewRepo.Delete(ctx, reviewID, authorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}

		if err := adRepo.RecalculateRating(ctx, review.AdvertisementID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rating aggregate")
		}
		return nil
	})
}

func toDTOs(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
