package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/velora-app/velora-backend/pkg/db/models"
)

// ReviewDTO is the transport shape for a review.
type ReviewDTO struct {
	ID              uuid.UUID `json:"id"`
	AdvertisementID uuid.UUID `json:"advertisement_id"`
	AuthorID        uuid.UUID `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	Rating          int       `json:"rating"`
	Text            string    `json:"text"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromModel(review *models.Review) *ReviewDTO {
	if review == nil {
		return nil
	}
	return &ReviewDTO{
		ID:              review.ID,
		AdvertisementID: review.AdvertisementID,
		AuthorID:        review.AuthorID,
		AuthorName:      review.AuthorName,
		Rating:          review.Rating,
		Text:            review.Text,
		CreatedAt:       review.CreatedAt,
	}
}

// CreateRequest is the payload for posting a review.
type CreateRequest struct {
	AdvertisementID uuid.UUID `json:"advertisement_id" validate:"required"`
	Rating          int       `json:"rating" validate:"required,gte=1,lte=5"`
	Text            string    `json:"text" validate:"required,min=3,max=2000"`
}
