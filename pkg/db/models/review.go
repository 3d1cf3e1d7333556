package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a member's rating of an advertisement. One review per author
// per advertisement, enforced by a composite unique index.
type Review struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	AdvertisementID uuid.UUID `gorm:"column:advertisement_id;type:uuid;not null;uniqueIndex:idx_reviews_ad_author"`
	AuthorID        uuid.UUID `gorm:"column:author_id;type:uuid;not null;uniqueIndex:idx_reviews_ad_author"`
	AuthorName      string    `gorm:"column:author_name;not null"`
	Rating          int       `gorm:"column:rating;not null"`
	Text            string    `gorm:"column:text;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
