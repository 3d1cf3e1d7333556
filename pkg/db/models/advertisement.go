package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velora-app/velora-backend/pkg/enums"
)

// Advertisement is a provider's single public listing.
type Advertisement struct {
	ID          uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_advertisements_user"`
	Title       string                    `gorm:"column:title;not null"`
	Description string                    `gorm:"column:description;not null"`
	Category    string                    `gorm:"column:category;not null"`
	City        string                    `gorm:"column:city;not null"`
	PricePerHour *decimal.Decimal         `gorm:"column:price_per_hour;type:numeric(12,2)"`
	Status      enums.AdvertisementStatus `gorm:"column:status;type:text;not null;default:pending"`
	IsPremium   bool                      `gorm:"column:is_premium;not null;default:false"`

	// Identity verification. IDType and IDNumber are set when the owner
	// submits documents; status moves unverified -> submitted -> verified.
	VerificationStatus enums.VerificationStatus `gorm:"column:verification_status;type:text;not null;default:unverified"`
	IDType             *string                  `gorm:"column:id_type"`
	IDNumber           *string                  `gorm:"column:id_number"`

	PromotionType    *string    `gorm:"column:promotion_type"`
	PromotionExpires *time.Time `gorm:"column:promotion_expires"`

	// Maintained transactionally by the reviews service.
	RatingAvg   decimal.Decimal `gorm:"column:rating_avg;type:numeric(3,2);not null;default:0"`
	RatingCount int             `gorm:"column:rating_count;not null;default:0"`

	Views     int       `gorm:"column:views;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
