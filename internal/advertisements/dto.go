package advertisements

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
)

// AdvertisementDTO is the transport shape for a listing.
type AdvertisementDTO struct {
	ID                 uuid.UUID                 `json:"id"`
	UserID             uuid.UUID                 `json:"user_id"`
	Title              string                    `json:"title"`
	Description        string                    `json:"description"`
	Category           string                    `json:"category"`
	City               string                    `json:"city"`
	PricePerHour       *decimal.Decimal          `json:"price_per_hour,omitempty"`
	Status             enums.AdvertisementStatus `json:"status"`
	VerificationStatus enums.VerificationStatus  `json:"verification_status"`
	IsVerified         bool                      `json:"is_verified"`
	IsPremium          bool                      `json:"is_premium"`
	PromotionType      *string                   `json:"promotion_type,omitempty"`
	PromotionExpires   *time.Time                `json:"promotion_expires,omitempty"`
	RatingAvg          decimal.Decimal           `json:"rating_avg"`
	RatingCount        int                       `json:"rating_count"`
	Views              int                       `json:"views"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

func FromModel(ad *models.Advertisement) *AdvertisementDTO {
	if ad == nil {
		return nil
	}
	return &AdvertisementDTO{
		ID:                 ad.ID,
		UserID:             ad.UserID,
		Title:              ad.Title,
		Description:        ad.Description,
		Category:           ad.Category,
		City:               ad.City,
		PricePerHour:       ad.PricePerHour,
		Status:             ad.Status,
		VerificationStatus: ad.VerificationStatus,
		IsVerified:         ad.VerificationStatus == enums.VerificationVerified,
		IsPremium:          ad.IsPremium,
		PromotionType:      ad.PromotionType,
		PromotionExpires:   ad.PromotionExpires,
		RatingAvg:          ad.RatingAvg,
		RatingCount:        ad.RatingCount,
		Views:              ad.Views,
		CreatedAt:          ad.CreatedAt,
		UpdatedAt:          ad.UpdatedAt,
	}
}

// CreateRequest is the payload for creating the caller's listing.
type CreateRequest struct {
	Title        string           `json:"title" validate:"required,min=3,max=150"`
	Description  string           `json:"description" validate:"required,min=10,max=5000"`
	Category     string           `json:"category" validate:"required,min=2,max=80"`
	City         string           `json:"city" validate:"required,min=2,max=100"`
	PricePerHour *decimal.Decimal `json:"price_per_hour,omitempty"`
}

// UpdateRequest carries the mutable listing fields. Nil means keep.
type UpdateRequest struct {
	Title        *string          `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	Category     *string          `json:"category,omitempty" validate:"omitempty,min=2,max=80"`
	City         *string          `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	PricePerHour *decimal.Decimal `json:"price_per_hour,omitempty"`
}

// VerifyRequest carries the identity document for a verification submission.
type VerifyRequest struct {
	IDType   string `json:"id_type" validate:"required,min=2,max=50"`
	IDNumber string `json:"id_number" validate:"required,min=3,max=100"`
}

// PromoteRequest selects a promotion tier and duration.
type PromoteRequest struct {
	PromotionType string `json:"promotion_type" validate:"required,oneof=featured top_of_search premium_badge"`
	Days          int    `json:"days" validate:"required,gte=1,lte=90"`
}

// ProfileDTO is the public subset of a user shown in search results.
type ProfileDTO struct {
	ID            uuid.UUID         `json:"id"`
	UserType      enums.UserType    `json:"user_type"`
	DisplayName   string            `json:"display_name"`
	City          *string           `json:"city,omitempty"`
	Age           *int              `json:"age,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Advertisement *AdvertisementDTO `json:"advertisement,omitempty"`
}

// SearchParams filters the public profile search.
type SearchParams struct {
	City     string
	UserType string
	MinAge   int
	MaxAge   int
	Query    string
	Page     int
	Limit    int
}

// SearchResult is one page of profiles plus the total match count.
type SearchResult struct {
	Profiles []ProfileDTO `json:"profiles"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
}

// StatsDTO summarizes the public directory.
type StatsDTO struct {
	TotalProfiles  int64            `json:"total_profiles"`
	ActiveAds      int64            `json:"active_ads"`
	CountsByType   map[string]int64 `json:"counts_by_type"`
	CitiesWithAds  int64            `json:"cities_with_ads"`
}
