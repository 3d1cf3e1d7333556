package advertisements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/logger"
)

const defaultSearchLimit = 20

// Service defines the advertisement and public directory operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*AdvertisementDTO, error)
	Mine(ctx context.Context, userID uuid.UUID) (*AdvertisementDTO, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*AdvertisementDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*AdvertisementDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Promote(ctx context.Context, userID, id uuid.UUID, req PromoteRequest) (*AdvertisementDTO, error)
	Verify(ctx context.Context, userID, id uuid.UUID, req VerifyRequest) (*AdvertisementDTO, error)
	HideOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error)

	SearchProfiles(ctx context.Context, params SearchParams) (*SearchResult, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	repo     Repository
	profiles ProfilesRepository
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the dependencies for the advertisements service.
type ServiceParams struct {
	Repo     Repository
	Profiles ProfilesRepository
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewService wires the advertisements service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "advertisements repository required")
	}
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profiles repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, profiles: params.Profiles, logg: params.Logger, now: now}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*AdvertisementDTO, error) {
	ad := &models.Advertisement{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		City:         req.City,
		PricePerHour: req.PricePerHour,
		Status:       enums.AdStatusActive,

		VerificationStatus: enums.VerificationUnverified,
	}

	if err := s.repo.Create(ctx, ad); err != nil {
		if db.IsUniqueViolation(err, "idx_advertisements_user") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have an advertisement")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create advertisement")
	}
	return FromModel(ad), nil
}

func (s *service) Mine(ctx context.Context, userID uuid.UUID) (*AdvertisementDTO, error) {
	ad, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load advertisement")
	}
	return FromModel(ad), nil
}

// GetPublic returns an active listing and counts the view. Hidden and
// pending listings are invisible to the public.
func (s *service) GetPublic(ctx context.Context, id uuid.UUID) (*AdvertisementDTO, error) {
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load advertisement")
	}
	if ad.Status != enums.AdStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
	}

	if err := s.repo.IncrementViews(ctx, ad.ID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "advertisement_id", ad.ID.String()), "view count update failed")
	} else {
		ad.Views++
	}
	return FromModel(ad), nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*AdvertisementDTO, error) {
	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.PricePerHour != nil {
		fields["price_per_hour"] = *req.PricePerHour
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	updated, err := s.repo.UpdateFields(ctx, id, userID, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update advertisement")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
	}

	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload advertisement")
	}
	return FromModel(ad), nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete advertisement")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
	}
	return nil
}

func (s *service) Promote(ctx context.Context, userID, id uuid.UUID, req PromoteRequest) (*AdvertisementDTO, error) {
	expires := s.now().UTC().AddDate(0, 0, req.Days)
	updated, err := s.repo.UpdateFields(ctx, id, userID, map[string]any{
		"promotion_type":    req.PromotionType,
		"promotion_expires": expires,
		"is_premium":        true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote advertisement")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
	}

	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload advertisement")
	}
	return FromModel(ad), nil
}

// Verify records the owner's identity document and queues the listing
// for manual review. Resubmitting overwrites the previous document and
// resets the listing to submitted.
func (s *service) Verify(ctx context.Context, userID, id uuid.UUID, req VerifyRequest) (*AdvertisementDTO, error) {
	updated, err := s.repo.UpdateFields(ctx, id, userID, map[string]any{
		"id_type":             req.IDType,
		"id_number":           req.IDNumber,
		"verification_status": enums.VerificationSubmitted,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit verification")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
	}

	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload advertisement")
	}
	return FromModel(ad), nil
}

func (s *service) HideOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.HideOwnedBy(ctx, userID)
}

func (s *service) SearchProfiles(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = defaultSearchLimit
	}
	if params.UserType != "" {
		if _, err := enums.ParseUserType(params.UserType); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user type filter")
		}
	}

	rows, total, err := s.profiles.Search(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search profiles")
	}

	profiles := make([]ProfileDTO, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, toProfile(&rows[i], nil))
	}
	return &SearchResult{Profiles: profiles, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	user, err := s.profiles.FindPublic(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	var adDTO *AdvertisementDTO
	ad, err := s.repo.FindByUserID(ctx, user.ID)
	if err == nil && ad.Status == enums.AdStatusActive {
		adDTO = FromModel(ad)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load advertisement")
	}

	profile := toProfile(user, adDTO)
	return &profile, nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	counts, err := s.profiles.CountByType(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count profiles")
	}
	var total int64
	for _, c := range counts {
		total += c
	}

	activeAds, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count advertisements")
	}
	cities, err := s.repo.CountActiveCities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cities")
	}

	return &StatsDTO{
		TotalProfiles: total,
		ActiveAds:     activeAds,
		CountsByType:  counts,
		CitiesWithAds: cities,
	}, nil
}

func toProfile(user *models.User, ad *AdvertisementDTO) ProfileDTO {
	display := ""
	for _, candidate := range []*string{user.Name, user.Username, user.AgencyName, user.ClubName} {
		if candidate != nil && *candidate != "" {
			display = *candidate
			break
		}
	}
	return ProfileDTO{
		ID:            user.ID,
		UserType:      user.UserType,
		DisplayName:   display,
		City:          user.City,
		Age:           user.Age,
		CreatedAt:     user.CreatedAt,
		Advertisement: ad,
	}
}
