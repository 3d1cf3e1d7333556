package savedsearches

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/velora-app/velora-backend/pkg/db/models"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
)

// maxSavedSearches caps how many searches a user can keep.
const maxSavedSearches = 50

// Service manages a user's saved profile searches.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.SavedSearch, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.SavedSearch, error)
	Delete(ctx context.Context, userID, searchID uuid.UUID) error
}

// CreateRequest describes a search to persist.
type CreateRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	QueryString  string `json:"query_string" validate:"required,max=2000"`
	ResultsCount int    `json:"results_count" validate:"gte=0"`
}

type service struct {
	repo Repository
}

// NewService wires saved-search dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "saved-search repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.SavedSearch, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count saved searches")
	}
	if count >= maxSavedSearches {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "saved search limit reached")
	}

	search := &models.SavedSearch{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		QueryString:  strings.TrimSpace(req.QueryString),
		ResultsCount: req.ResultsCount,
	}
	if err := s.repo.Create(ctx, search); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create saved search")
	}
	return search, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.SavedSearch, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	searches, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list saved searches")
	}
	return searches, nil
}

func (s *service) Delete(ctx context.Context, userID, searchID uuid.UUID) error {
	if searchID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "search id required")
	}
	deleted, err := s.repo.Delete(ctx, userID, searchID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete saved search")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "saved search not found")
	}
	return nil
}
