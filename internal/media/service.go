package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/logger"
	"github.com/velora-app/velora-backend/pkg/storage/mediahost"
)

// Host is the slice of the media host client the service needs.
type Host interface {
	Upload(ctx context.Context, kind enums.MediaKind, fileName string, data io.Reader) (*mediahost.Asset, error)
	Destroy(ctx context.Context, kind enums.MediaKind, publicID string) error
}

// Service manages a user's profile photos and videos.
type Service interface {
	ListPhotos(ctx context.Context, userID uuid.UUID) ([]models.UserMedia, error)
	ListVideos(ctx context.Context, userID uuid.UUID) ([]models.UserMedia, error)
	Upload(ctx context.Context, userID uuid.UUID, kind enums.MediaKind, fileName string, data io.Reader) (*models.UserMedia, error)
	Delete(ctx context.Context, userID, mediaID uuid.UUID) error
}

// ServiceParams bundles media service dependencies.
type ServiceParams struct {
	Repo   Repository
	Host   Host
	Limits config.MediaHostConfig
	Logger *logger.Logger
}

type service struct {
	repo   Repository
	host   Host
	limits config.MediaHostConfig
	logg   *logger.Logger
}

// NewService wires media dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media repository required")
	}
	if params.Host == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media host client required")
	}
	if params.Logger == nil {
		params.Logger = logger.New(logger.Options{ServiceName: "media"})
	}
	return &service{
		repo:   params.Repo,
		host:   params.Host,
		limits: params.Limits,
		logg:   params.Logger,
	}, nil
}

func (s *service) ListPhotos(ctx context.Context, userID uuid.UUID) ([]models.UserMedia, error) {
	return s.list(ctx, userID, enums.MediaKindImage)
}

func (s *service) ListVideos(ctx context.Context, userID uuid.UUID) ([]models.UserMedia, error) {
	return s.list(ctx, userID, enums.MediaKindVideo)
}

func (s *service) list(ctx context.Context, userID uuid.UUID, kind enums.MediaKind) ([]models.UserMedia, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	items, err := s.repo.ListByKind(ctx, userID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}
	return items, nil
}

func (s *service) Upload(ctx context.Context, userID uuid.UUID, kind enums.MediaKind, fileName string, data io.Reader) (*models.UserMedia, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	if data == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload data required")
	}

	count, err := s.repo.CountByKind(ctx, userID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count media")
	}
	if limit := s.kindLimit(kind); count >= limit {
		label := "photos"
		if kind == enums.MediaKindVideo {
			label = "videos"
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("maximum of %d %s reached", limit, label))
	}

	maxBytes := int64(s.limits.MaxUploadMB) << 20
	buffered, err := readCapped(data, maxBytes)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %dMB upload limit", s.limits.MaxUploadMB))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "read upload")
	}

	asset, err := s.host.Upload(ctx, kind, sanitizeFileName(fileName), bytes.NewReader(buffered))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload to media host")
	}

	item := &models.UserMedia{
		ID:       uuid.New(),
		UserID:   userID,
		Kind:     kind,
		URL:      asset.URL,
		PublicID: asset.PublicID,
		Width:    asset.Width,
		Height:   asset.Height,
		Format:   asset.Format,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		// The asset is already on the host. Best effort cleanup so we do
		// not strand it there.
		if destroyErr := s.host.Destroy(ctx, kind, asset.PublicID); destroyErr != nil {
			s.logg.Error(s.logg.WithField(ctx, "public_id", asset.PublicID), "orphaned media host asset", destroyErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, userID, mediaID uuid.UUID) error {
	if mediaID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "media id required")
	}

	item, err := s.repo.FindByID(ctx, userID, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
	}

	if err := s.host.Destroy(ctx, item.Kind, item.PublicID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete from media host")
	}
	deleted, err := s.repo.Delete(ctx, userID, mediaID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
	}
	return nil
}

func (s *service) kindLimit(kind enums.MediaKind) int64 {
	if kind == enums.MediaKindVideo {
		return int64(s.limits.MaxVideos)
	}
	return int64(s.limits.MaxPhotos)
}

var errTooLarge = errors.New("upload too large")

// readCapped reads at most max bytes and fails once a single extra byte shows
// up, so oversized uploads are rejected before they reach the host.
func readCapped(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, errTooLarge
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload")
	}
	return data, nil
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload"
	}
	// Strip any path components a client might smuggle in.
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
