package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/storage/mediahost"
)

type stubHost struct {
	uploads   int
	destroyed []string
	uploadErr error
}

func (h *stubHost) Upload(_ context.Context, kind enums.MediaKind, fileName string, data io.Reader) (*mediahost.Asset, error) {
	if h.uploadErr != nil {
		return nil, h.uploadErr
	}
	if _, err := io.Copy(io.Discard, data); err != nil {
		return nil, err
	}
	h.uploads++
	publicID := fmt.Sprintf("velora/%s-%d", kind, h.uploads)
	return &mediahost.Asset{
		PublicID: publicID,
		URL:      "https://cdn.example/" + publicID + ".jpg",
		Width:    800,
		Height:   600,
		Format:   "jpg",
	}, nil
}

func (h *stubHost) Destroy(_ context.Context, _ enums.MediaKind, publicID string) error {
	h.destroyed = append(h.destroyed, publicID)
	return nil
}

func testService(t *testing.T) (Service, *stubHost, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.UserMedia{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	host := &stubHost{}
	svc, err := NewService(ServiceParams{
		Repo: NewRepository(conn),
		Host: host,
		Limits: config.MediaHostConfig{
			MaxUploadMB: 1,
			MaxPhotos:   2,
			MaxVideos:   1,
		},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, host, conn
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}

func TestUploadPersistsAsset(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()
	userID := uuid.New()

	item, err := svc.Upload(ctx, userID, enums.MediaKindImage, "selfie.jpg", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if item.PublicID == "" || item.URL == "" || item.Width != 800 {
		t.Fatalf("unexpected item %+v", item)
	}

	photos, err := svc.ListPhotos(ctx, userID)
	if err != nil {
		t.Fatalf("list photos: %v", err)
	}
	if len(photos) != 1 {
		t.Fatalf("expected 1 photo, got %d", len(photos))
	}
	videos, err := svc.ListVideos(ctx, userID)
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if len(videos) != 0 {
		t.Fatalf("expected no videos, got %d", len(videos))
	}
}

func TestUploadEnforcesKindCaps(t *testing.T) {
	svc, host, _ := testService(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := svc.Upload(ctx, userID, enums.MediaKindImage, "p.jpg", strings.NewReader("x")); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}
	_, err := svc.Upload(ctx, userID, enums.MediaKindImage, "p.jpg", strings.NewReader("x"))
	assertCode(t, err, pkgerrors.CodeValidation)

	// The photo cap must not block videos.
	if _, err := svc.Upload(ctx, userID, enums.MediaKindVideo, "clip.mp4", strings.NewReader("x")); err != nil {
		t.Fatalf("video upload: %v", err)
	}
	_, err = svc.Upload(ctx, userID, enums.MediaKindVideo, "clip2.mp4", strings.NewReader("x"))
	assertCode(t, err, pkgerrors.CodeValidation)

	if host.uploads != 3 {
		t.Fatalf("expected 3 host uploads, got %d", host.uploads)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, host, _ := testService(t)

	huge := strings.NewReader(strings.Repeat("a", (1<<20)+1))
	_, err := svc.Upload(context.Background(), uuid.New(), enums.MediaKindImage, "big.jpg", huge)
	assertCode(t, err, pkgerrors.CodeValidation)
	if host.uploads != 0 {
		t.Fatal("oversized upload must not reach the host")
	}
}

func TestDeleteProxiesHostDestroy(t *testing.T) {
	svc, host, conn := testService(t)
	ctx := context.Background()
	userID := uuid.New()

	item, err := svc.Upload(ctx, userID, enums.MediaKindImage, "p.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	assertCode(t, svc.Delete(ctx, uuid.New(), item.ID), pkgerrors.CodeNotFound)
	if len(host.destroyed) != 0 {
		t.Fatal("foreign delete must not reach the host")
	}

	if err := svc.Delete(ctx, userID, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(host.destroyed) != 1 || host.destroyed[0] != item.PublicID {
		t.Fatalf("expected destroy of %s, got %v", item.PublicID, host.destroyed)
	}

	var count int64
	if err := conn.Model(&models.UserMedia{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected row removed, found %d", count)
	}
}
