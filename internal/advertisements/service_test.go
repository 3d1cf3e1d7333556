package advertisements

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Advertisement{}, &models.Review{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func testService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := testDB(t)
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		Profiles: NewProfilesRepository(conn),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB, userType enums.UserType, name, city string, age int) *models.User {
	t.Helper()
	user := &models.User{
		ID:            uuid.New(),
		Email:         uuid.NewString() + "@example.com",
		PasswordHash:  "hash",
		UserType:      userType,
		IsActive:      true,
		EmailVerified: true,
		Name:          &name,
		City:          &city,
	}
	if age > 0 {
		user.Age = &age
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func createRequest() CreateRequest {
	return CreateRequest{
		Title:       "Evenings in Mitte",
		Description: "A long enough description for the listing.",
		Category:    "companionship",
		City:        "Berlin",
	}
}

func TestCreateEnforcesOneAdPerUser(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	user := seedUser(t, conn, enums.UserTypeEscort, "Ava", "Berlin", 25)

	ad, err := svc.Create(ctx, user.ID, createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ad.Status != enums.AdStatusActive {
		t.Fatalf("expected active status, got %s", ad.Status)
	}

	_, err = svc.Create(ctx, user.ID, createRequest())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on second ad, got %v", err)
	}
}

func TestGetPublicHidesNonActive(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	user := seedUser(t, conn, enums.UserTypeEscort, "Ava", "Berlin", 25)

	ad, err := svc.Create(ctx, user.ID, createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetPublic(ctx, ad.ID)
	if err != nil {
		t.Fatalf("get public: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("expected view counted, got %d", got.Views)
	}

	if err := conn.Model(&models.Advertisement{}).Where("id = ?", ad.ID).
		UpdateColumn("status", enums.AdStatusHidden).Error; err != nil {
		t.Fatalf("hide: %v", err)
	}
	_, err = svc.GetPublic(ctx, ad.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for hidden ad, got %v", err)
	}
}

func TestUpdateScopedToOwner(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, enums.UserTypeEscort, "Ava", "Berlin", 25)
	other := seedUser(t, conn, enums.UserTypeEscort, "Mia", "Hamburg", 27)

	ad, err := svc.Create(ctx, owner.ID, createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Updated title"
	_, err = svc.Update(ctx, other.ID, ad.ID, UpdateRequest{Title: &title})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign update, got %v", err)
	}

	updated, err := svc.Update(ctx, owner.ID, ad.ID, UpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title not updated: %s", updated.Title)
	}
}

func TestPromoteSetsExpiry(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	user := seedUser(t, conn, enums.UserTypeEscort, "Ava", "Berlin", 25)

	ad, err := svc.Create(ctx, user.ID, createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	promoted, err := svc.Promote(ctx, user.ID, ad.ID, PromoteRequest{PromotionType: "featured", Days: 7})
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !promoted.IsPremium || promoted.PromotionType == nil || *promoted.PromotionType != "featured" {
		t.Fatalf("promotion not applied: %+v", promoted)
	}
	if promoted.PromotionExpires == nil || !promoted.PromotionExpires.After(promoted.CreatedAt) {
		t.Fatal("expected a future promotion expiry")
	}
}

func TestVerifySubmitsDocumentForOwner(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, enums.UserTypeEscort, "Ava", "Berlin", 25)
	other := seedUser(t, conn, enums.UserTypeEscort, "Mia", "Hamburg", 27)

	ad, err := svc.Create(ctx, owner.ID, createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ad.VerificationStatus != enums.VerificationUnverified || ad.IsVerified {
		t.Fatalf("new listings must start unverified: %+v", ad)
	}

	req := VerifyRequest{IDType: "passport", IDNumber: "C01X00T47"}
	_, err = svc.Verify(ctx, other.ID, ad.ID, req)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign verify, got %v", err)
	}

	submitted, err := svc.Verify(ctx, owner.ID, ad.ID, req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if submitted.VerificationStatus != enums.VerificationSubmitted {
		t.Fatalf("expected submitted status, got %s", submitted.VerificationStatus)
	}
	if submitted.IsVerified {
		t.Fatal("submission alone must not mark the listing verified")
	}

	var stored models.Advertisement
	if err := conn.First(&stored, "id = ?", ad.ID).Error; err != nil {
		t.Fatalf("load advertisement: %v", err)
	}
	if stored.IDType == nil || *stored.IDType != "passport" || stored.IDNumber == nil || *stored.IDNumber != "C01X00T47" {
		t.Fatalf("document not stored: %+v", stored)
	}
}

func TestHideOwnedBy(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	user := seedUser(t, conn, enums.UserTypeEscort, "Ava", "Berlin", 25)

	if _, err := svc.Create(ctx, user.ID, createRequest()); err != nil {
		t.Fatalf("create: %v", err)
	}

	hidden, err := svc.HideOwnedBy(ctx, user.ID)
	if err != nil {
		t.Fatalf("hide: %v", err)
	}
	if hidden != 1 {
		t.Fatalf("expected one hidden listing, got %d", hidden)
	}

	// Already hidden rows are not touched again.
	hidden, err = svc.HideOwnedBy(ctx, user.ID)
	if err != nil {
		t.Fatalf("second hide: %v", err)
	}
	if hidden != 0 {
		t.Fatalf("expected idempotent hide, got %d", hidden)
	}
}

func TestSearchProfilesFilters(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()

	seedUser(t, conn, enums.UserTypeEscort, "Ava", "Berlin", 25)
	seedUser(t, conn, enums.UserTypeEscort, "Mia", "Hamburg", 31)
	seedUser(t, conn, enums.UserTypeAgency, "Nova Agency", "Berlin", 0)
	member := seedUser(t, conn, enums.UserTypeMember, "Sam", "Berlin", 0)
	_ = member

	result, err := svc.SearchProfiles(ctx, SearchParams{City: "berlin"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 berlin providers, got %d", result.Total)
	}

	result, err = svc.SearchProfiles(ctx, SearchParams{MinAge: 30})
	if err != nil {
		t.Fatalf("search by age: %v", err)
	}
	if result.Total != 1 || result.Profiles[0].DisplayName != "Mia" {
		t.Fatalf("unexpected age filter result: %+v", result)
	}

	_, err = svc.SearchProfiles(ctx, SearchParams{UserType: "bogus"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad user type, got %v", err)
	}
}

func TestStats(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()

	escort := seedUser(t, conn, enums.UserTypeEscort, "Ava", "Berlin", 25)
	seedUser(t, conn, enums.UserTypeAgency, "Nova Agency", "Berlin", 0)
	if _, err := svc.Create(ctx, escort.ID, createRequest()); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProfiles != 2 {
		t.Fatalf("expected 2 profiles, got %d", stats.TotalProfiles)
	}
	if stats.ActiveAds != 1 || stats.CitiesWithAds != 1 {
		t.Fatalf("unexpected ad stats: %+v", stats)
	}
	if stats.CountsByType["escort"] != 1 {
		t.Fatalf("unexpected type counts: %+v", stats.CountsByType)
	}
}
