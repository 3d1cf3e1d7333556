package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/internal/advertisements"
	"github.com/velora-app/velora-backend/internal/auth"
	"github.com/velora-app/velora-backend/internal/billing"
	"github.com/velora-app/velora-backend/internal/messages"
	"github.com/velora-app/velora-backend/internal/notifications"
	"github.com/velora-app/velora-backend/internal/reviews"
	"github.com/velora-app/velora-backend/internal/savedsearches"
	"github.com/velora-app/velora-backend/internal/users"
	pkgAuth "github.com/velora-app/velora-backend/pkg/auth"
	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	"github.com/velora-app/velora-backend/pkg/logger"
	"github.com/velora-app/velora-backend/pkg/metrics"
	"github.com/velora-app/velora-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

// stubSessionUsers acts as the loader behind the auth middleware. Every
// lookup returns the same account so token version mismatches are easy to
// stage per test.
type stubSessionUsers struct {
	user *models.User
}

func (s stubSessionUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubAuthService struct {
	meFn func(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

func (stubAuthService) RegisterEscort(ctx context.Context, req auth.RegisterEscortRequest) (*auth.RegisterResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) RegisterMember(ctx context.Context, req auth.RegisterMemberRequest) (*auth.RegisterResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) RegisterAgency(ctx context.Context, req auth.RegisterAgencyRequest) (*auth.RegisterResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) RegisterClub(ctx context.Context, req auth.RegisterClubRequest) (*auth.RegisterResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.SessionResponse, error) {
	panic("unimplemented")
}

func (s stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	if s.meFn != nil {
		return s.meFn(ctx, userID)
	}
	return &users.UserDTO{ID: userID, IsActive: true}, nil
}

func (stubAuthService) AcceptPrivacyConsent(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubAuthService) SoftDelete(ctx context.Context, userID uuid.UUID) (*auth.SoftDeleteResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) VerifyEmail(ctx context.Context, token string) (*auth.SessionResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) ResendVerification(ctx context.Context, email string) error {
	panic("unimplemented")
}

func (stubAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req auth.ChangePasswordRequest) error {
	panic("unimplemented")
}

func (stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	panic("unimplemented")
}

func (stubAuthService) ValidateResetToken(ctx context.Context, token string) error {
	return nil
}

func (stubAuthService) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	panic("unimplemented")
}

type stubAdsService struct {
	searchFn func(ctx context.Context, params advertisements.SearchParams) (*advertisements.SearchResult, error)
}

func (stubAdsService) Create(ctx context.Context, userID uuid.UUID, req advertisements.CreateRequest) (*advertisements.AdvertisementDTO, error) {
	panic("unimplemented")
}

func (stubAdsService) Mine(ctx context.Context, userID uuid.UUID) (*advertisements.AdvertisementDTO, error) {
	panic("unimplemented")
}

func (stubAdsService) GetPublic(ctx context.Context, id uuid.UUID) (*advertisements.AdvertisementDTO, error) {
	panic("unimplemented")
}

func (stubAdsService) Update(ctx context.Context, userID, id uuid.UUID, req advertisements.UpdateRequest) (*advertisements.AdvertisementDTO, error) {
	panic("unimplemented")
}

func (stubAdsService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubAdsService) Promote(ctx context.Context, userID, id uuid.UUID, req advertisements.PromoteRequest) (*advertisements.AdvertisementDTO, error) {
	panic("unimplemented")
}

func (stubAdsService) Verify(ctx context.Context, userID, id uuid.UUID, req advertisements.VerifyRequest) (*advertisements.AdvertisementDTO, error) {
	panic("unimplemented")
}

func (stubAdsService) HideOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	panic("unimplemented")
}

func (s stubAdsService) SearchProfiles(ctx context.Context, params advertisements.SearchParams) (*advertisements.SearchResult, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, params)
	}
	return &advertisements.SearchResult{}, nil
}

func (stubAdsService) GetProfile(ctx context.Context, id uuid.UUID) (*advertisements.ProfileDTO, error) {
	panic("unimplemented")
}

func (stubAdsService) Stats(ctx context.Context) (*advertisements.StatsDTO, error) {
	return &advertisements.StatsDTO{}, nil
}

type stubReviewsService struct{}

func (stubReviewsService) Create(ctx context.Context, authorID uuid.UUID, authorName string, req reviews.CreateRequest) (*reviews.ReviewDTO, error) {
	panic("unimplemented")
}

func (stubReviewsService) ListByAdvertisement(ctx context.Context, adID uuid.UUID) ([]reviews.ReviewDTO, error) {
	return nil, nil
}

func (stubReviewsService) ListMine(ctx context.Context, authorID uuid.UUID) ([]reviews.ReviewDTO, error) {
	return nil, nil
}

func (stubReviewsService) Delete(ctx context.Context, authorID, reviewID uuid.UUID) error {
	panic("unimplemented")
}

type stubMessagesService struct{}

func (stubMessagesService) Send(ctx context.Context, fromID uuid.UUID, fromName string, req messages.SendRequest) (*messages.MessageDTO, error) {
	panic("unimplemented")
}

func (stubMessagesService) Reply(ctx context.Context, fromID uuid.UUID, fromName string, parentID uuid.UUID, req messages.ReplyRequest) (*messages.MessageDTO, error) {
	panic("unimplemented")
}

func (stubMessagesService) Inbox(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*messages.InboxResult, error) {
	return &messages.InboxResult{}, nil
}

func (stubMessagesService) Thread(ctx context.Context, userID, messageID uuid.UUID) ([]messages.MessageDTO, error) {
	panic("unimplemented")
}

func (stubMessagesService) MarkRead(ctx context.Context, userID, messageID uuid.UUID) error {
	panic("unimplemented")
}

func (stubMessagesService) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	panic("unimplemented")
}

type stubNotificationsService struct{}

func (stubNotificationsService) Notify(ctx context.Context, params notifications.NotifyParams) error {
	return nil
}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	panic("unimplemented")
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	panic("unimplemented")
}

func (stubNotificationsService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubBillingService struct{}

func (stubBillingService) Balance(ctx context.Context, userID uuid.UUID) (*billing.BalanceDTO, error) {
	return &billing.BalanceDTO{}, nil
}

func (stubBillingService) Transactions(ctx context.Context, params billing.TransactionListParams) (*billing.TransactionListResult, error) {
	return &billing.TransactionListResult{}, nil
}

func (stubBillingService) Invoices(ctx context.Context, userID uuid.UUID) ([]models.Invoice, error) {
	return nil, nil
}

func (stubBillingService) Invoice(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	panic("unimplemented")
}

type stubSavedSearchesService struct{}

func (stubSavedSearchesService) Create(ctx context.Context, userID uuid.UUID, req savedsearches.CreateRequest) (*models.SavedSearch, error) {
	panic("unimplemented")
}

func (stubSavedSearchesService) List(ctx context.Context, userID uuid.UUID) ([]models.SavedSearch, error) {
	return nil, nil
}

func (stubSavedSearchesService) Delete(ctx context.Context, userID, searchID uuid.UUID) error {
	panic("unimplemented")
}

type stubMediaService struct{}

func (stubMediaService) ListPhotos(ctx context.Context, userID uuid.UUID) ([]models.UserMedia, error) {
	return nil, nil
}

func (stubMediaService) ListVideos(ctx context.Context, userID uuid.UUID) ([]models.UserMedia, error) {
	return nil, nil
}

func (stubMediaService) Upload(ctx context.Context, userID uuid.UUID, kind enums.MediaKind, fileName string, data io.Reader) (*models.UserMedia, error) {
	panic("unimplemented")
}

func (stubMediaService) Delete(ctx context.Context, userID, mediaID uuid.UUID) error {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "velora-test",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, sessionUser *models.User) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	httpMetrics := metrics.NewHTTPMetrics(prometheus.NewRegistry())
	return NewRouter(
		cfg,
		logg,
		stubPinger{},         // db.Pinger
		(*redis.Client)(nil), // *redis.Client
		stubPinger{},         // mediahost.Pinger
		httpMetrics,
		nil,
		Services{
			Auth:           stubAuthService{},
			Advertisements: stubAdsService{},
			Reviews:        stubReviewsService{},
			Messages:       stubMessagesService{},
			Notifications:  stubNotificationsService{},
			Billing:        stubBillingService{},
			SavedSearches:  stubSavedSearchesService{},
			Media:          stubMediaService{},
			SessionUsers:   stubSessionUsers{user: sessionUser},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID, tokenVersion int) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:       userID,
		Email:        "routing@example.com",
		UserType:     enums.UserTypeMember,
		TokenVersion: tokenVersion,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func sessionUser(id uuid.UUID, tokenVersion int) *models.User {
	return &models.User{
		ID:           id,
		Email:        "routing@example.com",
		UserType:     enums.UserTypeMember,
		TokenVersion: tokenVersion,
		IsActive:     true,
	}
}

func TestLiveEndpointIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Velora-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	router := newTestRouter(cfg, sessionUser(userID, 2))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, userID, 2))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid session got %d", resp.Code)
	}
}

func TestBumpedTokenVersionRevokesSession(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	router := newTestRouter(cfg, sessionUser(userID, 3))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, userID, 2))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after version bump got %d", resp.Code)
	}
}

func TestDeactivatedUserIsRejected(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	user := sessionUser(userID, 1)
	user.IsActive = false
	router := newTestRouter(cfg, user)

	req := httptest.NewRequest(http.MethodGet, "/api/billing/balance", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, userID, 1))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deactivated user got %d", resp.Code)
	}
}

func TestProfileDirectoryIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/profiles/?city=berlin", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public directory got %d", resp.Code)
	}
}

func TestResetTokenValidationIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/reset-password/validate?token=abc", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for reset token validation got %d", resp.Code)
	}
}
