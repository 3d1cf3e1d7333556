package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velora-app/velora-backend/api/controllers"
	"github.com/velora-app/velora-backend/api/middleware"
	"github.com/velora-app/velora-backend/internal/advertisements"
	"github.com/velora-app/velora-backend/internal/auth"
	"github.com/velora-app/velora-backend/internal/billing"
	"github.com/velora-app/velora-backend/internal/media"
	"github.com/velora-app/velora-backend/internal/messages"
	"github.com/velora-app/velora-backend/internal/notifications"
	"github.com/velora-app/velora-backend/internal/reviews"
	"github.com/velora-app/velora-backend/internal/savedsearches"
	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db"
	"github.com/velora-app/velora-backend/pkg/enums"
	"github.com/velora-app/velora-backend/pkg/logger"
	"github.com/velora-app/velora-backend/pkg/metrics"
	"github.com/velora-app/velora-backend/pkg/redis"
	"github.com/velora-app/velora-backend/pkg/storage/mediahost"
)

// Services bundles everything the router mounts. Handlers guard against a nil
// service and answer 500 rather than panic, so partial wiring is safe in tests.
type Services struct {
	Auth           auth.Service
	Advertisements advertisements.Service
	Reviews        reviews.Service
	Messages       messages.Service
	Notifications  notifications.Service
	Billing        billing.Service
	SavedSearches  savedsearches.Service
	Media          media.Service

	// SessionUsers backs the auth middleware and resolves sender display names.
	SessionUsers middleware.SessionUserLoader
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *redis.Client,
	host mediahost.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	authed := middleware.Auth(cfg.JWT, svcs.SessionUsers, logg)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	loginLimited := middleware.AuthRateLimit(loginPolicy, redisClient, logg)
	registerLimited := middleware.AuthRateLimit(registerPolicy, redisClient, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, host, logg))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(registerLimited).Route("/register", func(r chi.Router) {
				r.Post("/escort", controllers.RegisterEscort(svcs.Auth, logg))
				r.Post("/member", controllers.RegisterMember(svcs.Auth, logg))
				r.Post("/agency", controllers.RegisterAgency(svcs.Auth, logg))
				r.Post("/club", controllers.RegisterClub(svcs.Auth, logg))
			})
			r.With(loginLimited).Post("/login", controllers.Login(svcs.Auth, logg))
			r.Get("/verify-email", controllers.VerifyEmail(svcs.Auth, logg))
			r.Post("/resend-verification", controllers.ResendVerification(svcs.Auth, logg))
			r.With(loginLimited).Post("/forgot-password", controllers.ForgotPassword(svcs.Auth, logg))
			r.Get("/reset-password/validate", controllers.ValidateResetToken(svcs.Auth, logg))
			r.Post("/reset-password", controllers.ResetPassword(svcs.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Get("/me", controllers.Me(svcs.Auth, logg))
				r.Delete("/me", controllers.DeleteMe(svcs.Auth, logg))
				r.Put("/change-password", controllers.ChangePassword(svcs.Auth, logg))
				r.Post("/consent/privacy", controllers.AcceptPrivacyConsent(svcs.Auth, logg))
			})
		})

		// Directory reads stay public so anonymous visitors can browse.
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", controllers.SearchProfiles(svcs.Advertisements, logg))
			r.Get("/stats", controllers.ProfileStats(svcs.Advertisements, logg))
			r.Get("/{id}", controllers.GetProfile(svcs.Advertisements, logg))
		})

		r.Route("/advertisements", func(r chi.Router) {
			r.Get("/{id}", controllers.GetAdvertisement(svcs.Advertisements, logg))

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Post("/", controllers.CreateAdvertisement(svcs.Advertisements, logg))
				r.Get("/mine", controllers.MyAdvertisement(svcs.Advertisements, logg))
				r.Put("/{id}", controllers.UpdateAdvertisement(svcs.Advertisements, logg))
				r.Delete("/{id}", controllers.DeleteAdvertisement(svcs.Advertisements, logg))
				r.Post("/{id}/promote", controllers.PromoteAdvertisement(svcs.Advertisements, logg))
				r.Post("/{id}/verify", controllers.VerifyAdvertisement(svcs.Advertisements, logg))
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/advertisement/{id}", controllers.ListAdvertisementReviews(svcs.Reviews, logg))

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Get("/", controllers.ListMyReviews(svcs.Reviews, logg))
				r.Post("/", controllers.CreateReview(svcs.Reviews, svcs.SessionUsers, logg))
				r.Delete("/{id}", controllers.DeleteReview(svcs.Reviews, logg))
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(authed)
			r.Get("/", controllers.Inbox(svcs.Messages, logg))
			r.Post("/", controllers.SendMessage(svcs.Messages, svcs.SessionUsers, logg))
			r.Get("/{id}/thread", controllers.MessageThread(svcs.Messages, logg))
			r.Post("/{id}/reply", controllers.ReplyMessage(svcs.Messages, svcs.SessionUsers, logg))
			r.Patch("/{id}/read", controllers.MarkMessageRead(svcs.Messages, logg))
			r.Delete("/{id}", controllers.DeleteMessage(svcs.Messages, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(authed)
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Patch("/{id}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
			r.Delete("/{id}", controllers.DeleteNotification(svcs.Notifications, logg))
		})

		r.Route("/billing", func(r chi.Router) {
			r.Use(authed)
			r.Get("/balance", controllers.BillingBalance(svcs.Billing, logg))
			r.Get("/transactions", controllers.BillingTransactions(svcs.Billing, logg))
			r.Get("/invoices", controllers.BillingInvoices(svcs.Billing, logg))
			r.Get("/invoices/{id}", controllers.BillingInvoice(svcs.Billing, logg))
		})

		r.Route("/saved-searches", func(r chi.Router) {
			r.Use(authed)
			r.Get("/", controllers.ListSavedSearches(svcs.SavedSearches, logg))
			r.Post("/", controllers.CreateSavedSearch(svcs.SavedSearches, logg))
			r.Delete("/{id}", controllers.DeleteSavedSearch(svcs.SavedSearches, logg))
		})

		r.Route("/profile/media", func(r chi.Router) {
			r.Use(authed)
			r.Get("/photos", controllers.ListProfilePhotos(svcs.Media, logg))
			r.Post("/photos", controllers.UploadProfileMedia(svcs.Media, enums.MediaKindImage, cfg.MediaHost.MaxUploadMB, logg))
			r.Get("/videos", controllers.ListProfileVideos(svcs.Media, logg))
			r.Post("/videos", controllers.UploadProfileMedia(svcs.Media, enums.MediaKindVideo, cfg.MediaHost.MaxUploadMB, logg))
			r.Delete("/{id}", controllers.DeleteProfileMedia(svcs.Media, logg))
		})
	})

	return r
}
