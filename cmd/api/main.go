package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velora-app/velora-backend/api/routes"
	"github.com/velora-app/velora-backend/internal/advertisements"
	"github.com/velora-app/velora-backend/internal/auth"
	"github.com/velora-app/velora-backend/internal/billing"
	"github.com/velora-app/velora-backend/internal/email"
	"github.com/velora-app/velora-backend/internal/media"
	"github.com/velora-app/velora-backend/internal/messages"
	"github.com/velora-app/velora-backend/internal/notifications"
	"github.com/velora-app/velora-backend/internal/reviews"
	"github.com/velora-app/velora-backend/internal/savedsearches"
	"github.com/velora-app/velora-backend/internal/users"
	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db"
	"github.com/velora-app/velora-backend/pkg/logger"
	"github.com/velora-app/velora-backend/pkg/metrics"
	"github.com/velora-app/velora-backend/pkg/migrate"
	"github.com/velora-app/velora-backend/pkg/redis"
	"github.com/velora-app/velora-backend/pkg/storage/mediahost"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	hostClient, err := mediahost.NewClient(cfg.MediaHost, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap media host", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	mailer := email.NewMailer(cfg.Email, logg)

	adsService, err := advertisements.NewService(advertisements.ServiceParams{
		Repo:     advertisements.NewRepository(dbClient.DB()),
		Profiles: advertisements.NewProfilesRepository(dbClient.DB()),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create advertisements service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		Notifier:       mailer,
		Advertisements: adsService,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	messagesService, err := messages.NewService(messages.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create messages service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	savedSearchesService, err := savedsearches.NewService(savedsearches.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create saved searches service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(media.ServiceParams{
		Repo:   media.NewRepository(dbClient.DB()),
		Host:   hostClient,
		Limits: cfg.MediaHost,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, hostClient, httpMetrics, metricsHandler, routes.Services{
			Auth:           authService,
			Advertisements: adsService,
			Reviews:        reviewsService,
			Messages:       messagesService,
			Notifications:  notificationsService,
			Billing:        billingService,
			SavedSearches:  savedSearchesService,
			Media:          mediaService,
			SessionUsers:   usersRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
