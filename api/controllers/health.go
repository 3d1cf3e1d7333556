package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/velora-app/velora-backend/api/responses"
	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/logger"
	"github.com/velora-app/velora-backend/pkg/redis"
	"github.com/velora-app/velora-backend/pkg/storage/mediahost"
)

const readyCheckTimeout = 5 * time.Second

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Velora-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the critical dependencies answer before reporting
// ready. The media host is optional and only checked when configured.
func HealthReady(cfg *config.Config, database db.Pinger, cache redis.Pinger, host mediahost.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Velora-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				checks["database"] = err.Error()
				failed = true
			} else {
				checks["database"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				failed = true
			} else {
				checks["redis"] = "ok"
			}
		}
		if host != nil {
			if err := host.Ping(ctx); err != nil {
				checks["media_host"] = err.Error()
				failed = true
			} else {
				checks["media_host"] = "ok"
			}
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency check failed").WithDetails(checks)
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
