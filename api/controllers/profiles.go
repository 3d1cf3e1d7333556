package controllers

import (
	"net/http"

	"github.com/velora-app/velora-backend/api/responses"
	"github.com/velora-app/velora-backend/api/validators"
	"github.com/velora-app/velora-backend/internal/advertisements"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/logger"
)

// SearchProfiles serves the public profile directory.
func SearchProfiles(svc advertisements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profiles service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minAge, err := validators.ParseQueryInt(r, "minAge", 0, 18, 99)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxAge, err := validators.ParseQueryInt(r, "maxAge", 0, 18, 99)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := advertisements.SearchParams{
			City:     validators.QueryString(r, "city"),
			UserType: validators.QueryString(r, "userType"),
			MinAge:   minAge,
			MaxAge:   maxAge,
			Query:    validators.QueryString(r, "q"),
			Page:     page,
			Limit:    limit,
		}

		result, err := svc.SearchProfiles(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetProfile serves one public provider profile.
func GetProfile(svc advertisements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profiles service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetProfile(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// ProfileStats serves aggregate directory counts.
func ProfileStats(svc advertisements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profiles service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
