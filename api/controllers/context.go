package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velora-app/velora-backend/api/middleware"
	"github.com/velora-app/velora-backend/pkg/db/models"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
)

// currentUserID pulls the authenticated user's id out of the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// pathUUID parses a uuid path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func displayNameOf(user *models.User) string {
	for _, candidate := range []*string{user.Name, user.Username, user.AgencyName, user.ClubName} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	return "A user"
}
