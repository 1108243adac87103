package api

import (
	"errors"
	"net/http"
	"time"

	"aerosafety/labelboard/internal/auth"
	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/logging"
	gormModels "aerosafety/labelboard/internal/models/gorm"
	"aerosafety/labelboard/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// currentUser loads the authenticated caller's user row for capability checks.
func (h *Handlers) currentUser(r *http.Request) (*gormModels.User, error) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		return nil, errors.New("missing claims")
	}
	user, err := h.deps.Repo.Users.GetByID(r.Context(), claims.UserID())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// respondServiceError maps domain errors onto HTTP status codes. Not-found is
// returned for both missing records and cross-tenant access; denial reasons
// pass through verbatim. action labels the permission-denial counter.
func (h *Handlers) respondServiceError(w http.ResponseWriter, initTime time.Time, err error, action string) {
	var notFound *services.NotFoundError
	var validation *services.ValidationError
	var permission *services.PermissionError

	switch {
	case errors.As(err, &notFound):
		common.RespondError(w, initTime, err, notFound.Error(), http.StatusNotFound)
	case errors.As(err, &validation):
		common.RespondError(w, initTime, err, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &permission):
		h.deps.Metrics.PermissionDenialsTotal.WithLabelValues(action).Inc()
		common.RespondError(w, initTime, err, permission.Reason, http.StatusForbidden)
	default:
		logging.Error("Unhandled service error", "error", err.Error())
		common.RespondError(w, initTime, nil, "Internal server error", http.StatusInternalServerError)
	}
}
