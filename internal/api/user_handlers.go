package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aerosafety/labelboard/internal/auth"
	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/services"
)

// DeleteUser handles DELETE /api/v1/users/{userID}
// Admin-only. Items, decisions and feedback authored by the user keep their
// rows with the reference nulled, so review history stays intact.
func (h *Handlers) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID := chi.URLParam(r, "userID")

		claims := auth.GetUserClaims(r.Context())
		if claims != nil && claims.UserID() == userID {
			common.RespondError(w, initTime, nil, "cannot delete your own account", http.StatusBadRequest)
			return
		}

		user, err := h.deps.Repo.Users.GetByID(r.Context(), userID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch user", http.StatusInternalServerError)
			return
		}
		if user == nil {
			h.respondServiceError(w, initTime, &services.NotFoundError{Resource: "user"}, "delete")
			return
		}

		if err := h.deps.Repo.Users.Delete(r.Context(), userID); err != nil {
			common.RespondError(w, initTime, err, "Failed to delete user", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "User deleted", nil)
	}
}
