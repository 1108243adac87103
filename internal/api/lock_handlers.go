package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aerosafety/labelboard/internal/auth"
	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/models/dtos"
)

// AcquireLock handles POST /api/v1/locks/{task}/acquire
func (h *Handlers) AcquireLock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}
		if h.deps.Services.Locks == nil {
			common.RespondError(w, initTime, nil, "Lock facility unavailable", http.StatusServiceUnavailable)
			return
		}

		task := chi.URLParam(r, "task")
		ok, holder, err := h.deps.Services.Locks.Acquire(r.Context(), task, claims.UserID())
		if err != nil {
			h.respondServiceError(w, initTime, err, "lock")
			return
		}

		if !ok {
			common.RespondError(w, initTime, nil, "Task is locked by another user", http.StatusConflict)
			return
		}
		common.RespondSuccess(w, initTime, "Lock acquired", dtos.LockStatusResponse{Task: task, Locked: true, HolderID: holder})
	}
}

// ReleaseLock handles POST /api/v1/locks/{task}/release
func (h *Handlers) ReleaseLock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}
		if h.deps.Services.Locks == nil {
			common.RespondError(w, initTime, nil, "Lock facility unavailable", http.StatusServiceUnavailable)
			return
		}

		task := chi.URLParam(r, "task")
		ok, err := h.deps.Services.Locks.Release(r.Context(), task, claims.UserID())
		if err != nil {
			h.respondServiceError(w, initTime, err, "lock")
			return
		}
		if !ok {
			common.RespondError(w, initTime, nil, "Lock is held by another user", http.StatusConflict)
			return
		}
		common.RespondSuccess(w, initTime, "Lock released", dtos.LockStatusResponse{Task: task, Locked: false})
	}
}

// LockStatus handles GET /api/v1/locks/{task}
func (h *Handlers) LockStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if h.deps.Services.Locks == nil {
			common.RespondError(w, initTime, nil, "Lock facility unavailable", http.StatusServiceUnavailable)
			return
		}

		task := chi.URLParam(r, "task")
		locked, holder, err := h.deps.Services.Locks.Status(r.Context(), task)
		if err != nil {
			h.respondServiceError(w, initTime, err, "lock")
			return
		}
		common.RespondSuccess(w, initTime, "Lock status", dtos.LockStatusResponse{Task: task, Locked: locked, HolderID: holder})
	}
}

// ForceReleaseLock handles DELETE /api/v1/locks/{task} (admin only)
func (h *Handlers) ForceReleaseLock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if h.deps.Services.Locks == nil {
			common.RespondError(w, initTime, nil, "Lock facility unavailable", http.StatusServiceUnavailable)
			return
		}

		task := chi.URLParam(r, "task")
		if err := h.deps.Services.Locks.ForceRelease(r.Context(), task); err != nil {
			h.respondServiceError(w, initTime, err, "lock")
			return
		}
		common.RespondSuccess(w, initTime, "Lock force-released", dtos.LockStatusResponse{Task: task, Locked: false})
	}
}
