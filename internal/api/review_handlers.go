package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aerosafety/labelboard/internal/auth"
	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/models/dtos"
)

// ApproveItem handles POST /api/v1/projects/{projectID}/events/{eventID}/items/{itemID}/approve
func (h *Handlers) ApproveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.ReviewActionRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		decision, err := h.deps.Services.Review.Approve(r.Context(), claims.UserID(),
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"), chi.URLParam(r, "itemID"), req.Comment)
		if err != nil {
			h.respondServiceError(w, initTime, err, "review")
			return
		}

		h.deps.Metrics.ReviewDecisionsTotal.WithLabelValues(decision.Status.String()).Inc()
		common.RespondSuccess(w, initTime, "Item approved", decision, http.StatusCreated)
	}
}

// RejectItem handles POST /api/v1/projects/{projectID}/events/{eventID}/items/{itemID}/reject
func (h *Handlers) RejectItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.ReviewActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		decision, err := h.deps.Services.Review.Reject(r.Context(), claims.UserID(),
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"), chi.URLParam(r, "itemID"),
			constants.DecisionStatus(req.Status), req.Comment, req.FieldFeedbacks)
		if err != nil {
			h.respondServiceError(w, initTime, err, "review")
			return
		}

		h.deps.Metrics.ReviewDecisionsTotal.WithLabelValues(decision.Status.String()).Inc()
		common.RespondSuccess(w, initTime, "Item rejected", decision, http.StatusCreated)
	}
}

// RequestRevision handles POST /api/v1/projects/{projectID}/events/{eventID}/items/{itemID}/request-revision
func (h *Handlers) RequestRevision() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.ReviewActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		decision, err := h.deps.Services.Review.RequestRevision(r.Context(), claims.UserID(),
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"), chi.URLParam(r, "itemID"),
			req.Comment, req.FieldFeedbacks)
		if err != nil {
			h.respondServiceError(w, initTime, err, "review")
			return
		}

		h.deps.Metrics.ReviewDecisionsTotal.WithLabelValues(decision.Status.String()).Inc()
		common.RespondSuccess(w, initTime, "Revision requested", decision, http.StatusCreated)
	}
}

// ResubmitItem handles POST /api/v1/projects/{projectID}/events/{eventID}/items/{itemID}/resubmit
// Unlike the other review actions this one is called by the item's creator.
func (h *Handlers) ResubmitItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.ReviewActionRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		item, err := h.deps.Services.Review.Resubmit(r.Context(), claims.UserID(),
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"), chi.URLParam(r, "itemID"), req.Comment)
		if err != nil {
			h.respondServiceError(w, initTime, err, "resubmit")
			return
		}

		common.RespondSuccess(w, initTime, "Item resubmitted", toItemResponse(item))
	}
}

// ReviewHistory handles GET /api/v1/projects/{projectID}/events/{eventID}/items/{itemID}/history
func (h *Handlers) ReviewHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		history, err := h.deps.Services.Review.GetHistory(r.Context(),
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"), chi.URLParam(r, "itemID"))
		if err != nil {
			h.respondServiceError(w, initTime, err, "read")
			return
		}

		common.RespondSuccess(w, initTime, "Review history", history)
	}
}
