package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/models/dtos"
	gormModels "aerosafety/labelboard/internal/models/gorm"
)

// CreateItem handles POST /api/v1/projects/{projectID}/events/{eventID}/items
func (h *Handlers) CreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, err := h.currentUser(r)
		if err != nil {
			common.RespondError(w, initTime, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req dtos.ItemCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}
		req.EventID = chi.URLParam(r, "eventID")

		item, err := h.deps.Services.Items.Create(r.Context(), user, chi.URLParam(r, "projectID"), &req)
		if err != nil {
			h.respondServiceError(w, initTime, err, "create")
			return
		}

		common.RespondSuccess(w, initTime, "Labeling item created", toItemResponse(item), http.StatusCreated)
	}
}

// GetItem handles GET /api/v1/projects/{projectID}/events/{eventID}/items/{itemID}
func (h *Handlers) GetItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		item, err := h.deps.Services.Items.Get(r.Context(),
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"), chi.URLParam(r, "itemID"))
		if err != nil {
			h.respondServiceError(w, initTime, err, "read")
			return
		}

		common.RespondSuccess(w, initTime, "Labeling item", toItemResponse(item))
	}
}

// ListItems handles GET /api/v1/projects/{projectID}/events/{eventID}/items
func (h *Handlers) ListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		items, err := h.deps.Services.Items.ListByEvent(r.Context(),
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"))
		if err != nil {
			h.respondServiceError(w, initTime, err, "read")
			return
		}

		responses := make([]dtos.LabelingItemResponse, 0, len(items))
		for i := range items {
			responses = append(responses, toItemResponse(&items[i]))
		}
		common.RespondSuccess(w, initTime, "Labeling items", responses)
	}
}

// UpdateItem handles PATCH /api/v1/projects/{projectID}/events/{eventID}/items/{itemID}
func (h *Handlers) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, err := h.currentUser(r)
		if err != nil {
			common.RespondError(w, initTime, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req dtos.ItemUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		item, err := h.deps.Services.Items.Update(r.Context(), user,
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"), chi.URLParam(r, "itemID"), &req)
		if err != nil {
			h.respondServiceError(w, initTime, err, "edit")
			return
		}

		common.RespondSuccess(w, initTime, "Labeling item updated", toItemResponse(item))
	}
}

// DeleteItem handles DELETE /api/v1/projects/{projectID}/events/{eventID}/items/{itemID}
func (h *Handlers) DeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, err := h.currentUser(r)
		if err != nil {
			common.RespondError(w, initTime, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := h.deps.Services.Items.Delete(r.Context(), user,
			chi.URLParam(r, "projectID"), chi.URLParam(r, "eventID"), chi.URLParam(r, "itemID")); err != nil {
			h.respondServiceError(w, initTime, err, "delete")
			return
		}

		common.RespondSuccess(w, initTime, "Labeling item deleted", nil)
	}
}

func toItemResponse(item *gormModels.LabelingItem) dtos.LabelingItemResponse {
	return dtos.LabelingItemResponse{
		ID:           item.ID,
		EventID:      item.EventID,
		Sequence:     item.Sequence,
		Status:       item.Status.String(),
		ThreatTypeL1: item.ThreatTypeL1,
		ThreatTypeL2: item.ThreatTypeL2,
		ThreatTypeL3: item.ThreatTypeL3,
		ErrorTypeL1:  item.ErrorTypeL1,
		ErrorTypeL2:  item.ErrorTypeL2,
		ErrorTypeL3:  item.ErrorTypeL3,
		UASTypeL1:    item.UASTypeL1,
		UASTypeL2:    item.UASTypeL2,
		UASTypeL3:    item.UASTypeL3,
		ThreatTopics: item.ThreatTopics,
		ErrorTopics:  item.ErrorTopics,
		UASTopics:    item.UASTopics,
		Description:  item.Description,
		Notes:        item.Notes,
		CreatedByID:  item.CreatedByID,
		ReviewedByID: item.ReviewedByID,
		ReviewedAt:   item.ReviewedAt,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
