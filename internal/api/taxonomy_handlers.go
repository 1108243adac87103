package api

import (
	"net/http"
	"strconv"
	"time"

	"aerosafety/labelboard/internal/common"
)

// ListTaxonomyOptions handles GET /api/v1/taxonomy/options
// Read-only lookup over the dropdown hierarchy; administrative seeding is
// out of band.
func (h *Handlers) ListTaxonomyOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		category := q.Get("category")
		if category == "" {
			common.RespondError(w, initTime, nil, "category: parameter is required", http.StatusBadRequest)
			return
		}

		level, err := strconv.Atoi(q.Get("level"))
		if err != nil || level < 1 || level > 3 {
			common.RespondError(w, initTime, nil, "level: must be 1, 2, or 3", http.StatusBadRequest)
			return
		}

		options, err := h.deps.Repo.Taxonomy.ListOptions(r.Context(), category, level, q.Get("parent"))
		if err != nil {
			h.respondServiceError(w, initTime, err, "read")
			return
		}

		common.RespondSuccess(w, initTime, "Taxonomy options", options)
	}
}
