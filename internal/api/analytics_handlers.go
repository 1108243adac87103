package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/models/dtos"
)

// FilterEvents handles GET /api/v1/projects/{projectID}/events
// Query parameters map 1:1 to the ten filter types; absent parameters leave
// the result set unchanged.
func (h *Handlers) FilterEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		params := filterParamsFromQuery(r)
		entries, err := h.deps.Services.Analytics.FilterEvents(r.Context(), chi.URLParam(r, "projectID"), params)
		if err != nil {
			h.respondServiceError(w, initTime, err, "filter")
			return
		}

		h.deps.Metrics.FilterQueriesTotal.Inc()
		common.RespondSuccess(w, initTime, "Events", entries)
	}
}

// ProjectSummary handles GET /api/v1/projects/{projectID}/summary
func (h *Handlers) ProjectSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		summary, err := h.deps.Services.Analytics.ProjectSummary(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			h.respondServiceError(w, initTime, err, "summary")
			return
		}

		common.RespondSuccess(w, initTime, "Project summary", summary)
	}
}

func filterParamsFromQuery(r *http.Request) dtos.EventFilterParams {
	q := r.URL.Query()
	return dtos.EventFilterParams{
		DateFrom:        q.Get("date_from"),
		DateTo:          q.Get("date_to"),
		AircraftTypes:   splitParam(q.Get("aircraft_types")),
		Airport:         q.Get("airport"),
		EventTypes:      splitParam(q.Get("event_types")),
		FlightPhases:    splitParam(q.Get("flight_phases")),
		ThreatL1:        q.Get("threat_l1"),
		ThreatL2:        q.Get("threat_l2"),
		ThreatL3:        q.Get("threat_l3"),
		ErrorL1:         q.Get("error_l1"),
		ErrorL2:         q.Get("error_l2"),
		ErrorL3:         q.Get("error_l3"),
		UASL1:           q.Get("uas_l1"),
		UASL2:           q.Get("uas_l2"),
		UASL3:           q.Get("uas_l3"),
		TrainingTopics:  splitParam(q.Get("training_topics")),
		CompetencyCodes: splitParam(q.Get("competency_codes")),
	}
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
