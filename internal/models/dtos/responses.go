package dtos

import "time"

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// ---- REVIEW ----

type FieldFeedbackResponse struct {
	ID        string    `json:"id"`
	FieldName string    `json:"field_name"`
	Type      string    `json:"feedback_type"`
	Comment   string    `json:"feedback_comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewDecisionResponse struct {
	ID         string                  `json:"id"`
	Status     string                  `json:"status"`
	ReviewerID *string                 `json:"reviewer_id"`
	Comment    string                  `json:"comment"`
	CreatedAt  time.Time               `json:"created_at"`
	Feedbacks  []FieldFeedbackResponse `json:"field_feedbacks"`
}

type ReviewHistoryResponse struct {
	ItemID        string                   `json:"item_id"`
	Status        string                   `json:"status"`
	Decisions     []ReviewDecisionResponse `json:"decisions"`
	PendingFields []string                 `json:"pending_fields"`
}

// ---- ITEMS ----

type LabelingItemResponse struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	Sequence     int        `json:"sequence"`
	Status       string     `json:"status"`
	ThreatTypeL1 string     `json:"threat_type_l1"`
	ThreatTypeL2 string     `json:"threat_type_l2"`
	ThreatTypeL3 string     `json:"threat_type_l3"`
	ErrorTypeL1  string     `json:"error_type_l1"`
	ErrorTypeL2  string     `json:"error_type_l2"`
	ErrorTypeL3  string     `json:"error_type_l3"`
	UASTypeL1    string     `json:"uas_type_l1"`
	UASTypeL2    string     `json:"uas_type_l2"`
	UASTypeL3    string     `json:"uas_type_l3"`
	ThreatTopics []string   `json:"threat_topics"`
	ErrorTopics  []string   `json:"error_topics"`
	UASTopics    []string   `json:"uas_topics"`
	Description  string     `json:"description"`
	Notes        string     `json:"notes"`
	CreatedByID  *string    `json:"created_by"`
	ReviewedByID *string    `json:"reviewed_by"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ---- ANALYTICS ----

type ProjectSummaryResponse struct {
	ProjectID    string         `json:"project_id"`
	TotalEvents  int            `json:"total_events"`
	Completed    int            `json:"completed"`
	InProgress   int            `json:"in_progress"`
	ItemStatuses map[string]int `json:"item_statuses"`
}

type EventListEntry struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	OccurrenceDate       time.Time `json:"occurrence_date"`
	AircraftType         string    `json:"aircraft_type"`
	DepartureAirport     string    `json:"departure_airport"`
	ArrivalAirport       string    `json:"arrival_airport"`
	ActualLandingAirport string    `json:"actual_landing_airport"`
	ItemCount            int       `json:"item_count"`
}

// ---- LOCKS ----

type LockStatusResponse struct {
	Task     string `json:"task"`
	Locked   bool   `json:"locked"`
	HolderID string `json:"holder_id,omitempty"`
}
