package dtos

// FieldFeedbackEntry is one field-level critique in a reject/revision request.
type FieldFeedbackEntry struct {
	FieldName string `json:"field_name"`
	Type      string `json:"feedback_type"`
	Comment   string `json:"feedback_comment"`
}

type ReviewActionRequest struct {
	Status         string               `json:"status,omitempty"`
	Comment        string               `json:"comment"`
	FieldFeedbacks []FieldFeedbackEntry `json:"field_feedbacks,omitempty"`
}

type ItemCreateRequest struct {
	EventID      string   `json:"event_id"`
	Sequence     int      `json:"sequence"`
	ThreatTypeL1 string   `json:"threat_type_l1"`
	ThreatTypeL2 string   `json:"threat_type_l2"`
	ThreatTypeL3 string   `json:"threat_type_l3"`
	ErrorTypeL1  string   `json:"error_type_l1"`
	ErrorTypeL2  string   `json:"error_type_l2"`
	ErrorTypeL3  string   `json:"error_type_l3"`
	UASTypeL1    string   `json:"uas_type_l1"`
	UASTypeL2    string   `json:"uas_type_l2"`
	UASTypeL3    string   `json:"uas_type_l3"`
	Impact       string   `json:"impact"`
	Description  string   `json:"description"`
	Notes        string   `json:"notes"`
	CopingThreat []string `json:"threat_coping_ability"`
	CopingError  []string `json:"error_coping_ability"`
	CopingUAS    []string `json:"uas_coping_ability"`
}

// ItemUpdateRequest carries the new values plus the explicit list of fields
// being changed; the recompute hook keys off that list.
type ItemUpdateRequest struct {
	Fields  map[string]any `json:"fields"`
	Changed []string       `json:"changed_fields"`
}

// EventFilterParams maps 1:1 to the ten analytics filter types.
type EventFilterParams struct {
	DateFrom        string   `json:"date_from"`
	DateTo          string   `json:"date_to"`
	AircraftTypes   []string `json:"aircraft_types"`
	Airport         string   `json:"airport"`
	EventTypes      []string `json:"event_types"`
	FlightPhases    []string `json:"flight_phases"`
	ThreatL1        string   `json:"threat_l1"`
	ThreatL2        string   `json:"threat_l2"`
	ThreatL3        string   `json:"threat_l3"`
	ErrorL1         string   `json:"error_l1"`
	ErrorL2         string   `json:"error_l2"`
	ErrorL3         string   `json:"error_l3"`
	UASL1           string   `json:"uas_l1"`
	UASL2           string   `json:"uas_l2"`
	UASL3           string   `json:"uas_l3"`
	TrainingTopics  []string `json:"training_topics"`
	CompetencyCodes []string `json:"competency_codes"`
}
