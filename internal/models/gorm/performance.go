package gorm

import "time"

// LinkedItemWeight records how much one labeling item contributed to a
// performance assessment.
type LinkedItemWeight struct {
	ItemID string  `json:"item_id"`
	Weight float64 `json:"weight"`
}

// ResultPerformance is an assessment record scoped to one event and project.
type ResultPerformance struct {
	ID             string             `gorm:"column:id;primaryKey;type:uuid"`
	EventID        string             `gorm:"column:event_id;type:uuid;index"`
	ProjectID      string             `gorm:"column:project_id;type:uuid;index"`
	EventType      string             `gorm:"column:event_type;index"`
	FlightPhase    string             `gorm:"column:flight_phase;index"`
	Likelihood     int                `gorm:"column:likelihood"`
	Severity       int                `gorm:"column:severity"`
	TrainingEffect int                `gorm:"column:training_effect"`
	TrainingTopics []string           `gorm:"column:training_topics;serializer:json"`
	LinkedItems    []LinkedItemWeight `gorm:"column:linked_items;serializer:json"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ResultPerformance) TableName() string {
	return "result_performances"
}
