package gorm

import (
	"time"

	"aerosafety/labelboard/internal/constants"
)

type LabelingItem struct {
	ID       string               `gorm:"column:id;primaryKey;type:uuid"`
	EventID  string               `gorm:"column:event_id;type:uuid;index;uniqueIndex:uq_event_sequence"`
	Sequence int                  `gorm:"column:sequence;uniqueIndex:uq_event_sequence"`
	Status   constants.ItemStatus `gorm:"column:status;default:draft"`

	ThreatTypeL1 string `gorm:"column:threat_type_l1"`
	ThreatTypeL2 string `gorm:"column:threat_type_l2"`
	ThreatTypeL3 string `gorm:"column:threat_type_l3"`
	ErrorTypeL1  string `gorm:"column:error_type_l1"`
	ErrorTypeL2  string `gorm:"column:error_type_l2"`
	ErrorTypeL3  string `gorm:"column:error_type_l3"`
	UASTypeL1    string `gorm:"column:uas_type_l1"`
	UASTypeL2    string `gorm:"column:uas_type_l2"`
	UASTypeL3    string `gorm:"column:uas_type_l3"`

	// Computed by the training-topic calculator, written via targeted update only.
	ThreatTopics []string `gorm:"column:threat_topics;serializer:json"`
	ErrorTopics  []string `gorm:"column:error_topics;serializer:json"`
	UASTopics    []string `gorm:"column:uas_topics;serializer:json"`

	ThreatManagement string `gorm:"column:threat_management"`
	ErrorManagement  string `gorm:"column:error_management"`
	UASManagement    string `gorm:"column:uas_management"`

	// Competency codes ("KNO.1" style) recorded per axis.
	ThreatCopingAbility []string `gorm:"column:threat_coping_ability;serializer:json"`
	ErrorCopingAbility  []string `gorm:"column:error_coping_ability;serializer:json"`
	UASCopingAbility    []string `gorm:"column:uas_coping_ability;serializer:json"`

	Impact      string `gorm:"column:impact"`
	Description string `gorm:"column:description"`
	Notes       string `gorm:"column:notes"`

	CreatedByID  *string    `gorm:"column:created_by;type:uuid"`
	ReviewedByID *string    `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	// Boundary for outstanding feedback: decisions recorded before the last
	// resubmission no longer count toward the pending field set.
	ResubmittedAt *time.Time `gorm:"column:resubmitted_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Decisions []ReviewDecision `gorm:"foreignKey:ItemID"`
}

// TableName specifies the table name for GORM
func (LabelingItem) TableName() string {
	return "labeling_items"
}

// LeafSelection returns the level-3 label for the given axis, empty when the
// axis is unknown.
func (i *LabelingItem) LeafSelection(axis constants.TaxonomyAxis) string {
	switch axis {
	case constants.AxisThreat:
		return i.ThreatTypeL3
	case constants.AxisError:
		return i.ErrorTypeL3
	case constants.AxisUAS:
		return i.UASTypeL3
	}
	return ""
}
