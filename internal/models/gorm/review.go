package gorm

import (
	"time"

	"aerosafety/labelboard/internal/constants"
)

// ReviewDecision is an immutable audit record of one review action.
// Decisions are never updated or overwritten; the full list per item is the
// review history.
type ReviewDecision struct {
	ID         string                   `gorm:"column:id;primaryKey;type:uuid"`
	ItemID     string                   `gorm:"column:item_id;type:uuid;index"`
	Status     constants.DecisionStatus `gorm:"column:status"`
	ReviewerID *string                  `gorm:"column:reviewer_id;type:uuid"`
	Comment    string                   `gorm:"column:comment"`
	CreatedAt  time.Time                `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Feedbacks []FieldFeedback `gorm:"foreignKey:DecisionID"`
}

// TableName specifies the table name for GORM
func (ReviewDecision) TableName() string {
	return "review_decisions"
}

// FieldFeedback is a field-level critique attached to one decision.
type FieldFeedback struct {
	ID         string                 `gorm:"column:id;primaryKey;type:uuid"`
	DecisionID string                 `gorm:"column:decision_id;type:uuid;index"`
	ItemID     string                 `gorm:"column:item_id;type:uuid;index"`
	FieldName  string                 `gorm:"column:field_name"`
	Type       constants.FeedbackType `gorm:"column:feedback_type"`
	Comment    string                 `gorm:"column:comment"`
	ReviewerID *string                `gorm:"column:reviewer_id;type:uuid"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (FieldFeedback) TableName() string {
	return "field_feedbacks"
}
