package gorm

import "time"

// DropdownOption is one node of the self-referential 3-level taxonomy.
// (category, level, code) is unique; a level N node's parent sits at level N-1.
type DropdownOption struct {
	ID             string    `gorm:"column:id;primaryKey;type:uuid"`
	Category       string    `gorm:"column:category;uniqueIndex:uq_cat_level_code;index"`
	Level          int       `gorm:"column:level;uniqueIndex:uq_cat_level_code"`
	Code           string    `gorm:"column:code;uniqueIndex:uq_cat_level_code"`
	Label          string    `gorm:"column:label;index"`
	ParentID       *string   `gorm:"column:parent_id;type:uuid"`
	TrainingTopics []string  `gorm:"column:training_topics;serializer:json"`
	DisplayOrder   int       `gorm:"column:display_order;default:0"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Parent *DropdownOption `gorm:"foreignKey:ParentID"`
}

// TableName specifies the table name for GORM
func (DropdownOption) TableName() string {
	return "aviation_dropdown_options"
}
