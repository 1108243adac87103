package gorm

import "time"

type Project struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// AviationProject wraps a generic project with aviation-specific taxonomy
// category mappings (axis name -> dropdown category).
type AviationProject struct {
	ID               string            `gorm:"column:id;primaryKey;type:uuid"`
	ProjectID        string            `gorm:"column:project_id;type:uuid;uniqueIndex"`
	TaxonomyMappings map[string]string `gorm:"column:taxonomy_mappings;serializer:json"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID"`
}

// TableName specifies the table name for GORM
func (AviationProject) TableName() string {
	return "aviation_projects"
}
