package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "aerosafety/labelboard/internal/models/gorm"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new GORM-based aviation event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetByID retrieves an event scoped to a project. Events outside the project
// come back as (nil, nil), indistinguishable from missing ones.
func (r *EventRepository) GetByID(ctx context.Context, projectID, eventID string) (*gormModels.AviationEvent, error) {
	var event gormModels.AviationEvent

	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", eventID, projectID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	return &event, nil
}

// ListByProject loads a project's events with items and performance records
// preloaded; the analytics filter pipeline runs over this set.
func (r *EventRepository) ListByProject(ctx context.Context, projectID string) ([]gormModels.AviationEvent, error) {
	var events []gormModels.AviationEvent

	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Performances").
		Where("project_id = ?", projectID).
		Order("occurrence_date DESC").
		Find(&events).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list events for project: %w", err)
	}

	return events, nil
}

// ProjectExists reports whether the project row is present.
func (r *EventRepository) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Project{}).
		Where("id = ?", projectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return count > 0, nil
}
