package repositories

import (
	"context"
	"errors"
	"fmt"

	"aerosafety/labelboard/internal/constants"
	gormModels "aerosafety/labelboard/internal/models/gorm"

	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new GORM-based labeling item repository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetScoped retrieves an item strictly within its project/event scope, so an
// item reached through the wrong path resolves the same as a missing one.
// Returns (nil, nil) when not found so callers can map it to their own
// not-found handling.
func (r *ItemRepository) GetScoped(ctx context.Context, projectID, eventID, id string) (*gormModels.LabelingItem, error) {
	var item gormModels.LabelingItem

	err := r.db.WithContext(ctx).
		Joins("JOIN aviation_events ON aviation_events.id = labeling_items.event_id").
		Where("labeling_items.id = ? AND labeling_items.event_id = ? AND aviation_events.project_id = ?",
			id, eventID, projectID).
		First(&item).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch labeling item: %w", err)
	}

	return &item, nil
}

// ListByEvent returns an event's items ordered by sequence number.
func (r *ItemRepository) ListByEvent(ctx context.Context, eventID string) ([]gormModels.LabelingItem, error) {
	var items []gormModels.LabelingItem

	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sequence ASC").
		Find(&items).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list items for event: %w", err)
	}

	return items, nil
}

// Create inserts a new item.
func (r *ItemRepository) Create(ctx context.Context, item *gormModels.LabelingItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create labeling item: %w", err)
	}
	return nil
}

// UpdateFields applies a column-scoped update. Only the named columns are
// touched; this is the write path for user edits.
func (r *ItemRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&gormModels.LabelingItem{}).
		Where("id = ?", id).
		Updates(fields).Error

	if err != nil {
		return fmt.Errorf("failed to update item fields: %w", err)
	}
	return nil
}

// UpdateTopicFields writes back the computed training topics. It deliberately
// updates only the three topic columns so the write can never be mistaken for
// a level-3 change by the recompute trigger.
func (r *ItemRepository) UpdateTopicFields(ctx context.Context, id string, threat, errTopics, uas []string) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.LabelingItem{}).
		Where("id = ?", id).
		Select(constants.ComputedTopicFields).
		Updates(&gormModels.LabelingItem{
			ThreatTopics: threat,
			ErrorTopics:  errTopics,
			UASTopics:    uas,
		}).Error

	if err != nil {
		return fmt.Errorf("failed to write computed topics: %w", err)
	}
	return nil
}

// Delete removes an item and its review trail. The cascade is explicit:
// feedback rows first, then decisions, then the item, all-or-nothing.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&gormModels.FieldFeedback{}).Error; err != nil {
			return fmt.Errorf("failed to delete field feedback: %w", err)
		}
		if err := tx.Where("item_id = ?", id).Delete(&gormModels.ReviewDecision{}).Error; err != nil {
			return fmt.Errorf("failed to delete review decisions: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&gormModels.LabelingItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete labeling item: %w", err)
		}
		return nil
	})
}
