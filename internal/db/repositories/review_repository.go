package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "aerosafety/labelboard/internal/models/gorm"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new GORM-based review decision repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ListByItem returns every decision for an item, oldest first, with feedback.
func (r *ReviewRepository) ListByItem(ctx context.Context, itemID string) ([]gormModels.ReviewDecision, error) {
	var decisions []gormModels.ReviewDecision

	err := r.db.WithContext(ctx).
		Preload("Feedbacks").
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&decisions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list review decisions: %w", err)
	}

	return decisions, nil
}

// Latest returns the most recent decision for an item, or nil when the item
// has never been reviewed.
func (r *ReviewRepository) Latest(ctx context.Context, itemID string) (*gormModels.ReviewDecision, error) {
	var decision gormModels.ReviewDecision

	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		First(&decision).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest decision: %w", err)
	}

	return &decision, nil
}
