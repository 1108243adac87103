package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "aerosafety/labelboard/internal/models/gorm"

	"gorm.io/gorm"
)

type TaxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new GORM-based taxonomy repository
func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// FindLeaf looks up the active leaf option matching (category, level 3, label).
// Returns (nil, nil) when no such option exists.
func (r *TaxonomyRepository) FindLeaf(ctx context.Context, category, label string) (*gormModels.DropdownOption, error) {
	var option gormModels.DropdownOption

	err := r.db.WithContext(ctx).
		Where("category = ? AND level = ? AND label = ? AND is_active = ?", category, 3, label, true).
		First(&option).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch taxonomy option: %w", err)
	}

	return &option, nil
}

// ListOptions returns active options of a category and level ordered for
// display; parentID narrows to one branch when non-empty.
func (r *TaxonomyRepository) ListOptions(ctx context.Context, category string, level int, parentID string) ([]gormModels.DropdownOption, error) {
	var options []gormModels.DropdownOption

	q := r.db.WithContext(ctx).
		Where("category = ? AND level = ? AND is_active = ?", category, level, true)
	if parentID != "" {
		q = q.Where("parent_id = ?", parentID)
	}

	err := q.Order("display_order ASC, label ASC").Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list taxonomy options: %w", err)
	}

	return options, nil
}
