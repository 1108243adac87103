package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "aerosafety/labelboard/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user; (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// Delete removes a user. References from items, decisions and feedback are
// nulled rather than cascaded so the audit trail survives reviewer departure.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&gormModels.LabelingItem{}).
			Where("created_by = ?", id).
			Update("created_by", nil).Error; err != nil {
			return fmt.Errorf("failed to clear item creators: %w", err)
		}
		if err := tx.Model(&gormModels.LabelingItem{}).
			Where("reviewed_by = ?", id).
			Update("reviewed_by", nil).Error; err != nil {
			return fmt.Errorf("failed to clear item reviewers: %w", err)
		}
		if err := tx.Model(&gormModels.ReviewDecision{}).
			Where("reviewer_id = ?", id).
			Update("reviewer_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear decision reviewers: %w", err)
		}
		if err := tx.Model(&gormModels.FieldFeedback{}).
			Where("reviewer_id = ?", id).
			Update("reviewer_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear feedback reviewers: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&gormModels.User{}).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
