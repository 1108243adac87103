package repositories

import (
	"context"
	"fmt"

	"aerosafety/labelboard/internal/constants"

	"github.com/jmoiron/sqlx"
)

// AnalyticsRepository runs hand-written aggregation SQL over sqlx; the GORM
// repositories own the row-by-row access paths.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new sqlx-based analytics repository
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type statusCountRow struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// StatusRollup counts a project's items per status in a single GROUP BY pass.
// Statuses with no items are reported as zero.
func (r *AnalyticsRepository) StatusRollup(ctx context.Context, projectID string) (map[string]int, error) {
	var rows []statusCountRow

	if err := r.db.SelectContext(ctx, &rows, constants.ItemStatusRollup, projectID); err != nil {
		return nil, fmt.Errorf("failed to roll up item statuses: %w", err)
	}

	rollup := map[string]int{
		constants.ItemStatusDraft.String():     0,
		constants.ItemStatusSubmitted.String(): 0,
		constants.ItemStatusReviewed.String():  0,
		constants.ItemStatusApproved.String():  0,
	}
	for _, row := range rows {
		rollup[row.Status] = row.Count
	}

	return rollup, nil
}
