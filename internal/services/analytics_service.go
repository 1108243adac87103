package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/models/dtos"
	gormModels "aerosafety/labelboard/internal/models/gorm"
)

// EventSource is the read-side access the analytics engine needs; the GORM
// event repository implements it.
type EventSource interface {
	ListByProject(ctx context.Context, projectID string) ([]gormModels.AviationEvent, error)
	ProjectExists(ctx context.Context, projectID string) (bool, error)
}

// StatusRollupSource delivers the one-pass per-status item counts; the sqlx
// analytics repository implements it.
type StatusRollupSource interface {
	StatusRollup(ctx context.Context, projectID string) (map[string]int, error)
}

// AnalyticsService is the read-side aggregator over events, items and
// performance records.
type AnalyticsService struct {
	events     EventSource
	rollup     StatusRollupSource
	cache      common.CacheInterface
	summaryTTL time.Duration
}

// NewAnalyticsService creates a new analytics service; cache may be nil to
// disable summary caching.
func NewAnalyticsService(events EventSource, rollup StatusRollupSource, cache common.CacheInterface) *AnalyticsService {
	return &AnalyticsService{
		events:     events,
		rollup:     rollup,
		cache:      cache,
		summaryTTL: 2 * time.Minute,
	}
}

// FilterEvents runs the ten-filter pipeline over a project's events.
func (s *AnalyticsService) FilterEvents(ctx context.Context, projectID string, params dtos.EventFilterParams) ([]dtos.EventListEntry, error) {
	exists, err := s.events.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return nil, &NotFoundError{Resource: "project"}
	}

	pipeline, err := BuildPipeline(params)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	filtered := pipeline.Apply(events)
	entries := make([]dtos.EventListEntry, 0, len(filtered))
	for i := range filtered {
		ev := &filtered[i]
		entries = append(entries, dtos.EventListEntry{
			ID:                   ev.ID,
			Title:                ev.Title,
			OccurrenceDate:       ev.OccurrenceDate,
			AircraftType:         ev.AircraftType,
			DepartureAirport:     ev.DepartureAirport,
			ArrivalAirport:       ev.ArrivalAirport,
			ActualLandingAirport: ev.ActualLandingAirport,
			ItemCount:            len(ev.Items),
		})
	}
	return entries, nil
}

// ProjectSummary computes event completion buckets and the per-status item
// breakdown. An event is completed when it has at least one item and every
// item is approved; in progress when it has items but not all approved;
// zero-item events count only toward the total.
func (s *AnalyticsService) ProjectSummary(ctx context.Context, projectID string) (*dtos.ProjectSummaryResponse, error) {
	exists, err := s.events.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return nil, &NotFoundError{Resource: "project"}
	}

	cacheKey := string(constants.CachePrefixProjectStat) + projectID
	if s.cache != nil {
		if val, found := s.cache.Get(cacheKey); found {
			if cached, ok := val.(*dtos.ProjectSummaryResponse); ok {
				return cached, nil
			}
		}
	}

	summary := &dtos.ProjectSummaryResponse{ProjectID: projectID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events, err := s.events.ListByProject(gctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to load events: %w", err)
		}
		total, completed, inProgress := bucketEvents(events)
		summary.TotalEvents = total
		summary.Completed = completed
		summary.InProgress = inProgress
		return nil
	})

	g.Go(func() error {
		rollup, err := s.rollup.StatusRollup(gctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to roll up statuses: %w", err)
		}
		summary.ItemStatuses = rollup
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, summary, s.summaryTTL)
	}
	return summary, nil
}

func bucketEvents(events []gormModels.AviationEvent) (total, completed, inProgress int) {
	total = len(events)
	for i := range events {
		items := events[i].Items
		if len(items) == 0 {
			continue
		}
		allApproved := true
		for j := range items {
			if items[j].Status != constants.ItemStatusApproved {
				allApproved = false
				break
			}
		}
		if allApproved {
			completed++
		} else {
			inProgress++
		}
	}
	return total, completed, inProgress
}
