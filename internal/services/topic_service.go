package services

import (
	"context"
	"fmt"
	"time"

	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/logging"
	gormModels "aerosafety/labelboard/internal/models/gorm"
)

// TaxonomyLookup resolves a leaf taxonomy option; the repository implements it
// and tests substitute counting fakes.
type TaxonomyLookup interface {
	FindLeaf(ctx context.Context, category, label string) (*gormModels.DropdownOption, error)
}

// TopicWriter writes computed topics back with a column-scoped update that the
// recompute trigger cannot observe as a level-3 change.
type TopicWriter interface {
	UpdateTopicFields(ctx context.Context, id string, threat, errTopics, uas []string) error
}

// AxisSelections carries the three level-3 labels driving topic lookup.
type AxisSelections struct {
	Threat string
	Error  string
	UAS    string
}

// TopicResult is the calculator output, one topic list per axis.
type TopicResult struct {
	ThreatTopics []string
	ErrorTopics  []string
	UASTopics    []string
}

// TopicService derives recommended training topics from the taxonomy.
type TopicService struct {
	lookup   TaxonomyLookup
	writer   TopicWriter
	cache    common.CacheInterface
	cacheTTL time.Duration
}

// NewTopicService creates the calculator; cache may be nil to disable caching.
func NewTopicService(lookup TaxonomyLookup, writer TopicWriter, cache common.CacheInterface) *TopicService {
	return &TopicService{
		lookup:   lookup,
		writer:   writer,
		cache:    cache,
		cacheTTL: 10 * time.Minute,
	}
}

// Calculate resolves the topic list for each axis independently. It never
// returns an error: bad input or lookup failure yields an empty list for the
// affected axis only.
func (s *TopicService) Calculate(ctx context.Context, sel AxisSelections) TopicResult {
	return TopicResult{
		ThreatTopics: s.topicsForAxis(ctx, constants.AxisThreat, sel.Threat),
		ErrorTopics:  s.topicsForAxis(ctx, constants.AxisError, sel.Error),
		UASTopics:    s.topicsForAxis(ctx, constants.AxisUAS, sel.UAS),
	}
}

func (s *TopicService) topicsForAxis(ctx context.Context, axis constants.TaxonomyAxis, label string) []string {
	if label == "" || len(label) > constants.MaxLabelLength {
		return []string{}
	}

	if _, ok := constants.ValidAxes[axis]; !ok {
		logging.Error("Unknown taxonomy axis", "axis", string(axis))
		return []string{}
	}

	cacheKey := fmt.Sprintf("%s%s|%s", constants.CachePrefixTaxonomy, axis, label)
	if s.cache != nil {
		if val, found := s.cache.Get(cacheKey); found {
			if topics, ok := val.([]string); ok {
				return topics
			}
			// The Redis backend round-trips values through JSON, which
			// decodes string slices as []any.
			if raw, ok := val.([]any); ok {
				topics := make([]string, 0, len(raw))
				for _, v := range raw {
					if s, ok := v.(string); ok {
						topics = append(topics, s)
					}
				}
				return topics
			}
		}
	}

	option, err := s.lookup.FindLeaf(ctx, string(axis), label)
	if err != nil {
		logging.Error("Taxonomy lookup failed", "axis", string(axis), "label", label, "error", err.Error())
		return []string{}
	}

	topics := []string{}
	if option != nil && len(option.TrainingTopics) > 0 {
		topics = option.TrainingTopics
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, topics, s.cacheTTL)
	}
	return topics
}

// ShouldRecompute decides whether an update's changed-field list re-fires the
// calculator. An empty or unspecified list never does, and neither does a
// write that touches only the computed topic columns.
func (s *TopicService) ShouldRecompute(changedFields []string) bool {
	for _, f := range changedFields {
		if _, ok := constants.TopicTriggerFields[f]; ok {
			return true
		}
	}
	return false
}

// RecomputeOnCreate runs the calculator for a freshly created item.
func (s *TopicService) RecomputeOnCreate(ctx context.Context, item *gormModels.LabelingItem) {
	s.recompute(ctx, item)
}

// RecomputeIfRelevant is the explicit post-write hook: the item write path
// calls it with the list of fields it just changed. Recompute failures are
// logged and never surface, so the triggering write always stands.
func (s *TopicService) RecomputeIfRelevant(ctx context.Context, item *gormModels.LabelingItem, changedFields []string) {
	if !s.ShouldRecompute(changedFields) {
		return
	}
	s.recompute(ctx, item)
}

func (s *TopicService) recompute(ctx context.Context, item *gormModels.LabelingItem) {
	result := s.Calculate(ctx, AxisSelections{
		Threat: item.LeafSelection(constants.AxisThreat),
		Error:  item.LeafSelection(constants.AxisError),
		UAS:    item.LeafSelection(constants.AxisUAS),
	})

	item.ThreatTopics = result.ThreatTopics
	item.ErrorTopics = result.ErrorTopics
	item.UASTopics = result.UASTopics

	if s.writer == nil {
		return
	}
	if err := s.writer.UpdateTopicFields(ctx, item.ID, result.ThreatTopics, result.ErrorTopics, result.UASTopics); err != nil {
		logging.Error("Failed to persist computed topics", "item_id", item.ID, "error", err.Error())
	}
}
