package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/db/repositories"
	"aerosafety/labelboard/internal/models/dtos"
	gormModels "aerosafety/labelboard/internal/models/gorm"
	"aerosafety/labelboard/internal/permissions"
)

// ItemService owns labeling item CRUD. Status changes are not reachable from
// here; those belong to the review workflow.
type ItemService struct {
	items  *repositories.ItemRepository
	events *repositories.EventRepository
	topics *TopicService
}

// NewItemService creates a new labeling item service
func NewItemService(items *repositories.ItemRepository, events *repositories.EventRepository, topics *TopicService) *ItemService {
	return &ItemService{items: items, events: events, topics: topics}
}

// Create builds a draft item for the calling user and runs the topic
// calculator once the row exists.
func (s *ItemService) Create(ctx context.Context, user *gormModels.User, projectID string, req *dtos.ItemCreateRequest) (*gormModels.LabelingItem, error) {
	if d := permissions.CanCreate(user); !d.Allowed {
		return nil, &PermissionError{Reason: d.Reason}
	}

	event, err := s.events.GetByID(ctx, projectID, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, &NotFoundError{Resource: "event"}
	}

	item := &gormModels.LabelingItem{
		ID:                  uuid.New().String(),
		EventID:             event.ID,
		Sequence:            req.Sequence,
		Status:              constants.ItemStatusDraft,
		ThreatTypeL1:        req.ThreatTypeL1,
		ThreatTypeL2:        req.ThreatTypeL2,
		ThreatTypeL3:        req.ThreatTypeL3,
		ErrorTypeL1:         req.ErrorTypeL1,
		ErrorTypeL2:         req.ErrorTypeL2,
		ErrorTypeL3:         req.ErrorTypeL3,
		UASTypeL1:           req.UASTypeL1,
		UASTypeL2:           req.UASTypeL2,
		UASTypeL3:           req.UASTypeL3,
		ThreatCopingAbility: req.CopingThreat,
		ErrorCopingAbility:  req.CopingError,
		UASCopingAbility:    req.CopingUAS,
		Impact:              req.Impact,
		Description:         req.Description,
		Notes:               req.Notes,
		CreatedByID:         &user.ID,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	// Post-write hook: topic calculation must not fail the create.
	s.topics.RecomputeOnCreate(ctx, item)
	return item, nil
}

// Get returns an item within its project/event scope; reads bypass capability
// checks but never cross the scope boundary.
func (s *ItemService) Get(ctx context.Context, projectID, eventID, itemID string) (*gormModels.LabelingItem, error) {
	item, err := s.items.GetScoped(ctx, projectID, eventID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &NotFoundError{Resource: "labeling item"}
	}
	return item, nil
}

// ListByEvent returns an event's items in sequence order.
func (s *ItemService) ListByEvent(ctx context.Context, projectID, eventID string) ([]gormModels.LabelingItem, error) {
	event, err := s.events.GetByID(ctx, projectID, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, &NotFoundError{Resource: "event"}
	}
	return s.items.ListByEvent(ctx, eventID)
}

// Update applies a field-scoped edit and invokes the recompute hook with the
// explicit changed-field list.
func (s *ItemService) Update(ctx context.Context, user *gormModels.User, projectID, eventID, itemID string, req *dtos.ItemUpdateRequest) (*gormModels.LabelingItem, error) {
	item, err := s.Get(ctx, projectID, eventID, itemID)
	if err != nil {
		return nil, err
	}
	if d := permissions.CanEdit(user, item); !d.Allowed {
		return nil, &PermissionError{Reason: d.Reason}
	}

	updates, err := buildUpdateMap(req.Fields)
	if err != nil {
		return nil, err
	}
	if err := s.items.UpdateFields(ctx, itemID, updates); err != nil {
		return nil, err
	}

	changed := req.Changed
	if len(changed) == 0 {
		for f := range updates {
			changed = append(changed, f)
		}
	}

	item, err = s.Get(ctx, projectID, eventID, itemID)
	if err != nil {
		return nil, err
	}
	s.topics.RecomputeIfRelevant(ctx, item, changed)
	return item, nil
}

// Delete removes a draft item and its review trail.
func (s *ItemService) Delete(ctx context.Context, user *gormModels.User, projectID, eventID, itemID string) error {
	item, err := s.Get(ctx, projectID, eventID, itemID)
	if err != nil {
		return err
	}
	if d := permissions.CanDelete(user, item); !d.Allowed {
		return &PermissionError{Reason: d.Reason}
	}
	return s.items.Delete(ctx, itemID)
}

// buildUpdateMap keeps the edit surface to the reviewable fields. Status and
// the computed topic columns are never writable through this path.
func buildUpdateMap(fields map[string]any) (map[string]any, error) {
	updates := make(map[string]any, len(fields))
	for name, value := range fields {
		if _, ok := constants.ReviewableFields[name]; !ok {
			return nil, &ValidationError{Field: name, Message: "field is not editable"}
		}

		// Array-valued fields are stored JSON-serialized; a raw map update
		// bypasses the model serializer, so encode here.
		switch value.(type) {
		case []any, []string, map[string]any:
			data, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("failed to encode field %s: %w", name, err)
			}
			updates[name] = string(data)
		default:
			updates[name] = value
		}
	}
	return updates, nil
}
