package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/db/repositories"
	"aerosafety/labelboard/internal/models/dtos"
	gormModels "aerosafety/labelboard/internal/models/gorm"
)

// ReviewService drives the labeling item status lifecycle:
// draft -> submitted -> reviewed -> (submitted | approved).
// It trusts the caller to have authorized the reviewer; permission gating
// happens at the handler layer.
type ReviewService struct {
	db       *gorm.DB
	reviews  *repositories.ReviewRepository
	notifier Notifier
}

// NewReviewService creates a new review workflow service
func NewReviewService(db *gorm.DB, reviews *repositories.ReviewRepository, notifier Notifier) *ReviewService {
	return &ReviewService{db: db, reviews: reviews, notifier: notifier}
}

const notifySource = "review_workflow"

// Approve records an approving decision on a submitted item and moves it to
// its terminal state. The item's creator is notified; a missing creator is a
// silent no-op.
func (s *ReviewService) Approve(ctx context.Context, reviewerID, projectID, eventID, itemID, comment string) (*gormModels.ReviewDecision, error) {
	var decision gormModels.ReviewDecision
	var item gormModels.LabelingItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadItem(tx, projectID, eventID, itemID, &item); err != nil {
			return err
		}
		if item.Status != constants.ItemStatusSubmitted {
			return &ValidationError{Field: "status", Message: constants.MsgApproveWrongState}
		}

		now := time.Now()
		decision = gormModels.ReviewDecision{
			ID:         uuid.New().String(),
			ItemID:     item.ID,
			Status:     constants.DecisionApproved,
			ReviewerID: &reviewerID,
			Comment:    comment,
		}
		if err := tx.Create(&decision).Error; err != nil {
			return fmt.Errorf("failed to create review decision: %w", err)
		}

		updates := map[string]any{
			"status":      constants.ItemStatusApproved,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}
		item.Status = constants.ItemStatusApproved
		item.ReviewedByID = &reviewerID
		item.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreator(ctx, &item, projectID, eventID, constants.NotifyItemApproved,
		fmt.Sprintf("Labeling item #%d has been approved", item.Sequence))
	return &decision, nil
}

// Reject records a rejecting decision (partial or full) with at least one
// field feedback entry and moves the item to reviewed.
func (s *ReviewService) Reject(ctx context.Context, reviewerID, projectID, eventID, itemID string, status constants.DecisionStatus, comment string, feedbacks []dtos.FieldFeedbackEntry) (*gormModels.ReviewDecision, error) {
	if status != constants.DecisionRejectedPartial && status != constants.DecisionRejectedFull {
		return nil, &ValidationError{Field: "status", Message: "must be rejected_partial or rejected_full"}
	}
	return s.returnForRework(ctx, reviewerID, projectID, eventID, itemID, status, comment, feedbacks,
		constants.NotifyItemRejected, "Labeling item #%d was rejected; please revise the flagged fields")
}

// RequestRevision records a revision request with field feedback and moves
// the item to reviewed.
func (s *ReviewService) RequestRevision(ctx context.Context, reviewerID, projectID, eventID, itemID, comment string, feedbacks []dtos.FieldFeedbackEntry) (*gormModels.ReviewDecision, error) {
	return s.returnForRework(ctx, reviewerID, projectID, eventID, itemID, constants.DecisionRevisionRequested, comment, feedbacks,
		constants.NotifyItemRevision, "Reviewer requested a revision of labeling item #%d")
}

func (s *ReviewService) returnForRework(ctx context.Context, reviewerID, projectID, eventID, itemID string, status constants.DecisionStatus, comment string, feedbacks []dtos.FieldFeedbackEntry, eventType, messageFmt string) (*gormModels.ReviewDecision, error) {
	if len(feedbacks) == 0 {
		return nil, &ValidationError{Field: "field_feedbacks", Message: constants.MsgFeedbackRequired}
	}
	for _, fb := range feedbacks {
		if _, ok := constants.ReviewableFields[fb.FieldName]; !ok {
			return nil, &ValidationError{Field: "field_name", Message: fmt.Sprintf("%q is not a reviewable field", fb.FieldName)}
		}
		if _, ok := constants.ValidFeedbackTypes[constants.FeedbackType(fb.Type)]; !ok {
			return nil, &ValidationError{Field: "feedback_type", Message: fmt.Sprintf("%q is not a valid feedback type", fb.Type)}
		}
	}

	var decision gormModels.ReviewDecision
	var item gormModels.LabelingItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadItem(tx, projectID, eventID, itemID, &item); err != nil {
			return err
		}

		decision = gormModels.ReviewDecision{
			ID:         uuid.New().String(),
			ItemID:     item.ID,
			Status:     status,
			ReviewerID: &reviewerID,
			Comment:    comment,
		}
		if err := tx.Create(&decision).Error; err != nil {
			return fmt.Errorf("failed to create review decision: %w", err)
		}

		for _, fb := range feedbacks {
			feedback := gormModels.FieldFeedback{
				ID:         uuid.New().String(),
				DecisionID: decision.ID,
				ItemID:     item.ID,
				FieldName:  fb.FieldName,
				Type:       constants.FeedbackType(fb.Type),
				Comment:    fb.Comment,
				ReviewerID: &reviewerID,
			}
			if err := tx.Create(&feedback).Error; err != nil {
				return fmt.Errorf("failed to create field feedback: %w", err)
			}
			decision.Feedbacks = append(decision.Feedbacks, feedback)
		}

		if err := tx.Model(&item).Update("status", constants.ItemStatusReviewed).Error; err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}
		item.Status = constants.ItemStatusReviewed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreator(ctx, &item, projectID, eventID, eventType, fmt.Sprintf(messageFmt, item.Sequence))
	return &decision, nil
}

// Resubmit returns a reworked item to the review queue. Only the creator may
// resubmit; the most recent reviewer is notified, and an item that was never
// reviewed notifies nobody. The resubmission timestamp closes out the
// previously flagged fields.
func (s *ReviewService) Resubmit(ctx context.Context, userID, projectID, eventID, itemID, comment string) (*gormModels.LabelingItem, error) {
	var item gormModels.LabelingItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadItem(tx, projectID, eventID, itemID, &item); err != nil {
			return err
		}
		if item.CreatedByID == nil || *item.CreatedByID != userID {
			return &PermissionError{Reason: constants.MsgResubmitNotOwner}
		}
		switch item.Status {
		case constants.ItemStatusApproved:
			return &ValidationError{Field: "status", Message: "approved items cannot be resubmitted"}
		case constants.ItemStatusSubmitted:
			return &ValidationError{Field: "status", Message: "item is already submitted"}
		}

		now := time.Now()
		updates := map[string]any{
			"status":         constants.ItemStatusSubmitted,
			"resubmitted_at": now,
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}
		item.Status = constants.ItemStatusSubmitted
		item.ResubmittedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The resubmission itself records no decision, so the latest decision is
	// unchanged by the transaction above.
	lastReviewer := ""
	latest, err := s.reviews.Latest(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.ReviewerID != nil {
		lastReviewer = *latest.ReviewerID
	}

	message := fmt.Sprintf("Labeling item #%d was resubmitted for review", item.Sequence)
	if comment != "" {
		message = fmt.Sprintf("%s: %s", message, comment)
	}
	s.notify(ctx, itemPath(projectID, eventID, item.ID), constants.NotifyItemResubmitted, lastReviewer, message)
	return &item, nil
}

// GetHistory returns the full decision trail plus the set of fields with
// outstanding reviewer feedback. An empty trail is a valid result for a
// never-reviewed item.
func (s *ReviewService) GetHistory(ctx context.Context, projectID, eventID, itemID string) (*dtos.ReviewHistoryResponse, error) {
	var item gormModels.LabelingItem
	if err := loadItem(s.db.WithContext(ctx), projectID, eventID, itemID, &item); err != nil {
		return nil, err
	}

	decisions, err := s.reviews.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	resp := &dtos.ReviewHistoryResponse{
		ItemID:        item.ID,
		Status:        item.Status.String(),
		Decisions:     make([]dtos.ReviewDecisionResponse, 0, len(decisions)),
		PendingFields: pendingFields(&item, decisions),
	}
	for _, d := range decisions {
		resp.Decisions = append(resp.Decisions, toDecisionResponse(&d))
	}
	return resp, nil
}

// pendingFields collects the field names flagged by the trailing run of
// non-approval decisions recorded since the last resubmission. Approval or
// resubmission closes out the set, so only the reviewed state carries
// outstanding flags.
func pendingFields(item *gormModels.LabelingItem, decisions []gormModels.ReviewDecision) []string {
	if item.Status != constants.ItemStatusReviewed {
		return []string{}
	}

	fields := make(map[string]struct{})
	for i := len(decisions) - 1; i >= 0; i-- {
		if decisions[i].Status == constants.DecisionApproved {
			break
		}
		if item.ResubmittedAt != nil && decisions[i].CreatedAt.Before(*item.ResubmittedAt) {
			break
		}
		for _, fb := range decisions[i].Feedbacks {
			fields[fb.FieldName] = struct{}{}
		}
	}

	return common.SortedKeys(fields)
}

func toDecisionResponse(d *gormModels.ReviewDecision) dtos.ReviewDecisionResponse {
	resp := dtos.ReviewDecisionResponse{
		ID:         d.ID,
		Status:     d.Status.String(),
		ReviewerID: d.ReviewerID,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
		Feedbacks:  make([]dtos.FieldFeedbackResponse, 0, len(d.Feedbacks)),
	}
	for _, fb := range d.Feedbacks {
		resp.Feedbacks = append(resp.Feedbacks, dtos.FieldFeedbackResponse{
			ID:        fb.ID,
			FieldName: fb.FieldName,
			Type:      string(fb.Type),
			Comment:   fb.Comment,
			CreatedAt: fb.CreatedAt,
		})
	}
	return resp
}

// loadItem fetches an item strictly within its project/event path scope. An
// item reached through the wrong project or event is indistinguishable from a
// missing one.
func loadItem(tx *gorm.DB, projectID, eventID, itemID string, item *gormModels.LabelingItem) error {
	err := tx.
		Joins("JOIN aviation_events ON aviation_events.id = labeling_items.event_id").
		Where("labeling_items.id = ? AND labeling_items.event_id = ? AND aviation_events.project_id = ?",
			itemID, eventID, projectID).
		First(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "labeling item"}
		}
		return fmt.Errorf("failed to fetch labeling item: %w", err)
	}
	return nil
}

func (s *ReviewService) notifyCreator(ctx context.Context, item *gormModels.LabelingItem, projectID, eventID, eventType, message string) {
	recipient := ""
	if item.CreatedByID != nil {
		recipient = *item.CreatedByID
	}
	s.notify(ctx, itemPath(projectID, eventID, item.ID), eventType, recipient, message)
}

func (s *ReviewService) notify(ctx context.Context, path, eventType, recipient, message string) {
	if recipient == "" {
		return
	}
	s.notifier.Notify(ctx, eventType, recipient, message, path, notifySource)
}

// itemPath builds the deep-link path carried on every notice.
func itemPath(projectID, eventID, itemID string) string {
	return fmt.Sprintf("/projects/%s/events/%s/items/%s", projectID, eventID, itemID)
}
