package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/db/repositories"
	"aerosafety/labelboard/internal/models/dtos"
	gormModels "aerosafety/labelboard/internal/models/gorm"
)

// Mock Notifier
type notifierCall struct {
	EventType   string
	RecipientID string
	Message     string
	Path        string
	Source      string
}

type mockNotifier struct {
	calls []notifierCall
}

func (m *mockNotifier) Notify(ctx context.Context, eventType, recipientID, message, path, source string) {
	m.calls = append(m.calls, notifierCall{eventType, recipientID, message, path, source})
}

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&gormModels.User{},
		&gormModels.Project{},
		&gormModels.AviationEvent{},
		&gormModels.LabelingItem{},
		&gormModels.ReviewDecision{},
		&gormModels.FieldFeedback{},
		&gormModels.ResultPerformance{},
		&gormModels.DropdownOption{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func seedEvent(t *testing.T, db *gorm.DB) *gormModels.AviationEvent {
	event := &gormModels.AviationEvent{
		ID:             "event-1",
		ProjectID:      "project-1",
		Title:          "Unstable approach",
		OccurrenceDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		AircraftType:   "A320",
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	return event
}

func seedItem(t *testing.T, db *gorm.DB, status constants.ItemStatus, creator string) *gormModels.LabelingItem {
	item := &gormModels.LabelingItem{
		ID:          "item-1",
		EventID:     "event-1",
		Sequence:    1,
		Status:      status,
		CreatedByID: &creator,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
	return item
}

func TestReviewService_Approve_Success(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusSubmitted, "creator-1")

	notifier := &mockNotifier{}
	svc := NewReviewService(db, repositories.NewReviewRepository(db), notifier)

	decision, err := svc.Approve(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, "looks complete")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decision.Status != constants.DecisionApproved {
		t.Errorf("Expected decision status approved, got %s", decision.Status)
	}

	var stored gormModels.LabelingItem
	if err := db.First(&stored, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("Failed to reload item: %v", err)
	}
	if stored.Status != constants.ItemStatusApproved {
		t.Errorf("Expected item status approved, got %s", stored.Status)
	}
	if stored.ReviewedByID == nil || *stored.ReviewedByID != "reviewer-1" {
		t.Errorf("Expected reviewed_by reviewer-1, got %v", stored.ReviewedByID)
	}
	if stored.ReviewedAt == nil {
		t.Error("Expected reviewed_at to be set")
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.RecipientID != "creator-1" {
		t.Errorf("Expected notification to creator-1, got %s", call.RecipientID)
	}
	if call.EventType != constants.NotifyItemApproved {
		t.Errorf("Expected event type %s, got %s", constants.NotifyItemApproved, call.EventType)
	}
	if call.Path != "/projects/project-1/events/event-1/items/item-1" {
		t.Errorf("Unexpected notice path %s", call.Path)
	}
}

func TestReviewService_Approve_WrongState(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusDraft, "creator-1")

	notifier := &mockNotifier{}
	svc := NewReviewService(db, repositories.NewReviewRepository(db), notifier)

	_, err := svc.Approve(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, "")
	if err == nil {
		t.Fatal("Expected error approving a draft item")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("Expected ValidationError, got %T", err)
	}

	var count int64
	db.Model(&gormModels.ReviewDecision{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no decision rows, got %d", count)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("Expected no notifications, got %d", len(notifier.calls))
	}
}

func TestReviewService_Approve_NotFound(t *testing.T) {
	db := setupTestDB(t)

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	_, err := svc.Approve(context.Background(), "reviewer-1", "project-1", "event-1", "missing-item", "")
	if err == nil {
		t.Fatal("Expected error for unknown item")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("Expected NotFoundError, got %T", err)
	}
}

func TestReviewService_Reject_Success(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusSubmitted, "creator-1")

	notifier := &mockNotifier{}
	svc := NewReviewService(db, repositories.NewReviewRepository(db), notifier)

	feedbacks := []dtos.FieldFeedbackEntry{
		{FieldName: "threat_type_l3", Type: "partial", Comment: "wrong leaf"},
		{FieldName: "description", Type: "full", Comment: "too short"},
	}
	decision, err := svc.Reject(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, constants.DecisionRejectedPartial, "see notes", feedbacks)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(decision.Feedbacks) != 2 {
		t.Errorf("Expected 2 feedback entries on decision, got %d", len(decision.Feedbacks))
	}

	var stored gormModels.LabelingItem
	db.First(&stored, "id = ?", item.ID)
	if stored.Status != constants.ItemStatusReviewed {
		t.Errorf("Expected item status reviewed, got %s", stored.Status)
	}

	var fbCount int64
	db.Model(&gormModels.FieldFeedback{}).Where("item_id = ?", item.ID).Count(&fbCount)
	if fbCount != 2 {
		t.Errorf("Expected 2 feedback rows, got %d", fbCount)
	}

	if len(notifier.calls) != 1 || notifier.calls[0].EventType != constants.NotifyItemRejected {
		t.Errorf("Expected one rejection notification, got %+v", notifier.calls)
	}
}

func TestReviewService_Reject_RequiresFeedback(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusSubmitted, "creator-1")

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	_, err := svc.Reject(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, constants.DecisionRejectedFull, "", nil)
	if err == nil {
		t.Fatal("Expected error rejecting without feedback")
	}
	validation, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if validation.Field != "field_feedbacks" {
		t.Errorf("Expected field_feedbacks violation, got %s", validation.Field)
	}

	// Nothing persisted: the item is untouched and no decision exists.
	var stored gormModels.LabelingItem
	db.First(&stored, "id = ?", item.ID)
	if stored.Status != constants.ItemStatusSubmitted {
		t.Errorf("Expected item status unchanged, got %s", stored.Status)
	}
	var count int64
	db.Model(&gormModels.ReviewDecision{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no decision rows, got %d", count)
	}
}

func TestReviewService_Reject_UnknownField(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusSubmitted, "creator-1")

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	feedbacks := []dtos.FieldFeedbackEntry{
		{FieldName: "not_a_field", Type: "partial", Comment: "?"},
	}
	_, err := svc.Reject(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, constants.DecisionRejectedPartial, "", feedbacks)
	if err == nil {
		t.Fatal("Expected error for unknown field name")
	}
	validation, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if validation.Field != "field_name" {
		t.Errorf("Expected field_name violation, got %s", validation.Field)
	}
}

func TestReviewService_Reject_InvalidFeedbackType(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusSubmitted, "creator-1")

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	feedbacks := []dtos.FieldFeedbackEntry{
		{FieldName: "notes", Type: "bogus", Comment: "?"},
	}
	_, err := svc.Reject(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, constants.DecisionRejectedPartial, "", feedbacks)
	if err == nil {
		t.Fatal("Expected error for unknown feedback type")
	}
	validation, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if validation.Field != "feedback_type" {
		t.Errorf("Expected feedback_type violation, got %s", validation.Field)
	}
}

func TestReviewService_Reject_InvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	feedbacks := []dtos.FieldFeedbackEntry{{FieldName: "notes", Type: "partial"}}
	_, err := svc.Reject(context.Background(), "reviewer-1", "project-1", "event-1", "item-1", constants.DecisionApproved, "", feedbacks)
	if err == nil {
		t.Fatal("Expected error for non-rejection decision status")
	}
}

func TestReviewService_RequestRevision_Success(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusSubmitted, "creator-1")

	notifier := &mockNotifier{}
	svc := NewReviewService(db, repositories.NewReviewRepository(db), notifier)

	feedbacks := []dtos.FieldFeedbackEntry{
		{FieldName: "impact", Type: "full", Comment: "expand on outcome"},
	}
	decision, err := svc.RequestRevision(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, "minor rework", feedbacks)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decision.Status != constants.DecisionRevisionRequested {
		t.Errorf("Expected revision_requested, got %s", decision.Status)
	}

	var stored gormModels.LabelingItem
	db.First(&stored, "id = ?", item.ID)
	if stored.Status != constants.ItemStatusReviewed {
		t.Errorf("Expected item status reviewed, got %s", stored.Status)
	}
	if len(notifier.calls) != 1 || notifier.calls[0].EventType != constants.NotifyItemRevision {
		t.Errorf("Expected one revision notification, got %+v", notifier.calls)
	}
}

func TestReviewService_Resubmit_Success(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusReviewed, "creator-1")

	reviewerID := "reviewer-1"
	decision := gormModels.ReviewDecision{
		ID:         "decision-1",
		ItemID:     item.ID,
		Status:     constants.DecisionRevisionRequested,
		ReviewerID: &reviewerID,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
	if err := db.Create(&decision).Error; err != nil {
		t.Fatalf("Failed to seed decision: %v", err)
	}

	notifier := &mockNotifier{}
	svc := NewReviewService(db, repositories.NewReviewRepository(db), notifier)

	updated, err := svc.Resubmit(context.Background(), "creator-1", "project-1", "event-1", item.ID, "fixed the leaf selection")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != constants.ItemStatusSubmitted {
		t.Errorf("Expected status submitted, got %s", updated.Status)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifier.calls))
	}
	if notifier.calls[0].RecipientID != "reviewer-1" {
		t.Errorf("Expected notification to reviewer-1, got %s", notifier.calls[0].RecipientID)
	}
	if notifier.calls[0].EventType != constants.NotifyItemResubmitted {
		t.Errorf("Expected event type %s, got %s", constants.NotifyItemResubmitted, notifier.calls[0].EventType)
	}
}

func TestReviewService_Resubmit_NotOwner(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusReviewed, "creator-1")

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	_, err := svc.Resubmit(context.Background(), "someone-else", "project-1", "event-1", item.ID, "")
	if err == nil {
		t.Fatal("Expected error for non-owner resubmit")
	}
	permission, ok := err.(*PermissionError)
	if !ok {
		t.Fatalf("Expected PermissionError, got %T", err)
	}
	if permission.Reason != constants.MsgResubmitNotOwner {
		t.Errorf("Expected reason %q, got %q", constants.MsgResubmitNotOwner, permission.Reason)
	}
}

func TestReviewService_Resubmit_TerminalStates(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusApproved, "creator-1")

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	_, err := svc.Resubmit(context.Background(), "creator-1", "project-1", "event-1", item.ID, "")
	if err == nil {
		t.Fatal("Expected error resubmitting an approved item")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("Expected ValidationError, got %T", err)
	}

	db.Model(&gormModels.LabelingItem{}).Where("id = ?", item.ID).
		Update("status", constants.ItemStatusSubmitted)
	_, err = svc.Resubmit(context.Background(), "creator-1", "project-1", "event-1", item.ID, "")
	if err == nil {
		t.Fatal("Expected error resubmitting an already submitted item")
	}
}

func TestReviewService_Resubmit_NeverReviewed(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusDraft, "creator-1")

	notifier := &mockNotifier{}
	svc := NewReviewService(db, repositories.NewReviewRepository(db), notifier)

	updated, err := svc.Resubmit(context.Background(), "creator-1", "project-1", "event-1", item.ID, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != constants.ItemStatusSubmitted {
		t.Errorf("Expected status submitted, got %s", updated.Status)
	}
	// No prior decision means no reviewer to notify.
	if len(notifier.calls) != 0 {
		t.Errorf("Expected no notifications, got %d", len(notifier.calls))
	}
}

func TestReviewService_GetHistory_PendingFields(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusReviewed, "creator-1")

	reviewerID := "reviewer-1"
	base := time.Now().Add(-3 * time.Hour)
	decisions := []gormModels.ReviewDecision{
		{ID: "d1", ItemID: item.ID, Status: constants.DecisionRejectedPartial, ReviewerID: &reviewerID, CreatedAt: base},
		{ID: "d2", ItemID: item.ID, Status: constants.DecisionRevisionRequested, ReviewerID: &reviewerID, CreatedAt: base.Add(time.Hour)},
	}
	for i := range decisions {
		if err := db.Create(&decisions[i]).Error; err != nil {
			t.Fatalf("Failed to seed decision: %v", err)
		}
	}
	feedbacks := []gormModels.FieldFeedback{
		{ID: "f1", DecisionID: "d1", ItemID: item.ID, FieldName: "threat_type_l3", Type: "partial"},
		{ID: "f2", DecisionID: "d2", ItemID: item.ID, FieldName: "description", Type: "full"},
		{ID: "f3", DecisionID: "d2", ItemID: item.ID, FieldName: "threat_type_l3", Type: "partial"},
	}
	for i := range feedbacks {
		if err := db.Create(&feedbacks[i]).Error; err != nil {
			t.Fatalf("Failed to seed feedback: %v", err)
		}
	}

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	history, err := svc.GetHistory(context.Background(), "project-1", "event-1", item.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(history.Decisions) != 2 {
		t.Fatalf("Expected 2 decisions, got %d", len(history.Decisions))
	}
	// Oldest first.
	if history.Decisions[0].ID != "d1" {
		t.Errorf("Expected d1 first, got %s", history.Decisions[0].ID)
	}

	want := []string{"description", "threat_type_l3"}
	if len(history.PendingFields) != len(want) {
		t.Fatalf("Expected pending fields %v, got %v", want, history.PendingFields)
	}
	for i, f := range want {
		if history.PendingFields[i] != f {
			t.Errorf("Expected pending field %s at %d, got %s", f, i, history.PendingFields[i])
		}
	}
}

func TestReviewService_GetHistory_ApprovedHasNoPendingFields(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusApproved, "creator-1")

	reviewerID := "reviewer-1"
	decision := gormModels.ReviewDecision{
		ID: "d1", ItemID: item.ID, Status: constants.DecisionApproved, ReviewerID: &reviewerID,
	}
	if err := db.Create(&decision).Error; err != nil {
		t.Fatalf("Failed to seed decision: %v", err)
	}

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	history, err := svc.GetHistory(context.Background(), "project-1", "event-1", item.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(history.PendingFields) != 0 {
		t.Errorf("Expected no pending fields, got %v", history.PendingFields)
	}
}

func TestReviewService_GetHistory_EmptyTrail(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusDraft, "creator-1")

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	history, err := svc.GetHistory(context.Background(), "project-1", "event-1", item.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(history.Decisions) != 0 {
		t.Errorf("Expected empty decision trail, got %d entries", len(history.Decisions))
	}
}

func TestReviewService_GetHistory_PendingFieldsResetOnResubmit(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusSubmitted, "creator-1")

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	first := []dtos.FieldFeedbackEntry{{FieldName: "threat_type_l1", Type: "partial", Comment: "wrong branch"}}
	if _, err := svc.Reject(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, constants.DecisionRejectedPartial, "", first); err != nil {
		t.Fatalf("Expected no error on first rejection, got %v", err)
	}

	// Keep the decision and resubmission timestamps apart.
	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Resubmit(context.Background(), "creator-1", "project-1", "event-1", item.ID, "picked the right branch"); err != nil {
		t.Fatalf("Expected no error on resubmit, got %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	second := []dtos.FieldFeedbackEntry{{FieldName: "description", Type: "full", Comment: "too short"}}
	if _, err := svc.Reject(context.Background(), "reviewer-1", "project-1", "event-1", item.ID, constants.DecisionRejectedFull, "", second); err != nil {
		t.Fatalf("Expected no error on second rejection, got %v", err)
	}

	history, err := svc.GetHistory(context.Background(), "project-1", "event-1", item.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(history.Decisions) != 2 {
		t.Fatalf("Expected 2 decisions, got %d", len(history.Decisions))
	}
	// Feedback flagged before the resubmission is no longer outstanding.
	if len(history.PendingFields) != 1 || history.PendingFields[0] != "description" {
		t.Errorf("Expected pending fields [description], got %v", history.PendingFields)
	}
}

func TestReviewService_ScopedToEventAndProject(t *testing.T) {
	db := setupTestDB(t)
	seedEvent(t, db)
	item := seedItem(t, db, constants.ItemStatusSubmitted, "creator-1")

	svc := NewReviewService(db, repositories.NewReviewRepository(db), &mockNotifier{})

	if _, err := svc.Approve(context.Background(), "reviewer-1", "other-project", "event-1", item.ID, ""); err == nil {
		t.Fatal("Expected error approving through the wrong project")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("Expected NotFoundError, got %T", err)
	}

	if _, err := svc.GetHistory(context.Background(), "project-1", "other-event", item.ID); err == nil {
		t.Fatal("Expected error reading history through the wrong event")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("Expected NotFoundError, got %T", err)
	}

	var stored gormModels.LabelingItem
	db.First(&stored, "id = ?", item.ID)
	if stored.Status != constants.ItemStatusSubmitted {
		t.Errorf("Expected item untouched, got status %s", stored.Status)
	}
}
