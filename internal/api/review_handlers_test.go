package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"aerosafety/labelboard/internal/auth"
	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/db/repositories"
	"aerosafety/labelboard/internal/metrics"
	"aerosafety/labelboard/internal/models/dtos"
	gormModels "aerosafety/labelboard/internal/models/gorm"
	"aerosafety/labelboard/internal/services"
)

// promauto registers against the default registry, so one registry per test
// process.
var testMetrics = metrics.NewMetricsRegistry()

func setupTestHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
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

	repos := &Repositories{
		Users:    repositories.NewUserRepository(db),
		Items:    repositories.NewItemRepository(db),
		Events:   repositories.NewEventRepository(db),
		Reviews:  repositories.NewReviewRepository(db),
		Taxonomy: repositories.NewTaxonomyRepository(db),
	}

	topicSvc := services.NewTopicService(repos.Taxonomy, repos.Items, nil)
	svcs := &Services{
		Notifier: services.NoopNotifier{},
		Topics:   topicSvc,
		Items:    services.NewItemService(repos.Items, repos.Events, topicSvc),
		Review:   services.NewReviewService(db, repositories.NewReviewRepository(db), services.NoopNotifier{}),
	}

	deps := &Dependencies{Repo: repos, Services: svcs, Metrics: testMetrics}
	return NewHandlers(deps), db
}

func seedReviewFixtures(t *testing.T, db *gorm.DB, itemStatus constants.ItemStatus) {
	users := []gormModels.User{
		{ID: "reviewer-1", Username: "reviewer", Role: "admin", IsActive: true},
		{ID: "annot-1", Username: "annotator", Role: "annotator", IsActive: true},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
	}

	event := gormModels.AviationEvent{ID: "event-1", ProjectID: "project-1", Title: "Test event"}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}

	creator := "annot-1"
	item := gormModels.LabelingItem{ID: "item-1", EventID: "event-1", Sequence: 1, Status: itemStatus, CreatedByID: &creator}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
}

func reviewRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()
	r.Route("/projects/{projectID}/events/{eventID}/items", func(items chi.Router) {
		items.Patch("/{itemID}", h.UpdateItem())
		items.Post("/{itemID}/approve", h.ApproveItem())
		items.Post("/{itemID}/reject", h.RejectItem())
		items.Get("/{itemID}/history", h.ReviewHistory())
	})
	return r
}

func doRequest(router chi.Router, method, target, userID string, role constants.Role, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if userID != "" {
		claims := &auth.JWTClaims{UserUUID: userID, UsernameValue: userID, RoleValue: role}
		req = req.WithContext(auth.SetUserClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestApproveItemHandler_Success(t *testing.T) {
	h, db := setupTestHandlers(t)
	seedReviewFixtures(t, db, constants.ItemStatusSubmitted)
	router := reviewRouter(h)

	rec := doRequest(router, "POST", "/projects/project-1/events/event-1/items/item-1/approve",
		"reviewer-1", constants.RoleAdmin, dtos.ReviewActionRequest{Comment: "complete"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dtos.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != string(constants.APIStatusOk) {
		t.Errorf("Expected ok status, got %s", resp.Status)
	}

	var stored gormModels.LabelingItem
	db.First(&stored, "id = ?", "item-1")
	if stored.Status != constants.ItemStatusApproved {
		t.Errorf("Expected item approved, got %s", stored.Status)
	}
}

func TestApproveItemHandler_WrongState(t *testing.T) {
	h, db := setupTestHandlers(t)
	seedReviewFixtures(t, db, constants.ItemStatusDraft)
	router := reviewRouter(h)

	rec := doRequest(router, "POST", "/projects/project-1/events/event-1/items/item-1/approve",
		"reviewer-1", constants.RoleAdmin, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestApproveItemHandler_MissingClaims(t *testing.T) {
	h, db := setupTestHandlers(t)
	seedReviewFixtures(t, db, constants.ItemStatusSubmitted)
	router := reviewRouter(h)

	rec := doRequest(router, "POST", "/projects/project-1/events/event-1/items/item-1/approve",
		"", "", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestRejectItemHandler_FeedbackRequired(t *testing.T) {
	h, db := setupTestHandlers(t)
	seedReviewFixtures(t, db, constants.ItemStatusSubmitted)
	router := reviewRouter(h)

	rec := doRequest(router, "POST", "/projects/project-1/events/event-1/items/item-1/reject",
		"reviewer-1", constants.RoleAdmin, dtos.ReviewActionRequest{Status: "rejected_partial"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateItemHandler_SubmittedItemLocked(t *testing.T) {
	h, db := setupTestHandlers(t)
	seedReviewFixtures(t, db, constants.ItemStatusSubmitted)
	router := reviewRouter(h)

	rec := doRequest(router, "PATCH", "/projects/project-1/events/event-1/items/item-1",
		"annot-1", constants.RoleAnnotator, dtos.ItemUpdateRequest{
			Fields: map[string]any{"notes": "sneaky edit"},
		})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dtos.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Message != constants.MsgEditSubmitted {
		t.Errorf("Expected denial reason %q, got %q", constants.MsgEditSubmitted, resp.Message)
	}
}

func TestReviewHistoryHandler_ReturnsTrail(t *testing.T) {
	h, db := setupTestHandlers(t)
	seedReviewFixtures(t, db, constants.ItemStatusSubmitted)
	router := reviewRouter(h)

	// Approve first so the trail has one decision.
	rec := doRequest(router, "POST", "/projects/project-1/events/event-1/items/item-1/approve",
		"reviewer-1", constants.RoleAdmin, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Approve failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, "GET", "/projects/project-1/events/event-1/items/item-1/history",
		"annot-1", constants.RoleAnnotator, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data dtos.ReviewHistoryResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Data.Decisions) != 1 {
		t.Errorf("Expected 1 decision in trail, got %d", len(resp.Data.Decisions))
	}
	if resp.Data.Status != "approved" {
		t.Errorf("Expected approved status, got %s", resp.Data.Status)
	}
}
