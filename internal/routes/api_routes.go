package routes

import (
	"aerosafety/labelboard/internal/api"
	"aerosafety/labelboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(deps.Repo.Users)) // global: all routes must be authenticated

		v1.Route("/projects/{projectID}", func(project chi.Router) {

			// Event analytics
			project.Get("/events", handlers.FilterEvents())
			project.Get("/summary", handlers.ProjectSummary())

			// Labeling items
			project.Route("/events/{eventID}/items", func(items chi.Router) {
				items.Post("/", handlers.CreateItem())
				items.Get("/", handlers.ListItems())
				items.Get("/{itemID}", handlers.GetItem())
				items.Patch("/{itemID}", handlers.UpdateItem())
				items.Delete("/{itemID}", handlers.DeleteItem())

				// Creator-side workflow
				items.Post("/{itemID}/resubmit", handlers.ResubmitItem())
				items.Get("/{itemID}/history", handlers.ReviewHistory())

				// Reviewer-only group
				items.Group(func(reviewer chi.Router) {
					reviewer.Use(middleware.IsReviewerMiddleware())

					reviewer.Post("/{itemID}/approve", handlers.ApproveItem())
					reviewer.Post("/{itemID}/reject", handlers.RejectItem())
					reviewer.Post("/{itemID}/request-revision", handlers.RequestRevision())
				})
			})
		})

		// Taxonomy dropdowns
		v1.Get("/taxonomy/options", handlers.ListTaxonomyOptions())

		// User administration
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())
			admin.Delete("/users/{userID}", handlers.DeleteUser())
		})

		// Task locks
		v1.Route("/locks/{task}", func(locks chi.Router) {
			locks.Get("/", handlers.LockStatus())
			locks.Post("/acquire", handlers.AcquireLock())
			locks.Post("/release", handlers.ReleaseLock())

			// Admin-only group
			locks.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())
				admin.Delete("/", handlers.ForceReleaseLock())
			})
		})
	})
}
