package middleware

import (
	"net/http"

	"aerosafety/labelboard/internal/auth"
	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/permissions"
)

// IsReviewerMiddleware gates review endpoints to roles carrying the review
// capability.
func IsReviewerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !permissions.CanReview(claims.Role()) {
				http.Error(w, "Unauthorized. Reviewer role required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsAdminMiddleware gates administrative endpoints.
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || claims.Role() != constants.RoleAdmin {
				http.Error(w, "Unauthorized. Admin role required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
