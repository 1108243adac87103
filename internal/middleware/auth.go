package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"aerosafety/labelboard/internal/auth"
	"aerosafety/labelboard/internal/db/repositories"
	"aerosafety/labelboard/internal/permissions"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "labelboard-dev-secret"
	}
	return []byte(secret)
}

// AuthMiddleware authenticates the bearer token and resolves the caller's
// role once per request. The role comes from the user row, not the token, so
// role changes take effect immediately.
func AuthMiddleware(userRepo *repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return jwtSecret(), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			mapClaims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Unauthorized. Invalid token claims", http.StatusUnauthorized)
				return
			}
			userID, _ := mapClaims["sub"].(string)
			if userID == "" {
				http.Error(w, "Unauthorized. Invalid token subject", http.StatusUnauthorized)
				return
			}

			user, err := userRepo.GetByID(r.Context(), userID)
			if err != nil || user == nil || !user.IsActive {
				http.Error(w, "Unauthorized. Unknown user", http.StatusUnauthorized)
				return
			}

			claims := &auth.JWTClaims{
				UserUUID:      user.ID,
				UsernameValue: user.Username,
				RoleValue:     permissions.ResolveRole(user),
				Superuser:     user.IsSuperuser,
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
