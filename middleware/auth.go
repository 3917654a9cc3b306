package middleware

import (
	"context"
	"net/http"

	"jewelry-commerce/utils"
)

// Key type for context
type contextKey string

const AdminContextKey = contextKey("admin")

// AdminAuth gates admin-only pages on the presence of a valid session
// cookie set by the admin login.
func AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(utils.SessionCookieName)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseSessionToken(cookie.Value)
		if err != nil || claims.Role != "admin" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AdminContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
