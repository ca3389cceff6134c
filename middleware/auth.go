package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Azizbek0606/kitchen-inventory/config"
	"github.com/Azizbek0606/kitchen-inventory/util"
)

type contextKey string

// ClaimsContextKey holds the authenticated user's claims on the request
// context.
const ClaimsContextKey contextKey = "claims"

// RequireAuth validates the Bearer token and injects the user's claims
// into the request context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: no Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Unauthorized: invalid Authorization format", http.StatusUnauthorized)
			return
		}

		claims, err := util.ValidateJWT(parts[1], config.JWTSecret())
		if err != nil {
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles allows the request through only when the authenticated
// user holds one of the given roles. Must run after RequireAuth.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || !allowed[claims.Role] {
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext extracts the authenticated user's claims, or nil when
// the request is unauthenticated.
func ClaimsFromContext(ctx context.Context) *util.Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*util.Claims)
	return claims
}
