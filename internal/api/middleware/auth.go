package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/TheBigR/diceGame-back/internal/api/apierr"
	"github.com/TheBigR/diceGame-back/internal/services/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Auth creates authentication middleware that verifies bearer tokens
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			claims, err := authService.VerifyToken(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetClaims returns the verified identity from the request context
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims
}

// MustGetClaims returns the verified identity or panics
func MustGetClaims(ctx context.Context) *auth.Claims {
	claims := GetClaims(ctx)
	if claims == nil {
		panic("no claims in context - auth middleware not applied?")
	}
	return claims
}
