package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/smartwardrobe/backend/internal/auth"
	"github.com/smartwardrobe/backend/internal/httpx"
	"github.com/smartwardrobe/backend/internal/models"
	"github.com/smartwardrobe/backend/internal/store"
)

type ctxKey int

const userIDKey ctxKey = 0

// UserID returns the authenticated user's id, or "" outside RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID is exported for handler tests.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserResolver checks that a token's subject still exists.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// RequireAuth validates the bearer token and injects the user id into the
// request context. An expired token is reported distinctly from a
// malformed one, and a token whose user no longer exists is rejected.
func RequireAuth(secret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				httpx.Unauthorized(w, "Missing bearer token")
				return
			}

			claims, err := auth.ParseToken(secret, tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					httpx.Unauthorized(w, "Token has expired")
					return
				}
				httpx.Unauthorized(w, "Invalid token")
				return
			}

			if _, err := users.GetByID(r.Context(), claims.UserID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httpx.Unauthorized(w, "User not found")
					return
				}
				httpx.Internal(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}
