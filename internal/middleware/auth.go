package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/financetracker/backend/internal/session"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "session_token"

type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware is the single shared authorization guard: it resolves the
// session cookie against the store and injects the user id into the request
// context. Every gated route goes through here rather than re-checking
// per handler.
func AuthMiddleware(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			userID, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": "Unauthorized",
	})
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user id set by AuthMiddleware.
func UserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
