package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"blogapi/internal/auth"

	"github.com/google/uuid"
)

// RequireAuth verifies the Bearer access token and stores the caller's user
// ID on the request context. Requests without a valid token never reach the
// wrapped handler.
func RequireAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				writeUnauthorized(w, r, "missing bearer token")
				return
			}
			userID, err := tokens.ParseAccess(token)
			if err != nil {
				writeUnauthorized(w, r, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// GetUserID returns the authenticated caller set by RequireAuth.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

func extractBearer(r *http.Request) string {
	const prefix = "Bearer "
	if s := r.Header.Get("Authorization"); strings.HasPrefix(s, prefix) {
		return strings.TrimSpace(s[len(prefix):])
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": GetRequestID(r.Context()),
		},
	})
}
