package middleware

import (
	"context"
	"net/http"

	"github.com/tasklight/tasklight/internal/auth"
	"github.com/tasklight/tasklight/internal/httpx"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth validates the session cookie and injects the resolved user id
// into the request context. Missing cookie, unknown token, and expired token
// all produce the same 401; only the session → user id link is validated, not
// the user record itself.
func RequireAuth(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := sessions.Get(r.Context(), token)
			if err != nil || userID == "" {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user id placed by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
