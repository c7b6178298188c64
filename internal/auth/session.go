package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tasklight/tasklight/internal/store"
)

const (
	SessionTTL    = 7 * 24 * time.Hour
	SessionCookie = "todo_session"
)

// SessionStore maps opaque session tokens to user IDs with a 7-day TTL.
type SessionStore struct {
	kv store.KV
}

func NewSessionStore(kv store.KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// Create binds token to userID, refreshing the full TTL. Rebinding an
// existing token is allowed.
func (s *SessionStore) Create(ctx context.Context, token, userID string) error {
	return s.kv.Set(ctx, store.SessionKey(token), []byte(userID), SessionTTL)
}

// Get returns the userID for a token, or "" if not found / expired.
func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	val, err := s.kv.Get(ctx, store.SessionKey(token))
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(val), nil
}

// Delete removes a session. Deleting an absent token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.kv.Delete(ctx, store.SessionKey(token))
}

// NewSessionCookie returns the session cookie carrying token. Secure is set
// only for production-like deployments.
func NewSessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
		Secure:   secure,
	}
}

// ClearedSessionCookie returns the cookie that deletes the session cookie in
// the browser (empty value, Max-Age=0).
func ClearedSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Secure:   secure,
	}
}

// TokenFromRequest extracts the session token from the request cookie, or ""
// when no cookie is present.
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
