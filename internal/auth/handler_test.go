package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	svc, _, _ := newTestService(t)
	return NewHandler(svc, false, nil)
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func TestSignupSetsSessionCookie(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"hunter22"}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	c := sessionCookie(t, rec.Result())
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 604800, c.MaxAge)
	assert.False(t, c.Secure, "Secure only in production deployments")

	var body struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.User.ID)
	assert.Equal(t, "ada@example.com", body.User.Email)

	// The password hash must never appear in a response.
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestSignupConflictStatus(t *testing.T) {
	h := newTestHandler(t)

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`
	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Email already in use."}`, rec.Body.String())
}

func TestLoginGenericFailureMessage(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"hunter22"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	unknown := httptest.NewRecorder()
	h.Login(unknown, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"hunter22"}`)))

	wrongPw := httptest.NewRecorder()
	h.Login(wrongPw, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`)))

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, unknown.Body.String(), wrongPw.Body.String(),
		"unknown user and wrong password must be indistinguishable")
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	c := sessionCookie(t, rec.Result())
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0, "cleared cookie must expire immediately")
}

func TestSessionWithoutCookie(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())
}
