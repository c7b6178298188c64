// Package client is the Go client for the sync API: a thin HTTP wrapper plus
// the Controller state machine that drives session bootstrap and debounced
// list persistence.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/tasklight/tasklight/internal/auth"
	"github.com/tasklight/tasklight/internal/models"
)

// APIError is a non-2xx response from the server, carrying the server's
// error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// API talks to the sync server. The session cookie set at signup/login is
// kept in the client's cookie jar and sent on subsequent calls.
type API struct {
	base *url.URL
	http *http.Client
}

func New(base string) (*API, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &API{
		base: u,
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}, nil
}

// Token returns the current session token from the cookie jar, or "".
func (a *API) Token() string {
	for _, c := range a.http.Jar.Cookies(a.base) {
		if c.Name == auth.SessionCookie {
			return c.Value
		}
	}
	return ""
}

// SetToken seeds the cookie jar with a previously saved session token.
func (a *API) SetToken(token string) {
	a.http.Jar.SetCookies(a.base, []*http.Cookie{{
		Name:  auth.SessionCookie,
		Value: token,
		Path:  "/",
	}})
}

func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base.String()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		msg := "Request failed."
		if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
			msg = failure.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(raw) > 0 {
		return json.Unmarshal(raw, out)
	}
	return nil
}

type userResponse struct {
	User *models.PublicUser `json:"user"`
}

type listsResponse struct {
	Lists models.ListSet `json:"lists"`
}

func (a *API) Signup(ctx context.Context, name, email, password string) (*models.PublicUser, error) {
	var resp userResponse
	err := a.do(ctx, http.MethodPost, "/auth/signup",
		models.SignupRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *API) Login(ctx context.Context, email, password string) (*models.PublicUser, error) {
	var resp userResponse
	err := a.do(ctx, http.MethodPost, "/auth/login",
		models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Session returns the current user, or nil when no live session exists.
func (a *API) Session(ctx context.Context) (*models.PublicUser, error) {
	var resp userResponse
	if err := a.do(ctx, http.MethodGet, "/auth/session", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *API) GetLists(ctx context.Context) (models.ListSet, error) {
	var resp listsResponse
	if err := a.do(ctx, http.MethodGet, "/lists", nil, &resp); err != nil {
		return models.EmptyListSet(), err
	}
	return resp.Lists, nil
}

// SaveLists replaces the server-side lists wholesale and returns the
// normalized form the server persisted.
func (a *API) SaveLists(ctx context.Context, set models.ListSet) (models.ListSet, error) {
	var resp listsResponse
	err := a.do(ctx, http.MethodPut, "/lists", map[string]interface{}{"lists": set}, &resp)
	if err != nil {
		return models.EmptyListSet(), err
	}
	return resp.Lists, nil
}
