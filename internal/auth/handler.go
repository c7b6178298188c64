package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tasklight/tasklight/internal/httpx"
	"github.com/tasklight/tasklight/internal/models"
)

// Client-facing messages. Internal failures collapse to a fixed generic
// message per route; validation messages are stable strings the client can
// display verbatim.
const (
	msgInvalidEmail       = "Please enter a valid email."
	msgPasswordTooShort   = "Password must be at least 6 characters."
	msgEmailTaken         = "Email already in use."
	msgInvalidCredentials = "Invalid email or password."
	msgSignupFailed       = "Failed to create account."
	msgLoginFailed        = "Failed to sign in."
	msgLogoutFailed       = "Failed to sign out."
	msgSessionFailed      = "Failed to read session."
)

// Handler holds the auth HTTP handlers.
type Handler struct {
	svc    *Service
	secure bool // sets the cookie Secure attribute
	log    *slog.Logger
}

func NewHandler(svc *Service, secure bool, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, secure: secure, log: log}
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, token, err := h.svc.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			httpx.Error(w, http.StatusBadRequest, msgInvalidEmail)
		case errors.Is(err, ErrPasswordTooShort):
			httpx.Error(w, http.StatusBadRequest, msgPasswordTooShort)
		case errors.Is(err, ErrEmailTaken):
			httpx.Error(w, http.StatusConflict, msgEmailTaken)
		default:
			h.log.Error("signup failed", "error", err)
			httpx.Error(w, http.StatusInternalServerError, msgSignupFailed)
		}
		return
	}

	http.SetCookie(w, NewSessionCookie(token, h.secure))
	httpx.WriteJSON(w, http.StatusCreated, map[string]interface{}{"user": user.Public()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password, TokenFromRequest(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			httpx.Error(w, http.StatusBadRequest, msgInvalidEmail)
		case errors.Is(err, ErrInvalidCredentials):
			httpx.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		default:
			h.log.Error("login failed", "error", err)
			httpx.Error(w, http.StatusInternalServerError, msgLoginFailed)
		}
		return
	}

	http.SetCookie(w, NewSessionCookie(token, h.secure))
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user.Public()})
}

// Logout handles POST /auth/logout. The cookie is cleared even when no
// session existed.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), TokenFromRequest(r)); err != nil {
		h.log.Error("logout failed", "error", err)
		httpx.Error(w, http.StatusInternalServerError, msgLogoutFailed)
		return
	}

	http.SetCookie(w, ClearedSessionCookie(h.secure))
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Session handles GET /auth/session. A missing or dead session is a 200 with
// a null user, not an error.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context(), TokenFromRequest(r))
	if err != nil {
		h.log.Error("session lookup failed", "error", err)
		httpx.Error(w, http.StatusInternalServerError, msgSessionFailed)
		return
	}

	var public *models.PublicUser
	if user != nil {
		public = user.Public()
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": public})
}
