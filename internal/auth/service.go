// Package auth implements accounts, password hashing, and the session
// lifecycle behind the cookie-authenticated API.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tasklight/tasklight/internal/models"
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrPasswordTooShort = errors.New("password too short")
	ErrEmailTaken       = errors.New("email already in use")

	// ErrInvalidCredentials covers both unknown user and wrong password;
	// callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLength = 6

// ListSeeder creates a user's empty ListSet at signup. Satisfied by
// lists.Store.
type ListSeeder interface {
	Save(ctx context.Context, userID string, set models.ListSet) error
}

// Service handles registration, credential verification, and session
// issuance.
type Service struct {
	users    *UserStore
	sessions *SessionStore
	lists    ListSeeder
}

func NewService(users *UserStore, sessions *SessionStore, lists ListSeeder) *Service {
	return &Service{users: users, sessions: sessions, lists: lists}
}

// Signup creates an account, its empty ListSet, and a fresh session. The
// returned token is the session credential to hand to the client.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = NormalizeEmail(email)
	if !IsValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	if err := s.lists.Save(ctx, user.ID, models.EmptyListSet()); err != nil {
		return nil, "", err
	}

	token, err := NewSessionToken()
	if err != nil {
		return nil, "", err
	}
	if err := s.sessions.Create(ctx, token, user.ID); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and (re)binds a session. presentedToken is the
// caller's current cookie value, if any; it is reused only when it already
// resolves to the same user that is authenticating, so the token stays stable
// across re-logins without letting an attacker-chosen token get adopted.
// Otherwise a fresh token is minted. Either way the binding gets the full TTL.
func (s *Service) Login(ctx context.Context, email, password, presentedToken string) (*models.User, string, error) {
	email = NormalizeEmail(email)
	if !IsValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token := presentedToken
	if token != "" {
		owner, err := s.sessions.Get(ctx, token)
		if err != nil {
			return nil, "", err
		}
		if owner != user.ID {
			token = ""
		}
	}
	if token == "" {
		token, err = NewSessionToken()
		if err != nil {
			return nil, "", err
		}
	}

	if err := s.sessions.Create(ctx, token, user.ID); err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout deletes the session bound to token. Idempotent: no token or an
// unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves token → session → user. Any missing link yields
// (nil, nil), not an error.
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}
	return s.users.FindByID(ctx, userID)
}
