package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tasklight/tasklight/internal/models"
	"github.com/tasklight/tasklight/internal/store"
)

// UserStore persists account records under both the email and the id key so
// either can be resolved in one round trip.
type UserStore struct {
	kv store.KV
}

func NewUserStore(kv store.KV) *UserStore {
	return &UserStore{kv: kv}
}

// Create stores the user under both keys, without expiry.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.kv.Set(ctx, store.UserEmailKey(u.Email), raw, 0); err != nil {
		return err
	}
	return s.kv.Set(ctx, store.UserIDKey(u.ID), raw, 0)
}

// FindByEmail resolves a normalized email to a user. Absent or undecodable
// records come back as nil, not an error.
func (s *UserStore) FindByEmail(ctx context.Context, normalizedEmail string) (*models.User, error) {
	return s.find(ctx, store.UserEmailKey(normalizedEmail))
}

// FindByID resolves a user id to a user, with the same absence semantics as
// FindByEmail.
func (s *UserStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return s.find(ctx, store.UserIDKey(userID))
}

func (s *UserStore) find(ctx context.Context, key string) (*models.User, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		// Malformed persisted data is treated as absence.
		return nil, nil
	}
	return &u, nil
}
