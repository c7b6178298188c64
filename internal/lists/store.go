// Package lists implements normalization and persistence of per-user task
// lists, and their HTTP surface.
package lists

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tasklight/tasklight/internal/models"
	"github.com/tasklight/tasklight/internal/store"
)

// Store persists each user's ListSet as a single JSON document keyed by user
// id. Saves replace the document wholesale.
type Store struct {
	kv store.KV
}

func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

// Get returns the raw decoded document for userID. ok is false when no
// usable document exists: the key is absent, the bytes are not valid JSON, or
// the top-level value is not an object. Malformed data is never an error.
func (s *Store) Get(ctx context.Context, userID string) (map[string]interface{}, bool, error) {
	raw, err := s.kv.Get(ctx, store.ListsKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false, nil
	}
	doc, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, false, nil
	}
	return doc, true, nil
}

// Save stores set as userID's document, replacing any prior value.
func (s *Store) Save(ctx context.Context, userID string, set models.ListSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal lists: %w", err)
	}
	return s.kv.Set(ctx, store.ListsKey(userID), raw, 0)
}
