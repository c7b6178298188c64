// Package store provides the flat key-value keyspace that backs users,
// sessions, and lists, with interchangeable Redis, PostgreSQL, MongoDB, and
// in-memory implementations.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or has expired.
var ErrNotFound = errors.New("key not found")

// KV is a flat key-value store with optional per-key expiry. A ttl of zero
// stores the key without expiry. Values are opaque bytes (JSON documents in
// practice).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Key builders for the shared keyspace layout.

func UserEmailKey(normalizedEmail string) string { return "user:email:" + normalizedEmail }

func UserIDKey(userID string) string { return "user:id:" + userID }

func SessionKey(token string) string { return "session:" + token }

func ListsKey(userID string) string { return "lists:" + userID }
