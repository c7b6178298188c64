package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBasicOps(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "k", []byte("v1"), 0))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, m.Set(ctx, "k", []byte("v2"), 0))
	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is fine.
	require.NoError(t, m.Delete(ctx, "k"))
}

func TestMemoryTTL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "temp", []byte("v"), 20*time.Millisecond))
	require.NoError(t, m.Set(ctx, "perm", []byte("v"), 0))

	_, err := m.Get(ctx, "temp")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = m.Get(ctx, "temp")
	assert.ErrorIs(t, err, ErrNotFound, "expired key behaves like an absent one")
	_, err = m.Get(ctx, "perm")
	assert.NoError(t, err)
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	val := []byte("original")
	require.NoError(t, m.Set(ctx, "k", val, 0))
	val[0] = 'X'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got, "stored value must not alias caller memory")
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "user:email:a@b.com", UserEmailKey("a@b.com"))
	assert.Equal(t, "user:id:u1", UserIDKey("u1"))
	assert.Equal(t, "session:tok", SessionKey("tok"))
	assert.Equal(t, "lists:u1", ListsKey("u1"))
}
