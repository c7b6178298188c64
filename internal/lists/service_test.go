package lists

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklight/tasklight/internal/models"
	"github.com/tasklight/tasklight/internal/store"
)

type fakeArchiver struct {
	snapshots chan []byte
}

func newFakeArchiver() *fakeArchiver {
	return &fakeArchiver{snapshots: make(chan []byte, 8)}
}

func (f *fakeArchiver) Archive(_ context.Context, _ string, snapshot []byte) error {
	f.snapshots <- snapshot
	return nil
}

func newTestService(t *testing.T) (*Service, store.KV) {
	t.Helper()
	kv := store.NewMemory()
	return NewService(NewStore(kv), nil, nil), kv
}

func TestGetListsLazyDefault(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()

	set, err := svc.GetLists(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, set.Private)
	assert.Empty(t, set.Public)

	// The default is now persisted, not just returned.
	raw, err := kv.Get(ctx, store.ListsKey("u1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"private":[],"public":[]}`, string(raw))

	// Reading again is a plain read of that same default.
	again, err := svc.GetLists(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, set, again)
}

func TestSaveListsRoundTripsNormalizedForm(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var candidate interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"private": [
			{"id":"1","text":" hi ","completed":"yes","priority":"urgent"},
			{"id":"2","text":"   "},
			{"text":"no id"}
		],
		"public": []
	}`), &candidate))

	saved, err := svc.SaveLists(ctx, "u1", candidate)
	require.NoError(t, err)
	require.Len(t, saved.Private, 1, "invalid tasks are dropped")
	assert.Equal(t, "hi", saved.Private[0].Text)
	assert.True(t, saved.Private[0].Completed)
	assert.Equal(t, models.PriorityMedium, saved.Private[0].Priority)
	assert.Positive(t, saved.Private[0].CreatedAt)

	got, err := svc.GetLists(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestSaveListsReplacesWholesale(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := map[string]interface{}{
		"private": []interface{}{map[string]interface{}{"id": "1", "text": "one"}},
		"public":  []interface{}{},
	}
	_, err := svc.SaveLists(ctx, "u1", first)
	require.NoError(t, err)

	second := map[string]interface{}{
		"private": []interface{}{map[string]interface{}{"id": "2", "text": "two"}},
		"public":  []interface{}{},
	}
	saved, err := svc.SaveLists(ctx, "u1", second)
	require.NoError(t, err)

	require.Len(t, saved.Private, 1)
	assert.Equal(t, "2", saved.Private[0].ID, "no merge: last write wins")
}

func TestGetListsMalformedDocumentTreatedAsAbsent(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()

	cases := map[string]string{
		"invalid json":   `{{{`,
		"not an object":  `"garbage"`,
		"array toplevel": `[1,2,3]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set(ctx, store.ListsKey("u1"), []byte(raw), 0))

			set, err := svc.GetLists(ctx, "u1")
			require.NoError(t, err)
			assert.Empty(t, set.Private)
			assert.Empty(t, set.Public)

			stored, err := kv.Get(ctx, store.ListsKey("u1"))
			require.NoError(t, err)
			assert.JSONEq(t, `{"private":[],"public":[]}`, string(stored),
				"unusable document is replaced by the default")
		})
	}
}

func TestGetListsCoercesNonArrayFields(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, store.ListsKey("u1"),
		[]byte(`{"private":{"bogus":1},"public":null}`), 0))

	set, err := svc.GetLists(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, set.Private)
	assert.Empty(t, set.Private)
	assert.NotNil(t, set.Public)
	assert.Empty(t, set.Public)
}

func TestSaveListsArchivesSnapshot(t *testing.T) {
	kv := store.NewMemory()
	archiver := newFakeArchiver()
	svc := NewService(NewStore(kv), archiver, nil)

	candidate := map[string]interface{}{
		"private": []interface{}{map[string]interface{}{"id": "1", "text": "archived"}},
		"public":  []interface{}{},
	}
	saved, err := svc.SaveLists(context.Background(), "u1", candidate)
	require.NoError(t, err)

	select {
	case snapshot := <-archiver.snapshots:
		var set models.ListSet
		require.NoError(t, json.Unmarshal(snapshot, &set))
		assert.Equal(t, saved, set)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot archived")
	}
}
