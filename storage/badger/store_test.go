package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/storage"
)

const (
	mapsID   = "com.maps/com.maps.Main"
	mailID   = "com.mail/com.mail.Inbox"
	folderID = "shortcut/pinned-1"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, backend, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		backend.Close()
	})
	return store
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero T
	return zero
}

func TestStore_EmptySnapshots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	counters, err := store.Counters(ctx)
	require.NoError(t, err)
	assert.Empty(t, counters)

	deleted, err := store.Deleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestStore_RecordLaunch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordLaunch(ctx, mapsID))
	require.NoError(t, store.RecordLaunch(ctx, mapsID))
	require.NoError(t, store.RecordLaunch(ctx, folderID))

	counters, err := store.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Counters{mapsID: 2, folderID: 1}, counters)
}

func TestStore_EmptyID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.RecordLaunch(ctx, ""), storage.ErrEmptyID)
	assert.ErrorIs(t, store.Deprioritize(ctx, ""), storage.ErrEmptyID)
	assert.ErrorIs(t, store.Undeprioritize(ctx, ""), storage.ErrEmptyID)
	assert.ErrorIs(t, store.Delete(ctx, ""), storage.ErrEmptyID)
}

func TestStore_DeprioritizeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordLaunch(ctx, mapsID))
	require.NoError(t, store.RecordLaunch(ctx, mapsID))

	require.NoError(t, store.Deprioritize(ctx, mapsID))
	counters, err := store.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.DeprioritizedCount, counters[mapsID])
	assert.True(t, counters.IsDeprioritized(mapsID))

	// launches do not lift the sentinel
	require.NoError(t, store.RecordLaunch(ctx, mapsID))
	counters, err = store.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.DeprioritizedCount, counters[mapsID])

	require.NoError(t, store.Undeprioritize(ctx, mapsID))
	counters, err = store.Counters(ctx)
	require.NoError(t, err)
	_, present := counters[mapsID]
	assert.False(t, present)
	assert.Equal(t, int64(0), counters.Get(mapsID))
}

func TestStore_UndeprioritizeUnknownIsNoop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Undeprioritize(ctx, mailID))
	counters, err := store.Counters(ctx)
	require.NoError(t, err)
	assert.Empty(t, counters)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, mailID))
	require.NoError(t, store.Delete(ctx, mailID))
	require.NoError(t, store.Delete(ctx, folderID))

	deleted, err := store.Deleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.NewDeletedSet(mailID, folderID), deleted)
}

func TestStore_ObserveCounters(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.RecordLaunch(ctx, mapsID))

	ch, err := store.ObserveCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Counters{mapsID: 1}, receive(t, ch))

	require.NoError(t, store.RecordLaunch(ctx, mailID))
	assert.Equal(t, core.Counters{mapsID: 1, mailID: 1}, receive(t, ch))

	require.NoError(t, store.Deprioritize(ctx, mapsID))
	assert.Equal(t, core.Counters{mapsID: -1, mailID: 1}, receive(t, ch))
}

func TestStore_ObserveCountersConflates(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.ObserveCounters(ctx)
	require.NoError(t, err)

	for range 10 {
		require.NoError(t, store.RecordLaunch(ctx, mapsID))
	}

	// The pending slot holds only the newest snapshot.
	assert.Equal(t, core.Counters{mapsID: 10}, receive(t, ch))
}

func TestStore_ObserveCountersNoPublishWithoutChange(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Deprioritize(ctx, mapsID))
	ch, err := store.ObserveCounters(ctx)
	require.NoError(t, err)
	receive(t, ch)

	require.NoError(t, store.Deprioritize(ctx, mapsID))
	require.NoError(t, store.RecordLaunch(ctx, mapsID))
	require.NoError(t, store.Undeprioritize(ctx, mailID))

	select {
	case v := <-ch:
		t.Fatalf("unexpected snapshot %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStore_ObserveDeleted(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.ObserveDeleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, receive(t, ch))

	require.NoError(t, store.Delete(ctx, folderID))
	assert.Equal(t, core.NewDeletedSet(folderID), receive(t, ch))
}

func TestStore_ObserveStopsOnCancel(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := store.ObserveCounters(ctx)
	require.NoError(t, err)
	receive(t, ch)

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestStore_Close(t *testing.T) {
	store, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	ch, err := store.ObserveDeleted(ctx)
	require.NoError(t, err)
	receive(t, ch)

	require.NoError(t, store.Close())

	_, ok := <-ch
	assert.False(t, ok)

	assert.ErrorIs(t, store.RecordLaunch(ctx, mapsID), storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Delete(ctx, mapsID), storage.ErrStorageClosed)
	_, err = store.Counters(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = store.ObserveCounters(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	assert.False(t, backend.IsClosed())
}

func TestStore_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	store, err := NewStore(backend)
	require.NoError(t, err)
	require.NoError(t, store.RecordLaunch(ctx, mapsID))
	require.NoError(t, store.Deprioritize(ctx, mailID))
	require.NoError(t, store.Delete(ctx, folderID))
	require.NoError(t, store.Close())
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()
	store, err = NewStore(backend)
	require.NoError(t, err)
	defer store.Close()

	counters, err := store.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Counters{mapsID: 1, mailID: -1}, counters)

	deleted, err := store.Deleted(ctx)
	require.NoError(t, err)
	assert.True(t, deleted.Contains(folderID))
}
