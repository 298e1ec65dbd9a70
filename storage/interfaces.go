package storage

import (
	"context"

	"github.com/poiesic/launchpad/core"
)

// CounterStore persists per-item launch counters, including the
// deprioritization sentinel. Implementations must be thread-safe.
type CounterStore interface {
	// ObserveCounters returns a stream of counter snapshots. The current
	// snapshot is delivered first, then a new one after every change. Each
	// snapshot is complete and replaces the previous one. A slow reader only
	// ever sees the latest snapshot. The channel closes when ctx is done or
	// the store is closed.
	ObserveCounters(ctx context.Context) (<-chan core.Counters, error)

	// Counters returns the current snapshot.
	Counters(ctx context.Context) (core.Counters, error)

	// RecordLaunch increments the count for id, creating it at 1.
	// A deprioritized id keeps its sentinel; clear it with Undeprioritize first.
	RecordLaunch(ctx context.Context, id string) error

	// Deprioritize sets the sentinel for id unconditionally.
	Deprioritize(ctx context.Context, id string) error

	// Undeprioritize removes the counter for id. The launch history from
	// before the item was deprioritized is not restored.
	Undeprioritize(ctx context.Context, id string) error
}

// DeletedStore persists the ids of soft-deleted items.
// Implementations must be thread-safe.
type DeletedStore interface {
	// ObserveDeleted streams deleted-set snapshots with the same semantics as
	// CounterStore.ObserveCounters.
	ObserveDeleted(ctx context.Context) (<-chan core.DeletedSet, error)

	// Deleted returns the current snapshot.
	Deleted(ctx context.Context) (core.DeletedSet, error)

	// Delete adds id to the set. Deleting twice is a no-op.
	Delete(ctx context.Context, id string) error
}

// Store combines both stores over one backend.
type Store interface {
	CounterStore
	DeletedStore

	// Close releases resources and closes all observer streams.
	Close() error
}
