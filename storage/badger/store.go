package badger

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/internal/broadcast"
	"github.com/poiesic/launchpad/storage"
)

// Store implements storage.Store for BadgerDB.
type Store struct {
	backend *Backend
	logger  *slog.Logger

	// mu serializes writes with snapshot publication so observers receive
	// snapshots in commit order.
	mu       sync.Mutex
	closed   bool
	counters *broadcast.Broadcaster[core.Counters]
	deleted  *broadcast.Broadcaster[core.DeletedSet]
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a Store on top of backend. The backend stays owned by the
// caller and must outlive the store.
func NewStore(backend *Backend) (storage.Store, error) {
	return newStore(backend), nil
}

func newStore(backend *Backend) *Store {
	return &Store{
		backend:  backend,
		logger:   backend.logger,
		counters: broadcast.New(core.Counters.Clone),
		deleted:  broadcast.New(core.DeletedSet.Clone),
	}
}

// Close closes every observer stream. The backend is left open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.counters.Close()
	s.deleted.Close()
	return nil
}

// ObserveCounters streams counter snapshots, starting with the current one.
func (s *Store) ObserveCounters(ctx context.Context) (<-chan core.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readCounters()
	if err != nil {
		return nil, err
	}
	return subscribe(ctx, s.counters, current)
}

// Counters returns the current counter snapshot.
func (s *Store) Counters(ctx context.Context) (core.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCounters()
}

// RecordLaunch increments the launch count of id.
func (s *Store) RecordLaunch(ctx context.Context, id string) error {
	return s.updateCounter(id, func(current int64, found bool) (int64, bool) {
		if found && current == core.DeprioritizedCount {
			s.logger.Debug("launch of deprioritized item not recorded", "id", id)
			return current, false
		}
		return current + 1, true
	})
}

// Deprioritize stores the deprioritization sentinel for id.
func (s *Store) Deprioritize(ctx context.Context, id string) error {
	return s.updateCounter(id, func(current int64, found bool) (int64, bool) {
		if found && current == core.DeprioritizedCount {
			return current, false
		}
		return core.DeprioritizedCount, true
	})
}

// Undeprioritize removes the counter of id, returning it to the neutral tier.
func (s *Store) Undeprioritize(ctx context.Context, id string) error {
	if id == "" {
		return storage.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return storage.ErrStorageClosed
	}

	changed := false
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCounterKey(id)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		changed = true
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	if changed {
		s.publishCounters()
	}
	return nil
}

// updateCounter applies fn to the stored counter of id in a write
// transaction. fn returns the new value and whether to write it.
func (s *Store) updateCounter(id string, fn func(current int64, found bool) (int64, bool)) error {
	if id == "" {
		return storage.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return storage.ErrStorageClosed
	}

	changed := false
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCounterKey(id)
		current, found, err := readCount(tx, key)
		if err != nil {
			return err
		}
		next, write := fn(current, found)
		if !write {
			return nil
		}
		if err := tx.Set(key, storage.MarshalCount(next)); err != nil {
			return err
		}
		changed = true
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	if changed {
		s.publishCounters()
	}
	return nil
}

// ObserveDeleted streams deleted-set snapshots, starting with the current one.
func (s *Store) ObserveDeleted(ctx context.Context) (<-chan core.DeletedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readDeleted()
	if err != nil {
		return nil, err
	}
	return subscribe(ctx, s.deleted, current)
}

// Deleted returns the current deleted-set snapshot.
func (s *Store) Deleted(ctx context.Context) (core.DeletedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readDeleted()
}

// Delete marks id as deleted. The marker key carries no value.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return storage.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return storage.ErrStorageClosed
	}

	changed := false
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDeletedKey(id)
		if _, err := tx.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set(key, nil); err != nil {
			return err
		}
		changed = true
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	if changed {
		s.publishDeleted()
	}
	return nil
}

// publishCounters must be called with s.mu held.
func (s *Store) publishCounters() {
	counters, err := s.readCounters()
	if err != nil {
		s.logger.Error("error reading counters after write", "err", err)
		return
	}
	s.counters.Publish(counters)
}

// publishDeleted must be called with s.mu held.
func (s *Store) publishDeleted() {
	deleted, err := s.readDeleted()
	if err != nil {
		s.logger.Error("error reading deleted items after write", "err", err)
		return
	}
	s.deleted.Publish(deleted)
}

func (s *Store) readCounters() (core.Counters, error) {
	if s.isClosed() {
		return nil, storage.ErrStorageClosed
	}

	counters := make(core.Counters)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(counterPrefix), func(key, val []byte) error {
			count, err := storage.UnmarshalCount(val)
			if err != nil {
				return err
			}
			counters[idFromKey(key, counterPrefix)] = count
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return counters, nil
}

func (s *Store) readDeleted() (core.DeletedSet, error) {
	if s.isClosed() {
		return nil, storage.ErrStorageClosed
	}

	deleted := make(core.DeletedSet)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(deletedPrefix), func(key, _ []byte) error {
			deleted[idFromKey(key, deletedPrefix)] = struct{}{}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func subscribe[T any](ctx context.Context, b *broadcast.Broadcaster[T], current T) (<-chan T, error) {
	ch, err := b.Subscribe(ctx, current)
	if errors.Is(err, broadcast.ErrClosed) {
		return nil, storage.ErrStorageClosed
	}
	return ch, err
}

// isClosed must be called with s.mu held.
func (s *Store) isClosed() bool {
	return s.closed || s.backend.IsClosed()
}

// readCount reads a counter inside tx. found is false when the key is absent.
func readCount(tx *badger.Txn, key []byte) (int64, bool, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	var count int64
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		count, unmarshalErr = storage.UnmarshalCount(val)
		return unmarshalErr
	})
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}
