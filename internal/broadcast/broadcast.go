// Package broadcast fans out snapshots to observers that only care about
// the newest value.
package broadcast

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when subscribing to a closed Broadcaster.
var ErrClosed = errors.New("broadcaster closed")

// Broadcaster delivers values to observers. Each observer has a one-slot
// buffer holding the newest undelivered value, so a slow observer never
// blocks Publish and never receives an outdated value after a newer one.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]chan T
	nextID uint64
	closed bool
	clone  func(T) T

	// done releases the per-subscription goroutines on Close.
	done     chan struct{}
	watchers sync.WaitGroup
}

// New creates a Broadcaster. clone copies a value for each observer; nil
// means values are shared as-is and must be immutable.
func New[T any](clone func(T) T) *Broadcaster[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Broadcaster[T]{
		subs:  make(map[uint64]chan T),
		clone: clone,
		done:  make(chan struct{}),
	}
}

// Subscribe registers an observer primed with initial. The channel closes
// when ctx is done or the Broadcaster is closed.
func (b *Broadcaster[T]) Subscribe(ctx context.Context, initial T) (<-chan T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	ch := make(chan T, 1)
	ch <- b.clone(initial)
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	b.watchers.Add(1)
	go func() {
		defer b.watchers.Done()
		select {
		case <-ctx.Done():
			b.unsubscribe(id)
		case <-b.done:
		}
	}()

	return ch, nil
}

func (b *Broadcaster[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish replaces any pending value of every observer with v.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		value := b.clone(v)
		select {
		case ch <- value:
		default:
			// Publish is the only sender and holds b.mu, so after draining
			// the stale value the send cannot block.
			select {
			case <-ch:
			default:
			}
			ch <- value
		}
	}
}

// Close closes every observer channel and waits for the subscription
// goroutines to exit. Later Subscribe calls fail and Publish calls do
// nothing.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()

	b.watchers.Wait()
}

// Len returns the number of observers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
