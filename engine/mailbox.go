package engine

import "sync"

// mailbox holds the latest value of one input.
type mailbox[T any] struct {
	mu  sync.Mutex
	v   T
	set bool
}

func (m *mailbox[T]) put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.v = v
	m.set = true
}

// get returns the latest value and whether one was ever put.
func (m *mailbox[T]) get() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v, m.set
}
