package engine

import "errors"

var (
	// ErrStoreRequired is returned when a store is not provided.
	ErrStoreRequired = errors.New("store required")

	// ErrInventoryRequired is returned when an inventory is not provided.
	ErrInventoryRequired = errors.New("inventory required")

	// ErrSinkRequired is returned when an action sink is not provided.
	ErrSinkRequired = errors.New("action sink required")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrNotStarted is returned by operations that need a started engine.
	ErrNotStarted = errors.New("engine not started")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("engine closed")
)
