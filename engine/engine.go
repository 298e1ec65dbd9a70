// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/poiesic/launchpad/action"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/internal/broadcast"
	"github.com/poiesic/launchpad/ranking"
	"github.com/poiesic/launchpad/storage"
)

const releaseTimeout = 5 * time.Second

// Inventory produces the launch item set. *inventory.Loader implements it.
type Inventory interface {
	Load(ctx context.Context) ([]core.LaunchItem, error)
	AppChanges() <-chan struct{}
	ShortcutChanges() <-chan struct{}
}

// Snapshot is one published state of the ranked list. Snapshots are shared
// between observers and must not be modified.
type Snapshot struct {
	// Version increases with every published snapshot. Zero means nothing
	// was computed yet.
	Version uint64
	// Ready is set once the inventory was loaded and both store snapshots
	// arrived.
	Ready bool
	ranking.Result
}

// Engine owns the ranked launch list and executes user actions.
type Engine struct {
	store       storage.Store
	inventory   Inventory
	sink        action.Sink
	poolSize    int
	launchDelay time.Duration
	registerer  prometheus.Registerer
	logger      *slog.Logger

	pool    *ants.Pool
	metrics *metrics

	// inputs
	items    mailbox[[]core.LaunchItem]
	query    mailbox[string]
	counters mailbox[core.Counters]
	deleted  mailbox[core.DeletedSet]
	wake     chan struct{}

	// publication
	pubMu     sync.Mutex
	version   uint64
	current   atomic.Pointer[Snapshot]
	snapshots *broadcast.Broadcaster[*Snapshot]

	// inventory loads
	loadGen    atomic.Uint64
	loadQueued atomic.Bool
	appliedMu  sync.Mutex
	appliedGen uint64

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	closed    bool
	pending   map[uint64]pendingRecord
	nextTimer uint64
	records   sync.WaitGroup
	workers   sync.WaitGroup
}

type pendingRecord struct {
	id    string
	timer *time.Timer
}

// Option configures an Engine.
type Option func(*Engine) error

// WithPoolSize sets the number of workers loading the inventory.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		e.poolSize = size
		return nil
	}
}

// WithLaunchDelay sets the delay between a launch request and recording the
// launch. Default is action.DefaultLaunchDelay.
func WithLaunchDelay(delay time.Duration) Option {
	return func(e *Engine) error {
		if delay < 0 {
			delay = 0
		}
		e.launchDelay = delay
		return nil
	}
}

// WithMetrics registers the engine metrics on reg.
// By default metrics are collected but not registered.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) error {
		e.registerer = reg
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// New creates an engine. The engine does not own store, inventory or sink;
// they must outlive it.
func New(store storage.Store, inventory Inventory, sink action.Sink, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if inventory == nil {
		return nil, ErrInventoryRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	e := &Engine{
		store:       store,
		inventory:   inventory,
		sink:        sink,
		poolSize:    poolSize,
		launchDelay: action.DefaultLaunchDelay,
		logger:      slog.Default(),
		wake:        make(chan struct{}, 1),
		snapshots:   broadcast.New[*Snapshot](nil),
		pending:     make(map[uint64]pendingRecord),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(e.poolSize)
	if err != nil {
		return nil, err
	}
	e.pool = pool
	e.metrics = newMetrics(e.registerer)
	e.current.Store(&Snapshot{})

	return e, nil
}

// Start subscribes to the store, watches the providers for changes and
// requests the first inventory load. The engine runs until ctx is done or
// Close is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.ctx != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)

	counters, err := e.store.ObserveCounters(runCtx)
	if err != nil {
		cancel()
		return err
	}
	deleted, err := e.store.ObserveDeleted(runCtx)
	if err != nil {
		cancel()
		return err
	}

	e.ctx = runCtx
	e.cancel = cancel

	e.workers.Add(4)
	go func() {
		defer e.workers.Done()
		e.run(runCtx)
	}()
	go func() {
		defer e.workers.Done()
		forward(counters, &e.counters, e.poke)
	}()
	go func() {
		defer e.workers.Done()
		forward(deleted, &e.deleted, e.poke)
	}()
	go func() {
		defer e.workers.Done()
		e.watchInventory(runCtx)
	}()

	e.poke()
	e.requestLoad(runCtx)
	return nil
}

// forward copies every value of ch into box until ch closes.
func forward[T any](ch <-chan T, box *mailbox[T], poke func()) {
	for v := range ch {
		box.put(v)
		poke()
	}
}

// run is the owner goroutine: it is the only caller of recompute.
func (e *Engine) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.wake:
			e.recompute()
		}
	}
}

// poke wakes the owner goroutine. Pokes made while one is pending coalesce.
func (e *Engine) poke() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) recompute() {
	start := time.Now()

	items, loaded := e.items.get()
	query, _ := e.query.get()
	counters, haveCounters := e.counters.get()
	deleted, haveDeleted := e.deleted.get()

	result := ranking.RankResult(items, query, counters, deleted)

	e.pubMu.Lock()
	e.version++
	snap := &Snapshot{
		Version: e.version,
		Ready:   loaded && haveCounters && haveDeleted,
		Result:  result,
	}
	e.current.Store(snap)
	e.snapshots.Publish(snap)
	e.pubMu.Unlock()

	e.metrics.recomputations.Inc()
	e.metrics.resultSize.Set(float64(len(result.Items)))
	e.metrics.recomputeDuration.Observe(time.Since(start).Seconds())
	e.logger.Debug("recomputed launch list",
		"version", snap.Version, "query", query, "items", len(result.Items), "ready", snap.Ready)
}

func (e *Engine) watchInventory(ctx context.Context) {
	apps := e.inventory.AppChanges()
	shortcuts := e.inventory.ShortcutChanges()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-apps:
			if !ok {
				apps = nil
				continue
			}
			e.logger.Debug("app inventory changed")
			e.requestLoad(ctx)
		case _, ok := <-shortcuts:
			if !ok {
				shortcuts = nil
				continue
			}
			e.logger.Debug("shortcut inventory changed")
			e.requestLoad(ctx)
		}
	}
}

// Refresh requests an inventory load.
func (e *Engine) Refresh() error {
	e.mu.Lock()
	ctx, closed := e.ctx, e.closed
	e.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if ctx == nil {
		return ErrNotStarted
	}
	e.requestLoad(ctx)
	return nil
}

// requestLoad bumps the generation and queues a load unless one is already
// queued; the queued load picks up the newest generation when it starts.
func (e *Engine) requestLoad(ctx context.Context) {
	e.loadGen.Add(1)
	if !e.loadQueued.CompareAndSwap(false, true) {
		return
	}

	err := e.pool.Submit(func() {
		e.loadQueued.Store(false)
		e.load(ctx, e.loadGen.Load())
	})
	if err != nil {
		e.loadQueued.Store(false)
		e.metrics.inventoryLoads.WithLabelValues(loadRejected).Inc()
		e.logger.Error("error submitting inventory load", "err", err)
	}
}

func (e *Engine) load(ctx context.Context, gen uint64) {
	if ctx.Err() != nil {
		return
	}

	items, err := e.inventory.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		e.metrics.inventoryLoads.WithLabelValues(loadError).Inc()
		e.logger.Error("error loading inventory, keeping previous items", "generation", gen, "err", err)
		return
	}

	e.appliedMu.Lock()
	if gen < e.appliedGen {
		e.appliedMu.Unlock()
		e.metrics.inventoryLoads.WithLabelValues(loadStale).Inc()
		e.logger.Debug("discarding stale inventory load", "generation", gen)
		return
	}
	e.appliedGen = gen
	e.items.put(items)
	e.appliedMu.Unlock()

	e.metrics.inventoryLoads.WithLabelValues(loadOK).Inc()
	e.logger.Debug("inventory loaded", "generation", gen, "items", len(items))
	e.poke()
}

// SetQuery replaces the search query.
func (e *Engine) SetQuery(query string) {
	e.query.put(query)
	e.poke()
}

// ResetQuery clears the search query.
func (e *Engine) ResetQuery() {
	e.SetQuery("")
}

// Current returns the latest published snapshot.
func (e *Engine) Current() *Snapshot {
	return e.current.Load()
}

// Subscribe streams snapshots, starting with the current one. A slow
// subscriber only ever receives the newest snapshot. The channel closes when
// ctx is done or the engine is closed.
func (e *Engine) Subscribe(ctx context.Context) (<-chan *Snapshot, error) {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()

	ch, err := e.snapshots.Subscribe(ctx, e.current.Load())
	if err != nil {
		return nil, ErrClosed
	}
	return ch, nil
}

// WaitReady blocks until a ready snapshot whose query equals the latest
// query is published, and returns it.
func (e *Engine) WaitReady(ctx context.Context) (*Snapshot, error) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := e.Subscribe(subCtx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case snap, ok := <-ch:
			if !ok {
				return nil, ErrClosed
			}
			query, _ := e.query.get()
			if snap.Ready && snap.Query == query {
				return snap, nil
			}
		}
	}
}

// Close records pending launches, stops the engine and releases the worker
// pool. The store, inventory and sink are left open.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	pending := e.pending
	e.pending = nil
	cancel := e.cancel
	e.mu.Unlock()

	for _, p := range pending {
		if p.timer.Stop() {
			e.recordLaunch(p.id)
			e.records.Done()
		}
	}
	e.records.Wait()

	if cancel != nil {
		cancel()
	}
	e.workers.Wait()

	if err := e.pool.ReleaseTimeout(releaseTimeout); err != nil {
		e.logger.Warn("error releasing inventory pool", "err", err)
	}
	e.snapshots.Close()
	return nil
}
