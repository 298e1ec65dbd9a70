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

// Package launchpad wires the launcher together: a BadgerDB store for
// counters and deletions, a manifest directory as the app and shortcut
// inventory, and the ranking engine.
package launchpad

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/poiesic/launchpad/action"
	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/engine"
	"github.com/poiesic/launchpad/inventory"
	"github.com/poiesic/launchpad/inventory/manifest"
	"github.com/poiesic/launchpad/storage"
	"github.com/poiesic/launchpad/storage/badger"
)

type Launcher struct {
	cfg      *config.Config
	backend  *badger.Backend
	store    storage.Store
	provider *manifest.Provider
	loader   *inventory.Loader
	engine   *engine.Engine
	watch    bool
	logger   *slog.Logger
}

// Option configures a Launcher.
type Option func(*launcherOptions)

type launcherOptions struct {
	sink       action.Sink
	registerer prometheus.Registerer
	watch      bool
	logger     *slog.Logger
}

// WithSink sets where launch requests go. Default prints them to stdout.
func WithSink(sink action.Sink) Option {
	return func(o *launcherOptions) {
		o.sink = sink
	}
}

// WithMetrics registers engine metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *launcherOptions) {
		o.registerer = reg
	}
}

// WithWatch sets whether Start watches the manifest directory. Default true.
func WithWatch(watch bool) Option {
	return func(o *launcherOptions) {
		o.watch = watch
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *launcherOptions) {
		o.logger = logger
	}
}

// Open validates cfg and opens every component. Nothing runs until Start.
func Open(cfg *config.Config, opts ...Option) (*Launcher, error) {
	options := &launcherOptions{
		watch:  true,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.sink == nil {
		options.sink = action.NewLogSink(os.Stdout)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(cfg.DataDir, cfg.InMemory)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := manifest.NewProvider(cfg.ManifestDir,
		manifest.WithDebounce(cfg.WatchDebounce),
		manifest.WithShortcutHost(cfg.ShortcutHost),
		manifest.WithLogger(options.logger),
	)
	if err != nil {
		store.Close()
		backend.Close()
		return nil, err
	}

	loader, err := inventory.NewLoader(provider, provider, inventory.WithLogger(options.logger))
	if err != nil {
		store.Close()
		backend.Close()
		return nil, err
	}

	eng, err := engine.New(store, loader, options.sink,
		engine.WithPoolSize(cfg.PoolSize),
		engine.WithLaunchDelay(cfg.LaunchDelay),
		engine.WithMetrics(options.registerer),
		engine.WithLogger(options.logger),
	)
	if err != nil {
		store.Close()
		backend.Close()
		return nil, err
	}

	return &Launcher{
		cfg:      cfg,
		backend:  backend,
		store:    store,
		provider: provider,
		loader:   loader,
		engine:   eng,
		watch:    options.watch,
		logger:   options.logger,
	}, nil
}

// Start starts the engine and, unless disabled, the manifest watcher.
func (l *Launcher) Start(ctx context.Context) error {
	if l.watch {
		if err := l.provider.Watch(ctx); err != nil {
			return err
		}
	}
	return l.engine.Start(ctx)
}

func (l *Launcher) Config() *config.Config {
	return l.cfg
}

func (l *Launcher) Engine() *engine.Engine {
	return l.engine
}

func (l *Launcher) Store() storage.Store {
	return l.store
}

func (l *Launcher) Provider() *manifest.Provider {
	return l.provider
}

// Close stops the engine, recording pending launches, then closes the
// watcher and the store.
func (l *Launcher) Close() error {
	if err := l.engine.Close(); err != nil {
		l.logger.Error("error closing engine", "err", err)
	}
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing manifest provider", "err", err)
	}

	if err := l.store.Close(); err != nil {
		l.logger.Error("error closing store", "err", err)
		return err
	}

	// Close backend
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
