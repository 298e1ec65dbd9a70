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

package inventory

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/launchpad/core"
)

// Loader builds the launch item set from the providers.
type Loader struct {
	apps        AppProvider
	shortcuts   ShortcutProvider
	concurrency int
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithConcurrency bounds the number of packages whose shortcuts are read at
// once. Default is runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(l *Loader) error {
		if n < 1 {
			n = 1
		}
		l.concurrency = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a Loader. shortcuts may be nil, in which case the
// inventory holds apps only.
func NewLoader(apps AppProvider, shortcuts ShortcutProvider, opts ...Option) (*Loader, error) {
	if apps == nil {
		return nil, ErrAppProviderRequired
	}

	l := &Loader{
		apps:        apps,
		shortcuts:   shortcuts,
		concurrency: runtime.NumCPU(),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// AppChanges returns the app provider's change signal.
func (l *Loader) AppChanges() <-chan struct{} {
	return l.apps.Changes()
}

// ShortcutChanges returns the shortcut provider's change signal, or nil
// when there is no shortcut provider.
func (l *Loader) ShortcutChanges() <-chan struct{} {
	if l.shortcuts == nil {
		return nil
	}
	return l.shortcuts.Changes()
}

// Load enumerates apps, then the shortcuts of their packages, and returns
// the validated item set: apps in provider order followed by shortcuts
// grouped by package in app order.
func (l *Loader) Load(ctx context.Context) ([]core.LaunchItem, error) {
	apps, err := l.apps.Apps(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		l.logger.Warn("error enumerating apps, continuing without them", "err", err)
		apps = nil
	}

	appItems := make([]core.AppItem, len(apps))
	for i, app := range apps {
		appItems[i] = app.Item()
	}

	shortcuts := l.loadShortcuts(ctx, packageNames(apps))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shortcutItems := make([]core.ShortcutItem, len(shortcuts))
	for i, shortcut := range shortcuts {
		shortcutItems[i] = shortcut.Item()
	}

	return core.BuildItems(appItems, shortcutItems)
}

// loadShortcuts reads shortcuts one package at a time. A failing package
// contributes nothing; a permission error drops all shortcuts.
func (l *Loader) loadShortcuts(ctx context.Context, packages []string) []Shortcut {
	if l.shortcuts == nil || len(packages) == 0 {
		return nil
	}

	perPackage := make([][]Shortcut, len(packages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, pkg := range packages {
		g.Go(func() error {
			shortcuts, err := l.shortcuts.Shortcuts(gctx, []string{pkg})
			if err != nil {
				if errors.Is(err, ErrPermissionDenied) {
					return err
				}
				if gctx.Err() == nil {
					l.logger.Warn("error enumerating shortcuts", "package", pkg, "err", err)
				}
				return nil
			}
			perPackage[i] = shortcuts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			l.logger.Info("shortcut access not permitted, continuing without shortcuts")
		} else {
			l.logger.Warn("error enumerating shortcuts, continuing without them", "err", err)
		}
		return nil
	}

	var all []Shortcut
	for _, shortcuts := range perPackage {
		all = append(all, shortcuts...)
	}
	return all
}

// packageNames returns the distinct package names of apps in first-seen
// order.
func packageNames(apps []App) []string {
	seen := make(map[string]struct{}, len(apps))
	names := make([]string, 0, len(apps))
	for _, app := range apps {
		if _, ok := seen[app.PackageName]; ok {
			continue
		}
		seen[app.PackageName] = struct{}{}
		names = append(names, app.PackageName)
	}
	return names
}
