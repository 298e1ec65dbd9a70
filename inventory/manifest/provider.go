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

package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/poiesic/launchpad/inventory"
)

// DefaultDebounce is how long the directory must be quiet before a change
// is signalled.
const DefaultDebounce = 100 * time.Millisecond

// Provider serves apps and shortcuts from a manifest directory. It
// implements both inventory.AppProvider and inventory.ShortcutProvider; a
// change to any manifest fires the shared change signal.
type Provider struct {
	dir          string
	debounce     time.Duration
	shortcutHost bool
	logger       *slog.Logger
	notifier     *inventory.Notifier

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}

	// scanMu guards the parsed directory. cacheGen is bumped on every
	// manifest event; a scan that started before the bump is not cached.
	scanMu   sync.Mutex
	cache    *scan
	cacheGen uint64
	scans    int
}

// scan is one parse of the manifest directory.
type scan struct {
	manifests []*Manifest
	byPackage map[string][]*Manifest
}

func newScan(manifests []*Manifest) *scan {
	byPackage := make(map[string][]*Manifest, len(manifests))
	for _, m := range manifests {
		byPackage[m.Package] = append(byPackage[m.Package], m)
	}
	return &scan{manifests: manifests, byPackage: byPackage}
}

var (
	_ inventory.AppProvider      = (*Provider)(nil)
	_ inventory.ShortcutProvider = (*Provider)(nil)
)

// Option configures a Provider.
type Option func(*Provider) error

// WithDebounce sets the quiet period before a change is signalled.
// Default is DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(p *Provider) error {
		if d < 0 {
			d = 0
		}
		p.debounce = d
		return nil
	}
}

// WithShortcutHost sets whether the provider may report shortcuts. When
// false, Shortcuts returns inventory.ErrPermissionDenied. Default is true.
func WithShortcutHost(allowed bool) Option {
	return func(p *Provider) error {
		p.shortcutHost = allowed
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProvider creates a provider for dir, creating the directory if it does
// not exist.
func NewProvider(dir string, opts ...Option) (*Provider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	p := &Provider{
		dir:          dir,
		debounce:     DefaultDebounce,
		shortcutHost: true,
		logger:       slog.Default(),
		notifier:     inventory.NewNotifier(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Dir returns the manifest directory.
func (p *Provider) Dir() string {
	return p.dir
}

// Changes fires after a manifest was added, changed or removed. Watch must
// be running for changes to be detected.
func (p *Provider) Changes() <-chan struct{} {
	return p.notifier.Changes()
}

// Apps returns one app per activity of every manifest, in file order.
// Unreadable or invalid manifests are logged and skipped. Apps always
// re-reads the directory.
func (p *Provider) Apps(ctx context.Context) ([]inventory.App, error) {
	sc, err := p.rescan(ctx)
	if err != nil {
		return nil, err
	}

	var apps []inventory.App
	for _, m := range sc.manifests {
		for _, a := range m.Activities {
			label := a.Label
			if label == "" {
				label = m.Label
			}
			icon := a.Icon
			if icon == "" {
				icon = m.Icon
			}
			apps = append(apps, inventory.App{
				Label:        label,
				PackageName:  m.Package,
				ActivityName: a.Name,
				Icon:         icon,
			})
		}
	}
	return apps, nil
}

// Shortcuts returns the pinned, enabled shortcuts of packageNames, in
// package order. It reads the manifests parsed by the latest Apps call;
// the directory is parsed again when a watch event dropped that parse.
func (p *Provider) Shortcuts(ctx context.Context, packageNames []string) ([]inventory.Shortcut, error) {
	if !p.shortcutHost {
		return nil, inventory.ErrPermissionDenied
	}

	sc, err := p.cached(ctx)
	if err != nil {
		return nil, err
	}

	var shortcuts []inventory.Shortcut
	seen := make(map[string]struct{}, len(packageNames))
	for _, name := range packageNames {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		for _, m := range sc.byPackage[name] {
			shortcuts = append(shortcuts, pinnedShortcuts(m)...)
		}
	}
	return shortcuts, nil
}

func pinnedShortcuts(m *Manifest) []inventory.Shortcut {
	var shortcuts []inventory.Shortcut
	for _, s := range m.Shortcuts {
		if !s.Pinned || !s.IsEnabled() {
			continue
		}
		icon := s.Icon
		if icon == "" {
			icon = m.Icon
		}
		shortcuts = append(shortcuts, inventory.Shortcut{
			ID:          s.ID,
			PackageName: m.Package,
			Label:       s.Label,
			Icon:        icon,
			Handle:      s.ID,
		})
	}
	return shortcuts
}

// rescan parses the directory and caches the result.
func (p *Provider) rescan(ctx context.Context) (*scan, error) {
	p.scanMu.Lock()
	gen := p.cacheGen
	p.scanMu.Unlock()

	manifests, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	sc := newScan(manifests)

	p.scanMu.Lock()
	defer p.scanMu.Unlock()
	p.scans++
	if gen == p.cacheGen {
		p.cache = sc
	}
	return sc, nil
}

// cached returns the cached scan, parsing the directory when there is none.
func (p *Provider) cached(ctx context.Context) (*scan, error) {
	p.scanMu.Lock()
	if p.cache != nil {
		sc := p.cache
		p.scanMu.Unlock()
		return sc, nil
	}
	p.scanMu.Unlock()
	return p.rescan(ctx)
}

func (p *Provider) invalidate() {
	p.scanMu.Lock()
	defer p.scanMu.Unlock()
	p.cacheGen++
	p.cache = nil
}

func (p *Provider) load(ctx context.Context) ([]*Manifest, error) {
	files, err := manifestFiles(p.dir)
	if err != nil {
		return nil, err
	}

	manifests := make([]*Manifest, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(file)
		if err != nil {
			p.logger.Warn("error reading manifest", "file", file, "err", err)
			continue
		}
		m, err := Parse(data)
		if err != nil {
			p.logger.Warn("skipping manifest", "file", file, "err", err)
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// Watch starts watching the manifest directory until ctx is done or Close
// is called. Calling Watch on a watching provider is a no-op.
func (p *Provider) Watch(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(p.dir); err != nil {
		watcher.Close()
		return err
	}

	p.watcher = watcher
	p.done = make(chan struct{})
	go p.run(ctx, watcher, p.done)
	return nil
}

func (p *Provider) run(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isManifestFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			p.logger.Debug("manifest event", "file", event.Name, "op", event.Op.String())
			p.invalidate()
			p.scheduleNotify()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("manifest watcher error", "err", err)
		case <-ctx.Done():
			p.stopWatching()
			return
		}
	}
}

// scheduleNotify signals a change once the directory has been quiet for the
// debounce period.
func (p *Provider) scheduleNotify() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, p.notifier.Notify)
}

func (p *Provider) stopWatching() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.watcher != nil {
		if err := p.watcher.Close(); err != nil {
			p.logger.Warn("error closing manifest watcher", "err", err)
		}
		p.watcher = nil
	}
}

// Close stops watching and waits for the watch loop to exit.
func (p *Provider) Close() error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	p.stopWatching()
	if done != nil {
		<-done
	}
	return nil
}
