package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/inventory"
)

const mapsManifest = `
package: com.maps
label: Maps
icon: maps.png
activities:
  - name: com.maps.Main
  - name: com.maps.Navigate
    label: Navigate
shortcuts:
  - id: maps-home
    label: Navigate home
    pinned: true
  - id: maps-work
    label: Navigate to work
    pinned: false
  - id: maps-gas
    label: Gas stations
    pinned: true
    enabled: false
`

const dialerManifest = `
package: com.dialer
label: Phone
activities:
  - name: com.dialer.Main
shortcuts:
  - id: call-mom
    label: Call Mom
    icon: mom.png
    pinned: true
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestProvider(t *testing.T, opts ...Option) *Provider {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "com.maps.yaml", mapsManifest)
	writeFile(t, dir, "com.dialer.yml", dialerManifest)
	p, err := NewProvider(dir, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(mapsManifest))
	require.NoError(t, err)
	assert.Equal(t, "com.maps", m.Package)
	assert.Len(t, m.Activities, 2)
	require.Len(t, m.Shortcuts, 3)
	assert.True(t, m.Shortcuts[0].IsEnabled())
	assert.False(t, m.Shortcuts[2].IsEnabled())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "package: [unterminated"},
		{"missing package", "label: X\n"},
		{"activity without name", "package: com.x\nactivities:\n  - label: X\n"},
		{"shortcut without id", "package: com.x\nshortcuts:\n  - label: X\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Package: "com.notes", Label: "Notes", Activities: []Activity{{Name: "com.notes.Main"}}}
	require.NoError(t, Write(dir, m))

	data, err := os.ReadFile(filepath.Join(dir, "com.notes.yaml"))
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, m, parsed)

	assert.ErrorIs(t, Write(dir, &Manifest{}), ErrInvalidManifest)
}

func TestNewProvider_PathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewProvider(file)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestNewProvider_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "apps")
	p, err := NewProvider(dir)
	require.NoError(t, err)

	apps, err := p.Apps(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestProvider_Apps(t *testing.T) {
	p := newTestProvider(t)

	apps, err := p.Apps(context.Background())
	require.NoError(t, err)

	// files are read in name order: com.dialer.yml before com.maps.yaml
	assert.Equal(t, []inventory.App{
		{Label: "Phone", PackageName: "com.dialer", ActivityName: "com.dialer.Main", Icon: ""},
		{Label: "Maps", PackageName: "com.maps", ActivityName: "com.maps.Main", Icon: "maps.png"},
		{Label: "Navigate", PackageName: "com.maps", ActivityName: "com.maps.Navigate", Icon: "maps.png"},
	}, apps)
}

func TestProvider_SkipsInvalidManifests(t *testing.T) {
	p := newTestProvider(t)
	writeFile(t, p.Dir(), "broken.yaml", "package: [")
	writeFile(t, p.Dir(), "notes.txt", "package: com.notes")
	writeFile(t, p.Dir(), ".hidden.yaml", dialerManifest)

	apps, err := p.Apps(context.Background())
	require.NoError(t, err)
	assert.Len(t, apps, 3)
}

func TestProvider_Shortcuts(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	shortcuts, err := p.Shortcuts(ctx, []string{"com.maps", "com.dialer"})
	require.NoError(t, err)
	assert.Equal(t, []inventory.Shortcut{
		{ID: "maps-home", PackageName: "com.maps", Label: "Navigate home", Icon: "maps.png", Handle: "maps-home"},
		{ID: "call-mom", PackageName: "com.dialer", Label: "Call Mom", Icon: "mom.png", Handle: "call-mom"},
	}, shortcuts)

	shortcuts, err = p.Shortcuts(ctx, []string{"com.maps"})
	require.NoError(t, err)
	require.Len(t, shortcuts, 1)
	assert.Equal(t, "maps-home", shortcuts[0].ID)

	shortcuts, err = p.Shortcuts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, shortcuts)
}

func TestProvider_ShortcutHostDenied(t *testing.T) {
	p := newTestProvider(t, WithShortcutHost(false))

	_, err := p.Shortcuts(context.Background(), []string{"com.maps"})
	assert.ErrorIs(t, err, inventory.ErrPermissionDenied)
}

func TestProvider_WithLoader(t *testing.T) {
	p := newTestProvider(t)

	loader, err := inventory.NewLoader(p, p)
	require.NoError(t, err)

	items, err := loader.Load(context.Background())
	require.NoError(t, err)

	var got []string
	for _, item := range items {
		got = append(got, item.ID())
	}
	assert.Equal(t, []string{
		core.AppID("com.dialer", "com.dialer.Main"),
		core.AppID("com.maps", "com.maps.Main"),
		core.AppID("com.maps", "com.maps.Navigate"),
		core.ShortcutID("call-mom"),
		core.ShortcutID("maps-home"),
	}, got)
}

func scanCount(p *Provider) int {
	p.scanMu.Lock()
	defer p.scanMu.Unlock()
	return p.scans
}

func TestProvider_LoadParsesDirectoryOnce(t *testing.T) {
	dir := t.TempDir()
	for i := range 50 {
		writeFile(t, dir, fmt.Sprintf("com.app%02d.yaml", i), fmt.Sprintf(
			"package: com.app%02d\nlabel: App %d\nactivities:\n  - name: Main\nshortcuts:\n  - id: s%02d\n    label: Shortcut %d\n    pinned: true\n",
			i, i, i, i))
	}
	p, err := NewProvider(dir)
	require.NoError(t, err)
	defer p.Close()

	loader, err := inventory.NewLoader(p, p)
	require.NoError(t, err)

	items, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 100)
	assert.Equal(t, 1, scanCount(p))

	writeFile(t, dir, "com.zz.yaml", "package: com.zz\nlabel: Zz\nactivities:\n  - name: Main\nshortcuts:\n  - id: zz\n    label: Zz\n    pinned: true\n")

	items, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 102, "apps re-read the directory on every load")
	assert.Equal(t, 2, scanCount(p))
}

func TestProvider_WatchRefreshesShortcuts(t *testing.T) {
	p := newTestProvider(t, WithDebounce(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shortcuts, err := p.Shortcuts(ctx, []string{"com.notes"})
	require.NoError(t, err)
	assert.Empty(t, shortcuts)

	require.NoError(t, p.Watch(ctx))
	writeFile(t, p.Dir(), "com.notes.yaml",
		"package: com.notes\nlabel: Notes\nactivities:\n  - name: Main\nshortcuts:\n  - id: new-note\n    label: New note\n    pinned: true\n")

	select {
	case <-p.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected change signal")
	}

	shortcuts, err = p.Shortcuts(ctx, []string{"com.notes"})
	require.NoError(t, err)
	require.Len(t, shortcuts, 1)
	assert.Equal(t, "new-note", shortcuts[0].ID)
}

func TestProvider_WatchSignalsChanges(t *testing.T) {
	p := newTestProvider(t, WithDebounce(20*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, p.Watch(ctx))
	require.NoError(t, p.Watch(ctx))

	writeFile(t, p.Dir(), "com.notes.yaml", "package: com.notes\nlabel: Notes\nactivities:\n  - name: com.notes.Main\n")

	select {
	case <-p.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected change signal")
	}

	apps, err := p.Apps(ctx)
	require.NoError(t, err)
	assert.Len(t, apps, 4)

	require.NoError(t, os.Remove(filepath.Join(p.Dir(), "com.maps.yaml")))
	select {
	case <-p.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected change signal after removal")
	}
}

func TestProvider_WatchIgnoresOtherFiles(t *testing.T) {
	p := newTestProvider(t, WithDebounce(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, p.Watch(ctx))
	writeFile(t, p.Dir(), "readme.txt", "hello")

	select {
	case <-p.Changes():
		t.Fatal("unexpected change signal")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProvider_CloseStopsWatch(t *testing.T) {
	p := newTestProvider(t)
	require.NoError(t, p.Watch(context.Background()))
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}
