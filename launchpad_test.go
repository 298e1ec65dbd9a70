package launchpad

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/launchpad/action"
	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/engine"
	"github.com/poiesic/launchpad/inventory/manifest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.NewConfig(
		config.WithDataDir(filepath.Join(root, "db")),
		config.WithManifestDir(filepath.Join(root, "apps")),
		config.WithLaunchDelay(0),
	)
	require.NoError(t, os.MkdirAll(cfg.ManifestDir, 0o755))
	require.NoError(t, manifest.Write(cfg.ManifestDir, &manifest.Manifest{
		Package:    "com.maps",
		Label:      "Maps",
		Activities: []manifest.Activity{{Name: "Main"}},
		Shortcuts:  []manifest.Shortcut{{ID: "home", Label: "Go home", Pinned: true}},
	}))
	require.NoError(t, manifest.Write(cfg.ManifestDir, &manifest.Manifest{
		Package:    "com.mail",
		Label:      "Mail",
		Activities: []manifest.Activity{{Name: "Main"}},
	}))
	return cfg
}

func waitReady(t *testing.T, eng *engine.Engine) *engine.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := eng.WaitReady(ctx)
	require.NoError(t, err)
	return snap
}

func TestOpen(t *testing.T) {
	t.Run("opens and lists manifests", func(t *testing.T) {
		l, err := Open(testConfig(t), WithSink(action.NewLogSink(os.Stderr)), WithWatch(false))
		require.NoError(t, err)
		defer l.Close()

		require.NoError(t, l.Start(context.Background()))
		snap := waitReady(t, l.Engine())

		var ids []string
		for _, item := range snap.Items {
			ids = append(ids, item.ID())
		}
		assert.ElementsMatch(t, []string{
			core.AppID("com.maps", "Main"),
			core.AppID("com.mail", "Main"),
			core.ShortcutID("home"),
		}, ids)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.PoolSize = 0
		l, err := Open(cfg)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Nil(t, l)
	})

	t.Run("data dir is a file", func(t *testing.T) {
		cfg := testConfig(t)
		require.NoError(t, os.WriteFile(cfg.DataDir, []byte("x"), 0o644))
		l, err := Open(cfg)
		assert.Error(t, err)
		assert.Nil(t, l)
	})

	t.Run("manifest dir is a file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.ManifestDir = filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(cfg.ManifestDir, []byte("x"), 0o644))
		l, err := Open(cfg)
		assert.ErrorIs(t, err, manifest.ErrNotDirectory)
		assert.Nil(t, l)
	})
}

func TestLauncher_PersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	mail := core.AppID("com.mail", "Main")

	l, err := Open(cfg, WithSink(action.NewLogSink(os.Stderr)), WithWatch(false))
	require.NoError(t, err)
	require.NoError(t, l.Start(ctx))
	snap := waitReady(t, l.Engine())

	var mailItem core.LaunchItem
	for _, item := range snap.Items {
		if item.ID() == mail {
			mailItem = item
		}
	}
	require.NotNil(t, mailItem)
	require.NoError(t, l.Engine().Primary(ctx, mailItem))
	require.NoError(t, l.Engine().Secondary(ctx, core.ShortcutItem{Shortcut: core.ShortcutRef{ID: "home"}}))
	require.NoError(t, l.Close())

	l, err = Open(cfg, WithSink(action.NewLogSink(os.Stderr)), WithWatch(false))
	require.NoError(t, err)
	defer l.Close()
	require.NoError(t, l.Start(ctx))
	snap = waitReady(t, l.Engine())

	require.Len(t, snap.Items, 2)
	assert.Equal(t, mail, snap.Items[0].ID())
}

func TestLauncher_WatchesManifests(t *testing.T) {
	cfg := testConfig(t)
	cfg.WatchDebounce = 10 * time.Millisecond

	l, err := Open(cfg, WithSink(action.NewLogSink(os.Stderr)))
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Start(ctx))
	waitReady(t, l.Engine())

	require.NoError(t, manifest.Write(cfg.ManifestDir, &manifest.Manifest{
		Package:    "com.notes",
		Label:      "Notes",
		Activities: []manifest.Activity{{Name: "Main"}},
	}))

	require.Eventually(t, func() bool {
		return len(l.Engine().Current().Items) == 4
	}, 5*time.Second, 10*time.Millisecond)
}
