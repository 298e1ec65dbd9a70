package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppItem_ID(t *testing.T) {
	app := AppItem{Label: "Maps", PackageName: "com.google.maps", ActivityName: "com.google.maps.Main"}
	assert.Equal(t, "com.google.maps/com.google.maps.Main", app.ID())
	assert.Equal(t, KindApp, app.Kind())
	assert.Equal(t, "Maps", app.DisplayName())
}

func TestShortcutItem_ID(t *testing.T) {
	shortcut := ShortcutItem{Label: "Call Mom", Shortcut: ShortcutRef{ID: "call-mom", PackageName: "com.dialer"}}
	assert.Equal(t, "shortcut/call-mom", shortcut.ID())
	assert.Equal(t, KindShortcut, shortcut.Kind())
	assert.False(t, shortcut.IsDeprioritized())
}

func TestAppItem_MatchesFilter(t *testing.T) {
	app := AppItem{Label: "Météo", PackageName: "org.weather.Forecast", ActivityName: "Main"}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "empty query", query: "", want: true},
		{name: "label without accents", query: "meteo", want: true},
		{name: "label upper case", query: "MÉT", want: true},
		{name: "package name", query: "forecast", want: true},
		{name: "package prefix", query: "org.weather", want: true},
		{name: "activity is not searched", query: "main", want: false},
		{name: "no match", query: "camera", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, app.MatchesFilter(tt.query))
		})
	}
}

func TestShortcutItem_MatchesFilter(t *testing.T) {
	shortcut := ShortcutItem{Label: "Réunion", Shortcut: ShortcutRef{ID: "meeting", PackageName: "com.calendar"}}

	assert.True(t, shortcut.MatchesFilter(""))
	assert.True(t, shortcut.MatchesFilter("reunion"))
	assert.False(t, shortcut.MatchesFilter("calendar"), "only the label is matched")
	assert.False(t, shortcut.MatchesFilter("meeting"))
}

func TestAppItem_WithDeprioritized(t *testing.T) {
	app := AppItem{Label: "Clock", PackageName: "com.clock", ActivityName: "Main"}
	marked := app.WithDeprioritized(true)

	assert.True(t, marked.IsDeprioritized())
	assert.False(t, app.IsDeprioritized(), "original is a value and stays untouched")
	assert.Equal(t, app.ID(), marked.ID())
}

func TestCounters(t *testing.T) {
	counters := Counters{"a": 3, "b": DeprioritizedCount}

	assert.Equal(t, int64(3), counters.Get("a"))
	assert.Equal(t, int64(0), counters.Get("missing"))
	assert.True(t, counters.IsDeprioritized("b"))
	assert.False(t, counters.IsDeprioritized("a"))
	assert.False(t, counters.IsDeprioritized("missing"))

	clone := counters.Clone()
	clone["a"] = 10
	assert.Equal(t, int64(3), counters.Get("a"))

	var nilCounters Counters
	assert.Equal(t, int64(0), nilCounters.Get("a"))
}

func TestDeletedSet(t *testing.T) {
	deleted := NewDeletedSet("shortcut/x", "shortcut/y")

	assert.True(t, deleted.Contains("shortcut/x"))
	assert.False(t, deleted.Contains("shortcut/z"))

	clone := deleted.Clone()
	delete(clone, "shortcut/x")
	assert.True(t, deleted.Contains("shortcut/x"))

	var nilSet DeletedSet
	assert.False(t, nilSet.Contains("anything"))
}

func TestItemKind_String(t *testing.T) {
	assert.Equal(t, "app", KindApp.String())
	assert.Equal(t, "shortcut", KindShortcut.String())
	assert.Equal(t, "unknown", ItemKind(0).String())
}

// Valid app and shortcut ids never collide, whatever the strings involved.
func FuzzItemIDNamespaces(f *testing.F) {
	f.Add("com.example", "Main", "Main")
	f.Add("shortcut", "x", "x")
	f.Add("shortcut/x", "y", "x/y")
	f.Add("a", "b/c", "b/c")

	f.Fuzz(func(t *testing.T, packageName, activityName, shortcutID string) {
		app := AppItem{PackageName: packageName, ActivityName: activityName}
		shortcut := ShortcutItem{Shortcut: ShortcutRef{ID: shortcutID}}
		if ValidateAppItem(app) != nil || ValidateShortcutItem(shortcut) != nil {
			return
		}

		if app.ID() == shortcut.ID() {
			t.Fatalf("id collision: app %q/%q and shortcut %q both map to %q",
				packageName, activityName, shortcutID, app.ID())
		}

		items, err := BuildItems([]AppItem{app}, []ShortcutItem{shortcut})
		require.NoError(t, err)
		require.Len(t, items, 2)
	})
}
