package core

import (
	"github.com/poiesic/launchpad/textmatch"
)

const (
	// ShortcutNamespace prefixes every shortcut id. App ids never use it as
	// their package name, so the two id spaces cannot collide.
	ShortcutNamespace = "shortcut"

	idSeparator = "/"
)

// DeprioritizedCount is the counter value marking an item the user pushed to
// the bottom of the list. Launch counts only grow from 0, so it never
// collides with a real count.
const DeprioritizedCount int64 = -1

// Icon is an opaque image handle owned by the presentation layer.
type Icon any

// ItemKind tags the LaunchItem variants.
type ItemKind int

const (
	// KindApp is an installed application's launchable activity.
	KindApp ItemKind = iota + 1
	// KindShortcut is a pinned app shortcut.
	KindShortcut
)

func (k ItemKind) String() string {
	switch k {
	case KindApp:
		return "app"
	case KindShortcut:
		return "shortcut"
	default:
		return "unknown"
	}
}

// LaunchItem is an entry of the launcher grid. It is implemented only by
// AppItem and ShortcutItem; switch on Kind (or a type switch) for
// variant-specific behaviour.
type LaunchItem interface {
	// ID is the stable join key used by counters and deletions.
	ID() string
	Kind() ItemKind
	DisplayName() string
	IconHandle() Icon
	IsDeprioritized() bool
	// MatchesFilter reports whether the item matches an already trimmed query.
	MatchesFilter(query string) bool

	launchItem()
}

// AppItem is a launchable activity of an installed package.
type AppItem struct {
	Label         string
	PackageName   string
	ActivityName  string
	Icon          Icon
	Deprioritized bool
}

var _ LaunchItem = AppItem{}

// AppID builds the id of an app activity.
func AppID(packageName, activityName string) string {
	return packageName + idSeparator + activityName
}

func (a AppItem) ID() string            { return AppID(a.PackageName, a.ActivityName) }
func (a AppItem) Kind() ItemKind        { return KindApp }
func (a AppItem) DisplayName() string   { return a.Label }
func (a AppItem) IconHandle() Icon      { return a.Icon }
func (a AppItem) IsDeprioritized() bool { return a.Deprioritized }
func (AppItem) launchItem()             {}

// MatchesFilter matches the label ignoring case and accents, or the package
// name ignoring case.
func (a AppItem) MatchesFilter(query string) bool {
	return textmatch.ContainsIgnoreAccents(a.Label, query) ||
		textmatch.ContainsFold(a.PackageName, query)
}

// WithDeprioritized returns a copy of the item with the flag set.
func (a AppItem) WithDeprioritized(deprioritized bool) AppItem {
	a.Deprioritized = deprioritized
	return a
}

// ShortcutRef identifies a platform shortcut.
type ShortcutRef struct {
	ID          string
	PackageName string
	// Handle is whatever the platform needs to start the shortcut.
	Handle any
}

// ShortcutItem is a pinned shortcut published by an app.
type ShortcutItem struct {
	Label    string
	Icon     Icon
	Shortcut ShortcutRef
}

var _ LaunchItem = ShortcutItem{}

// ShortcutID builds the id of a shortcut.
func ShortcutID(shortcutID string) string {
	return ShortcutNamespace + idSeparator + shortcutID
}

func (s ShortcutItem) ID() string          { return ShortcutID(s.Shortcut.ID) }
func (s ShortcutItem) Kind() ItemKind      { return KindShortcut }
func (s ShortcutItem) DisplayName() string { return s.Label }
func (s ShortcutItem) IconHandle() Icon    { return s.Icon }

// IsDeprioritized is always false, shortcuts are removed rather than demoted.
func (s ShortcutItem) IsDeprioritized() bool { return false }
func (ShortcutItem) launchItem()             {}

// MatchesFilter matches the label ignoring case and accents.
func (s ShortcutItem) MatchesFilter(query string) bool {
	return textmatch.ContainsIgnoreAccents(s.Label, query)
}

// Counters maps item ids to launch counts. A missing id counts as 0 and
// DeprioritizedCount marks a deprioritized item.
type Counters map[string]int64

// Get returns the count for id, 0 when absent.
func (c Counters) Get(id string) int64 {
	return c[id]
}

// IsDeprioritized reports whether id carries the deprioritization marker.
func (c Counters) IsDeprioritized(id string) bool {
	v, ok := c[id]
	return ok && v == DeprioritizedCount
}

// Clone returns an independent copy.
func (c Counters) Clone() Counters {
	out := make(Counters, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// DeletedSet holds the ids the user removed from the launcher.
type DeletedSet map[string]struct{}

// NewDeletedSet builds a set from ids.
func NewDeletedSet(ids ...string) DeletedSet {
	s := make(DeletedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id was deleted.
func (s DeletedSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy.
func (s DeletedSet) Clone() DeletedSet {
	out := make(DeletedSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
