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

	"github.com/poiesic/launchpad/core"
)

var (
	// ErrPermissionDenied is returned by a ShortcutProvider that is not
	// allowed to read shortcuts.
	ErrPermissionDenied = errors.New("shortcut host permission denied")

	// ErrAppProviderRequired is returned when no app provider is given.
	ErrAppProviderRequired = errors.New("app provider required")
)

// App is a launchable activity reported by the platform.
type App struct {
	Label        string
	PackageName  string
	ActivityName string
	Icon         core.Icon
}

// Item converts the app to a launch item.
func (a App) Item() core.AppItem {
	return core.AppItem{
		Label:        a.Label,
		PackageName:  a.PackageName,
		ActivityName: a.ActivityName,
		Icon:         a.Icon,
	}
}

// Shortcut is a pinned shortcut reported by the platform.
type Shortcut struct {
	ID          string
	PackageName string
	Label       string
	Icon        core.Icon
	Handle      any
}

// Item converts the shortcut to a launch item.
func (s Shortcut) Item() core.ShortcutItem {
	return core.ShortcutItem{
		Label: s.Label,
		Icon:  s.Icon,
		Shortcut: core.ShortcutRef{
			ID:          s.ID,
			PackageName: s.PackageName,
			Handle:      s.Handle,
		},
	}
}

// AppProvider enumerates installed apps.
type AppProvider interface {
	Apps(ctx context.Context) ([]App, error)
	// Changes fires after apps were installed, removed or updated.
	Changes() <-chan struct{}
}

// ShortcutProvider enumerates pinned shortcuts.
type ShortcutProvider interface {
	// Shortcuts returns the pinned, enabled shortcuts published by
	// packageNames.
	Shortcuts(ctx context.Context, packageNames []string) ([]Shortcut, error)
	// Changes fires after shortcuts were pinned, unpinned or updated.
	Changes() <-chan struct{}
}

// Notifier is a coalescing change signal for providers. Any number of
// Notify calls between two receives collapse into one signal. It has a
// single consumer.
type Notifier struct {
	ch chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify signals a change without blocking.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) Changes() <-chan struct{} {
	return n.ch
}
