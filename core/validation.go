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

package core

import (
	"fmt"
	"strings"
)

// ValidateAppItem validates an AppItem according to domain rules.
//
// Validation rules:
//   - PackageName must not be empty
//   - ActivityName must not be empty
//   - PackageName must not contain the id separator
//   - PackageName must not be the shortcut namespace
//
// NOT validated:
//   - Label (platforms may publish activities without one)
//   - Icon (opaque)
func ValidateAppItem(item AppItem) error {
	if item.PackageName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAppItem, ErrEmptyPackageName)
	}

	if item.ActivityName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAppItem, ErrEmptyActivityName)
	}

	if strings.Contains(item.PackageName, idSeparator) {
		return fmt.Errorf("%w: %w", ErrInvalidAppItem, ErrPackageNameSeparator)
	}

	if item.PackageName == ShortcutNamespace {
		return fmt.Errorf("%w: %w", ErrInvalidAppItem, ErrReservedNamespace)
	}

	return nil
}

// ValidateShortcutItem validates a ShortcutItem according to domain rules.
//
// Validation rules:
//   - Shortcut.ID must not be empty
func ValidateShortcutItem(item ShortcutItem) error {
	if item.Shortcut.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidShortcutItem, ErrEmptyShortcutID)
	}
	return nil
}

// BuildItems validates apps and shortcuts and joins them into one item set,
// apps first. Two items sharing an id is a programming error and rejects the
// whole set with ErrDuplicateID.
func BuildItems(apps []AppItem, shortcuts []ShortcutItem) ([]LaunchItem, error) {
	items := make([]LaunchItem, 0, len(apps)+len(shortcuts))
	seen := make(map[string]struct{}, len(apps)+len(shortcuts))

	add := func(item LaunchItem) error {
		id := item.ID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		items = append(items, item)
		return nil
	}

	for _, app := range apps {
		if err := ValidateAppItem(app); err != nil {
			return nil, err
		}
		if err := add(app); err != nil {
			return nil, err
		}
	}

	for _, shortcut := range shortcuts {
		if err := ValidateShortcutItem(shortcut); err != nil {
			return nil, err
		}
		if err := add(shortcut); err != nil {
			return nil, err
		}
	}

	return items, nil
}
