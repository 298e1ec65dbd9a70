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

import "errors"

// Domain validation errors
var (
	// ErrInvalidAppItem indicates an AppItem failed validation.
	ErrInvalidAppItem = errors.New("invalid app item")

	// ErrInvalidShortcutItem indicates a ShortcutItem failed validation.
	ErrInvalidShortcutItem = errors.New("invalid shortcut item")

	// ErrEmptyPackageName indicates the PackageName field is empty.
	ErrEmptyPackageName = errors.New("package name cannot be empty")

	// ErrEmptyActivityName indicates the ActivityName field is empty.
	ErrEmptyActivityName = errors.New("activity name cannot be empty")

	// ErrEmptyShortcutID indicates the shortcut id is empty.
	ErrEmptyShortcutID = errors.New("shortcut id cannot be empty")

	// ErrPackageNameSeparator indicates a package name contains the id separator.
	ErrPackageNameSeparator = errors.New("package name cannot contain '/'")

	// ErrReservedNamespace indicates an app uses the shortcut id namespace as
	// its package name.
	ErrReservedNamespace = errors.New("package name uses reserved shortcut namespace")

	// ErrDuplicateID indicates two items of one item set share an id.
	ErrDuplicateID = errors.New("duplicate launch item id")

	// ErrUnknownItemKind indicates a LaunchItem that is neither an AppItem nor
	// a ShortcutItem value.
	ErrUnknownItemKind = errors.New("unknown launch item kind")
)
