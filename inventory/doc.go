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

/*
Package inventory enumerates installed apps and pinned shortcuts and turns
them into launch items.

Providers are the platform boundary. An AppProvider lists launchable
activities and a ShortcutProvider lists the pinned, enabled shortcuts of a
set of packages. Each provider owns a change channel that fires on install,
uninstall or update; there is no process-wide notification bus.

Loader combines both providers into one validated item set. A failing source
contributes nothing and is logged, so missing shortcut permissions yield an
app-only inventory. Only an invalid item set (see core.BuildItems) is
returned as an error.
*/
package inventory
