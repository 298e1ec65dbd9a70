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
Package action decides what happens when the user acts on a launch item.

Deciding and executing are separate. Decide and DecideGo are pure: they turn
an item (or a ranked result) and an action kind into a Plan, a list of
effects. Effects are either requests for the platform, delivered to a Sink,
or write-intents against the counter and deleted-item stores, which the
engine applies.

# Decision table

	kind       app                                   shortcut
	Primary    LaunchApp, RecordLaunch after delay   LaunchShortcut, RecordLaunch after delay
	Secondary  OpenAppDetails                        Delete
	Tertiary   Deprioritize or Undeprioritize        not offered

A Primary action on a deprioritized app launches it without recording the
launch, so the deprioritization marker stays in place.

# Go

DecideGo implements the keyboard commit: a blank query does nothing, a
non-empty result runs Primary on the first item, and an empty result asks for
a web search with the query as typed.
*/
package action
