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
Package engine keeps the ranked launch list up to date.

The list depends on four inputs: the item inventory, the search query, the
launch counters and the deleted-item set. Each input lives in a latest-value
mailbox. Producers (inventory loads, SetQuery, store observers) overwrite
their mailbox and wake the owner goroutine, which reads the newest value of
all four, runs ranking.Rank and publishes an immutable Snapshot. Bursts of
updates coalesce into fewer recomputations, and the last recomputation
always sees the latest value of every input.

# Inventory

Inventory loads run on an ants worker pool, off the input path. A load is
requested at Start, by Refresh, and whenever a provider signals a change.
Requests made while a load is queued coalesce into it. Each load carries a
generation number; a load that finishes after a newer one was applied is
discarded.

# Actions

Primary, Secondary, Tertiary, Go and WebSearch turn user actions into
action plans and execute them. Requests go to the action.Sink; a failing
sink is logged and otherwise ignored. Counter and deletion writes go to the
store. The launch counter is recorded after the configured launch delay so
the list does not reorder during the launch animation; Close records any
launch still waiting.

# Usage

	eng, err := engine.New(store, loader, sink, engine.WithLogger(logger))
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Start(ctx); err != nil {
		return err
	}
	eng.SetQuery("map")
	snap, err := eng.WaitReady(ctx)
*/
package engine
