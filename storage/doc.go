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

// Package storage defines the persistence contract the launcher engine relies on.
//
// Two stores live behind it:
//
//   - CounterStore: launch counts keyed by launch item id. The value
//     core.DeprioritizedCount (-1) marks an item the user deprioritized.
//   - DeletedStore: the set of soft-deleted item ids.
//
// The engine never mutates either directly. It reads snapshots through the
// Observe methods and issues single write-intents (RecordLaunch,
// Deprioritize, Undeprioritize, Delete).
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return the storage
// interfaces:
//
//	store, err := badger.NewStore(backend)  // returns storage.Store
//
// Tests use the in-memory variant:
//
//	store, backend, err := badger.NewMemoryStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	defer store.Close()
//
// # Observation
//
// Observe streams deliver the current snapshot first, then a new snapshot
// after every committed write. Snapshots are complete: consumers replace,
// never merge. Streams conflate, so a consumer that falls behind only sees
// the latest snapshot.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
package storage
