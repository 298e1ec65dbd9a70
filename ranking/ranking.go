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

package ranking

import (
	"slices"
	"strings"

	"github.com/poiesic/launchpad/core"
)

// Result is a ranked, filtered view of the launch items for one query.
type Result struct {
	// Query is the query as typed, before trimming.
	Query string
	Items []core.LaunchItem
}

// OfferWebSearch reports whether nothing matched, in which case the default
// action becomes a web search.
func (r Result) OfferWebSearch() bool {
	return len(r.Items) == 0
}

// First returns the highest ranked item.
func (r Result) First() (core.LaunchItem, bool) {
	if len(r.Items) == 0 {
		return nil, false
	}
	return r.Items[0], true
}

// Rank filters and orders items for display.
//
// Steps, in order:
//  1. items sharing an id with an earlier item are dropped
//  2. apps whose counter is core.DeprioritizedCount are marked deprioritized
//  3. ids present in deleted are dropped
//  4. items not matching the trimmed query are dropped
//  5. the rest is stable-sorted by descending counter (absent = 0)
//
// Deprioritized apps sort at -1, below every untouched item. Inputs are never
// modified.
func Rank(items []core.LaunchItem, query string, counters core.Counters, deleted core.DeletedSet) []core.LaunchItem {
	trimmed := strings.TrimSpace(query)
	seen := make(map[string]struct{}, len(items))
	ranked := make([]core.LaunchItem, 0, len(items))

	for _, item := range items {
		if item == nil {
			continue
		}
		id := item.ID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if app, ok := item.(core.AppItem); ok && counters.IsDeprioritized(id) {
			item = app.WithDeprioritized(true)
		}

		if deleted.Contains(id) {
			continue
		}

		if !item.MatchesFilter(trimmed) {
			continue
		}

		ranked = append(ranked, item)
	}

	slices.SortStableFunc(ranked, func(a, b core.LaunchItem) int {
		ca, cb := counters.Get(a.ID()), counters.Get(b.ID())
		switch {
		case ca > cb:
			return -1
		case ca < cb:
			return 1
		default:
			return 0
		}
	})

	return ranked
}

// RankResult wraps Rank into a Result.
func RankResult(items []core.LaunchItem, query string, counters core.Counters, deleted core.DeletedSet) Result {
	return Result{
		Query: query,
		Items: Rank(items, query, counters, deleted),
	}
}
