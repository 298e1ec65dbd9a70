// Package ranking turns the launcher inputs (items, query, usage counters and
// deletions) into the ordered list shown to the user.
//
// Rank is pure and synchronous. Callers recompute it from scratch whenever
// any input changes; there is no incremental update.
package ranking
