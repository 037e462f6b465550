// Package lock provides per-key mutual exclusion for reconciliation.
// Keys are always acquired in sorted order so two callers locking
// overlapping key sets cannot deadlock.
package lock

import "slices"

func normalizeKeys(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}
