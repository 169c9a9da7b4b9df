// Package keeper selects which member of a duplicate group survives.
package keeper

import (
	"cmp"
	"fmt"
	"slices"

	"dupesweep/internal/types"
)

// Order returns the group members stably sorted by policy, kept file at
// index 0. Ties retain scan-discovery order; the input slice is not
// modified.
//
// Highest and Deepest compare relative-path string length, a proxy for
// depth rather than a directory-segment count.
func Order(records []*types.FileRecord, policy types.KeepCriteria) ([]*types.FileRecord, error) {
	var compare func(a, b *types.FileRecord) int
	switch policy {
	case types.KeepLatest:
		compare = func(a, b *types.FileRecord) int { return cmp.Compare(b.ModTime, a.ModTime) }
	case types.KeepOldest:
		compare = func(a, b *types.FileRecord) int { return cmp.Compare(a.ModTime, b.ModTime) }
	case types.KeepHighest:
		compare = func(a, b *types.FileRecord) int { return cmp.Compare(len(a.RelPath), len(b.RelPath)) }
	case types.KeepDeepest:
		compare = func(a, b *types.FileRecord) int { return cmp.Compare(len(b.RelPath), len(a.RelPath)) }
	case types.KeepFirst:
		compare = func(a, b *types.FileRecord) int { return cmp.Compare(a.RelPath, b.RelPath) }
	case types.KeepLast:
		compare = func(a, b *types.FileRecord) int { return cmp.Compare(b.RelPath, a.RelPath) }
	default:
		return nil, fmt.Errorf("unknown keep policy %s", policy)
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, compare)
	return sorted, nil
}
