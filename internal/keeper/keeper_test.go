package keeper

import (
	"testing"

	"dupesweep/internal/types"
)

// =============================================================================
// Section 9.1: Keep Policies
// =============================================================================

// TestOrderPolicies tests that each policy puts the right member first.
func TestOrderPolicies(t *testing.T) {
	shallow := &types.FileRecord{RelPath: "c.txt", ModTime: 100}
	middle := &types.FileRecord{RelPath: "a/b.txt", ModTime: 200}
	deep := &types.FileRecord{RelPath: "deep/nested/file.txt", ModTime: 150}
	group := []*types.FileRecord{middle, shallow, deep}

	tests := []struct {
		policy   types.KeepCriteria
		wantKept string
	}{
		{types.KeepLatest, "a/b.txt"},
		{types.KeepOldest, "c.txt"},
		{types.KeepHighest, "c.txt"},
		{types.KeepDeepest, "deep/nested/file.txt"},
		{types.KeepFirst, "a/b.txt"},
		{types.KeepLast, "deep/nested/file.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			sorted, err := Order(group, tt.policy)
			if err != nil {
				t.Fatal(err)
			}
			if sorted[0].RelPath != tt.wantKept {
				t.Errorf("kept = %s, want %s", sorted[0].RelPath, tt.wantKept)
			}
		})
	}
}

// TestOrderFirstLastPair tests the documented two-member case: First keeps
// a/b.txt, Last keeps c.txt.
func TestOrderFirstLastPair(t *testing.T) {
	group := []*types.FileRecord{
		{RelPath: "a/b.txt"},
		{RelPath: "c.txt"},
	}

	sorted, err := Order(group, types.KeepFirst)
	if err != nil {
		t.Fatal(err)
	}
	if sorted[0].RelPath != "a/b.txt" {
		t.Errorf("First kept %s, want a/b.txt", sorted[0].RelPath)
	}

	sorted, err = Order(group, types.KeepLast)
	if err != nil {
		t.Fatal(err)
	}
	if sorted[0].RelPath != "c.txt" {
		t.Errorf("Last kept %s, want c.txt", sorted[0].RelPath)
	}
}

// TestOrderTiesRetainScanOrder tests that equal sort keys preserve the
// group's discovery order.
func TestOrderTiesRetainScanOrder(t *testing.T) {
	group := []*types.FileRecord{
		{RelPath: "first-seen.txt", ModTime: 100},
		{RelPath: "second-seen.txt", ModTime: 100},
		{RelPath: "third-seen.txt", ModTime: 100},
	}

	sorted, err := Order(group, types.KeepLatest)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range group {
		if sorted[i].RelPath != r.RelPath {
			t.Errorf("position %d = %s, want %s", i, sorted[i].RelPath, r.RelPath)
		}
	}
}

// TestOrderLeavesInputIntact tests that the caller's slice keeps its order.
func TestOrderLeavesInputIntact(t *testing.T) {
	group := []*types.FileRecord{
		{RelPath: "z.txt", ModTime: 1},
		{RelPath: "a.txt", ModTime: 2},
	}

	if _, err := Order(group, types.KeepFirst); err != nil {
		t.Fatal(err)
	}
	if group[0].RelPath != "z.txt" || group[1].RelPath != "a.txt" {
		t.Errorf("input slice was reordered: %s, %s", group[0].RelPath, group[1].RelPath)
	}
}

// TestOrderUnknownPolicy tests that an out-of-range policy is an error.
func TestOrderUnknownPolicy(t *testing.T) {
	if _, err := Order(nil, types.KeepCriteria(42)); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
