package screener

import (
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"dupesweep/internal/types"
)

// =============================================================================
// Section 7.1: Hardlink Filtering
// =============================================================================

// TestFilterHardlinksKeepsFirstSeen tests that only the first record of an
// (identity, size) pair survives, in scan order.
func TestFilterHardlinksKeepsFirstSeen(t *testing.T) {
	records := []*types.FileRecord{
		rec("a.txt", 100, 7),
		rec("b.txt", 100, 7),
		rec("c.txt", 100, 8),
	}

	got := newTestScreener(0, math.MaxInt64).filterHardlinks(records)

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].RelPath != "a.txt" || got[1].RelPath != "c.txt" {
		t.Errorf("kept %s and %s, want a.txt and c.txt", got[0].RelPath, got[1].RelPath)
	}
}

// TestFilterHardlinksSameIdentityDifferentSize tests that identity alone is
// not enough; the size must match too.
func TestFilterHardlinksSameIdentityDifferentSize(t *testing.T) {
	records := []*types.FileRecord{
		rec("a.txt", 100, 7),
		rec("b.txt", 200, 7),
	}

	got := newTestScreener(0, math.MaxInt64).filterHardlinks(records)

	if len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
}

// TestFilterHardlinksNoIdentityAlwaysPasses tests that records without a
// platform identity are never dropped, even with equal sizes.
func TestFilterHardlinksNoIdentityAlwaysPasses(t *testing.T) {
	records := []*types.FileRecord{
		rec("a.txt", 100, 0),
		rec("b.txt", 100, 0),
		rec("c.txt", 100, 0),
	}

	got := newTestScreener(0, math.MaxInt64).filterHardlinks(records)

	if len(got) != 3 {
		t.Errorf("expected all 3 records to pass, got %d", len(got))
	}
}

// =============================================================================
// Section 7.2: Size Filtering
// =============================================================================

// TestFilterSizeBoundsInclusive tests that files exactly at the bounds are
// included and one byte outside is excluded.
func TestFilterSizeBoundsInclusive(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want bool
	}{
		{"below min", 99, false},
		{"exactly min", 100, true},
		{"inside range", 500, true},
		{"exactly max", 1000, true},
		{"above max", 1001, false},
	}

	s := newTestScreener(100, 1000)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.filterSize([]*types.FileRecord{rec("f.bin", tt.size, 0)})
			if kept := len(got) == 1; kept != tt.want {
				t.Errorf("size %d kept = %v, want %v", tt.size, kept, tt.want)
			}
		})
	}
}

// TestFilterSizeUnbounded tests that the sentinel upper bound admits
// arbitrarily large files.
func TestFilterSizeUnbounded(t *testing.T) {
	s := newTestScreener(0, math.MaxInt64)
	got := s.filterSize([]*types.FileRecord{rec("huge.bin", math.MaxInt64, 0)})
	if len(got) != 1 {
		t.Errorf("sentinel bound dropped a file")
	}
}

// TestRunAppliesBothFilters tests the combined pass: hardlinks go first,
// then sizes, with scan order preserved.
func TestRunAppliesBothFilters(t *testing.T) {
	records := []*types.FileRecord{
		rec("small.txt", 10, 0),
		rec("one.bin", 500, 3),
		rec("hardlink.bin", 500, 3),
		rec("two.bin", 600, 4),
	}

	got := newTestScreener(100, 1000).Run(records)

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].RelPath != "one.bin" || got[1].RelPath != "two.bin" {
		t.Errorf("kept %s and %s, want one.bin and two.bin", got[0].RelPath, got[1].RelPath)
	}
}

// =============================================================================
// Helper Functions
// =============================================================================

func newTestScreener(minSize, maxSize int64) *Screener {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(minSize, maxSize, log)
}

func rec(relPath string, size int64, identity uint64) *types.FileRecord {
	return &types.FileRecord{
		Path:     "/scan/" + relPath,
		RelPath:  relPath,
		Size:     size,
		Identity: identity,
	}
}
