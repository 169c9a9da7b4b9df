// Package screener drops records that cannot usefully take part in
// duplicate resolution.
//
// Two filters run in order. The hardlink filter removes records that are
// additional paths to an already-seen storage object; linking or deleting
// those would free nothing. The size filter then keeps only records inside
// the configured inclusive byte range.
package screener

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"dupesweep/internal/types"
)

// Screener removes hardlinked records and records outside the size bounds.
//
// The screener is designed for single-use: create with New(), call Run() once.
type Screener struct {
	minSize int64
	maxSize int64
	log     logrus.FieldLogger
}

// New creates a Screener with inclusive size bounds. A maxSize of
// math.MaxInt64 means no upper bound.
func New(minSize, maxSize int64, log logrus.FieldLogger) *Screener {
	return &Screener{minSize: minSize, maxSize: maxSize, log: log}
}

// Run applies both filters in scan order and returns the surviving records.
func (s *Screener) Run(records []*types.FileRecord) []*types.FileRecord {
	s.log.Info("Filtering hardlinks...")
	unique := s.filterHardlinks(records)
	s.log.Infof("Unique files to process: %d", len(unique))

	kept := s.filterSize(unique)
	if dropped := len(unique) - len(kept); dropped > 0 {
		s.log.Infof("Filtered %d files outside size range (%s - %s)",
			dropped, formatSize(s.minSize), formatSize(s.maxSize))
	}
	s.log.Infof("Files after size filter: %d", len(kept))
	return kept
}

// identityKey detects hardlinks: two records with the same platform identity
// and size point at one storage object.
type identityKey struct {
	identity uint64
	size     int64
}

// filterHardlinks keeps the first record seen for each (identity, size) pair.
// Records without an identity always pass; they are never treated as
// duplicates of each other here.
func (s *Screener) filterHardlinks(records []*types.FileRecord) []*types.FileRecord {
	seen := make(map[identityKey]struct{}, len(records))
	unique := make([]*types.FileRecord, 0, len(records))
	for _, r := range records {
		if r.Identity != 0 {
			k := identityKey{identity: r.Identity, size: r.Size}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		unique = append(unique, r)
	}
	return unique
}

// filterSize keeps records whose size lies within [minSize, maxSize].
func (s *Screener) filterSize(records []*types.FileRecord) []*types.FileRecord {
	kept := make([]*types.FileRecord, 0, len(records))
	for _, r := range records {
		if r.Size >= s.minSize && r.Size <= s.maxSize {
			kept = append(kept, r)
		}
	}
	return kept
}

func formatSize(n int64) string {
	if n == math.MaxInt64 {
		return "unlimited"
	}
	return humanize.IBytes(uint64(n))
}
