// Package scanner discovers candidate files beneath a scan root.
//
// The walk is a sequential, depth-first traversal. Entries whose name is in
// the ignore set are pruned, the tool's own log and cache files are never
// treated as scan input, and symlinks and reparse points are always excluded
// so link targets are not counted twice. Cache files discovered along the
// way are collected for merging into the signature index before hashing.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/djherbis/times"

	"dupesweep/internal/hashcache"
	"dupesweep/internal/logger"
	"dupesweep/internal/platform"
	"dupesweep/internal/progress"
	"dupesweep/internal/types"
)

// Scanner walks one root directory and produces FileRecords.
//
// The scanner is designed for single-use: create with New(), call Run() once.
type Scanner struct {
	root         string
	recursive    bool
	ignores      map[string]struct{}
	plat         platform.Platform
	showProgress bool

	stats stats
	bar   *progress.Bar
}

// stats tracks discovery progress. The walk is single-threaded, so plain
// counters suffice.
type stats struct {
	files   int64
	folders int64
}

func (s *stats) String() string {
	return fmt.Sprintf("Discovered %d files in %d folders...", s.files, s.folders)
}

// New creates a Scanner rooted at root, which must already be canonicalized.
// When recursive is false the walk is limited to the root's direct entries.
func New(root string, recursive bool, ignores []string, plat platform.Platform, showProgress bool) *Scanner {
	set := make(map[string]struct{}, len(ignores))
	for _, name := range ignores {
		set[name] = struct{}{}
	}
	return &Scanner{
		root:         root,
		recursive:    recursive,
		ignores:      set,
		plat:         plat,
		showProgress: showProgress,
	}
}

// Run walks the tree and returns the discovered records together with the
// paths of every cache file found along the way. Entries that cannot be
// read or stat'ed are skipped individually; only a failure to read the root
// itself aborts the scan.
func (s *Scanner) Run() ([]*types.FileRecord, []string, error) {
	s.bar = progress.NewSpinner(s.showProgress)
	s.stats = stats{}
	s.bar.Describe(&s.stats)

	var records []*types.FileRecord
	var cacheFiles []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if s.ignored(name) {
				if path == s.root {
					return filepath.SkipAll
				}
				return filepath.SkipDir
			}
			s.stats.folders++
			s.bar.Describe(&s.stats)
			if !s.recursive && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}

		if s.ignored(name) {
			return nil
		}
		if name == hashcache.FileName {
			cacheFiles = append(cacheFiles, path)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if s.plat.IsReparsePoint(path, info) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}

		mtime := times.Get(info).ModTime().UnixNano()
		if mtime < 0 {
			mtime = 0
		}

		records = append(records, &types.FileRecord{
			Path:     path,
			RelPath:  rel,
			Size:     info.Size(),
			ModTime:  mtime,
			Identity: s.plat.FileID(path, info),
		})
		s.stats.files++
		s.bar.Describe(&s.stats)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.bar.Finish(&s.stats)
	return records, cacheFiles, nil
}

// Folders returns the number of directories seen by the last Run.
func (s *Scanner) Folders() int64 {
	return s.stats.folders
}

// ignored reports whether an entry name is excluded from scanning. The log
// file is always excluded so a run never scans its own output.
func (s *Scanner) ignored(name string) bool {
	if name == logger.FileName {
		return true
	}
	_, ok := s.ignores[name]
	return ok
}
