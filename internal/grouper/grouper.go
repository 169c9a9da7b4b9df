// Package grouper builds duplicate groups from screened records.
//
// # Grouping Strategies
//
// Name and size grouping are structural: the key is derived from metadata
// the scanner already collected, so no file is ever opened. Content
// grouping (md5, sha256, sha512, crc32) runs the full pipeline:
//
//	records
//	    │
//	    ├──► bucket by size, drop singleton buckets (a unique size
//	    │    cannot collide with anything, hashing it is dead weight)
//	    │
//	    ├──► partition into cache hits and misses
//	    │
//	    ├──► hash misses in a bounded worker pool, smallest files first,
//	    │    appending each fresh signature to the cache as it completes
//	    │
//	    └──► merge, group by signature, order groups by key
//
// # Concurrency Model
//
// Hashing is the only parallel stage. A fixed pool of workers consumes
// records from a job channel; one goroutine feeds the channel and closes
// it, another closes the result channel once all workers are done, and the
// caller collects results. Workers share nothing except the cache append
// path (serialized inside hashcache) and atomic stat counters.
//
// Group members keep scan-discovery order regardless of hash completion
// order, so downstream policy ties resolve the same way on every run.
package grouper

import (
	"cmp"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"dupesweep/internal/hashcache"
	"dupesweep/internal/hasher"
	"dupesweep/internal/progress"
	"dupesweep/internal/types"
)

// fmtBytes is a shorthand for humanize.IBytes (human-readable byte sizes).
var fmtBytes = humanize.IBytes

// Grouper turns screened records into duplicate groups keyed by signature.
//
// The grouper is designed for single-use: create with New(), call Run() once.
type Grouper struct {
	algo         types.Algorithm
	workers      int
	showProgress bool
	cache        *hashcache.Cache
	log          logrus.FieldLogger

	stats stats
}

// stats tracks the hashing stage. Workers update the atomic counters; hits
// is written once before the pool starts.
type stats struct {
	hits        int
	hashedFiles atomic.Int64
	hashedBytes atomic.Int64
	failedFiles atomic.Int64
	startTime   time.Time
}

func (s *stats) String() string {
	return fmt.Sprintf("Hashed %d files (%s), %d cache hits, %d failed in %.1fs",
		s.hashedFiles.Load(), fmtBytes(uint64(s.hashedBytes.Load())),
		s.hits, s.failedFiles.Load(), time.Since(s.startTime).Seconds())
}

// New creates a Grouper. The cache is consulted before hashing and receives
// every freshly computed signature.
func New(algo types.Algorithm, workers int, showProgress bool, cache *hashcache.Cache, log logrus.FieldLogger) *Grouper {
	return &Grouper{
		algo:         algo,
		workers:      workers,
		showProgress: showProgress,
		cache:        cache,
		log:          log,
	}
}

// Run groups records by the configured algorithm. Singleton groups may be
// present in the result for the structural name mode; downstream stages act
// only on groups with more than one member.
func (g *Grouper) Run(records []*types.FileRecord) ([]types.DuplicateGroup, error) {
	g.stats = stats{startTime: time.Now()}

	switch g.algo {
	case types.AlgoName:
		return g.groupByName(records), nil
	case types.AlgoSize:
		return g.groupBySize(records), nil
	case types.AlgoMD5, types.AlgoSHA256, types.AlgoSHA512, types.AlgoCRC32:
		return g.groupByContent(records), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %s", g.algo)
	}
}

// CacheHits returns how many records were resolved from the cache.
func (g *Grouper) CacheHits() int { return g.stats.hits }

// Hashed returns how many files were freshly hashed.
func (g *Grouper) Hashed() int64 { return g.stats.hashedFiles.Load() }

// Failed returns how many files were excluded by hashing or validation
// failures.
func (g *Grouper) Failed() int64 { return g.stats.failedFiles.Load() }

// groupByName groups by file base name.
func (g *Grouper) groupByName(records []*types.FileRecord) []types.DuplicateGroup {
	byName := make(map[string][]*types.FileRecord)
	for _, r := range records {
		name := filepath.Base(r.Path)
		byName[name] = append(byName[name], r)
	}
	return sortedGroups(byName)
}

// groupBySize groups by byte size, discarding singletons. The group key is
// the size rendered in decimal.
func (g *Grouper) groupBySize(records []*types.FileRecord) []types.DuplicateGroup {
	bySize := make(map[int64][]*types.FileRecord)
	for _, r := range records {
		bySize[r.Size] = append(bySize[r.Size], r)
	}

	groups := make(map[string][]*types.FileRecord, len(bySize))
	for size, recs := range bySize {
		if len(recs) > 1 {
			groups[strconv.FormatInt(size, 10)] = recs
		}
	}
	return sortedGroups(groups)
}

// pair carries one record with its resolved signature.
type pair struct {
	rec *types.FileRecord
	sig string
}

// groupByContent hashes candidates and groups them by signature.
func (g *Grouper) groupByContent(records []*types.FileRecord) []types.DuplicateGroup {
	g.log.Info("Pre-grouping by size...")
	candidates := bucketBySize(records)

	// Remember scan-discovery order; parallel hashing completes out of
	// order and group members must not inherit that.
	order := make(map[*types.FileRecord]int, len(candidates))
	for i, r := range candidates {
		order[r] = i
	}

	var hits []pair
	var misses []*types.FileRecord
	for _, r := range candidates {
		if sig, ok := g.cache.Get(r.RelPath, r.Size, r.ModTime, g.algo); ok {
			hits = append(hits, pair{rec: r, sig: sig})
		} else {
			misses = append(misses, r)
		}
	}
	g.stats.hits = len(hits)

	// Smallest first: early completions make progress visible sooner.
	slices.SortStableFunc(misses, func(a, b *types.FileRecord) int {
		return cmp.Compare(a.Size, b.Size)
	})

	var totalBytes int64
	for _, r := range misses {
		totalBytes += r.Size
	}
	g.log.Infof("Cache: %d hits, %d files (%.2f GB) need hashing",
		len(hits), len(misses), float64(totalBytes)/1073741824.0)

	merged := append(hits, g.hashAll(misses, totalBytes)...)
	slices.SortFunc(merged, func(a, b pair) int {
		return cmp.Compare(order[a.rec], order[b.rec])
	})

	groups := make(map[string][]*types.FileRecord)
	for _, p := range merged {
		if p.sig == "" {
			continue
		}
		groups[p.sig] = append(groups[p.sig], p.rec)
	}
	return sortedGroups(groups)
}

// hashAll digests the cache-miss records in a bounded worker pool and
// returns the (record, signature) pairs that hashed and validated cleanly.
func (g *Grouper) hashAll(misses []*types.FileRecord, totalBytes int64) []pair {
	if len(misses) == 0 {
		return nil
	}

	bar := progress.NewBytes(g.showProgress, totalBytes)
	jobCh := make(chan *types.FileRecord, 1000)
	resultCh := make(chan pair, 100)

	var wg sync.WaitGroup
	for i := 0; i < g.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobCh {
				g.hashOne(rec, bar, resultCh)
			}
		}()
	}

	go func() {
		for _, rec := range misses {
			jobCh <- rec
		}
		close(jobCh)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	pairs := make([]pair, 0, len(misses))
	for p := range resultCh {
		pairs = append(pairs, p)
	}

	bar.Finish(&g.stats)
	return pairs
}

// hashOne digests a single record. Failures exclude the file from grouping
// and are never fatal; successful signatures are persisted before the pair
// is reported.
func (g *Grouper) hashOne(rec *types.FileRecord, bar *progress.Bar, resultCh chan<- pair) {
	sig, _, err := hasher.Digest(rec.Path, g.algo)
	if err == nil {
		err = hasher.Validate(sig, g.algo)
	}
	if err != nil {
		g.stats.failedFiles.Add(1)
		g.log.Warnf("Skipping %s: %v", rec.RelPath, err)
		bar.Add(rec.Size)
		return
	}

	if err := g.cache.Append(types.SignatureEntry{
		RelPath:   rec.RelPath,
		Size:      rec.Size,
		ModTime:   rec.ModTime,
		Algo:      g.algo,
		Signature: sig,
	}); err != nil {
		g.log.Warnf("Failed to persist signature for %s: %v", rec.RelPath, err)
	}

	g.stats.hashedFiles.Add(1)
	g.stats.hashedBytes.Add(rec.Size)
	bar.Add(rec.Size)
	resultCh <- pair{rec: rec, sig: sig}
}

// bucketBySize keeps only records whose size is shared with at least one
// other record, preserving scan order.
func bucketBySize(records []*types.FileRecord) []*types.FileRecord {
	counts := make(map[int64]int, len(records))
	for _, r := range records {
		counts[r.Size]++
	}

	candidates := make([]*types.FileRecord, 0, len(records))
	for _, r := range records {
		if counts[r.Size] > 1 {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// sortedGroups renders a signature map as DuplicateGroups in key order, so
// every run reports groups in the same sequence.
func sortedGroups(m map[string][]*types.FileRecord) []types.DuplicateGroup {
	keys := slices.Sorted(maps.Keys(m))
	groups := make([]types.DuplicateGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, types.DuplicateGroup{Key: k, Records: m[k]})
	}
	return groups
}
