// Package hashcache persists file signatures between runs.
//
// The cache is a plain text file kept at the root of the scanned directory,
// one record per line: `path;size;time;algo;hash`. Records are append-only
// and written through immediately, so a killed run loses at most the entry
// being written and the next run resumes from everything already persisted.
//
// Lookups hit only on an exact (relative path, size, mtime, algorithm)
// match; any difference means the file changed and must be rehashed.
package hashcache

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"dupesweep/internal/types"
)

// FileName is the name of the cache file maintained in the scan root.
const FileName = "duplicates.hashes.csv"

// Header is the row written to a fresh or empty cache file.
const Header = "path;size;time;algo;hash"

const fieldSep = ";"

// key identifies one cache entry. All four fields must match exactly for
// a lookup to hit.
type key struct {
	relPath string
	size    int64
	modTime int64
	algo    types.Algorithm
}

// Cache is an in-memory signature index backed by an append-only file.
// Append is safe to call from concurrent hashing workers; physical writes
// are serialized behind the mutex.
type Cache struct {
	mu      sync.RWMutex
	entries map[key]string
	file    *os.File
	root    string
}

// Open opens the cache file inside root for appending, creating it with a
// header when absent or empty. Existing rows are not read here; the runner
// loads every cache file discovered during the scan via LoadFile.
func Open(root string) (*Cache, error) {
	path := filepath.Join(root, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat cache file: %w", err)
	}
	if info.Size() == 0 {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing cache header: %w", err)
		}
	}

	return &Cache{
		entries: make(map[key]string),
		file:    f,
		root:    root,
	}, nil
}

// LoadFile parses all well-formed rows of one cache file into the index and
// returns the number of entries loaded. Malformed rows are skipped, never
// abort the load. Rows from cache files in subdirectories (leftovers of
// prior partial runs) are rebased so their paths key against this run's
// scan root. Duplicate keys are tolerated; the last row loaded wins.
func (c *Cache) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	base := filepath.Dir(path)
	loaded := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" || line == Header {
			continue
		}
		k, sig, ok := parseRow(line)
		if !ok {
			continue
		}
		if base != c.root {
			rel, err := filepath.Rel(c.root, filepath.Join(base, k.relPath))
			if err != nil {
				continue
			}
			k.relPath = rel
		}
		c.entries[k] = sig
		loaded++
	}
	if err := sc.Err(); err != nil {
		return loaded, err
	}
	return loaded, nil
}

// parseRow splits one record into its key and signature. The last four
// fields are fixed; everything before them is the path, so paths containing
// the separator round-trip intact.
func parseRow(line string) (key, string, bool) {
	parts := strings.Split(line, fieldSep)
	if len(parts) < 5 {
		return key{}, "", false
	}
	n := len(parts)
	relPath := strings.Join(parts[:n-4], fieldSep)
	if relPath == "" {
		return key{}, "", false
	}

	size, err := strconv.ParseInt(parts[n-4], 10, 64)
	if err != nil || size < 0 {
		return key{}, "", false
	}
	modTime, err := strconv.ParseInt(parts[n-3], 10, 64)
	if err != nil || modTime < 0 {
		return key{}, "", false
	}
	algo, err := types.ParseAlgorithm(parts[n-2])
	if err != nil {
		return key{}, "", false
	}
	sig := parts[n-1]
	if sig == "" {
		return key{}, "", false
	}

	return key{relPath: relPath, size: size, modTime: modTime, algo: algo}, sig, true
}

// Get returns the cached signature for an exact key match.
func (c *Cache) Get(relPath string, size, modTime int64, algo types.Algorithm) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sig, ok := c.entries[key{relPath: relPath, size: size, modTime: modTime, algo: algo}]
	return sig, ok
}

// Append adds one entry to the index and writes it through to the backing
// file in the same critical section. Empty signatures are never persisted.
func (c *Cache) Append(e types.SignatureEntry) error {
	if e.Signature == "" {
		return fmt.Errorf("refusing to persist empty signature for %q", e.RelPath)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key{relPath: e.RelPath, size: e.Size, modTime: e.ModTime, algo: e.Algo}] = e.Signature
	if _, err := fmt.Fprintf(c.file, "%s%s%d%s%d%s%s%s%s\n",
		e.RelPath, fieldSep, e.Size, fieldSep, e.ModTime, fieldSep, e.Algo, fieldSep, e.Signature); err != nil {
		return fmt.Errorf("appending cache entry: %w", err)
	}
	return nil
}

// Len returns the number of entries currently indexed.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close releases the append handle.
func (c *Cache) Close() error {
	return c.file.Close()
}
