// Package types provides shared types used across the dupesweep codebase.
package types

// FileRecord holds metadata for one discovered file.
//
// Records are created once by the scanner and never mutated afterwards;
// pipeline stages pass them forward by pointer.
type FileRecord struct {
	Path     string // absolute path
	RelPath  string // path relative to the scan root, used as the cache key
	Size     int64
	ModTime  int64  // nanoseconds since epoch, 0 when unavailable
	Identity uint64 // platform file identity (inode/file index), 0 when unknown
}

// SignatureEntry is one persisted cache record. An entry is a valid hit for
// a file only when relative path, size, mtime and algorithm all match
// exactly; any mismatch means the file changed and must be rehashed.
type SignatureEntry struct {
	RelPath   string
	Size      int64
	ModTime   int64
	Algo      Algorithm
	Signature string
}

// DuplicateGroup collects files sharing one signature (content hash, base
// name, or size depending on the algorithm). Only groups with more than one
// member are meaningful; groups are rebuilt every run and never persisted.
type DuplicateGroup struct {
	Key     string
	Records []*FileRecord
}
