// Package platform exposes the OS-specific primitives the pipeline depends
// on: file identity for hardlink detection, reparse-point detection for
// link-skip logic, and link creation.
//
// The implementation is selected once at startup via Native and injected
// into the stages that need it; pipeline code never branches on GOOS.
package platform

import "os"

// Platform abstracts platform-divergent filesystem facilities.
type Platform interface {
	// FileID returns the platform identity (inode or NTFS file index) for a
	// file, or 0 when the identity is unavailable. Callers never treat 0 as
	// a real identity.
	FileID(path string, info os.FileInfo) uint64

	// IsReparsePoint reports whether the entry is a symbolic link or other
	// OS-level indirection that must be excluded from scanning.
	IsReparsePoint(path string, info os.FileInfo) bool

	// Symlink creates a symbolic link at link pointing to target.
	Symlink(target, link string) error

	// Hardlink creates a hard link at link pointing to target.
	Hardlink(target, link string) error
}
