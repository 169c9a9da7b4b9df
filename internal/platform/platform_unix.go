//go:build unix

package platform

import (
	"os"
	"syscall"
)

type unixPlatform struct{}

// Native returns the Platform implementation for the current OS.
func Native() Platform { return unixPlatform{} }

func (unixPlatform) FileID(_ string, info os.FileInfo) uint64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat == nil {
		return 0
	}
	return stat.Ino
}

func (unixPlatform) IsReparsePoint(_ string, info os.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}

func (unixPlatform) Symlink(target, link string) error {
	return os.Symlink(target, link)
}

func (unixPlatform) Hardlink(target, link string) error {
	return os.Link(target, link)
}
