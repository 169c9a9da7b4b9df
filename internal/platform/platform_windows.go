//go:build windows

package platform

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

type windowsPlatform struct{}

// Native returns the Platform implementation for the current OS.
func Native() Platform { return windowsPlatform{} }

// FileID opens the file and reads its NTFS file index. The index pair is
// stable for the life of the file and shared by all hardlinks to it.
func (windowsPlatform) FileID(path string, _ os.FileInfo) uint64 {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0
	}
	handle, err := windows.CreateFile(
		p,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return 0
	}
	defer func() { _ = windows.CloseHandle(handle) }()

	var data windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(handle, &data); err != nil {
		return 0
	}
	return uint64(data.FileIndexHigh)<<32 | uint64(data.FileIndexLow)
}

// IsReparsePoint catches symlinks, junctions, and any other reparse point.
func (windowsPlatform) IsReparsePoint(_ string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink != 0 {
		return true
	}
	if attrs, ok := info.Sys().(*syscall.Win32FileAttributeData); ok && attrs != nil {
		return attrs.FileAttributes&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0
	}
	return false
}

func (windowsPlatform) Symlink(target, link string) error {
	return os.Symlink(target, link)
}

func (windowsPlatform) Hardlink(target, link string) error {
	return os.Link(target, link)
}
