// Package diskstat reports free-space numbers around a run.
package diskstat

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// Stat captures one filesystem's free and total bytes at a moment in time.
type Stat struct {
	Free  uint64
	Total uint64
}

// Snapshot reads usage for the filesystem containing path.
func Snapshot(path string) (Stat, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return Stat{}, err
	}
	return Stat{Free: usage.Free, Total: usage.Total}, nil
}

// String renders the snapshot as "free/totalGB (percent free)".
func (s Stat) String() string {
	percent := 0.0
	if s.Total > 0 {
		percent = float64(s.Free) / float64(s.Total) * 100
	}
	return fmt.Sprintf("%.2f/%.2fGB (%.1f%%)",
		float64(s.Free)/1073741824.0, float64(s.Total)/1073741824.0, percent)
}

// Freed renders the free-space gain between two snapshots as
// "X.XX GB (Y.YY%)" of the filesystem's total. A drop in free space
// saturates to zero rather than reporting a negative gain.
func Freed(before, after Stat) string {
	var freed uint64
	if after.Free > before.Free {
		freed = after.Free - before.Free
	}
	percent := 0.0
	if before.Total > 0 {
		percent = float64(freed) / float64(before.Total) * 100
	}
	return fmt.Sprintf("%.2f GB (%.2f%%)", float64(freed)/1073741824.0, percent)
}
