package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

const updateInterval = 50 * time.Millisecond

// Bar wraps progressbar with enabled/disabled handling.
// All methods are no-ops when disabled.
type Bar struct {
	bar *progressbar.ProgressBar
}

func baseOptions() []progressbar.Option {
	return []progressbar.Option{
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(updateInterval),
		progressbar.OptionClearOnFinish(),
	}
}

// NewSpinner creates an indeterminate spinner for stages whose size is not
// known up front, such as the directory walk.
// If enabled=false, returns a Bar where all methods are no-ops.
func NewSpinner(enabled bool) *Bar {
	if !enabled {
		return &Bar{}
	}
	opts := append(baseOptions(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(false),
	)
	return &Bar{bar: progressbar.NewOptions(-1, opts...)}
}

// NewBytes creates a determinate bar tracking bytes hashed out of total.
// If enabled=false, returns a Bar where all methods are no-ops.
func NewBytes(enabled bool, total int64) *Bar {
	if !enabled {
		return &Bar{}
	}
	opts := append(baseOptions(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
	)
	return &Bar{bar: progressbar.NewOptions64(total, opts...)}
}

// Add advances the progress bar by n.
func (b *Bar) Add(n int64) {
	if b.bar != nil {
		_ = b.bar.Add64(n)
	}
}

// Describe updates the progress bar description.
func (b *Bar) Describe(s fmt.Stringer) {
	if b.bar != nil {
		b.bar.Describe(s.String())
	}
}

// Finish completes the progress bar and prints a final message.
func (b *Bar) Finish(s fmt.Stringer) {
	if b.bar != nil {
		_ = b.bar.Finish()
		fmt.Fprintln(os.Stderr, "✔ "+s.String())
	}
}
