// Package progress reports generation progress to the operator.
package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress for one generator at a time. Implementations
// must be safe for concurrent Advance calls.
type Reporter interface {
	Start(entity string, total int)
	Advance(n int)
	Finish()
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(string, int) {}
func (Nop) Advance(int)       {}
func (Nop) Finish()           {}

// Bar renders a terminal progress bar per generator.
type Bar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBar creates a Bar writing to w, typically os.Stderr.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Start replaces the current bar with a new one sized for total records.
func (b *Bar) Start(entity string, total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(entity),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("records"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(b.w, "\n") }),
	)
}

// Advance moves the bar forward by n records.
func (b *Bar) Advance(n int) {
	if b.bar == nil {
		return
	}
	_ = b.bar.Add(n)
}

// Finish completes the current bar.
func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	b.bar = nil
}

// New returns a Bar on w when enabled, Nop otherwise.
func New(enabled bool, w io.Writer) Reporter {
	if !enabled {
		return Nop{}
	}
	return NewBar(w)
}
