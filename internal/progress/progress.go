// Package progress draws a console progress bar for a long-running render.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Bar is a console progress bar safe for concurrent Set calls: every
// worker in a render reports its own completions through the same Bar.
type Bar struct {
	mu        sync.Mutex
	w         io.Writer
	width     int
	total     int
	completed int
	start     time.Time
	started   bool
}

// New returns a Bar that draws to w with the given character width. Total
// is established by the first Set call.
func New(w io.Writer, width int) *Bar {
	return &Bar{w: w, width: width}
}

// Start draws the bar at 0% and records the start time.
func (b *Bar) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.start = time.Now()
	b.started = true
	b.draw(0)
}

// Set draws the bar at an absolute completed count out of total. Callers
// report in whatever unit is natural for their workload (pixels, samples);
// total may change between calls, e.g. once the real sample count is known.
func (b *Bar) Set(completed, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed = completed
	b.total = total
	b.draw(b.fraction())
}

func (b *Bar) fraction() float64 {
	if b.total <= 0 {
		return 1
	}
	f := float64(b.completed) / float64(b.total)
	if f > 1 {
		f = 1
	}
	return f
}

// Finish draws the bar at 100% and prints the elapsed wall-clock time.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draw(1.0)
	fmt.Fprintln(b.w)
	if b.started {
		fmt.Fprintf(b.w, "Finished in %s\n", time.Since(b.start))
	}
}

func (b *Bar) draw(progress float64) {
	pos := int(float64(b.width) * progress)
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < b.width; i++ {
		switch {
		case i < pos:
			sb.WriteByte('=')
		case i == pos:
			sb.WriteByte('>')
		default:
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(fmt.Sprintf("] %d %%\r", int(progress*100)))
	fmt.Fprint(b.w, sb.String())
}
