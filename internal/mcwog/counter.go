package mcwog

import "sync/atomic"

// counter is a shared atomic gauge: pixelsRemaining starts at numPixels
// and counts down as pixels retire; samplesDone starts at 0 and counts up
// as samples terminate, for progress/throughput reporting.
type counter struct {
	remaining int64
}

func newCounter(initial int) *counter {
	return &counter{remaining: int64(initial)}
}

// sub atomically subtracts n and returns the value remaining after.
func (c *counter) sub(n int) int {
	return int(atomic.AddInt64(&c.remaining, -int64(n)))
}

// add atomically adds n and returns the new total.
func (c *counter) add(n int) int {
	return int(atomic.AddInt64(&c.remaining, int64(n)))
}
