// Package atomicfloat provides a lock-free float64 box for the one piece of
// genuinely concurrent floating-point state in the renderer: the
// walks/sec throughput gauge a live-progress consumer may poll mid-render.
package atomicfloat

import (
	"math"
	"sync/atomic"
)

// Float64 wraps a float64 for non-locking atomic operations via CAS on its
// bit pattern. Every other piece of per-thread numeric state in this
// renderer (Stats timers/counters, RandomWalk fields) is thread-local and
// only aggregated single-threaded at report time, so it never needs this;
// Float64 exists solely for Stats.Throughput, which a live-progress
// goroutine reads while workers are still writing it.
type Float64 struct {
	bits uint64
}

// New returns a Float64 initialized to val.
func New(val float64) *Float64 {
	f := &Float64{}
	atomic.StoreUint64(&f.bits, math.Float64bits(val))
	return f
}

// Load atomically reads the current value.
func (f *Float64) Load() float64 {
	return math.Float64frombits(atomic.LoadUint64(&f.bits))
}

// Store atomically overwrites the current value.
func (f *Float64) Store(val float64) {
	atomic.StoreUint64(&f.bits, math.Float64bits(val))
}

// Add atomically adds delta and returns the resulting value, retrying the
// CAS if another writer raced it. Unlike a naive retry loop that adds
// delta to whatever the latest value happens to be, the loop always reads
// fresh before recomputing, so it never silently drops a concurrent
// update.
func (f *Float64) Add(delta float64) float64 {
	for {
		oldBits := atomic.LoadUint64(&f.bits)
		old := math.Float64frombits(oldBits)
		newVal := old + delta
		if atomic.CompareAndSwapUint64(&f.bits, oldBits, math.Float64bits(newVal)) {
			return newVal
		}
	}
}
