// Package stats collects per-thread timing and counters for a render and
// reports them once the render completes.
package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"

	"pwos/internal/atomicfloat"
)

// TimerType names one of the per-thread timing buckets a render tracks.
type TimerType int

const (
	Total TimerType = iota
	GridCreation
	Setup
	SendWalks
	RecvWalks
	ClosestPointGrid
	ClosestPointQuery
	SetupClosestPointQuery
)

// Stats aggregates timing and counters across every worker thread in a
// render. Each field indexed by thread is written only by its own thread
// during the render and read only after every worker has joined, so no
// synchronization is needed for them; Throughput is the sole exception,
// since a live-progress consumer may poll it mid-render.
type Stats struct {
	TotalTime        time.Duration
	GridCreationTime time.Duration
	SetupTime        time.Duration

	ThreadTime        []time.Duration
	ThreadSendTime    []time.Duration
	ThreadRecvTime    []time.Duration
	ThreadCPGTime     []time.Duration
	ThreadCPQTime     []time.Duration
	ThreadCPQSetup    []time.Duration

	NumGridPoints             int
	NumClosestPointQueries    []int
	NumClosestPointQueriesSet []int
	NumGridQueries            []int

	// Throughput is the only genuinely concurrent field: a completed-samples-
	// per-second gauge a live-progress goroutine may read while workers are
	// still advancing walks. Only the mcwog driver updates it.
	Throughput *atomicfloat.Float64
}

// New allocates per-thread slices for nthreads workers.
func New(nthreads int) *Stats {
	return &Stats{
		ThreadTime:                make([]time.Duration, nthreads),
		ThreadSendTime:            make([]time.Duration, nthreads),
		ThreadRecvTime:            make([]time.Duration, nthreads),
		ThreadCPGTime:             make([]time.Duration, nthreads),
		ThreadCPQTime:             make([]time.Duration, nthreads),
		ThreadCPQSetup:            make([]time.Duration, nthreads),
		NumClosestPointQueries:    make([]int, nthreads),
		NumClosestPointQueriesSet: make([]int, nthreads),
		NumGridQueries:            make([]int, nthreads),
		Throughput:                atomicfloat.New(0),
	}
}

// Time runs f and accumulates its wall-clock duration into the named
// process-wide bucket (Total, GridCreation, or Setup).
func (s *Stats) Time(t TimerType, f func()) {
	start := time.Now()
	f()
	elapsed := time.Since(start)
	switch t {
	case Total:
		s.TotalTime += elapsed
	case GridCreation:
		s.GridCreationTime += elapsed
	case Setup:
		s.SetupTime += elapsed
	}
}

// TimeThread runs f and accumulates its wall-clock duration into tid's
// bucket for t.
func (s *Stats) TimeThread(tid int, t TimerType, f func()) {
	start := time.Now()
	f()
	elapsed := time.Since(start)
	switch t {
	case Total:
		s.ThreadTime[tid] += elapsed
	case SendWalks:
		s.ThreadSendTime[tid] += elapsed
	case RecvWalks:
		s.ThreadRecvTime[tid] += elapsed
	case ClosestPointGrid:
		s.ThreadCPGTime[tid] += elapsed
	case ClosestPointQuery:
		s.ThreadCPQTime[tid] += elapsed
	case SetupClosestPointQuery:
		s.ThreadCPQSetup[tid] += elapsed
	}
}

// TimeThreadErr is TimeThread for functions that can fail: the duration is
// still recorded whether or not f errors, and the error is passed through.
func (s *Stats) TimeThreadErr(tid int, t TimerType, f func() error) error {
	start := time.Now()
	err := f()
	elapsed := time.Since(start)
	switch t {
	case Total:
		s.ThreadTime[tid] += elapsed
	case SendWalks:
		s.ThreadSendTime[tid] += elapsed
	case RecvWalks:
		s.ThreadRecvTime[tid] += elapsed
	case ClosestPointGrid:
		s.ThreadCPGTime[tid] += elapsed
	case ClosestPointQuery:
		s.ThreadCPQTime[tid] += elapsed
	case SetupClosestPointQuery:
		s.ThreadCPQSetup[tid] += elapsed
	}
	return err
}

// IncrementClosestPointQuery records one direct scene closest-point query
// by thread tid.
func (s *Stats) IncrementClosestPointQuery(tid int) {
	s.NumClosestPointQueries[tid]++
}

// IncrementGridQuery records one CPG cell lookup by thread tid.
func (s *Stats) IncrementGridQuery(tid int) {
	s.NumGridQueries[tid]++
}

// Report writes a human-readable profiling summary to w: min/avg/max
// across threads for each timing bucket, plus query counters.
func (s *Stats) Report(w io.Writer) {
	fmt.Fprintln(w, "-----------------------------------------")
	fmt.Fprintln(w, "|     Profiling Results                 |")
	fmt.Fprintln(w, "-----------------------------------------")

	fmt.Fprintln(w, "Number of Closest Point Queries:", sum(s.NumClosestPointQueries))
	fmt.Fprintln(w, "Number of Grid Queries:", sum(s.NumGridQueries))
	fmt.Fprintln(w, "Total time:", s.TotalTime)
	fmt.Fprintln(w, "Grid creation time:", s.GridCreationTime)
	fmt.Fprintln(w, "Setup time:", s.SetupTime)

	reportBucket(w, "Time per thread", s.ThreadTime)
	reportBucket(w, "Send walks time", s.ThreadSendTime)
	reportBucket(w, "Recv walks time", s.ThreadRecvTime)
	reportBucket(w, "CP grid time", s.ThreadCPGTime)
	reportBucket(w, "CP query time", s.ThreadCPQTime)

	if len(s.ThreadTime) > 1 {
		fmt.Fprintln(w, "Distribution of thread times:")
		for i, d := range s.ThreadTime {
			fmt.Fprintf(w, "\t#%d %s\n", i, d)
		}
	}
}

func reportBucket(w io.Writer, label string, durations []time.Duration) {
	if len(durations) == 0 {
		return
	}
	min := lo.MinBy(durations, func(a, b time.Duration) bool { return a < b })
	max := lo.MaxBy(durations, func(a, b time.Duration) bool { return a > b })
	avg := lo.Sum(durations) / time.Duration(len(durations))
	fmt.Fprintf(w, "%s: (avg=%s, min=%s, max=%s)\n", label, avg, min, max)
}

func sum(vals []int) int {
	return lo.Sum(vals)
}
