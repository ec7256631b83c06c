package walk

import "sync"

// Queue is a thread-safe bulk transfer queue backed by two slices, each
// guarded by its own mutex.
//
// The producer and consumer rarely collide because of the mesh's SPSC
// assignment in Manager; the second slice absorbs rare contention, e.g.
// when a worker pushes into its own queue while also draining it. Bulk
// transfer amortizes lock overhead over many walks. Ordering across the
// two sub-slices is not preserved, and callers must not rely on FIFO
// order.
type Queue struct {
	lockA sync.Mutex
	qA    []*RandomWalk

	lockB sync.Mutex
	qB    []*RandomWalk
}

// PushAll appends walks to the queue. It never blocks indefinitely: it
// tries lockA first and only falls back to a blocking acquisition of
// lockB, so a concurrent PopAll draining qA cannot stall a push.
func (q *Queue) PushAll(walks []*RandomWalk) {
	if len(walks) == 0 {
		return
	}
	if q.lockA.TryLock() {
		q.qA = append(q.qA, walks...)
		q.lockA.Unlock()
		return
	}
	q.lockB.Lock()
	q.qB = append(q.qB, walks...)
	q.lockB.Unlock()
}

// PopAll drains both sub-slices and returns everything collected. It never
// blocks: a sub-slice currently held by a concurrent PushAll is simply
// skipped for this call and picked up on a later one.
func (q *Queue) PopAll() []*RandomWalk {
	var out []*RandomWalk
	if q.lockA.TryLock() {
		if len(q.qA) > 0 {
			out = append(out, q.qA...)
			q.qA = nil
		}
		q.lockA.Unlock()
	}
	if q.lockB.TryLock() {
		if len(q.qB) > 0 {
			out = append(out, q.qB...)
			q.qB = nil
		}
		q.lockB.Unlock()
	}
	return out
}
