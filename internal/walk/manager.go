package walk

import (
	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/vec"
)

// Locator is the subset of ClosestPointGrid the Manager needs to route
// walks: block ownership and range membership.
// *grid.ClosestPointGrid satisfies this interface directly.
type Locator interface {
	PointInRange(p mgl32.Vec2) bool
	GetBlockID(p mgl32.Vec2) int
}

// Manager holds the N×N mesh of active/terminated queues plus each
// worker's outbox buffers. One Manager instance is
// shared by all workers; each worker addresses it by passing its own id as
// the tid argument of the methods below rather than holding a private copy, since
// the mesh and outboxes are shared state across the whole render.
type Manager struct {
	cpg Locator
	n   int

	activeQ     [][]*Queue // activeQ[s][r]: s produces, r consumes.
	terminatedQ [][]*Queue // terminatedQ[s][r]

	activeOutbox     [][][]*RandomWalk // activeOutbox[worker][destination]
	terminatedOutbox [][][]*RandomWalk
}

// NewManager allocates the N×N mesh and per-worker outbox buffers for n
// workers routing against cpg.
func NewManager(cpg Locator, n int) *Manager {
	m := &Manager{
		cpg:              cpg,
		n:                n,
		activeQ:          make([][]*Queue, n),
		terminatedQ:      make([][]*Queue, n),
		activeOutbox:     make([][][]*RandomWalk, n),
		terminatedOutbox: make([][][]*RandomWalk, n),
	}
	for s := 0; s < n; s++ {
		m.activeQ[s] = make([]*Queue, n)
		m.terminatedQ[s] = make([]*Queue, n)
		m.activeOutbox[s] = make([][]*RandomWalk, n)
		m.terminatedOutbox[s] = make([][]*RandomWalk, n)
		for r := 0; r < n; r++ {
			m.activeQ[s][r] = &Queue{}
			m.terminatedQ[s][r] = &Queue{}
		}
	}
	return m
}

// GetOwner returns the worker id that should currently own a walk at p:
// the CPG block id when p falls inside the grid's window, otherwise
// fallback (the walk's ParentID while routing in-flight, or the seeding
// worker's own id while seeding).
func (m *Manager) GetOwner(p mgl32.Vec2, fallback int) int {
	if m.cpg.PointInRange(p) {
		return m.cpg.GetBlockID(p)
	}
	return fallback
}

// AddWalkToBuffer appends rw to tid's outbox bucket for its current owner
// and classification (active vs terminated).
func (m *Manager) AddWalkToBuffer(tid int, rw *RandomWalk) {
	dest := m.GetOwner(rw.P, rw.ParentID)
	if rw.Terminated {
		m.terminatedOutbox[tid][dest] = append(m.terminatedOutbox[tid][dest], rw)
	} else {
		m.activeOutbox[tid][dest] = append(m.activeOutbox[tid][dest], rw)
	}
}

// SendWalks drains tid's outbox buckets into peer inbox queues. The
// self-bound bucket (destination == tid) is left alone: a walk a worker
// routes to itself never needs to cross a queue, and is consumed in place
// on the worker's next receive.
func (m *Manager) SendWalks(tid int) {
	drain(tid, m.activeOutbox[tid], m.activeQ[tid])
	drain(tid, m.terminatedOutbox[tid], m.terminatedQ[tid])
}

func drain(tid int, outbox [][]*RandomWalk, row []*Queue) {
	for r, bucket := range outbox {
		if r == tid || len(bucket) == 0 {
			continue
		}
		row[r].PushAll(bucket)
		outbox[r] = nil
	}
}

// RecvActiveWalks collects every walk now owned by tid: all in-flight
// sends from peers plus tid's own self-bound active outbox.
func (m *Manager) RecvActiveWalks(tid int) []*RandomWalk {
	return recv(tid, m.activeQ, m.activeOutbox)
}

// RecvTerminatedWalks is the terminated-channel analogue of
// RecvActiveWalks.
func (m *Manager) RecvTerminatedWalks(tid int) []*RandomWalk {
	return recv(tid, m.terminatedQ, m.terminatedOutbox)
}

func recv(tid int, mesh [][]*Queue, outbox [][][]*RandomWalk) []*RandomWalk {
	var out []*RandomWalk
	for s := range mesh {
		if s == tid {
			if self := outbox[tid][tid]; len(self) > 0 {
				out = append(out, self...)
				outbox[tid][tid] = nil
			}
			continue
		}
		out = append(out, mesh[s][tid].PopAll()...)
	}
	return out
}

// SeedPixel constructs the RandomWalk for pixel (ix, iy) and places it in
// the seeding worker's active outbox bucket.
func (m *Manager) SeedPixel(tid, ix, iy, resX, resY int, window vec.Window, spp int) {
	coord := vec.PixelToWorld(ix, iy, resX, resY, window)
	owner := m.GetOwner(coord, tid)
	rw := New(owner, ix+iy*resX, coord, spp)
	m.activeOutbox[tid][owner] = append(m.activeOutbox[tid][owner], rw)
}

// N returns the worker count the manager was built for.
func (m *Manager) N() int { return m.n }
