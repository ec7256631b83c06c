// Package scene defines the closest-point-query contract the rest of the
// renderer treats as an expensive external collaborator, plus the one
// concrete implementation (disks with constant Dirichlet boundary color)
// the CLI loads from a scene file.
package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/vec"
)

// ErrEmptyScene is returned at construction when a scene has no geometry;
// closest-point queries against an empty scene have no answer.
var ErrEmptyScene = errors.New("scene: no geometry, closest-point query undefined")

// Scene is immutable for the duration of a render. Implementations are
// expected to be read-only and safe for concurrent ClosestPoint calls.
type Scene interface {
	// Window returns the bottom-left and top-right corners of the scene's
	// bounding rectangle.
	Window() vec.Window
	// Name is a short identifier used to build output filenames.
	Name() string
	// ClosestPoint returns the nearest boundary point to p and the
	// boundary color attached to the geometry it lies on.
	ClosestPoint(p mgl32.Vec2) (q mgl32.Vec2, boundary mgl32.Vec3)
}

// DiskScene is a Scene backed by a flat list of disks, queried with a
// naive O(n) linear scan. A KD-tree would help at larger disk counts, but
// the CPG (internal/grid) is what actually keeps this off the hot path at
// render time, so the list stays flat.
type DiskScene struct {
	name    string
	window  vec.Window
	circles []Circle
}

// NewDiskScene constructs a scene from its window and geometry. Returns
// ErrEmptyScene if circles is empty.
func NewDiskScene(name string, window vec.Window, circles []Circle) (*DiskScene, error) {
	if len(circles) == 0 {
		return nil, ErrEmptyScene
	}
	return &DiskScene{name: name, window: window, circles: circles}, nil
}

func (s *DiskScene) Window() vec.Window { return s.window }
func (s *DiskScene) Name() string       { return s.name }

// ClosestPoint scans every disk and returns the nearest boundary point.
func (s *DiskScene) ClosestPoint(p mgl32.Vec2) (q mgl32.Vec2, boundary mgl32.Vec3) {
	bestDist := float32(0)
	first := true
	for _, c := range s.circles {
		cp := c.ClosestPoint(p)
		d := vec.Dist(cp, p)
		if first || d < bestDist {
			bestDist = d
			q = cp
			boundary = c.Boundary
			first = false
		}
	}
	return q, boundary
}

// Circles exposes the underlying geometry, used by the dist/gridviz
// integrators' bounding-box preview optimization.
func (s *DiskScene) Circles() []Circle { return s.circles }

// GeometryBounds returns the union of every disk's bounding box, clamped
// to the scene's window. Preview renders sample this instead of the full
// window, since geometry is usually a small fraction of it.
func (s *DiskScene) GeometryBounds() vec.Window {
	box := s.circles[0].BoundingBox()
	for _, c := range s.circles[1:] {
		box = box.Union(c.BoundingBox())
	}
	w := box.AsWindow()
	bl := mgl32.Vec2{max32(w.BL[0], s.window.BL[0]), max32(w.BL[1], s.window.BL[1])}
	tr := mgl32.Vec2{min32(w.TR[0], s.window.TR[0]), min32(w.TR[1], s.window.TR[1])}
	return vec.Window{BL: bl, TR: tr}
}
