package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/vec"
)

// Circle is a disk in R^2 with a constant Dirichlet boundary color.
type Circle struct {
	Center   mgl32.Vec2
	Radius   float32
	Boundary mgl32.Vec3
}

// NewCircle constructs a circle.
func NewCircle(center mgl32.Vec2, radius float32, boundary mgl32.Vec3) Circle {
	return Circle{Center: center, Radius: radius, Boundary: boundary}
}

// ClosestPoint returns the point on the circle's circumference nearest o.
// When o coincides with the center (degenerate), an arbitrary point on the
// circle is returned rather than propagating a NaN from normalizing a
// zero vector: an undefined direction, but a valid point on the boundary.
func (c Circle) ClosestPoint(o mgl32.Vec2) mgl32.Vec2 {
	d := o.Sub(c.Center)
	n := d.Len()
	if n == 0 {
		return c.Center.Add(mgl32.Vec2{c.Radius, 0})
	}
	return c.Center.Add(d.Mul(c.Radius / n))
}

// BoundingBox returns the axis-aligned bounding box enclosing the circle.
func (c Circle) BoundingBox() BBox {
	r := mgl32.Vec2{c.Radius, c.Radius}
	return BBox{BL: c.Center.Sub(r), TR: c.Center.Add(r)}
}

// BBox is an axis-aligned bounding box. It is used only by the
// preview-image path of the dist/gridviz integrators to skip distant
// geometry; the core render path always does the full scene scan.
type BBox struct {
	BL, TR mgl32.Vec2
}

// Contains reports whether p lies within the box.
func (b BBox) Contains(p mgl32.Vec2) bool {
	return p[0] >= b.BL[0] && p[0] <= b.TR[0] && p[1] >= b.BL[1] && p[1] <= b.TR[1]
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		BL: mgl32.Vec2{min32(b.BL[0], other.BL[0]), min32(b.BL[1], other.BL[1])},
		TR: mgl32.Vec2{max32(b.TR[0], other.TR[0]), max32(b.TR[1], other.TR[1])},
	}
}

// AsWindow converts the box to a vec.Window.
func (b BBox) AsWindow() vec.Window { return vec.Window{BL: b.BL, TR: b.TR} }

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
