// Package vec collects the small set of coordinate-space helpers shared by
// the scene, grid, and walk packages. Vectors themselves are
// github.com/go-gl/mathgl/mgl32 types; this package only adds the
// domain-specific conversions used throughout the renderer (pixel <->
// world coordinates, sampling a point on a circle).
package vec

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Window is a rectangular scene bound, bottom-left to top-right.
type Window struct {
	BL, TR mgl32.Vec2
}

// Dx returns the window's width.
func (w Window) Dx() float32 { return w.TR[0] - w.BL[0] }

// Dy returns the window's height.
func (w Window) Dy() float32 { return w.TR[1] - w.BL[1] }

// InRange reports whether p lies within [bl, tr), half-open per the CPG's
// indexing convention.
func (w Window) InRange(p mgl32.Vec2) bool {
	return p[0] >= w.BL[0] && p[0] < w.TR[0] && p[1] >= w.BL[1] && p[1] < w.TR[1]
}

// SampleCirclePoint returns a point at radius R on the circle, parameterized
// by rand in [0, 1).
func SampleCirclePoint(R float32, rand float32) mgl32.Vec2 {
	theta := float64(rand) * 2 * math.Pi
	return mgl32.Vec2{R * float32(math.Cos(theta)), R * float32(math.Sin(theta))}
}

// PixelToWorld maps a pixel index (x, y), origin top-left, to its world
// coordinate at the pixel center.
func PixelToWorld(x, y, resX, resY int, w Window) mgl32.Vec2 {
	dx, dy := w.Dx(), w.Dy()
	return mgl32.Vec2{
		w.BL[0] + (float32(x)+0.5)*dx/float32(resX),
		w.BL[1] + (float32(resY-y)-0.5)*dy/float32(resY),
	}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b mgl32.Vec2) float32 {
	return a.Sub(b).Len()
}
