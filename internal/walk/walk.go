// Package walk implements the per-pixel RandomWalk state object and the
// RandomWalkManager mesh that routes walks between workers.
package walk

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RandomWalk is a per-pixel record tracking one Monte Carlo estimator in
// flight. The pair (ParentID, PixelID) uniquely identifies a walk across a
// render; ParentID never changes once seeded, but the walk's current owner
// is recomputed from P on every routing decision.
type RandomWalk struct {
	ParentID int
	PixelID  int

	StartP mgl32.Vec2
	P      mgl32.Vec2

	F   float32
	Val mgl32.Vec3

	NSamplesLeft int
	CurrSteps    int
	Terminated   bool
}

// New constructs a walk at startP with nSamples estimates still to take.
func New(parentID, pixelID int, startP mgl32.Vec2, nSamples int) *RandomWalk {
	return &RandomWalk{
		ParentID:     parentID,
		PixelID:      pixelID,
		StartP:       startP,
		P:            startP,
		F:            1,
		NSamplesLeft: nSamples,
	}
}

// InitializeWalk resets state for the next sample without touching Val or
// NSamplesLeft.
func (rw *RandomWalk) InitializeWalk() {
	rw.P = rw.StartP
	rw.F = 1
	rw.CurrSteps = 0
	rw.Terminated = false
}

// TakeStep advances the walk by delta, scaling throughput by fUpdate.
// Precondition: the walk is not terminated.
func (rw *RandomWalk) TakeStep(delta mgl32.Vec2, fUpdate float32) {
	rw.P = rw.P.Add(delta)
	rw.F *= fUpdate
	rw.CurrSteps++
}

// Terminate absorbs the walk at boundary color g: accumulates f*g into Val,
// decrements the remaining sample count, and marks the walk terminated.
// Callers must either retire the walk (NSamplesLeft == 0) or call
// InitializeWalk before the next TakeStep.
func (rw *RandomWalk) Terminate(g mgl32.Vec3) {
	rw.Val = rw.Val.Add(g.Mul(rw.F))
	rw.NSamplesLeft--
	rw.Terminated = true
}

// Retired reports whether the walk has taken all its samples and is ready
// to be written to the image.
func (rw *RandomWalk) Retired() bool {
	return rw.NSamplesLeft <= 0
}

// FinalColor returns the pixel's averaged estimate, valid only once Retired.
func (rw *RandomWalk) FinalColor(spp int) mgl32.Vec3 {
	return rw.Val.Mul(1 / float32(spp))
}
