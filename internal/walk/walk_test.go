package walk

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewWalkInvariants(t *testing.T) {
	rw := New(2, 17, mgl32.Vec2{1, 2}, 8)
	assert.Equal(t, mgl32.Vec2{1, 2}, rw.P)
	assert.Equal(t, float32(1), rw.F)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, rw.Val)
	assert.Equal(t, 0, rw.CurrSteps)
	assert.False(t, rw.Terminated)
	assert.Equal(t, 8, rw.NSamplesLeft)
}

func TestTakeStepAccumulatesThroughputAndSteps(t *testing.T) {
	rw := New(0, 0, mgl32.Vec2{0, 0}, 1)
	rw.TakeStep(mgl32.Vec2{1, 0}, 1/0.99)
	assert.InDelta(t, 1/0.99, rw.F, 1e-6)
	assert.Equal(t, 1, rw.CurrSteps)
	assert.Equal(t, mgl32.Vec2{1, 0}, rw.P)
}

func TestTerminateAccumulatesValAndDecrementsSamples(t *testing.T) {
	rw := New(0, 0, mgl32.Vec2{0, 0}, 2)
	rw.F = 2
	rw.Terminate(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, rw.Val)
	assert.Equal(t, 1, rw.NSamplesLeft)
	assert.True(t, rw.Terminated)
	assert.False(t, rw.Retired())

	rw.InitializeWalk()
	assert.Equal(t, rw.StartP, rw.P)
	assert.Equal(t, float32(1), rw.F)
	assert.False(t, rw.Terminated)
	// val and nSamplesLeft survive InitializeWalk.
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, rw.Val)
	assert.Equal(t, 1, rw.NSamplesLeft)

	rw.Terminate(mgl32.Vec3{1, 1, 1})
	assert.True(t, rw.Retired())
}

func TestFinalColorAverages(t *testing.T) {
	rw := New(0, 0, mgl32.Vec2{0, 0}, 4)
	rw.Val = mgl32.Vec3{4, 8, 0}
	got := rw.FinalColor(4)
	assert.InDeltaSlice(t, []float32{1, 2, 0}, got[:], 1e-6)
}
