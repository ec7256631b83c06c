package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwos/internal/vec"
)

func TestNewDiskSceneRejectsEmptyGeometry(t *testing.T) {
	_, err := NewDiskScene("empty", vec2Window(), nil)
	assert.ErrorIs(t, err, ErrEmptyScene)
}

func TestCircleClosestPointOnBoundary(t *testing.T) {
	c := NewCircle(mgl32.Vec2{0, 0}, 1, mgl32.Vec3{1, 0, 0})
	q := c.ClosestPoint(mgl32.Vec2{2, 0})
	assert.InDelta(t, 1.0, q[0], 1e-5)
	assert.InDelta(t, 0.0, q[1], 1e-5)
}

func TestDiskSceneClosestPointPicksNearestDisk(t *testing.T) {
	s, err := NewDiskScene("two-disks", vec2Window(),
		[]Circle{
			NewCircle(mgl32.Vec2{-5, -5}, 0.5, mgl32.Vec3{1, 0, 0}),
			NewCircle(mgl32.Vec2{5, 5}, 0.5, mgl32.Vec3{0, 1, 0}),
		})
	require.NoError(t, err)

	_, boundary := s.ClosestPoint(mgl32.Vec2{4.9, 4.9})
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, boundary)
}

func TestLoadFileParsesDegenerateScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "degenerate.scene")
	contents := "-1,-1,1,1\n0,0,0.5,1,0,0\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "degenerate", s.Name())
	assert.Len(t, s.Circles(), 1)
}

func TestLoadFileReportsMissingField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.scene")
	contents := "-1,-1,1,1\n0,0,0.5,1,0,\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	fe, ok := err.(*FileError)
	require.True(t, ok)
	assert.Equal(t, 2, fe.Line)
}

func TestLoadFileIgnoresBlankTrailingLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trailing.scene")
	contents := "-1,-1,1,1\n0,0,0.5,1,0,0\n\n\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Circles(), 1)
}

func TestGeometryBoundsUnionsDisksAndClampsToWindow(t *testing.T) {
	s, err := NewDiskScene("bounded", vec2Window(),
		[]Circle{
			NewCircle(mgl32.Vec2{-2, 0}, 1, mgl32.Vec3{1, 0, 0}),
			NewCircle(mgl32.Vec2{2, 0}, 1, mgl32.Vec3{0, 1, 0}),
		})
	require.NoError(t, err)

	bounds := s.GeometryBounds()
	assert.InDelta(t, -3.0, bounds.BL[0], 1e-5)
	assert.InDelta(t, -1.0, bounds.BL[1], 1e-5)
	assert.InDelta(t, 3.0, bounds.TR[0], 1e-5)
	assert.InDelta(t, 1.0, bounds.TR[1], 1e-5)
}

func TestGeometryBoundsClampsToWindowWhenGeometryExceedsIt(t *testing.T) {
	s, err := NewDiskScene("oversized", vec.Window{BL: mgl32.Vec2{-1, -1}, TR: mgl32.Vec2{1, 1}},
		[]Circle{NewCircle(mgl32.Vec2{0, 0}, 5, mgl32.Vec3{1, 1, 1})})
	require.NoError(t, err)

	bounds := s.GeometryBounds()
	assert.Equal(t, float32(-1), bounds.BL[0])
	assert.Equal(t, float32(-1), bounds.BL[1])
	assert.Equal(t, float32(1), bounds.TR[0])
	assert.Equal(t, float32(1), bounds.TR[1])
}

func vec2Window() vec.Window {
	return vec.Window{BL: mgl32.Vec2{-10, -10}, TR: mgl32.Vec2{10, 10}}
}
