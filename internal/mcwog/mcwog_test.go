package mcwog

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwos/internal/grid"
	"pwos/internal/scene"
	"pwos/internal/stats"
	"pwos/internal/vec"
	"pwos/internal/walk"
)

func degenerateScene(t *testing.T) *scene.DiskScene {
	t.Helper()
	s, err := scene.NewDiskScene("degenerate",
		vec.Window{BL: mgl32.Vec2{-1, -1}, TR: mgl32.Vec2{1, 1}},
		[]scene.Circle{scene.NewCircle(mgl32.Vec2{0, 0}, 0.5, mgl32.Vec3{1, 0, 0})})
	require.NoError(t, err)
	return s
}

func TestNumUsableThreadsCoercesToPowerOfTwo(t *testing.T) {
	assert.Equal(t, 1, NumUsableThreads(1))
	assert.Equal(t, 4, NumUsableThreads(5))
	assert.Equal(t, 8, NumUsableThreads(8))
	assert.Equal(t, 1, NumUsableThreads(0))
}

// Every pixel must end up with a non-negative, finite color after a full
// render: no pixel is left unset.
func TestRenderSetsEveryPixel(t *testing.T) {
	s := degenerateScene(t)
	st := stats.New(NumUsableThreads(2))
	img, err := Render(context.Background(), s, Config{ResX: 8, ResY: 8, SPP: 4, NThreads: 2}, st)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			rgb := img.At(x, y)
			for _, c := range rgb {
				assert.GreaterOrEqual(t, c, float32(0))
				assert.False(t, isNaN(c))
			}
		}
	}
}

func TestRenderProducesExactImageDimensions(t *testing.T) {
	s := degenerateScene(t)
	st := stats.New(1)
	img, err := Render(context.Background(), s, Config{ResX: 5, ResY: 3, SPP: 2, NThreads: 1}, st)
	require.NoError(t, err)

	w, h := img.Res()
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)
}

// Reproduces Render's seeding loop at a non-square resolution and checks
// every pixel index in [0, numPixels) is assigned exactly once: a stride
// that confuses width and height would collide some indices and leave
// others never written.
func TestSeedPixelCoversEveryIndexExactlyOnceAtNonSquareResolution(t *testing.T) {
	s := degenerateScene(t)
	cpg := buildTestGrid(t, s)
	const resX, resY = 5, 3
	mgr := walk.NewManager(cpg, 1)

	for idx := 0; idx < resX*resY; idx++ {
		ix, iy := idx%resX, idx/resX
		mgr.SeedPixel(0, ix, iy, resX, resY, s.Window(), 1)
	}
	walks := mgr.RecvActiveWalks(0)

	seen := make(map[int]bool, resX*resY)
	for _, rw := range walks {
		assert.False(t, seen[rw.PixelID], "pixel index %d written more than once", rw.PixelID)
		seen[rw.PixelID] = true
	}
	assert.Len(t, seen, resX*resY)
	for i := 0; i < resX*resY; i++ {
		assert.True(t, seen[i], "pixel index %d never written", i)
	}
}

// A point starting inside the disk's epsilon shell never takes a step: the
// first advance() call must terminate it at the disk's boundary color.
func TestAdvanceTerminatesImmediatelyInsideEpsilonShell(t *testing.T) {
	s := degenerateScene(t)
	st := stats.New(1)
	rng := newDeterministicRNG()

	rw := newWalkAt(mgl32.Vec2{0.499, 0}) // within BoundaryEpsilon of radius 0.5
	cpg := buildTestGrid(t, s)
	advance(s, cpg, rw, minGridRFor(s, 8, 8), DefaultRRProb, rng, st, 0, nil)

	assert.True(t, rw.Terminated)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, rw.Val)
}

func isNaN(f float32) bool { return f != f }

func newDeterministicRNG() *rand.Rand { return rand.New(rand.NewSource(1)) }

func newWalkAt(p mgl32.Vec2) *walk.RandomWalk { return walk.New(0, 0, p, 1) }

func buildTestGrid(t *testing.T, s scene.Scene) *grid.ClosestPointGrid {
	t.Helper()
	g, err := grid.Build(s, s.Window(), 0.1, 1)
	require.NoError(t, err)
	return g
}

func minGridRFor(s scene.Scene, resX, resY int) float32 {
	w := s.Window()
	cellLength := minf(w.Dx()/float32(resX), w.Dy()/float32(resY))
	return float32(math.Sqrt2) * cellLength
}
