// Package mcwog implements the parallel Monte Carlo Walk-on-Grid driver:
// it builds a ClosestPointGrid, seeds one RandomWalk per pixel, and runs
// the per-worker advance/route/retire loop to convergence.
package mcwog

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"pwos/internal/grid"
	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
	"pwos/internal/vec"
	"pwos/internal/walk"
)

// BoundaryEpsilon is the epsilon-shell radius within which a walk is
// absorbed, in scene-space units.
const BoundaryEpsilon = 1e-2

// DefaultRRProb is the Russian-roulette survival probability used when a
// run doesn't override it.
const DefaultRRProb = 0.99

// Config parameterizes one MCWoG render.
type Config struct {
	ResX, ResY int
	SPP        int
	NThreads   int
	CellSize   float32 // multiplier applied to the grid's base cell length; default 1
	RRProb     float32 // default DefaultRRProb when zero
	// Progress, if non-nil, is called after each batch of samples
	// terminates with the cumulative sample count and the total expected
	// (numPixels * SPP). Optional.
	Progress func(samplesDone, totalSamples int)
	// OnGridTouch, if non-nil, is called from worker 0 only, once per CPG
	// cell a walk's advance() step actually reads, with the walk's current
	// position (which lies inside that cell). Used by the mcwogviz
	// integrator to build a
	// heatmap of grid cell usage without coupling the driver to any
	// particular visualization.
	OnGridTouch func(anchor mgl32.Vec2)
}

// NumUsableThreads returns 2^floor(log2(nthreads)), the worker count the
// renderer actually runs with, since the block mesh only tiles evenly at
// powers of two. Render logs a warning when this differs from the
// requested count.
func NumUsableThreads(nthreads int) int {
	if nthreads < 1 {
		nthreads = 1
	}
	n := int(math.Floor(math.Log2(float64(nthreads))))
	return int(math.Pow(2, float64(n)))
}

// Render builds the CPG, seeds every pixel, and drives the worker loop to
// completion, returning the resulting image.
func Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error) {
	numUsable := NumUsableThreads(cfg.NThreads)
	if numUsable != cfg.NThreads {
		log.Printf("mcwog: nthreads=%d is not a power of two, using %d", cfg.NThreads, numUsable)
	}

	window := s.Window()
	dx, dy := window.Dx(), window.Dy()
	cellSize := cfg.CellSize
	if cellSize == 0 {
		cellSize = 1
	}
	cellLength := cellSize * minf(dx/float32(cfg.ResX), dy/float32(cfg.ResY))
	minGridR := float32(math.Sqrt2) * cellLength

	rrProb := cfg.RRProb
	if rrProb == 0 {
		rrProb = DefaultRRProb
	}

	var cpg *grid.ClosestPointGrid
	var buildErr error
	st.Time(stats.GridCreation, func() {
		cpg, buildErr = grid.Build(s, window, cellLength, numUsable)
	})
	if buildErr != nil {
		return nil, buildErr
	}

	img := rimage.New(cfg.ResX, cfg.ResY)

	mgr := walk.NewManager(cpg, numUsable)
	for tid := 0; tid < numUsable; tid++ {
		for idx := tid; idx < cfg.ResX*cfg.ResY; idx += numUsable {
			ix, iy := idx%cfg.ResX, idx/cfg.ResX
			mgr.SeedPixel(tid, ix, iy, cfg.ResX, cfg.ResY, window, cfg.SPP)
		}
	}
	for tid := 0; tid < numUsable; tid++ {
		mgr.SendWalks(tid)
	}

	// pixelsRemaining tracks retirements (one decrement per pixel) and
	// gates loop termination. samplesDone counts every sample termination
	// (boundary or roulette, whether or not the walk goes on to retire)
	// out of totalSamples, purely for progress/throughput reporting.
	pixelsRemaining := newCounter(cfg.ResX * cfg.ResY)
	totalSamples := cfg.ResX * cfg.ResY * cfg.SPP
	samplesDone := newCounter(0)

	eg, egCtx := errgroup.WithContext(ctx)
	for tid := 0; tid < numUsable; tid++ {
		tid := tid
		eg.Go(func() error {
			return runWorker(egCtx, tid, s, cpg, mgr, img, cfg, minGridR, rrProb, pixelsRemaining, samplesDone, st, totalSamples)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return img, nil
}

func runWorker(
	ctx context.Context,
	tid int,
	s scene.Scene,
	cpg *grid.ClosestPointGrid,
	mgr *walk.Manager,
	img *rimage.Image,
	cfg Config,
	minGridR, rrProb float32,
	pixelsRemaining *counter,
	samplesDone *counter,
	st *stats.Stats,
	totalSamples int,
) error {
	rng := rand.New(rand.NewSource(int64(tid) + 1))
	start := time.Now()

	var readyToWrite []*walk.RandomWalk

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		active := mgr.RecvActiveWalks(tid)
		for _, rw := range active {
			advance(s, cpg, rw, minGridR, rrProb, rng, st, tid, cfg.OnGridTouch)
			mgr.AddWalkToBuffer(tid, rw)
		}

		terminated := mgr.RecvTerminatedWalks(tid)
		numRetired := 0
		for _, rw := range terminated {
			if rw.Retired() {
				readyToWrite = append(readyToWrite, rw)
				numRetired++
			} else {
				rw.InitializeWalk()
				mgr.AddWalkToBuffer(tid, rw)
			}
		}

		st.TimeThread(tid, stats.SendWalks, func() { mgr.SendWalks(tid) })

		pixelsLeft := pixelsRemaining.sub(numRetired)
		if len(terminated) > 0 {
			done := samplesDone.add(len(terminated))
			st.Throughput.Store(float64(done) / time.Since(start).Seconds())
			if cfg.Progress != nil {
				cfg.Progress(done, totalSamples)
			}
		}
		if pixelsLeft <= 0 {
			break
		}
	}

	for _, rw := range readyToWrite {
		img.Set(rw.PixelID, rw.FinalColor(cfg.SPP))
	}
	return nil
}

// advance is the per-step kernel: it bounds the distance to the boundary
// (via the CPG when possible, falling back to a direct scene query), then
// either absorbs the walk at the boundary, kills it via Russian roulette,
// or takes another step.
func advance(s scene.Scene, cpg *grid.ClosestPointGrid, rw *walk.RandomWalk, minGridR, rrProb float32, rng *rand.Rand, st *stats.Stats, tid int, onGridTouch func(mgl32.Vec2)) {
	var boundary mgl32.Vec3
	var radius float32

	if cpg.PointInRange(rw.P) {
		var dist, gridDist float32
		st.TimeThread(tid, stats.ClosestPointGrid, func() {
			boundary, dist, gridDist, _ = cpg.Query(rw.P)
		})
		st.IncrementGridQuery(tid)
		if tid == 0 && onGridTouch != nil {
			onGridTouch(rw.P)
		}
		radius = dist - gridDist
		if radius < minGridR {
			radius = directQuery(s, rw.P, &boundary, st, tid)
		}
	} else {
		radius = directQuery(s, rw.P, &boundary, st, tid)
	}

	switch {
	case radius < BoundaryEpsilon:
		rw.Terminate(boundary)
	case rng.Float32() < (1 - rrProb):
		rw.Terminate(mgl32.Vec3{0, 0, 0})
	default:
		theta := rng.Float32()
		rw.TakeStep(vec.SampleCirclePoint(radius, theta), 1/rrProb)
	}
}

func directQuery(s scene.Scene, p mgl32.Vec2, boundary *mgl32.Vec3, st *stats.Stats, tid int) float32 {
	var q mgl32.Vec2
	st.TimeThread(tid, stats.ClosestPointQuery, func() {
		q, *boundary = s.ClosestPoint(p)
	})
	st.IncrementClosestPointQuery(tid)
	return vec.Dist(q, p)
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
