package integrators

import (
	"context"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/grid"
	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
	"pwos/internal/vec"
)

// WoG is the single-threaded-per-pixel Walk-on-Grid reference integrator:
// like WoS, but bounds each step with a ClosestPointGrid before falling
// back to a direct query. Unlike MCWoG there is no worker mesh: each
// pixel's walks run start to finish on the goroutine that owns the pixel.
type WoG struct{}

func (WoG) Name() string { return "wog" }

func (WoG) Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error) {
	cpg, minGridR, err := buildWoGGrid(s, cfg)
	if err != nil {
		return nil, err
	}
	rrProb := cfg.RRProb
	if rrProb == 0 {
		rrProb = 0.99
	}
	window := s.Window()

	return parallelRender(ctx, cfg.ResX, cfg.ResY, cfg.NThreads, window, st, cfg.Progress, func(coord [2]float32, rng *rand.Rand) [3]float32 {
		var sum mgl32.Vec3
		for j := 0; j < cfg.SPP; j++ {
			sum = sum.Add(wogUHat(s, cpg, mgl32.Vec2{coord[0], coord[1]}, rng, minGridR, rrProb, nil))
		}
		result := sum.Mul(1 / float32(cfg.SPP))
		return [3]float32{result[0], result[1], result[2]}
	})
}

// buildWoGGrid builds the fine-resolution CPG the WoG family uses over
// the scene's full window: unless the caller sets CellSize, a 0.01x
// multiplier on top of the per-pixel cell length makes each cell a
// hundredth of a pixel across.
func buildWoGGrid(s scene.Scene, cfg Config) (*grid.ClosestPointGrid, float32, error) {
	return buildWoGGridOverWindow(s, cfg, s.Window())
}

func buildWoGGridOverWindow(s scene.Scene, cfg Config, window vec.Window) (*grid.ClosestPointGrid, float32, error) {
	cellSize := cfg.CellSize
	if cellSize == 0 {
		cellSize = 0.01
	}
	cellLength := cellSize * minf(window.Dx()/float32(cfg.ResX), window.Dy()/float32(cfg.ResY))
	minGridR := float32(math.Sqrt2) * cellLength

	nthreads := cfg.NThreads
	if nthreads < 1 {
		nthreads = 1
	}
	cpg, err := grid.Build(s, window, cellLength, nthreads)
	return cpg, minGridR, err
}

// wogUHat is WoG's single-sample estimator. onGridTouch, when non-nil, is
// called with the walk's current position each time it reads a CPG cell
// (the position lies inside that cell) — WoGViz's heatmap hook.
func wogUHat(s scene.Scene, cpg *grid.ClosestPointGrid, x0 mgl32.Vec2, rng *rand.Rand, minGridR, rrProb float32, onGridTouch func(mgl32.Vec2)) mgl32.Vec3 {
	p := x0
	for {
		var b mgl32.Vec3
		var R float32

		if cpg.PointInRange(p) {
			boundary, dist, gridDist, _ := cpg.Query(p)
			if onGridTouch != nil {
				onGridTouch(p)
			}
			b = boundary
			R = dist - gridDist
			if R < minGridR {
				q, boundary2 := s.ClosestPoint(p)
				b = boundary2
				R = vec.Dist(q, p)
				if R < boundaryEpsilon {
					return b
				}
			}
		} else {
			q, boundary := s.ClosestPoint(p)
			b = boundary
			R = vec.Dist(q, p)
			if R < boundaryEpsilon {
				return b
			}
		}

		if rng.Float32() < (1 - rrProb) {
			return mgl32.Vec3{0, 0, 0}
		}
		p = p.Add(vec.SampleCirclePoint(R, rng.Float32()))
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
