package integrators

import (
	"context"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
	"pwos/internal/vec"
)

// WoS is the single-threaded-per-pixel (parallel-across-pixels) reference
// Walk-on-Spheres integrator: direct scene queries only, no ClosestPointGrid.
type WoS struct{}

func (WoS) Name() string { return "wos" }

func (WoS) Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error) {
	rrProb := cfg.RRProb
	if rrProb == 0 {
		rrProb = 0.99
	}
	window := s.Window()

	return parallelRender(ctx, cfg.ResX, cfg.ResY, cfg.NThreads, window, st, cfg.Progress, func(coord [2]float32, rng *rand.Rand) [3]float32 {
		var sum mgl32.Vec3
		for j := 0; j < cfg.SPP; j++ {
			sum = sum.Add(uHat(s, mgl32.Vec2{coord[0], coord[1]}, rng, rrProb))
		}
		result := sum.Mul(1 / float32(cfg.SPP))
		return [3]float32{result[0], result[1], result[2]}
	})
}

// uHat is the single-sample WoS estimator: walk from x0 to the boundary
// by direct closest-point queries, returning the terminating boundary
// color or black if killed by Russian roulette.
func uHat(s scene.Scene, x0 mgl32.Vec2, rng *rand.Rand, rrProb float32) mgl32.Vec3 {
	p := x0
	var b mgl32.Vec3
	for {
		q, boundary := s.ClosestPoint(p)
		R := vec.Dist(q, p)
		if R < boundaryEpsilon {
			b = boundary
			return b
		}
		if rng.Float32() < (1 - rrProb) {
			return mgl32.Vec3{0, 0, 0}
		}
		p = p.Add(vec.SampleCirclePoint(R, rng.Float32()))
	}
}

const boundaryEpsilon = 1e-2
