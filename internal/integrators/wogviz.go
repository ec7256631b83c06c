package integrators

import (
	"context"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
)

// WoGViz wraps WoG and additionally accumulates a heatmap of how many
// times each CPG cell was read, exposed as a companion image so callers
// (cmd/pwos) can save it alongside the ordinary render.
type WoGViz struct {
	// Heatmap holds the accumulated touch counts once Render returns.
	Heatmap *rimage.Image
}

func (v *WoGViz) Name() string { return "wogviz" }

func (v *WoGViz) Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error) {
	cpg, minGridR, err := buildWoGGrid(s, cfg)
	if err != nil {
		return nil, err
	}
	rrProb := cfg.RRProb
	if rrProb == 0 {
		rrProb = 0.99
	}
	window := s.Window()

	w, h := cpg.Dims()
	heat := rimage.New(w, h)
	var mu sync.Mutex
	touch := func(p mgl32.Vec2) {
		gx, gy, ok := cpg.GridCoords(p)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		c := heat.At(gx, gy)
		c[0]++
		c[1]++
		c[2]++
		heat.Set(gx+gy*w, c)
	}

	img, err := parallelRender(ctx, cfg.ResX, cfg.ResY, cfg.NThreads, window, st, cfg.Progress, func(coord [2]float32, rng *rand.Rand) [3]float32 {
		var sum mgl32.Vec3
		for j := 0; j < cfg.SPP; j++ {
			sum = sum.Add(wogUHat(s, cpg, mgl32.Vec2{coord[0], coord[1]}, rng, minGridR, rrProb, touch))
		}
		result := sum.Mul(1 / float32(cfg.SPP))
		return [3]float32{result[0], result[1], result[2]}
	})
	if err != nil {
		return nil, err
	}
	v.Heatmap = heat
	return img, nil
}
