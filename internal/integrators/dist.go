package integrators

import (
	"context"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
)

// Distance is a debug integrator that renders the scene's distance field
// directly (no sampling): pixel value is the distance to the nearest
// boundary, replicated across all three channels.
type Distance struct{}

func (Distance) Name() string { return "dist" }

func (Distance) Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error) {
	window := s.Window()
	return parallelRender(ctx, cfg.ResX, cfg.ResY, cfg.NThreads, window, st, cfg.Progress, func(coord [2]float32, _ *rand.Rand) [3]float32 {
		q, _ := s.ClosestPoint(mgl32.Vec2{coord[0], coord[1]})
		d := q.Sub(mgl32.Vec2{coord[0], coord[1]}).Len()
		return [3]float32{d, d, d}
	})
}

// Preview renders the same distance field at a fraction of the output
// resolution, cheap enough to regenerate on every invocation as a quick
// sanity check before committing to a full render.
func (d Distance) Preview(ctx context.Context, s scene.Scene, cfg Config) (*rimage.Image, error) {
	return distanceField(ctx, s, previewConfig(cfg))
}

func distanceField(ctx context.Context, s scene.Scene, cfg Config) (*rimage.Image, error) {
	window := previewWindow(s)
	scratch := stats.New(cfg.NThreads)
	return parallelRender(ctx, cfg.ResX, cfg.ResY, cfg.NThreads, window, scratch, nil, func(coord [2]float32, _ *rand.Rand) [3]float32 {
		q, _ := s.ClosestPoint(mgl32.Vec2{coord[0], coord[1]})
		dist := q.Sub(mgl32.Vec2{coord[0], coord[1]}).Len()
		return [3]float32{dist, dist, dist}
	})
}
