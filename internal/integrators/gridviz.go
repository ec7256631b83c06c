package integrators

import (
	"context"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/grid"
	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
)

// GridViz renders the ClosestPointGrid's cached distance field instead of
// the scene's true distance field: every pixel reads the CPG directly (no
// walk, no sampling), so the image exposes block boundaries and cell
// quantization as a debugging aid. Out-of-range pixels (shouldn't occur,
// since the grid spans the render window) fall back to a direct query.
type GridViz struct{}

func (GridViz) Name() string { return "gridviz" }

func (GridViz) Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error) {
	cpg, _, err := buildWoGGrid(s, cfg)
	if err != nil {
		return nil, err
	}
	window := s.Window()

	return parallelRender(ctx, cfg.ResX, cfg.ResY, cfg.NThreads, window, st, cfg.Progress, func(coord [2]float32, _ *rand.Rand) [3]float32 {
		return gridDistColor(s, cpg, coord)
	})
}

// Preview renders the CPG's distance field at a fraction of the output
// resolution against a freshly built, proportionally coarser grid — cheap
// enough to regenerate on every invocation.
func (GridViz) Preview(ctx context.Context, s scene.Scene, cfg Config) (*rimage.Image, error) {
	previewCfg := previewConfig(cfg)
	window := previewWindow(s)
	cpg, _, err := buildWoGGridOverWindow(s, previewCfg, window)
	if err != nil {
		return nil, err
	}
	scratch := stats.New(previewCfg.NThreads)
	return parallelRender(ctx, previewCfg.ResX, previewCfg.ResY, previewCfg.NThreads, window, scratch, nil, func(coord [2]float32, _ *rand.Rand) [3]float32 {
		return gridDistColor(s, cpg, coord)
	})
}

func gridDistColor(s scene.Scene, cpg *grid.ClosestPointGrid, coord [2]float32) [3]float32 {
	p := mgl32.Vec2{coord[0], coord[1]}
	var d float32
	if cpg.PointInRange(p) {
		_, dist, gridDist, _ := cpg.Query(p)
		d = dist - gridDist
		if d < 0 {
			d = 0
		}
	} else {
		q, _ := s.ClosestPoint(p)
		d = q.Sub(p).Len()
	}
	return [3]float32{d, d, d}
}
