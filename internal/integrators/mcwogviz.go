package integrators

import (
	"context"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"pwos/internal/mcwog"
	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
)

// MCWoGViz wraps MCWoG and accumulates a heatmap of grid-cell touches from
// worker 0 only (the only worker internal/mcwog's OnGridTouch hook fires
// from), exposed as a companion image for cmd/pwos to save next to the
// primary render.
type MCWoGViz struct {
	Heatmap *rimage.Image
}

func (v *MCWoGViz) Name() string { return "mcwogviz" }

func (v *MCWoGViz) Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error) {
	window := s.Window()
	cellSize := cfg.CellSize
	if cellSize == 0 {
		cellSize = 1
	}
	cellLength := cellSize * minf(window.Dx()/float32(cfg.ResX), window.Dy()/float32(cfg.ResY))
	gw := int(window.Dx()/cellLength) + 2
	gh := int(window.Dy()/cellLength) + 2

	heat := rimage.New(gw, gh)
	var mu sync.Mutex
	touch := func(anchor mgl32.Vec2) {
		gx := int((anchor[0] - window.BL[0]) / cellLength)
		gy := int((anchor[1] - window.BL[1]) / cellLength)
		if gx < 0 || gx >= gw || gy < 0 || gy >= gh {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		c := heat.At(gx, gy)
		c[0]++
		c[1]++
		c[2]++
		heat.Set(gx+gy*gw, c)
	}

	img, err := mcwog.Render(ctx, s, mcwog.Config{
		ResX:        cfg.ResX,
		ResY:        cfg.ResY,
		SPP:         cfg.SPP,
		NThreads:    cfg.NThreads,
		CellSize:    cfg.CellSize,
		RRProb:      cfg.RRProb,
		Progress:    cfg.Progress,
		OnGridTouch: touch,
	}, st)
	if err != nil {
		return nil, err
	}
	v.Heatmap = heat
	return img, nil
}
