package integrators

import (
	"context"

	"pwos/internal/mcwog"
	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
)

// MCWoG adapts internal/mcwog's parallel scheduler driver to the
// Integrator interface so cmd/pwos can dispatch on it the same way as the
// single-threaded reference integrators.
type MCWoG struct{}

func (MCWoG) Name() string { return "mcwog" }

func (MCWoG) Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error) {
	return mcwog.Render(ctx, s, mcwog.Config{
		ResX:     cfg.ResX,
		ResY:     cfg.ResY,
		SPP:      cfg.SPP,
		NThreads: cfg.NThreads,
		CellSize: cfg.CellSize,
		RRProb:   cfg.RRProb,
		Progress: cfg.Progress,
	}, st)
}
