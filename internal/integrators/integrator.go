// Package integrators collects the render strategies this renderer
// exposes through its --integrator flag.
package integrators

import (
	"context"

	"pwos/internal/rimage"
	"pwos/internal/scene"
	"pwos/internal/stats"
	"pwos/internal/vec"
)

// Config is the common set of parameters every integrator accepts.
type Config struct {
	ResX, ResY int
	SPP        int
	NThreads   int
	CellSize   float32
	RRProb     float32
	Progress   func(done, total int)
}

// Integrator renders a scene to an image. Implementations are expected to
// be used once per render; none are safe for concurrent Render calls on
// the same instance.
type Integrator interface {
	// Name is the short identifier used to build output filenames, e.g.
	// "wos" or "mcwog".
	Name() string
	Render(ctx context.Context, s scene.Scene, cfg Config, st *stats.Stats) (*rimage.Image, error)
}

// Previewer is implemented by integrators that can produce a cheap,
// reduced-resolution preview ahead of (or instead of) a full render.
type Previewer interface {
	Preview(ctx context.Context, s scene.Scene, cfg Config) (*rimage.Image, error)
}

// previewDivisor is how much a Preview shrinks the requested resolution
// along each axis before rendering.
const previewDivisor = 4

func previewConfig(cfg Config) Config {
	out := cfg
	out.ResX = maxInt(1, cfg.ResX/previewDivisor)
	out.ResY = maxInt(1, cfg.ResY/previewDivisor)
	return out
}

// boundedScene is implemented by scenes that can report a tight bound on
// their own geometry, letting a preview sample just that region instead
// of the full render window.
type boundedScene interface {
	GeometryBounds() vec.Window
}

func previewWindow(s scene.Scene) vec.Window {
	if b, ok := s.(boundedScene); ok {
		return b.GeometryBounds()
	}
	return s.Window()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ByName maps the CLI's --integrator values to constructors.
var ByName = map[string]func() Integrator{
	"wos":      func() Integrator { return WoS{} },
	"dist":     func() Integrator { return Distance{} },
	"gridviz":  func() Integrator { return GridViz{} },
	"wog":      func() Integrator { return WoG{} },
	"wogviz":   func() Integrator { return &WoGViz{} },
	"mcwog":    func() Integrator { return MCWoG{} },
	"mcwogviz": func() Integrator { return &MCWoGViz{} },
}
