// Command pwos renders a 2D Laplace-equation scene with one of the
// renderer's Monte Carlo integrators and writes the result as a Radiance
// HDR image.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"pwos/internal/integrators"
	"pwos/internal/liveprogress"
	"pwos/internal/progress"
	"pwos/internal/rimage"
	"pwos/internal/runconfig"
	"pwos/internal/scene"
	"pwos/internal/stats"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Println("pwos:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pwos", flag.ContinueOnError)
	spp := fs.Int("spp", 16, "samples per pixel")
	nthreads := fs.Int("nthreads", 1, "worker count")
	resX := fs.Int("resx", 128, "output resolution, x")
	resY := fs.Int("resy", 128, "output resolution, y")
	integratorName := fs.String("integrator", "wos", "one of wos|dist|gridviz|wog|wogviz|mcwog|mcwogviz")
	cellSize := fs.Float64("cellsize", 1, "CPG cell length multiplier")
	configPath := fs.String("config", "", "optional YAML config file overriding rrProb/liveProgress/liveAddr (boundaryEpsilon/minGridRMultiplier are read but not used)")
	live := fs.Bool("live", false, "serve render progress over a websocket")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("configuration error: missing required scene file argument")
	}
	scenePath := fs.Arg(0)

	cfg := runconfig.Default()
	if *configPath != "" {
		loaded, err := runconfig.Load(*configPath)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		cfg = loaded
	}
	if *live {
		cfg.LiveProgress = true
	}

	ctor, ok := integrators.ByName[*integratorName]
	if !ok {
		return fmt.Errorf("configuration error: unknown integrator %q", *integratorName)
	}
	integrator := ctor()

	s, err := scene.LoadFile(scenePath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	runID := uuid.NewString()
	st := stats.New(*nthreads)
	bar := progress.New(os.Stdout, 70)

	var liveUpdates chan liveprogress.Update
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.LiveProgress {
		liveUpdates = make(chan liveprogress.Update, 16)
		liveSrv := liveprogress.NewServer(cfg.LiveAddr, liveUpdates)
		go func() {
			if err := liveSrv.Serve(ctx); err != nil {
				log.Println("liveprogress:", err)
			}
		}()
		fmt.Fprintf(os.Stdout, "live progress: http://%s\n", cfg.LiveAddr)
	}

	start := time.Now()
	bar.Start()
	renderCfg := integrators.Config{
		ResX:     *resX,
		ResY:     *resY,
		SPP:      *spp,
		NThreads: *nthreads,
		CellSize: float32(*cellSize),
		RRProb:   float32(cfg.RRProb),
		Progress: func(done, total int) {
			bar.Set(done, total)
			if liveUpdates != nil {
				select {
				case liveUpdates <- liveprogress.Update{
					RunID:        runID,
					SamplesDone:  done,
					TotalSamples: total,
					Throughput:   st.Throughput.Load(),
					Elapsed:      time.Since(start).String(),
				}:
				default:
				}
			}
		},
	}

	img, err := integrator.Render(ctx, s, renderCfg, st)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	bar.Finish()

	outPath := fmt.Sprintf("%s_scene=%s_spp=%d_nthreads=%d.hdr", integrator.Name(), s.Name(), *spp, *nthreads)
	if err := rimage.SaveHDR(img, outPath); err != nil {
		return fmt.Errorf("output failure: %w", err)
	}
	fmt.Fprintln(os.Stdout, "wrote", outPath)
	fmt.Fprintln(os.Stdout, "run id:", runID)

	if heat := heatmapOf(integrator); heat != nil {
		heatPath := fmt.Sprintf("%s_scene=%s_spp=%d_nthreads=%d-heatmap.hdr", integrator.Name(), s.Name(), *spp, *nthreads)
		if err := rimage.SaveHDR(heat, heatPath); err != nil {
			return fmt.Errorf("output failure: %w", err)
		}
		fmt.Fprintln(os.Stdout, "wrote", heatPath)
	}

	if pv, ok := integrator.(integrators.Previewer); ok {
		preview, err := pv.Preview(ctx, s, renderCfg)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		previewPath := fmt.Sprintf("%s_scene=%s_spp=%d_nthreads=%d-preview.png", integrator.Name(), s.Name(), *spp, *nthreads)
		if err := rimage.SavePreviewPNG(preview, previewPath, *resX, *resY); err != nil {
			return fmt.Errorf("output failure: %w", err)
		}
		fmt.Fprintln(os.Stdout, "wrote", previewPath)
	}

	st.Report(os.Stdout)
	return nil
}

// heatmapOf returns the companion heatmap image the *viz integrators
// accumulate during Render, or nil for every other integrator.
func heatmapOf(integrator integrators.Integrator) *rimage.Image {
	switch v := integrator.(type) {
	case *integrators.WoGViz:
		return v.Heatmap
	case *integrators.MCWoGViz:
		return v.Heatmap
	default:
		return nil
	}
}
