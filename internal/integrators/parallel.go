package integrators

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"pwos/internal/rimage"
	"pwos/internal/stats"
	"pwos/internal/vec"
)

// pixelFunc computes a pixel's final color from its world-space sample
// coordinate and a thread-local RNG.
type pixelFunc func(coord [2]float32, rng *rand.Rand) [3]float32

// parallelRender divides an image's pixels across nthreads workers, each
// with its own RNG, and writes every pixel exactly once: each pixel
// index is owned by exactly one worker, so no locking is needed on the
// image buffer itself.
func parallelRender(ctx context.Context, resX, resY, nthreads int, window vec.Window, st *stats.Stats, progress func(done, total int), f pixelFunc) (*rimage.Image, error) {
	img := rimage.New(resX, resY)
	numPixels := resX * resY
	if nthreads < 1 {
		nthreads = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for tid := 0; tid < nthreads; tid++ {
		tid := tid
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(int64(tid) + 1))
			return st.TimeThreadErr(tid, stats.Total, func() error {
				for i := tid; i < numPixels; i += nthreads {
					if err := egCtx.Err(); err != nil {
						return err
					}
					x, y := img.PixelCoordinates(i)
					coord := vec.PixelToWorld(x, y, resX, resY, window)
					img.Set(i, f([2]float32{coord[0], coord[1]}, rng))
					if progress != nil {
						progress(i+1, numPixels)
					}
				}
				return nil
			})
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}
