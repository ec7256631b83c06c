// Package grid implements the ClosestPointGrid (CPG): a block-tiled cache
// of conservative closest-boundary-distance estimates over a rectangular
// window, built once in parallel and queried read-only for the remainder
// of a render.
package grid

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"pwos/internal/scene"
	"pwos/internal/vec"
)

// ErrOutOfRange is a precondition violation: Query was called on a point
// outside the grid's window without the caller checking PointInRange
// first.
var ErrOutOfRange = errors.New("grid: point outside grid range")

// Cell holds the cached distance and boundary color anchored at a cell's
// bottom-left corner. Boundary is stored inline rather than behind a
// pointer: deduplicating storage across cells with identical boundary
// colors isn't worth the indirection at these grid sizes.
type Cell struct {
	Dist     float32
	Boundary mgl32.Vec3
}

// ClosestPointGrid is immutable after Build returns: every cell is written
// exactly once during construction and never mutated thereafter, so reads
// require no synchronization.
type ClosestPointGrid struct {
	window vec.Window
	cell   float32

	gridWidth, gridHeight int

	nBlockCols, nBlockRows int
	blockWidth, blockHeight int
	blockSize               int

	cells []Cell
}

// Build constructs a ClosestPointGrid over window, with square cells of
// side cellLength, filled by up to nthreads worker goroutines. The block
// layout comes from computeBlockLayout. Only min(nthreads, nBlocks)
// goroutines are started; each pulls block ids 0..nBlocks-1 from a shared
// channel until none are left.
//
// This is a one-time, parallel, write-once pass: no two block-build tasks
// ever write the same cell, so no locking is needed between them.
func Build(s scene.Scene, window vec.Window, cellLength float32, nthreads int) (*ClosestPointGrid, error) {
	g := &ClosestPointGrid{window: window, cell: cellLength}

	width := window.Dx()
	height := window.Dy()
	g.gridWidth = int(math.Ceil(float64(width)/float64(cellLength))) + 1
	g.gridHeight = int(math.Ceil(float64(height)/float64(cellLength))) + 1

	nBlocks, nBlockCols, nBlockRows := computeBlockLayout(nthreads)
	g.nBlockCols, g.nBlockRows = nBlockCols, nBlockRows
	g.blockWidth = ceilDiv(g.gridWidth, nBlockCols)
	g.blockHeight = ceilDiv(g.gridHeight, nBlockRows)
	g.blockSize = g.blockWidth * g.blockHeight

	g.cells = make([]Cell, nBlocks*g.blockSize)

	workers := nthreads
	if nBlocks < workers {
		workers = nBlocks
	}
	if workers < 1 {
		workers = 1
	}

	var eg errgroup.Group
	blockCh := make(chan int, nBlocks)
	for bid := 0; bid < nBlocks; bid++ {
		blockCh <- bid
	}
	close(blockCh)

	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			for bid := range blockCh {
				g.buildBlock(s, bid)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return g, nil
}

// computeBlockLayout picks the block grid for nthreads workers: with
// n = floor(log2(nthreads)), nBlockCols = n+1 when n is zero or odd, else
// n, and nBlockRows = 2^n / nBlockCols (integer division). The block count
// equals 2^n when nBlockCols divides 2^n (n = 0..4, 7, 8); for other n it
// is smaller, e.g. 6x5 = 30 blocks for n = 5.
func computeBlockLayout(nthreads int) (nBlocks, nBlockCols, nBlockRows int) {
	if nthreads < 1 {
		nthreads = 1
	}
	n := int(math.Floor(math.Log2(float64(nthreads))))
	usable := int(math.Pow(2, float64(n)))

	if n == 0 || n%2 != 0 {
		nBlockCols = n + 1
	} else {
		nBlockCols = n
	}
	if nBlockCols < 1 {
		nBlockCols = 1
	}
	nBlockRows = usable / nBlockCols
	if nBlockRows < 1 {
		nBlockRows = 1
	}
	return nBlockCols * nBlockRows, nBlockCols, nBlockRows
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func (g *ClosestPointGrid) buildBlock(s scene.Scene, bid int) {
	bidy := bid / g.nBlockCols
	bidx := bid % g.nBlockCols
	maxIdx := minInt(g.blockWidth, g.gridWidth-g.blockWidth*bidx)
	maxIdy := minInt(g.blockHeight, g.gridHeight-g.blockHeight*bidy)

	blockOffset := bid * g.blockSize
	blockX := bidx * g.blockWidth
	blockY := bidy * g.blockHeight

	for idx := 0; idx < maxIdx; idx++ {
		for idy := 0; idy < maxIdy; idy++ {
			id := (idx + idy*g.blockWidth) + blockOffset
			gp := g.anchor(blockX+idx, blockY+idy)
			q, boundary := s.ClosestPoint(gp)
			g.cells[id] = Cell{Dist: vec.Dist(q, gp), Boundary: boundary}
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// anchor returns the world-space coordinate of grid cell (gx, gy)'s
// bottom-left corner.
func (g *ClosestPointGrid) anchor(gx, gy int) mgl32.Vec2 {
	return mgl32.Vec2{
		g.window.BL[0] + g.cell*float32(gx),
		g.window.BL[1] + g.cell*float32(gy),
	}
}

// PointInRange reports whether p lies within the grid's window, using the
// half-open convention [bl, tr).
func (g *ClosestPointGrid) PointInRange(p mgl32.Vec2) bool {
	return g.window.InRange(p)
}

func (g *ClosestPointGrid) gridCoords(p mgl32.Vec2) (gx, gy int) {
	gx = int(math.Floor(float64((p[0] - g.window.BL[0]) / g.cell)))
	gy = int(math.Floor(float64((p[1] - g.window.BL[1]) / g.cell)))
	return
}

func (g *ClosestPointGrid) blockID(gx, gy int) (bx, by, bid int) {
	bx = gx / g.blockWidth
	by = gy / g.blockHeight
	bid = bx + by*g.nBlockCols
	return
}

func (g *ClosestPointGrid) cellIndex(gx, gy int) int {
	bx, by, bid := g.blockID(gx, gy)
	localX := gx - bx*g.blockWidth
	localY := gy - by*g.blockHeight
	return (localX + localY*g.blockWidth) + bid*g.blockSize
}

// GetBlockID returns the id of the block that owns the cell containing p.
// Precondition: PointInRange(p). Callers that might pass an out-of-range
// point (e.g. RandomWalkManager routing) must check first and apply their
// own fallback.
func (g *ClosestPointGrid) GetBlockID(p mgl32.Vec2) int {
	gx, gy := g.gridCoords(p)
	_, _, bid := g.blockID(gx, gy)
	return bid
}

// Query returns the cached boundary color and distance for the cell
// containing p, plus the distance from p to that cell's anchor
// (gridDist). Returns ErrOutOfRange if p lies outside the grid's window.
func (g *ClosestPointGrid) Query(p mgl32.Vec2) (boundary mgl32.Vec3, dist float32, gridDist float32, err error) {
	if !g.PointInRange(p) {
		return mgl32.Vec3{}, 0, 0, ErrOutOfRange
	}
	gx, gy := g.gridCoords(p)
	cell := g.cells[g.cellIndex(gx, gy)]
	gridDist = vec.Dist(p, g.anchor(gx, gy))
	return cell.Boundary, cell.Dist, gridDist, nil
}

// GridCoords returns the cell coordinates containing p, and false if p lies
// outside the grid's window. Exposed for callers that need to address a
// cell directly, such as WoGViz's heatmap accumulator.
func (g *ClosestPointGrid) GridCoords(p mgl32.Vec2) (gx, gy int, ok bool) {
	if !g.PointInRange(p) {
		return 0, 0, false
	}
	gx, gy = g.gridCoords(p)
	return gx, gy, true
}

// NumBlocks returns the number of blocks the grid was partitioned into.
func (g *ClosestPointGrid) NumBlocks() int { return g.nBlockCols * g.nBlockRows }

// CellLength returns the grid's square cell side length.
func (g *ClosestPointGrid) CellLength() float32 { return g.cell }

// Dims returns the grid's cell-space width and height.
func (g *ClosestPointGrid) Dims() (width, height int) { return g.gridWidth, g.gridHeight }
