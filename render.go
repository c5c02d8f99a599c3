package fractal

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/internal/wide"
)

// ResultGrid holds the escape index of every sample, one Batch per block,
// indexed like Grid.
type ResultGrid struct {
	XCol, YCol int
	Blocks     []Batch
}

// Width returns the image width in pixels.
func (r *ResultGrid) Width() int { return r.XCol * SubSamples }

// Height returns the image height in pixels.
func (r *ResultGrid) Height() int { return r.YCol * SubSamples }

// At returns the escape index of output pixel (px, py).
func (r *ResultGrid) At(px, py int) float32 {
	block, lane := BlockLane(px, py, r.YCol)
	return r.Blocks[block][lane]
}

// Histogram counts samples per escape index. Index MaxIteration counts the
// samples that never escaped together with those escaping at the last
// iteration.
func (r *ResultGrid) Histogram() [MaxIteration + 1]int {
	var h [MaxIteration + 1]int
	for i := range r.Blocks {
		for _, v := range r.Blocks[i] {
			if v >= 0 && v <= MaxIteration {
				h[int(v)]++
			}
		}
	}
	return h
}

func newResultGrid(g *Grid) *ResultGrid {
	return &ResultGrid{
		XCol:   g.XCol,
		YCol:   g.YCol,
		Blocks: make([]Batch, g.Len()),
	}
}

// escapeRange runs the kernel for blocks [lo, hi).
func escapeRange(g *Grid, res *ResultGrid, lo, hi int) {
	for idx := lo; idx < hi; idx++ {
		res.Blocks[idx] = Escape(&g.Re[idx], &g.Im[idx])
	}
}

// Evaluate runs the kernel over every block of the grid, sequentially in
// index order.
func (g *Grid) Evaluate() *ResultGrid {
	res := newResultGrid(g)
	escapeRange(g, res, 0, g.Len())
	return res
}

// Render builds the grid for xCol by yCol blocks and evaluates every block.
// It is the single-threaded reference pass. Construction errors abort the
// render before any kernel work starts.
func Render(xCol, yCol int, xLow, xStep, yLow, yStep float32) (*ResultGrid, error) {
	g, err := NewGrid(xCol, yCol, xLow, xStep, yLow, yStep)
	if err != nil {
		return nil, err
	}
	return g.Evaluate(), nil
}

// Renderer evaluates and paints regions on a pool of goroutines.
// Its results are identical to Render and Paint.
//
// Thread safety: a Renderer is safe for concurrent use. Close releases the
// pool; Render and Evaluate on a closed Renderer return ErrClosed. A call
// already running when Close starts completes normally.
type Renderer struct {
	pool  *parallel.WorkerPool
	chunk int
}

// NewRenderer creates a Renderer and starts its worker pool.
func NewRenderer(opts ...RendererOption) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		pool:  parallel.NewWorkerPool(o.workers),
		chunk: o.chunk,
	}
	Logger().Debug("fractal: renderer started", "workers", r.pool.Workers(), "chunk", r.chunk)
	return r
}

// Workers returns the number of goroutines the Renderer uses.
func (r *Renderer) Workers() int {
	return r.pool.Workers()
}

// Close stops the worker pool. Close is safe to call multiple times.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Render builds the grid for region and evaluates its blocks on the pool.
// If ctx is cancelled, chunks that have not started are skipped and
// ctx.Err() is returned.
func (r *Renderer) Render(ctx context.Context, region Region) (*ResultGrid, error) {
	g, err := NewGrid(region.XCol, region.YCol, region.XLow, region.XStep, region.YLow, region.YStep)
	if err != nil {
		return nil, err
	}
	return r.Evaluate(ctx, g)
}

// Evaluate runs the kernel over every block of g on the pool.
func (r *Renderer) Evaluate(ctx context.Context, g *Grid) (*ResultGrid, error) {
	if !r.pool.IsRunning() {
		return nil, ErrClosed
	}
	res := newResultGrid(g)
	err := r.pool.ForRange(g.Len(), r.chunk, func(lo, hi int) {
		if ctx.Err() != nil {
			return
		}
		escapeRange(g, res, lo, hi)
	})
	if errors.Is(err, parallel.ErrClosed) {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	Logger().Debug("fractal: blocks evaluated", "blocks", g.Len())
	return res, nil
}

// Paint colors res into a new Pixmap using the Renderer's worker count.
func (r *Renderer) Paint(ctx context.Context, res *ResultGrid) (*Pixmap, error) {
	return paint(ctx, res, r.pool.Workers())
}

// Paint colors every sample of res into a new Pixmap of res.Width() by
// res.Height() pixels. Pixel (x, y) gets EscapeColor(res.At(x, y)).
//
// Block rows are painted concurrently, one goroutine per row up to
// GOMAXPROCS; every pixel has exactly one writer. If ctx is cancelled,
// rows that have not started are skipped and ctx.Err() is returned.
func Paint(ctx context.Context, res *ResultGrid) (*Pixmap, error) {
	return paint(ctx, res, runtime.GOMAXPROCS(0))
}

func paint(ctx context.Context, res *ResultGrid, workers int) (*Pixmap, error) {
	pm := NewPixmap(res.Width(), res.Height())
	stride := pm.Stride()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for j := range res.YCol {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var batch wide.RGBBatch
			rowOffset := j * SubSamples * stride
			for i := range res.XCol {
				block := &res.Blocks[i*res.YCol+j]
				for k, v := range block {
					c := EscapeColor(v)
					batch.Set(k, c.R, c.G, c.B)
				}
				batch.StoreSquare(pm.data[rowOffset+i*SubSamples*4:], stride)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pm, nil
}
