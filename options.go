package fractal

// RendererOption configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// One worker per CPU
//	r := fractal.NewRenderer()
//
//	// Fixed pool size and smaller work units
//	r := fractal.NewRenderer(fractal.WithWorkers(4), fractal.WithChunkSize(16))
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	workers int
	chunk   int
}

// defaultOptions returns the default renderer options.
func defaultOptions() rendererOptions {
	return rendererOptions{
		workers: 0, // GOMAXPROCS
		chunk:   0, // parallel.DefaultChunk
	}
}

// WithWorkers sets the number of goroutines the Renderer uses for the
// kernel pass and the paint pass. Zero or negative means GOMAXPROCS.
// WithWorkers(1) evaluates blocks one at a time in index order.
func WithWorkers(n int) RendererOption {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithChunkSize sets how many consecutive blocks one work item evaluates.
// Zero or negative selects the pool default.
func WithChunkSize(n int) RendererOption {
	return func(o *rendererOptions) {
		o.chunk = n
	}
}
