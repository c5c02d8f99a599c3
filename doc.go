// Package fractal renders the Mandelbrot set with a batched escape-time kernel.
//
// # Overview
//
// The plane is divided into coarse blocks. Every block carries 64 sample
// points laid out as an 8x8 sub-pixel pattern, and all 64 are iterated in
// lockstep as one wide batch. Each sample ends with the 0-based iteration at
// which |z|² first reached 32, or the sentinel 255 if it never did within
// the 256-iteration budget. A fixed cosine palette turns those indices into
// colors, one output pixel per sample.
//
// # Quick Start
//
//	import "github.com/gogpu/fractal"
//
//	region := fractal.DefaultRegion()
//	results, err := fractal.Render(region.XCol, region.YCol,
//		region.XLow, region.XStep, region.YLow, region.YStep)
//	if err != nil {
//		log.Fatal(err)
//	}
//	pm, err := fractal.Paint(context.Background(), results)
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = pm.SavePNG("mandelbrot.png")
//
// # Architecture
//
// The library is organized into:
//   - Grid: coordinate batches for every block (NewGrid)
//   - Kernel: the lockstep escape-time iteration (Escape, EscapePoint)
//   - Palette: escape index to RGB (PaletteParam, Palette)
//   - Render/Paint: the glue that runs the kernel over a grid and writes
//     the image buffer, sequentially or on a worker pool (Renderer)
//   - Internal: wide (64-lane types), parallel (block worker pool),
//     gpu (WGSL escape kernel), imageio (file encoders)
//
// # Coordinate System
//
// Block (i, j) sits at column i and row j of the plane grid and is stored at
// index i*YCol + j. Pixel (x, y) of the output reads block (x/8, y/8), lane
// (y%8)*8 + x%8. Y increases downward in the image and upward in the plane
// index, so imaginary values grow with the pixel row.
//
// # Numeric Semantics
//
// All kernel arithmetic is float32 and is rounded after every operation, so
// the wide kernel and the scalar EscapePoint agree bit for bit. A NaN
// coordinate never satisfies the escape test and reports the sentinel; an
// infinite one escapes at iteration 0.
package fractal

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
