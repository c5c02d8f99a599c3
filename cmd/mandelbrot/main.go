// Command mandelbrot renders the Mandelbrot set to an image file.
//
// Every output pixel is one sample of an 8x8 sub-sampled block, so the
// image is 8*xcol pixels wide and 8*ycol pixels tall. Use -scale to
// resample the result to a smaller size.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/gpu"
	"github.com/gogpu/fractal/internal/imageio"
)

func main() {
	def := fractal.DefaultRegion()
	var (
		xCol    = flag.Int("xcol", fractal.DefaultXCol, "number of block columns")
		yCol    = flag.Int("ycol", fractal.DefaultYCol, "number of block rows")
		xMin    = flag.Float64("xmin", float64(def.XLow), "left edge of the plane window")
		xMax    = flag.Float64("xmax", float64(def.XLow+fractal.DefaultWidth), "right edge of the plane window")
		yMin    = flag.Float64("ymin", float64(def.YLow), "bottom edge of the plane window")
		yMax    = flag.Float64("ymax", float64(def.YLow+fractal.DefaultHeight), "top edge of the plane window")
		output  = flag.String("o", "mandelbrot.png", "output file (.png, .jpg, .bmp, .tif)")
		workers = flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		scale   = flag.Int("scale", 1, "downscale factor applied before saving")
		spirv   = flag.String("spirv", "", "also write the compiled GPU escape kernel to this file")
		useGPU  = flag.Bool("gpu", false, "evaluate on the GPU, falling back to the CPU")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	fractal.SetLogger(logger)

	cfg := config{
		region: fractal.NewRegion(*xCol, *yCol,
			float32(*xMin), float32(*xMax), float32(*yMin), float32(*yMax)),
		output:  *output,
		workers: *workers,
		scale:   *scale,
		spirv:   *spirv,
		gpu:     *useGPU,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		log.Fatalf("mandelbrot: %v", err)
	}
}

type config struct {
	region  fractal.Region
	output  string
	workers int
	scale   int
	spirv   string
	gpu     bool
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	var opts []fractal.RendererOption
	if cfg.workers > 0 {
		opts = append(opts, fractal.WithWorkers(cfg.workers))
	}
	r := fractal.NewRenderer(opts...)
	defer r.Close()

	start := time.Now()
	res, err := evaluate(ctx, cfg, r, logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	pm, err := r.Paint(ctx, res)
	if err != nil {
		return err
	}

	img, err := imageio.Downscale(pm, cfg.scale)
	if err != nil {
		return err
	}
	if err := imageio.Save(cfg.output, img, nil); err != nil {
		return err
	}

	if cfg.spirv != "" {
		if err := writeSPIRV(cfg.spirv); err != nil {
			return err
		}
	}

	hist := res.Histogram()
	sentinel := hist[fractal.MaxIteration]
	samples := res.XCol * res.YCol * fractal.Lanes

	p := message.NewPrinter(language.English)
	logger.Info(p.Sprintf("rendered %d samples in %v", samples, elapsed.Round(time.Millisecond)),
		"escaped", p.Sprintf("%d", samples-sentinel),
		"sentinel", p.Sprintf("%d", sentinel),
		"workers", r.Workers(),
		"output", cfg.output,
		"size", p.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	return nil
}

// evaluate runs the kernel on the GPU when requested and available, and on
// the CPU worker pool otherwise.
func evaluate(ctx context.Context, cfg config, r *fractal.Renderer, logger *slog.Logger) (*fractal.ResultGrid, error) {
	if cfg.gpu {
		e, err := fractal.NewGPUEvaluator()
		if err == nil {
			defer e.Close()
			logger.Debug("evaluating on GPU", "adapter", e.Adapter())
			res, err := e.Render(cfg.region)
			if err == nil {
				return res, nil
			}
			logger.Warn("GPU evaluation failed, using CPU", "err", err)
		} else {
			logger.Warn("GPU unavailable, using CPU", "err", err)
		}
	}
	return r.Render(ctx, cfg.region)
}

func writeSPIRV(path string) error {
	words, err := gpu.CompileEscapeShader()
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		buf = append(buf, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
