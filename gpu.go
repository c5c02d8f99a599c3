package fractal

import (
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fractal/internal/gpu"
)

// GPUEvaluator runs the escape kernel as a WGSL compute shader.
//
// The shader uses the same threshold, sentinel and order of operations as
// Escape. GPU drivers may contract a multiply and an add into one fused
// instruction, so samples that sit on an escape boundary can differ by one
// iteration from the CPU result.
type GPUEvaluator struct {
	ev *gpu.Evaluator
}

// NewGPUEvaluator opens a GPU device of its own.
// It fails when no adapter is available or the binary was built with the
// nogpu tag; callers should fall back to Renderer in that case.
func NewGPUEvaluator() (*GPUEvaluator, error) {
	ev, err := gpu.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("fractal: %w", err)
	}
	return &GPUEvaluator{ev: ev}, nil
}

// NewGPUEvaluatorFromProvider shares the device of a host application.
// The provider must expose its HAL device and queue.
func NewGPUEvaluatorFromProvider(provider gpucontext.DeviceProvider) (*GPUEvaluator, error) {
	ev, err := gpu.NewEvaluatorFromProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("fractal: %w", err)
	}
	return &GPUEvaluator{ev: ev}, nil
}

// Adapter returns the name of the GPU adapter in use.
func (e *GPUEvaluator) Adapter() string {
	return e.ev.Adapter()
}

// Close releases the GPU resources.
func (e *GPUEvaluator) Close() {
	e.ev.Close()
}

// Render builds the grid for region and evaluates it on the GPU.
func (e *GPUEvaluator) Render(region Region) (*ResultGrid, error) {
	g, err := NewGrid(region.XCol, region.YCol, region.XLow, region.XStep, region.YLow, region.YStep)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(g)
}

// Evaluate runs the kernel over every block of g in one dispatch.
func (e *GPUEvaluator) Evaluate(g *Grid) (*ResultGrid, error) {
	re, im := g.Samples()
	out, err := e.ev.Evaluate(re, im)
	if err != nil {
		return nil, fmt.Errorf("fractal: %w", err)
	}

	res := newResultGrid(g)
	for idx := range res.Blocks {
		copy(res.Blocks[idx][:], out[idx*Lanes:])
	}
	Logger().Debug("fractal: blocks evaluated on gpu", "blocks", g.Len(), "adapter", e.Adapter())
	return res, nil
}
