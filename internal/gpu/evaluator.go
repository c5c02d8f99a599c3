//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds the wait for one escape dispatch.
const fenceTimeout = 10 * time.Second

// Evaluator runs the escape kernel as a compute pass on a HAL device.
//
// It owns one compute pipeline built from EscapeShaderWGSL. Each Evaluate
// call uploads the coordinates, dispatches one workgroup per block, and
// reads the escape indices back. Evaluator is safe for concurrent use;
// dispatches are serialized.
type Evaluator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	// limits are the limits the device was opened with. Shared devices
	// are assumed to meet the WebGPU defaults.
	limits gputypes.Limits

	adapterName    string
	externalDevice bool // shared device, not destroyed on Close
}

// NewEvaluator opens the first suitable Vulkan adapter and builds the
// escape pipeline on it. Prefer discrete or integrated GPUs; any adapter
// is used as a last resort.
func NewEvaluator() (*Evaluator, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	e := &Evaluator{
		instance:    instance,
		device:      openDev.Device,
		queue:       openDev.Queue,
		limits:      limits,
		adapterName: selected.Info.Name,
	}
	if err := e.createPipeline(); err != nil {
		e.device.Destroy()
		instance.Destroy()
		return nil, err
	}

	slogger().Info("gpu: escape evaluator initialized", "adapter", e.adapterName)
	return e, nil
}

// NewEvaluatorFromProvider builds the escape pipeline on a device shared by
// the host application. The provider must also implement HalDevice() any
// and HalQueue() any returning hal.Device and hal.Queue. The shared device
// is not destroyed by Close.
func NewEvaluatorFromProvider(provider gpucontext.DeviceProvider) (*Evaluator, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHalProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHalProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHalProvider)
	}

	e := &Evaluator{
		device:         device,
		queue:          queue,
		limits:         gputypes.DefaultLimits(),
		adapterName:    "shared",
		externalDevice: true,
	}
	if err := e.createPipeline(); err != nil {
		return nil, err
	}

	slogger().Info("gpu: escape evaluator using shared device")
	return e, nil
}

// Adapter returns the name of the adapter the Evaluator runs on.
func (e *Evaluator) Adapter() string {
	return e.adapterName
}

func (e *Evaluator) createPipeline() error {
	shader, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "escape",
		Source: hal.ShaderSource{WGSL: EscapeShaderWGSL},
	})
	if err != nil {
		return fmt.Errorf("gpu: create escape shader module: %w", err)
	}
	e.shader = shader

	bindLayout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "escape_bgl",
		Entries: BindGroupLayout(),
	})
	if err != nil {
		e.destroyPipeline()
		return fmt.Errorf("gpu: create escape bind group layout: %w", err)
	}
	e.bindLayout = bindLayout

	pipeLayout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "escape_pl",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		e.destroyPipeline()
		return fmt.Errorf("gpu: create escape pipeline layout: %w", err)
	}
	e.pipeLayout = pipeLayout

	pipeline, err := e.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "escape",
		Layout:  pipeLayout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: "main"},
	})
	if err != nil {
		e.destroyPipeline()
		return fmt.Errorf("gpu: create escape compute pipeline: %w", err)
	}
	e.pipeline = pipeline

	slogger().Debug("gpu: escape pipeline created",
		"bindings", len(BindGroupLayout()),
		"shader_bytes", len(EscapeShaderWGSL))
	return nil
}

func (e *Evaluator) destroyPipeline() {
	if e.pipeline != nil {
		e.device.DestroyComputePipeline(e.pipeline)
		e.pipeline = nil
	}
	if e.pipeLayout != nil {
		e.device.DestroyPipelineLayout(e.pipeLayout)
		e.pipeLayout = nil
	}
	if e.bindLayout != nil {
		e.device.DestroyBindGroupLayout(e.bindLayout)
		e.bindLayout = nil
	}
	if e.shader != nil {
		e.device.DestroyShaderModule(e.shader)
		e.shader = nil
	}
}

// Close releases the pipeline and, unless the device is shared, the device
// and instance. Close is safe to call multiple times.
func (e *Evaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.device == nil {
		return
	}
	e.destroyPipeline()
	if !e.externalDevice {
		e.device.Destroy()
		if e.instance != nil {
			e.instance.Destroy()
		}
	}
	e.device = nil
	e.queue = nil
	e.instance = nil
}

// escapeBuffers holds the per-dispatch GPU buffers.
type escapeBuffers struct {
	config, re, im, result, staging hal.Buffer
}

func (e *Evaluator) destroyBuffers(b *escapeBuffers) {
	for _, buf := range []hal.Buffer{b.config, b.re, b.im, b.result, b.staging} {
		if buf != nil {
			e.device.DestroyBuffer(buf)
		}
	}
}

// Evaluate runs the escape kernel on the GPU for the given sample
// coordinates, laid out block after block with 64 lanes per block, and
// returns one escape index per sample.
func (e *Evaluator) Evaluate(re, im []float32) ([]float32, error) {
	if len(re) != len(im) || len(re)%WorkgroupSize != 0 {
		return nil, fmt.Errorf("%w: len(re)=%d, len(im)=%d", ErrSampleMismatch, len(re), len(im))
	}
	if len(re) == 0 {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.device == nil {
		return nil, ErrClosed
	}

	samples := len(re)
	plan, err := PlanDispatch(samples, e.limits)
	if err != nil {
		return nil, err
	}
	size := uint64(samples) * 4

	bufs, err := e.createBuffers(size)
	if err != nil {
		return nil, err
	}
	defer e.destroyBuffers(bufs)

	e.queue.WriteBuffer(bufs.config, 0, ConfigBytes(Config{
		SampleCount:         uint32(samples), //nolint:gosec // checked above
		MaxIteration:        255,
		EscapeRadiusSquared: 32,
		Sentinel:            255,
		RowStride:           plan.RowStride,
	}))
	e.queue.WriteBuffer(bufs.re, 0, floatBytes(re))
	e.queue.WriteBuffer(bufs.im, 0, floatBytes(im))

	bg, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "escape_bind",
		Layout: e.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: BindingConfig, Resource: gputypes.BufferBinding{Buffer: bufs.config.NativeHandle(), Offset: 0, Size: ConfigSize}},
			{Binding: BindingRe, Resource: gputypes.BufferBinding{Buffer: bufs.re.NativeHandle(), Offset: 0, Size: size}},
			{Binding: BindingIm, Resource: gputypes.BufferBinding{Buffer: bufs.im.NativeHandle(), Offset: 0, Size: size}},
			{Binding: BindingResult, Resource: gputypes.BufferBinding{Buffer: bufs.result.NativeHandle(), Offset: 0, Size: size}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create escape bind group: %w", err)
	}
	defer e.device.DestroyBindGroup(bg)

	if err := e.dispatch(bg, bufs, plan, size); err != nil {
		return nil, err
	}

	readback := make([]byte, size)
	if err := e.queue.ReadBuffer(bufs.staging, 0, readback); err != nil {
		return nil, fmt.Errorf("gpu: readback: %w", err)
	}

	out := make([]float32, samples)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(readback[i*4:]))
	}

	slogger().Debug("gpu: escape dispatch complete",
		"samples", samples, "workgroups_x", plan.X, "workgroups_y", plan.Y)
	return out, nil
}

func (e *Evaluator) createBuffers(size uint64) (*escapeBuffers, error) {
	bufs := &escapeBuffers{}
	specs := []struct {
		target *hal.Buffer
		label  string
		size   uint64
		usage  gputypes.BufferUsage
	}{
		{&bufs.config, "escape_config", ConfigSize, gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst},
		{&bufs.re, "escape_re", size, BufferUsage(false)},
		{&bufs.im, "escape_im", size, BufferUsage(false)},
		{&bufs.result, "escape_result", size, BufferUsage(true)},
		{&bufs.staging, "escape_staging", size, gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst},
	}

	for _, s := range specs {
		buf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
			Label: s.label,
			Size:  s.size,
			Usage: s.usage,
		})
		if err != nil {
			e.destroyBuffers(bufs)
			return nil, fmt.Errorf("gpu: create %s buffer: %w", s.label, err)
		}
		*s.target = buf
	}
	return bufs, nil
}

// dispatch records the compute pass and the result copy, submits them and
// waits for the fence.
func (e *Evaluator) dispatch(bg hal.BindGroup, bufs *escapeBuffers, plan Dispatch, size uint64) error {
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "escape_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("escape"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "escape_pass"})
	pass.SetPipeline(e.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(plan.X, plan.Y, 1)
	pass.End()

	encoder.CopyBufferToBuffer(bufs.result, bufs.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer e.device.DestroyFence(fence)

	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	ok, err := e.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("gpu: GPU timeout after %v", fenceTimeout)
	}
	return nil
}

// floatBytes encodes v as little-endian float32 words.
func floatBytes(v []float32) []byte {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}
