package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
)

// EscapeShaderWGSL is the WGSL source of the escape-time compute kernel.
// One invocation evaluates one sample lane with the same arithmetic, order
// of operations and threshold as the CPU kernel.
//
//go:embed shaders/escape.wgsl
var EscapeShaderWGSL string

// WorkgroupSize is the kernel's @workgroup_size: one workgroup per block.
const WorkgroupSize = 64

// ConfigSize is the byte size of the Config uniform buffer, padded to a
// multiple of 16.
const ConfigSize = 32

// Bindings of the escape kernel in bind group 0.
const (
	BindingConfig = 0
	BindingRe     = 1
	BindingIm     = 2
	BindingResult = 3
)

// Config mirrors the kernel's uniform struct.
type Config struct {
	SampleCount         uint32
	MaxIteration        uint32
	EscapeRadiusSquared float32
	Sentinel            float32

	// RowStride is the number of samples covered by one row of workgroups
	// (Dispatch.X * WorkgroupSize).
	RowStride uint32
}

// ConfigBytes serializes cfg in the std140 layout the kernel expects:
// five little-endian 32-bit words followed by zero padding.
func ConfigBytes(cfg Config) []byte {
	buf := make([]byte, ConfigSize)
	binary.LittleEndian.PutUint32(buf[0:], cfg.SampleCount)
	binary.LittleEndian.PutUint32(buf[4:], cfg.MaxIteration)
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(cfg.EscapeRadiusSquared))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(cfg.Sentinel))
	binary.LittleEndian.PutUint32(buf[16:], cfg.RowStride)
	return buf
}

// BindGroupLayout returns the layout entries for bind group 0:
// the config uniform, the read-only coordinate arrays and the result array.
func BindGroupLayout() []gputypes.BindGroupLayoutEntry {
	entry := func(binding uint32, layout gputypes.BufferBindingLayout) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &layout,
		}
	}
	return []gputypes.BindGroupLayoutEntry{
		entry(BindingConfig, gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}),
		entry(BindingRe, gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}),
		entry(BindingIm, gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}),
		entry(BindingResult, gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}),
	}
}

// Dispatch is the workgroup grid of one escape pass. Workgroups are laid
// out row-major: invocation (x, y) evaluates sample y*RowStride + x.
type Dispatch struct {
	X, Y      uint32
	RowStride uint32
}

// PlanDispatch lays out the workgroups for samples lanes within limits.
// Grids of more than MaxComputeWorkgroupsPerDimension workgroups wrap into
// further rows. It returns ErrTooLarge when one coordinate or result buffer
// would exceed MaxStorageBufferBindingSize or the rows would exceed the
// per-dimension limit.
func PlanDispatch(samples int, limits gputypes.Limits) (Dispatch, error) {
	if samples <= 0 {
		return Dispatch{}, nil
	}
	if uint64(samples) > limits.MaxStorageBufferBindingSize/4 {
		return Dispatch{}, fmt.Errorf("%w: %d samples, device limit %d bytes per buffer",
			ErrTooLarge, samples, limits.MaxStorageBufferBindingSize)
	}

	perDim := limits.MaxComputeWorkgroupsPerDimension
	if perDim == 0 {
		return Dispatch{}, fmt.Errorf("%w: device allows no workgroups", ErrTooLarge)
	}
	groups := uint64(samples+WorkgroupSize-1) / WorkgroupSize
	x := min(groups, uint64(perDim))
	y := (groups + x - 1) / x
	if y > uint64(perDim) {
		return Dispatch{}, fmt.Errorf("%w: %d workgroups, device limit %d per dimension",
			ErrTooLarge, groups, perDim)
	}
	stride := x * WorkgroupSize
	if stride > math.MaxUint32 {
		return Dispatch{}, fmt.Errorf("%w: row stride %d", ErrTooLarge, stride)
	}

	return Dispatch{X: uint32(x), Y: uint32(y), RowStride: uint32(stride)}, nil //nolint:gosec // checked above
}

// BufferUsage returns the usage flags for a coordinate or result buffer.
// Result buffers are read back to the host, so they also need CopySrc.
func BufferUsage(result bool) gputypes.BufferUsage {
	usage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst
	if result {
		usage |= gputypes.BufferUsageCopySrc
	}
	return usage
}
