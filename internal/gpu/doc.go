// Package gpu holds the GPU form of the fractal escape-time kernel.
//
// The kernel is written in WGSL and evaluates one sample lane per
// invocation, 64 invocations per workgroup, so one workgroup covers exactly
// one fractal block. The package provides the WGSL source, its SPIR-V
// compilation through gogpu/naga, the bind group layout, the uniform buffer
// encoding and the dispatch size. Evaluator runs the kernel on a wgpu HAL
// device: it uploads coordinates, dispatches once and reads the escape
// indices back through a staging buffer.
//
// Build with -tags nogpu to drop naga and the Vulkan backend; the
// constructors and CompileEscapeShader then return ErrUnavailable.
package gpu
