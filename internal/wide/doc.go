// Package wide provides SIMD-friendly wide types for lockstep lane processing.
//
// This package implements wide types (F32x64, Mask64) that are designed to enable
// Go compiler auto-vectorization. By using fixed-size arrays and simple loops,
// these types allow the compiler to generate SIMD instructions on supported
// architectures (SSE, AVX, NEON).
//
// # Wide Types
//
// F32x64: 64 float32 values, one per sub-sample lane of a fractal block.
// Mask64: one bit per lane, used to track which lanes are still iterating.
//
// # RGBBatch
//
// RGBBatch provides Structure-of-Arrays (SoA) layout for the 64 colored
// pixels of one block, and scatters them into an 8x8 square of an RGBA
// buffer.
//
// # Design Philosophy
//
//   - Use simple loops over fixed-size arrays for auto-vectorization
//   - Avoid unsafe and assembly - rely on compiler optimization
//   - Keep functions small and inlineable
//   - Every arithmetic result is rounded to float32 explicitly so that a
//     lane computes bit-for-bit what the equivalent scalar code computes
//
// # Usage Example
//
//	zr := wide.SplatF32x64(0)
//	zi := wide.SplatF32x64(0)
//	nr := zr.Mul(zr).Sub(zi.Mul(zi)).Add(cr)
//	escaped := nr.Mul(nr).GreaterEqual(wide.SplatF32x64(32))
package wide
