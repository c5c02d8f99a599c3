package wide

// Width is the number of lanes in the wide types.
const Width = 64

// F32x64 represents 64 float32 values for SIMD-style operations.
// Designed for Go compiler auto-vectorization with fixed-size arrays.
//
// Each operation converts its result back to float32 explicitly. Go may
// fuse a multiply and an add into one instruction; the explicit conversion
// forbids that, so lane i of a chain of F32x64 operations always equals the
// same chain written in scalar code.
type F32x64 [Width]float32

// SplatF32x64 creates F32x64 with all elements set to n.
func SplatF32x64(n float32) F32x64 {
	var result F32x64
	for i := range result {
		result[i] = n
	}
	return result
}

// Add performs element-wise addition.
func (v F32x64) Add(other F32x64) F32x64 {
	var result F32x64
	for i := range v {
		result[i] = float32(v[i] + other[i])
	}
	return result
}

// Sub performs element-wise subtraction.
func (v F32x64) Sub(other F32x64) F32x64 {
	var result F32x64
	for i := range v {
		result[i] = float32(v[i] - other[i])
	}
	return result
}

// Mul performs element-wise multiplication.
func (v F32x64) Mul(other F32x64) F32x64 {
	var result F32x64
	for i := range v {
		result[i] = float32(v[i] * other[i])
	}
	return result
}

// GreaterEqual compares element-wise and returns a mask with bit i set
// when v[i] >= other[i]. NaN compares false, as in IEEE 754.
func (v F32x64) GreaterEqual(other F32x64) Mask64 {
	var m Mask64
	for i := range v {
		if v[i] >= other[i] {
			m |= 1 << uint(i)
		}
	}
	return m
}

// Select returns a F32x64 holding a[i] where bit i of m is set and b[i]
// everywhere else.
func Select(m Mask64, a, b F32x64) F32x64 {
	result := b
	for i := range result {
		if m&(1<<uint(i)) != 0 {
			result[i] = a[i]
		}
	}
	return result
}
