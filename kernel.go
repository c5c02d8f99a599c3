package fractal

import "github.com/gogpu/fractal/internal/wide"

// Kernel constants. They are fixed by design and not configurable.
const (
	// MaxIteration is the last iteration index the kernel evaluates.
	MaxIteration = 255

	// Sentinel marks a sample that did not escape within the budget.
	Sentinel float32 = MaxIteration

	// EscapeRadiusSquared is the |z|² threshold at which a sample escapes.
	EscapeRadiusSquared float32 = 32
)

// Escape runs the escape-time iteration on all 64 lanes of one block in
// lockstep and returns, per lane, the iteration index at which |z|² first
// reached EscapeRadiusSquared, or Sentinel.
//
// A lane is written at most once: the escape test is the conjunction of the
// threshold comparison and the lane still being active, and a lane is
// deactivated in the same iteration it is written. The loop ends as soon as
// every lane has escaped or iteration MaxIteration has been evaluated.
//
// Escape is pure: it keeps no state across calls and may run concurrently
// for different blocks.
func Escape(re, im *Batch) Batch {
	cr := wide.F32x64(*re)
	ci := wide.F32x64(*im)
	limit := wide.SplatF32x64(EscapeRadiusSquared)

	var zr, zi wide.F32x64
	active := wide.MaskAll
	result := wide.SplatF32x64(Sentinel)

	for it := 0; ; it++ {
		// z = z² + c, with 2·zr·zi formed as p+p like the scalar path.
		p := zr.Mul(zi)
		zr, zi = zr.Mul(zr).Sub(zi.Mul(zi)).Add(cr), p.Add(p).Add(ci)

		mag2 := zr.Mul(zr).Add(zi.Mul(zi))
		escaped := mag2.GreaterEqual(limit).And(active)
		active = active.AndNot(escaped)

		if escaped.Any() {
			result = wide.Select(escaped, wide.SplatF32x64(float32(it)), result)
		}
		if !active.Any() || it == MaxIteration {
			break
		}
	}

	return Batch(result)
}

// EscapePoint is the scalar form of Escape for a single coordinate.
// For every input it returns exactly what Escape returns for a lane holding
// the same coordinate.
func EscapePoint(cRe, cIm float32) float32 {
	var zr, zi float32
	for it := 0; it <= MaxIteration; it++ {
		p := float32(zr * zi)
		nr := float32(float32(float32(zr*zr)-float32(zi*zi)) + cRe)
		ni := float32(float32(p+p) + cIm)
		zr, zi = nr, ni

		if float32(float32(zr*zr)+float32(zi*zi)) >= EscapeRadiusSquared {
			return float32(it)
		}
	}
	return Sentinel
}
