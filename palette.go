package fractal

import (
	"math"
	"sync"
)

// RGB is an opaque 8-bit color produced by the palette.
type RGB struct {
	R, G, B uint8
}

// RGBA implements the color.Color interface.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Cosine palette coefficients: channel = b*cos(2π(c*t + d)) + a.
var (
	paletteA = [3]float64{0.5, 0.5, 0.5}
	paletteB = [3]float64{0.5, 0.5, 0.5}
	paletteC = [3]float64{1, 1, 1}
	paletteD = [3]float64{0, 0.10, 0.20}
)

// Palette maps t in [0, 1) to a color on a fixed cosine ramp.
//
// Each channel is 255*(0.5*cos(2π(t + d)) + 0.5) with d = 0, 0.1, 0.2 for
// red, green and blue. The result is clamped to [0, 255] and truncated
// toward zero, never rounded; NaN maps to 0.
//
// Only the fractional part of t is used, so Palette(t) == Palette(t+1).
func Palette(t float32) RGB {
	f := float64(t)
	f -= math.Floor(f)

	var ch [3]uint8
	for i := range ch {
		v := paletteB[i]*math.Cos(2*math.Pi*(paletteC[i]*f+paletteD[i])) + paletteA[i]
		ch[i] = truncByte(255 * v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}
}

// truncByte converts v to a byte, saturating at both ends and truncating
// the fraction.
func truncByte(v float64) uint8 {
	switch {
	case !(v > 0): // also catches NaN
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// PaletteParam converts an escape index r in [0, 255] to the palette
// parameter (2*r/256 + 0.5) mod 1.
//
// The half-turn offset and the doubled rate make the ramp cyclic, and the
// sentinel gets an ordinary palette color rather than a reserved one.
func PaletteParam(r float32) float32 {
	v := float32(float32(2*r)/256) + 0.5
	return float32(math.Mod(float64(v), 1))
}

// escapeColors caches Palette(PaletteParam(r)) for every integral escape
// index the kernel can produce.
var escapeColors = sync.OnceValue(func() [MaxIteration + 1]RGB {
	var lut [MaxIteration + 1]RGB
	for r := range lut {
		lut[r] = Palette(PaletteParam(float32(r)))
	}
	return lut
})

// EscapeColor returns the color for an escape index, as the paint pass
// computes it. Integral indices in [0, 255] come from a lookup table; any
// other value is computed directly.
func EscapeColor(r float32) RGB {
	if r >= 0 && r <= MaxIteration && r == float32(int(r)) {
		return escapeColors()[int(r)]
	}
	return Palette(PaletteParam(r))
}
