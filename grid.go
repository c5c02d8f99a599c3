package fractal

import (
	"math"
	"math/bits"

	"github.com/gogpu/fractal/internal/wide"
)

// Sampling constants.
const (
	// SubSamples is the number of sub-samples along each axis of a block.
	SubSamples = wide.Side

	// Lanes is the number of sub-samples in a block (SubSamples²).
	Lanes = wide.Width
)

// Batch holds one value per sub-sample lane of a block.
// Lane k sits at sub-sample column k%SubSamples and row k/SubSamples.
type Batch [Lanes]float32

// Grid holds the plane coordinates of every sample, one Batch per block for
// the real parts and one for the imaginary parts.
//
// Block (i, j), with i in [0, XCol) and j in [0, YCol), is stored at index
// i*YCol + j. A Grid is immutable once built.
type Grid struct {
	XCol, YCol int
	Re, Im     []Batch
}

// subOffsets[m] is the fractional position m/SubSamples of sub-sample m
// within one step.
var subOffsets = func() [SubSamples]float32 {
	var o [SubSamples]float32
	for m := range o {
		o[m] = float32(m) / SubSamples
	}
	return o
}()

// NewGrid builds the coordinate grid for xCol by yCol blocks.
//
// Lane k of block (i, j) receives
//
//	re = xLow + xStep*i + (k%8)/8 * xStep
//	im = yLow + yStep*j + (k/8)/8 * yStep
//
// evaluated in float32 from left to right. NewGrid returns a *DimensionError
// if either count is not positive or if xCol*yCol overflows int; no partial
// grid is returned.
func NewGrid(xCol, yCol int, xLow, xStep, yLow, yStep float32) (*Grid, error) {
	length, err := blockCount(xCol, yCol)
	if err != nil {
		return nil, err
	}

	g := &Grid{
		XCol: xCol,
		YCol: yCol,
		Re:   make([]Batch, length),
		Im:   make([]Batch, length),
	}

	// Sub-sample offsets depend only on the step, so compute them once.
	var xSub, ySub [SubSamples]float32
	for m, o := range subOffsets {
		xSub[m] = float32(o * xStep)
		ySub[m] = float32(o * yStep)
	}

	for i := range xCol {
		x0 := float32(xLow + float32(xStep*float32(i)))
		for j := range yCol {
			y0 := float32(yLow + float32(yStep*float32(j)))
			idx := i*yCol + j
			re, im := &g.Re[idx], &g.Im[idx]
			for k := range Lanes {
				re[k] = float32(x0 + xSub[k%SubSamples])
				im[k] = float32(y0 + ySub[k/SubSamples])
			}
		}
	}

	Logger().Debug("fractal: grid built",
		"x_col", xCol, "y_col", yCol, "blocks", length, "samples", length*Lanes)

	return g, nil
}

// blockCount returns xCol*yCol, refusing non-positive counts and products
// that do not fit in an int.
func blockCount(xCol, yCol int) (int, error) {
	if xCol <= 0 || yCol <= 0 {
		return 0, &DimensionError{XCol: xCol, YCol: yCol, Err: ErrInvalidDimensions}
	}
	hi, lo := bits.Mul64(uint64(xCol), uint64(yCol))
	if hi != 0 || lo > math.MaxInt {
		return 0, &DimensionError{XCol: xCol, YCol: yCol, Err: ErrOverflow}
	}
	return int(lo), nil
}

// Len returns the number of blocks in the grid.
func (g *Grid) Len() int {
	return len(g.Re)
}

// Index returns the storage index of block (i, j).
func (g *Grid) Index(i, j int) int {
	return i*g.YCol + j
}

// Point returns the complex coordinate of lane k in block (i, j).
func (g *Grid) Point(i, j, k int) (re, im float32) {
	idx := g.Index(i, j)
	return g.Re[idx][k], g.Im[idx][k]
}

// Samples returns the coordinates as two flat slices, block after block,
// Lanes values per block.
func (g *Grid) Samples() (re, im []float32) {
	re = make([]float32, len(g.Re)*Lanes)
	im = make([]float32, len(g.Im)*Lanes)
	for idx := range g.Re {
		copy(re[idx*Lanes:], g.Re[idx][:])
		copy(im[idx*Lanes:], g.Im[idx][:])
	}
	return re, im
}
