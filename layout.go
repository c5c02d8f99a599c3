package fractal

// Default plane window, as rendered by the command-line tool.
const (
	DefaultXCol   = 240
	DefaultYCol   = 135
	DefaultXLow   = -2.65
	DefaultYLow   = -1.25
	DefaultWidth  = 4.0
	DefaultHeight = 2.5
)

// Region describes the sampled part of the plane: the number of blocks on
// each axis, the plane origin and the per-block step.
type Region struct {
	XCol, YCol  int
	XLow, XStep float32
	YLow, YStep float32
}

// NewRegion returns the region covering x in [xMin, xMax) and y in
// [yMin, yMax) with xCol by yCol blocks.
func NewRegion(xCol, yCol int, xMin, xMax, yMin, yMax float32) Region {
	r := Region{XCol: xCol, YCol: yCol, XLow: xMin, YLow: yMin}
	if xCol > 0 {
		r.XStep = float32(xMax-xMin) / float32(xCol)
	}
	if yCol > 0 {
		r.YStep = float32(yMax-yMin) / float32(yCol)
	}
	return r
}

// DefaultRegion returns the 240x135 block view of x in [-2.65, 1.35) and
// y in [-1.25, 1.25).
func DefaultRegion() Region {
	xLow, yLow := float32(DefaultXLow), float32(DefaultYLow)
	return NewRegion(DefaultXCol, DefaultYCol,
		xLow, xLow+DefaultWidth, yLow, yLow+DefaultHeight)
}

// Width returns the image width in pixels.
func (r Region) Width() int { return r.XCol * SubSamples }

// Height returns the image height in pixels.
func (r Region) Height() int { return r.YCol * SubSamples }

// BlockLane maps an output pixel to the block and lane that hold its sample.
// yCol is the number of block rows in the grid.
//
// Pixel (px, py) lies in block (px/8, py/8), stored at index
// (px/8)*yCol + py/8, and in lane (py%8)*8 + px%8 of that block.
func BlockLane(px, py, yCol int) (block, lane int) {
	block = (px/SubSamples)*yCol + py/SubSamples
	lane = (py%SubSamples)*SubSamples + px%SubSamples
	return block, lane
}
