package fractal

import (
	"errors"
	"fmt"
)

// Grid construction errors.
var (
	// ErrOverflow is returned when x_col*y_col does not fit in an int.
	ErrOverflow = errors.New("fractal: block count overflows int")

	// ErrInvalidDimensions is returned when a block count is zero or negative.
	ErrInvalidDimensions = errors.New("fractal: block counts must be positive")
)

// ErrClosed is returned by Renderer methods called after Close.
var ErrClosed = errors.New("fractal: renderer closed")

// DimensionError reports grid dimensions that cannot be built.
// Err is ErrOverflow or ErrInvalidDimensions, so callers can use errors.Is.
type DimensionError struct {
	XCol, YCol int
	Err        error
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v (x_col=%d, y_col=%d)", e.Err, e.XCol, e.YCol)
}

func (e *DimensionError) Unwrap() error { return e.Err }
