package gpu

import "errors"

// Evaluator errors.
var (
	// ErrUnavailable is returned when the package is built with the nogpu tag.
	ErrUnavailable = errors.New("gpu: built without GPU support (nogpu)")

	// ErrNilProvider is returned when a nil device provider is passed.
	ErrNilProvider = errors.New("gpu: nil device provider")

	// ErrNotHalProvider is returned when a provider does not expose HAL types.
	ErrNotHalProvider = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrSampleMismatch is returned when the coordinate slices differ in
	// length or are not a whole number of blocks.
	ErrSampleMismatch = errors.New("gpu: coordinate slices must have equal length, a multiple of 64")

	// ErrTooLarge is returned when a grid does not fit the device's buffer
	// or dispatch limits.
	ErrTooLarge = errors.New("gpu: grid exceeds device limits")

	// ErrClosed is returned by Evaluate after Close.
	ErrClosed = errors.New("gpu: evaluator closed")
)
