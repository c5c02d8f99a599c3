//go:build nogpu

package gpu

import "github.com/gogpu/gpucontext"

// CompileEscapeShader reports ErrUnavailable in nogpu builds.
func CompileEscapeShader() ([]uint32, error) {
	return nil, ErrUnavailable
}

// Evaluator is unavailable in nogpu builds.
type Evaluator struct{}

// NewEvaluator reports ErrUnavailable in nogpu builds.
func NewEvaluator() (*Evaluator, error) {
	return nil, ErrUnavailable
}

// NewEvaluatorFromProvider reports ErrUnavailable in nogpu builds.
func NewEvaluatorFromProvider(gpucontext.DeviceProvider) (*Evaluator, error) {
	return nil, ErrUnavailable
}

// Adapter returns an empty name.
func (*Evaluator) Adapter() string { return "" }

// Evaluate reports ErrUnavailable.
func (*Evaluator) Evaluate(_, _ []float32) ([]float32, error) {
	return nil, ErrUnavailable
}

// Close does nothing.
func (*Evaluator) Close() {}
