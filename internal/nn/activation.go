package nn

import (
	"fmt"

	"github.com/born-ml/numsuite/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation to a float tensor.
func (r *ReLU) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	x, ok := input.(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("ReLU.Forward: %w: got %s, want float32", ErrUnsupportedInput, input.DType())
	}
	return tensor.ReLU(x), nil
}

// QuantizedReLU applies ReLU directly to the integer representation.
//
// Values below the zero point are clamped to it; scale and zero point
// are preserved.
type QuantizedReLU struct{}

// NewQuantizedReLU creates a new QuantizedReLU module.
func NewQuantizedReLU() *QuantizedReLU {
	return &QuantizedReLU{}
}

// Forward applies ReLU in the quantized domain.
func (r *QuantizedReLU) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	x, ok := input.(*tensor.Quantized)
	if !ok {
		return nil, fmt.Errorf("QuantizedReLU.Forward: %w: got %s, want a quantized tensor", ErrUnsupportedInput, input.DType())
	}
	src := x.IntRepr()
	out := make([]int32, len(src))
	zp := x.ZeroPoint()
	for i, v := range src {
		out[i] = max(v, zp)
	}
	return tensor.NewQuantized(out, x.Shape(), x.DType(), x.Scale(), zp)
}
