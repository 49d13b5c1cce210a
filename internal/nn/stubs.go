package nn

import (
	"fmt"

	"github.com/born-ml/numsuite/internal/tensor"
)

// QuantStub marks where a float model's input enters the quantized region.
// In a float model it is the identity.
type QuantStub struct{}

// NewQuantStub creates a QuantStub.
func NewQuantStub() *QuantStub { return &QuantStub{} }

// Forward returns input unchanged.
func (s *QuantStub) Forward(input tensor.Tensor) (tensor.Tensor, error) { return input, nil }

// DeQuantStub marks where a float model leaves the quantized region.
// In a float model it is the identity.
type DeQuantStub struct{}

// NewDeQuantStub creates a DeQuantStub.
func NewDeQuantStub() *DeQuantStub { return &DeQuantStub{} }

// Forward returns input unchanged.
func (s *DeQuantStub) Forward(input tensor.Tensor) (tensor.Tensor, error) { return input, nil }

// Quantize converts float input to a quint8 tensor with fixed qparams.
// It replaces QuantStub in a quantized model.
type Quantize struct {
	scale     float32
	zeroPoint int32
}

// NewQuantize creates a Quantize module.
func NewQuantize(scale float32, zeroPoint int32) *Quantize {
	return &Quantize{scale: scale, zeroPoint: zeroPoint}
}

// Forward quantizes a float input. Already-quantized input is an error.
func (q *Quantize) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	x, ok := input.(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("Quantize.Forward: %w: got %s, want float32", ErrUnsupportedInput, input.DType())
	}
	return tensor.Quantize(x, tensor.QUInt8, q.scale, q.zeroPoint)
}

// StateDict returns the input qparams.
func (q *Quantize) StateDict() StateDict {
	return StateDict{
		"scale":      tensor.Scalar(q.scale),
		"zero_point": tensor.Scalar(float32(q.zeroPoint)),
	}
}

// DeQuantize converts quantized input back to float.
// It replaces DeQuantStub in a quantized model.
type DeQuantize struct{}

// NewDeQuantize creates a DeQuantize module.
func NewDeQuantize() *DeQuantize { return &DeQuantize{} }

// Forward dequantizes input.
func (d *DeQuantize) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	return input.Dequantize(), nil
}
