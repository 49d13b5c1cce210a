// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/numsuite/internal/tensor"
)

// Type aliases for public API

// Tensor is implemented by every tensor representation.
type Tensor = tensor.Tensor

// Dense is a float32 tensor.
type Dense = tensor.Dense

// Quantized is a per-tensor affine quantized tensor.
type Quantized = tensor.Quantized

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	QUInt8  DataType = tensor.QUInt8
	QInt8   DataType = tensor.QInt8
)

// Errors returned by tensor operations.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrDTypeMismatch = tensor.ErrDTypeMismatch
)

// FromSlice wraps data in a Dense tensor of the given shape without copying.
func FromSlice(data []float32, shape Shape) (*Dense, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a zero-filled Dense tensor.
func Zeros(shape Shape) *Dense {
	return tensor.Zeros(shape)
}

// Full creates a Dense tensor filled with value.
func Full(shape Shape, value float32) *Dense {
	return tensor.Full(shape, value)
}

// Quantize converts d to a quantized tensor with the given parameters.
func Quantize(d *Dense, dtype DataType, scale float32, zeroPoint int32) (*Quantized, error) {
	return tensor.Quantize(d, dtype, scale, zeroPoint)
}

// NewQuantized wraps integer values in a quantized tensor.
func NewQuantized(data []int32, shape Shape, dtype DataType, scale float32, zeroPoint int32) (*Quantized, error) {
	return tensor.NewQuantized(data, shape, dtype, scale, zeroPoint)
}

// ChooseQParams returns the scale and zero point covering [minVal, maxVal].
func ChooseQParams(minVal, maxVal float32, dtype DataType) (scale float32, zeroPoint int32) {
	return tensor.ChooseQParams(minVal, maxVal, dtype)
}

// Cat concatenates tensors along dim.
func Cat(tensors []Tensor, dim int) (Tensor, error) {
	return tensor.Cat(tensors, dim)
}
