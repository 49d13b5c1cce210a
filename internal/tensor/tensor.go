package tensor

import (
	"errors"
	"fmt"
)

// Errors reported by tensor operations.
var (
	ErrShapeMismatch = errors.New("tensor: shape mismatch")
	ErrDTypeMismatch = errors.New("tensor: dtype mismatch")
)

// Tensor is a value produced or consumed by a module.
//
// Float tensors dequantize to themselves, so callers that need a float
// view can always call Dequantize without inspecting the concrete type.
type Tensor interface {
	// Shape returns the tensor dimensions.
	Shape() Shape

	// DType returns the element type.
	DType() DataType

	// Dequantize returns a float representation of the tensor.
	Dequantize() *Dense
}

// Dense is a row-major float32 tensor.
type Dense struct {
	shape Shape
	data  []float32
}

// FromSlice creates a Dense tensor backed by data.
//
// The slice is not copied. len(data) must equal shape.NumElements().
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice(data []float32, shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShapeMismatch, len(data), shape)
	}
	return &Dense{shape: shape.Clone(), data: data}, nil
}

// Zeros creates a Dense tensor filled with zeros.
func Zeros(shape Shape) *Dense {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	return &Dense{shape: shape.Clone(), data: make([]float32, shape.NumElements())}
}

// Full creates a Dense tensor filled with value.
func Full(shape Shape, value float32) *Dense {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Scalar creates a zero-rank Dense tensor.
func Scalar(value float32) *Dense {
	return &Dense{shape: Shape{}, data: []float32{value}}
}

// Shape returns the tensor dimensions.
func (d *Dense) Shape() Shape {
	return d.shape.Clone()
}

// DType returns Float32.
func (d *Dense) DType() DataType {
	return Float32
}

// Dequantize returns d itself.
func (d *Dense) Dequantize() *Dense {
	return d
}

// Data returns the underlying storage. Mutating it mutates the tensor.
func (d *Dense) Data() []float32 {
	return d.data
}

// NumElements returns the number of elements.
func (d *Dense) NumElements() int {
	return len(d.data)
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	data := make([]float32, len(d.data))
	copy(data, d.data)
	return &Dense{shape: d.shape.Clone(), data: data}
}

// String implements fmt.Stringer.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense(shape=%v)", d.shape)
}
