package tensor

import (
	"fmt"
	"math"
)

// Quantized is a per-tensor affine quantized tensor.
//
// A stored integer q represents the real value (q - zeroPoint) * scale.
type Quantized struct {
	shape     Shape
	data      []int32
	dtype     DataType
	scale     float32
	zeroPoint int32
}

// NewQuantized wraps an integer representation with its quantization parameters.
//
// Every value in data must lie inside dtype's representable range.
func NewQuantized(data []int32, shape Shape, dtype DataType, scale float32, zeroPoint int32) (*Quantized, error) {
	if err := validateQParams(dtype, scale, zeroPoint); err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShapeMismatch, len(data), shape)
	}
	qmin, qmax := dtype.QRange()
	for i, v := range data {
		if v < qmin || v > qmax {
			return nil, fmt.Errorf("value %d at index %d outside %s range [%d, %d]", v, i, dtype, qmin, qmax)
		}
	}
	return &Quantized{shape: shape.Clone(), data: data, dtype: dtype, scale: scale, zeroPoint: zeroPoint}, nil
}

// Quantize converts a float tensor to the quantized domain, rounding to
// nearest and clamping to the representable range.
//
// Infinities saturate to the matching end of the range. NaN maps to the
// zero point.
func Quantize(d *Dense, dtype DataType, scale float32, zeroPoint int32) (*Quantized, error) {
	if err := validateQParams(dtype, scale, zeroPoint); err != nil {
		return nil, err
	}
	qmin, qmax := dtype.QRange()
	lo, hi := float64(qmin), float64(qmax)
	out := make([]int32, len(d.data))
	for i, v := range d.data {
		r := math.RoundToEven(float64(v/scale)) + float64(zeroPoint)
		if math.IsNaN(r) {
			out[i] = zeroPoint
			continue
		}
		// Clamp before converting: float-to-int is undefined outside int32.
		out[i] = int32(min(max(r, lo), hi))
	}
	return &Quantized{shape: d.shape.Clone(), data: out, dtype: dtype, scale: scale, zeroPoint: zeroPoint}, nil
}

// ChooseQParams derives an affine scale and zero point covering [minVal, maxVal].
//
// The range is widened to include zero so that zero is exactly representable.
func ChooseQParams(minVal, maxVal float32, dtype DataType) (scale float32, zeroPoint int32) {
	minVal = min(minVal, 0)
	maxVal = max(maxVal, 0)
	qmin, qmax := dtype.QRange()

	scale = (maxVal - minVal) / float32(qmax-qmin)
	if scale == 0 {
		scale = 1
	}
	zeroPoint = qmin - int32(math.Round(float64(minVal/scale)))
	zeroPoint = min(max(zeroPoint, qmin), qmax)
	return scale, zeroPoint
}

func validateQParams(dtype DataType, scale float32, zeroPoint int32) error {
	if !dtype.IsQuantized() {
		return fmt.Errorf("%w: %s is not a quantized type", ErrDTypeMismatch, dtype)
	}
	if !(scale > 0) || math.IsInf(float64(scale), 0) {
		return fmt.Errorf("invalid scale %v (must be positive and finite)", scale)
	}
	qmin, qmax := dtype.QRange()
	if zeroPoint < qmin || zeroPoint > qmax {
		return fmt.Errorf("zero point %d outside %s range [%d, %d]", zeroPoint, dtype, qmin, qmax)
	}
	return nil
}

// Shape returns the tensor dimensions.
func (q *Quantized) Shape() Shape {
	return q.shape.Clone()
}

// DType returns the quantized element type.
func (q *Quantized) DType() DataType {
	return q.dtype
}

// Scale returns the quantization scale.
func (q *Quantized) Scale() float32 {
	return q.scale
}

// ZeroPoint returns the quantization zero point.
func (q *Quantized) ZeroPoint() int32 {
	return q.zeroPoint
}

// IntRepr returns the stored integer values. Mutating it mutates the tensor.
func (q *Quantized) IntRepr() []int32 {
	return q.data
}

// Dequantize converts the tensor back to float32.
func (q *Quantized) Dequantize() *Dense {
	out := make([]float32, len(q.data))
	for i, v := range q.data {
		out[i] = float32(v-q.zeroPoint) * q.scale
	}
	return &Dense{shape: q.shape.Clone(), data: out}
}

// sameQParams reports whether two quantized tensors share dtype, scale and zero point.
func (q *Quantized) sameQParams(other *Quantized) bool {
	return q.dtype == other.dtype && q.scale == other.scale && q.zeroPoint == other.zeroPoint
}

// String implements fmt.Stringer.
func (q *Quantized) String() string {
	return fmt.Sprintf("Quantized(shape=%v, dtype=%s, scale=%g, zero_point=%d)", q.shape, q.dtype, q.scale, q.zeroPoint)
}
