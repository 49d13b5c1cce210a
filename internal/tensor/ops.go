package tensor

import "fmt"

// Add returns the element-wise sum of two tensors of equal shape.
func Add(a, b *Dense) (*Dense, error) {
	return zipWith("add", a, b, func(x, y float32) float32 { return x + y })
}

// Mul returns the element-wise product of two tensors of equal shape.
func Mul(a, b *Dense) (*Dense, error) {
	return zipWith("mul", a, b, func(x, y float32) float32 { return x * y })
}

// AddScalar adds s to every element.
func AddScalar(a *Dense, s float32) *Dense {
	return mapDense(a, func(x float32) float32 { return x + s })
}

// MulScalar multiplies every element by s.
func MulScalar(a *Dense, s float32) *Dense {
	return mapDense(a, func(x float32) float32 { return x * s })
}

// ReLU applies max(0, x) element-wise.
func ReLU(a *Dense) *Dense {
	return mapDense(a, func(x float32) float32 { return max(x, 0) })
}

// Linear computes x @ w.T + b.
//
// Shapes: x [batch, in], w [out, in], b [out] or nil. Output [batch, out].
func Linear(x, w, b *Dense) (*Dense, error) {
	if len(x.shape) != 2 || len(w.shape) != 2 {
		return nil, fmt.Errorf("linear: %w: expected 2D input and weight, got %v and %v", ErrShapeMismatch, x.shape, w.shape)
	}
	batch, in := x.shape[0], x.shape[1]
	out := w.shape[0]
	if w.shape[1] != in {
		return nil, fmt.Errorf("linear: %w: input has %d features, weight expects %d", ErrShapeMismatch, in, w.shape[1])
	}
	if b != nil && (len(b.shape) != 1 || b.shape[0] != out) {
		return nil, fmt.Errorf("linear: %w: bias shape %v, want [%d]", ErrShapeMismatch, b.shape, out)
	}

	y := make([]float32, batch*out)
	for n := 0; n < batch; n++ {
		row := x.data[n*in : (n+1)*in]
		for o := 0; o < out; o++ {
			wrow := w.data[o*in : (o+1)*in]
			var acc float32
			for k, v := range row {
				acc += v * wrow[k]
			}
			if b != nil {
				acc += b.data[o]
			}
			y[n*out+o] = acc
		}
	}
	return &Dense{shape: Shape{batch, out}, data: y}, nil
}

func zipWith(op string, a, b *Dense, fn func(x, y float32) float32) (*Dense, error) {
	if !a.shape.Equal(b.shape) {
		return nil, fmt.Errorf("%s: %w: %v vs %v", op, ErrShapeMismatch, a.shape, b.shape)
	}
	out := make([]float32, len(a.data))
	for i := range a.data {
		out[i] = fn(a.data[i], b.data[i])
	}
	return &Dense{shape: a.shape.Clone(), data: out}, nil
}

func mapDense(a *Dense, fn func(x float32) float32) *Dense {
	out := make([]float32, len(a.data))
	for i, v := range a.data {
		out[i] = fn(v)
	}
	return &Dense{shape: a.shape.Clone(), data: out}
}
