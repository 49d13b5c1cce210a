package nn

import (
	"fmt"

	"github.com/born-ml/numsuite/internal/tensor"
)

// ObserverName is the child name under which an activation observer is
// attached to a module.
const ObserverName = "activation_post_process"

// Functional is implemented by modules that expose tensor operators as
// methods rather than through Forward.
//
// Models use a Functional instance wherever they combine tensors (residual
// additions, concatenations) so that the operation is a named node in the
// graph and can be observed or shadowed.
type Functional interface {
	Module
	Add(x, y tensor.Tensor) (tensor.Tensor, error)
	AddScalar(x tensor.Tensor, s float32) (tensor.Tensor, error)
	Mul(x, y tensor.Tensor) (tensor.Tensor, error)
	MulScalar(x tensor.Tensor, s float32) (tensor.Tensor, error)
	Cat(xs []tensor.Tensor, dim int) (tensor.Tensor, error)
	AddReLU(x, y tensor.Tensor) (tensor.Tensor, error)
}

// ObserverSetter is implemented by modules that run an activation
// observer on their own output.
type ObserverSetter interface {
	SetObserver(obs Module)
}

// observed holds the optional activation observer shared by the
// functional implementations.
type observed struct {
	observer Module
}

// SetObserver attaches obs as the activation observer.
func (o *observed) SetObserver(obs Module) {
	o.observer = obs
}

// Children lists the observer, if attached.
func (o *observed) Children() []Child {
	if o.observer == nil {
		return nil
	}
	return []Child{{Name: ObserverName, Module: o.observer}}
}

// SetChild replaces the observer.
func (o *observed) SetChild(name string, m Module) error {
	if name != ObserverName || o.observer == nil {
		return fmt.Errorf("functional: %w: %q", ErrNoSuchChild, name)
	}
	o.observer = m
	return nil
}

func (o *observed) observe(out tensor.Tensor) (tensor.Tensor, error) {
	if o.observer == nil {
		return out, nil
	}
	return o.observer.Forward(out)
}

// FloatFunctional implements Functional on float tensors.
type FloatFunctional struct {
	observed
}

// NewFloatFunctional creates a FloatFunctional.
func NewFloatFunctional() *FloatFunctional {
	return &FloatFunctional{}
}

// Forward is not supported; use the operator methods.
func (f *FloatFunctional) Forward(tensor.Tensor) (tensor.Tensor, error) {
	return nil, fmt.Errorf("FloatFunctional.Forward: call an operator method instead")
}

// Add returns x + y.
func (f *FloatFunctional) Add(x, y tensor.Tensor) (tensor.Tensor, error) {
	return f.binary("add", x, y, tensor.Add)
}

// AddScalar returns x + s.
func (f *FloatFunctional) AddScalar(x tensor.Tensor, s float32) (tensor.Tensor, error) {
	a, err := asDense("add_scalar", x)
	if err != nil {
		return nil, err
	}
	return f.observe(tensor.AddScalar(a, s))
}

// Mul returns x * y.
func (f *FloatFunctional) Mul(x, y tensor.Tensor) (tensor.Tensor, error) {
	return f.binary("mul", x, y, tensor.Mul)
}

// MulScalar returns x * s.
func (f *FloatFunctional) MulScalar(x tensor.Tensor, s float32) (tensor.Tensor, error) {
	a, err := asDense("mul_scalar", x)
	if err != nil {
		return nil, err
	}
	return f.observe(tensor.MulScalar(a, s))
}

// Cat concatenates xs along dim.
func (f *FloatFunctional) Cat(xs []tensor.Tensor, dim int) (tensor.Tensor, error) {
	for _, x := range xs {
		if _, err := asDense("cat", x); err != nil {
			return nil, err
		}
	}
	out, err := tensor.Cat(xs, dim)
	if err != nil {
		return nil, err
	}
	return f.observe(out)
}

// AddReLU returns relu(x + y).
func (f *FloatFunctional) AddReLU(x, y tensor.Tensor) (tensor.Tensor, error) {
	return f.binary("add_relu", x, y, addReLU)
}

func (f *FloatFunctional) binary(op string, x, y tensor.Tensor, fn func(a, b *tensor.Dense) (*tensor.Dense, error)) (tensor.Tensor, error) {
	a, err := asDense(op, x)
	if err != nil {
		return nil, err
	}
	b, err := asDense(op, y)
	if err != nil {
		return nil, err
	}
	out, err := fn(a, b)
	if err != nil {
		return nil, err
	}
	return f.observe(out)
}

// QFunctional implements Functional on quantized tensors. Every result is
// requantized to quint8 with the module's own scale and zero point.
type QFunctional struct {
	observed
	scale     float32
	zeroPoint int32
}

// NewQFunctional creates a QFunctional with the given output qparams.
func NewQFunctional(scale float32, zeroPoint int32) *QFunctional {
	return &QFunctional{scale: scale, zeroPoint: zeroPoint}
}

// Forward is not supported; use the operator methods.
func (q *QFunctional) Forward(tensor.Tensor) (tensor.Tensor, error) {
	return nil, fmt.Errorf("QFunctional.Forward: call an operator method instead")
}

// Add returns x + y.
func (q *QFunctional) Add(x, y tensor.Tensor) (tensor.Tensor, error) {
	return q.binary("add", x, y, tensor.Add)
}

// AddScalar returns x + s.
func (q *QFunctional) AddScalar(x tensor.Tensor, s float32) (tensor.Tensor, error) {
	a, err := asQuantized("add_scalar", x)
	if err != nil {
		return nil, err
	}
	return q.requantize(tensor.AddScalar(a.Dequantize(), s))
}

// Mul returns x * y.
func (q *QFunctional) Mul(x, y tensor.Tensor) (tensor.Tensor, error) {
	return q.binary("mul", x, y, tensor.Mul)
}

// MulScalar returns x * s.
func (q *QFunctional) MulScalar(x tensor.Tensor, s float32) (tensor.Tensor, error) {
	a, err := asQuantized("mul_scalar", x)
	if err != nil {
		return nil, err
	}
	return q.requantize(tensor.MulScalar(a.Dequantize(), s))
}

// Cat concatenates xs along dim.
func (q *QFunctional) Cat(xs []tensor.Tensor, dim int) (tensor.Tensor, error) {
	floats := make([]tensor.Tensor, len(xs))
	for i, x := range xs {
		a, err := asQuantized("cat", x)
		if err != nil {
			return nil, err
		}
		floats[i] = a.Dequantize()
	}
	out, err := tensor.Cat(floats, dim)
	if err != nil {
		return nil, err
	}
	return q.requantize(out.Dequantize())
}

// AddReLU returns relu(x + y).
func (q *QFunctional) AddReLU(x, y tensor.Tensor) (tensor.Tensor, error) {
	return q.binary("add_relu", x, y, addReLU)
}

func (q *QFunctional) binary(op string, x, y tensor.Tensor, fn func(a, b *tensor.Dense) (*tensor.Dense, error)) (tensor.Tensor, error) {
	a, err := asQuantized(op, x)
	if err != nil {
		return nil, err
	}
	b, err := asQuantized(op, y)
	if err != nil {
		return nil, err
	}
	out, err := fn(a.Dequantize(), b.Dequantize())
	if err != nil {
		return nil, err
	}
	return q.requantize(out)
}

func (q *QFunctional) requantize(out *tensor.Dense) (tensor.Tensor, error) {
	r, err := tensor.Quantize(out, tensor.QUInt8, q.scale, q.zeroPoint)
	if err != nil {
		return nil, err
	}
	return q.observe(r)
}

func addReLU(a, b *tensor.Dense) (*tensor.Dense, error) {
	sum, err := tensor.Add(a, b)
	if err != nil {
		return nil, err
	}
	return tensor.ReLU(sum), nil
}

func asDense(op string, t tensor.Tensor) (*tensor.Dense, error) {
	d, ok := t.(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("%s: %w: got %s, want float32", op, ErrUnsupportedInput, t.DType())
	}
	return d, nil
}

func asQuantized(op string, t tensor.Tensor) (*tensor.Quantized, error) {
	q, ok := t.(*tensor.Quantized)
	if !ok {
		return nil, fmt.Errorf("%s: %w: got %s, want a quantized tensor", op, ErrUnsupportedInput, t.DType())
	}
	return q, nil
}
