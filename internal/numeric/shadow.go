package numeric

import (
	"fmt"

	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

// Child names of a Shadow.
const (
	ShadowOrigName   = "orig_module"
	ShadowFloatName  = "shadow_module"
	ShadowLoggerName = "logger"
)

// Shadow runs a quantized module together with its float original.
//
// Every call evaluates the quantized module on the real input, evaluates
// the float module on the dequantized input, hands both outputs to the
// logger and returns the quantized output. The surrounding graph sees
// exactly what the bare quantized module would have produced.
//
// The operator methods mirror nn.Functional and require both wrapped
// modules to implement it. Scalars are passed to the float module as is.
type Shadow struct {
	orig   nn.Module
	shadow nn.Module
	logger Logger
}

// NewShadow wraps q with its float counterpart f and a fresh logger.
func NewShadow(q, f nn.Module, newLogger LoggerFactory) *Shadow {
	return &Shadow{orig: q, shadow: f, logger: newLogger()}
}

// Orig returns the wrapped quantized module.
func (s *Shadow) Orig() nn.Module { return s.orig }

// Float returns the wrapped float module.
func (s *Shadow) Float() nn.Module { return s.shadow }

// Logger returns the attached logger.
func (s *Shadow) Logger() Logger { return s.logger }

// Children exposes both modules and the logger.
func (s *Shadow) Children() []nn.Child {
	return []nn.Child{
		{Name: ShadowOrigName, Module: s.orig},
		{Name: ShadowFloatName, Module: s.shadow},
		{Name: ShadowLoggerName, Module: s.logger},
	}
}

// TypeName reports the quantized module's type tag.
func (s *Shadow) TypeName() string {
	return "Shadow(" + nn.TypeName(s.orig) + ")"
}

// Forward evaluates both modules on x.
func (s *Shadow) Forward(x tensor.Tensor) (tensor.Tensor, error) {
	out, err := s.orig.Forward(x)
	if err != nil {
		return nil, err
	}
	shadowOut, err := s.shadow.Forward(x.Dequantize())
	if err != nil {
		return nil, err
	}
	return s.log(out, shadowOut)
}

// Add shadows Functional.Add.
func (s *Shadow) Add(x, y tensor.Tensor) (tensor.Tensor, error) {
	return s.binary("add", x, y, nn.Functional.Add)
}

// AddScalar shadows Functional.AddScalar.
func (s *Shadow) AddScalar(x tensor.Tensor, v float32) (tensor.Tensor, error) {
	return s.scalar("add_scalar", x, v, nn.Functional.AddScalar)
}

// Mul shadows Functional.Mul.
func (s *Shadow) Mul(x, y tensor.Tensor) (tensor.Tensor, error) {
	return s.binary("mul", x, y, nn.Functional.Mul)
}

// MulScalar shadows Functional.MulScalar.
func (s *Shadow) MulScalar(x tensor.Tensor, v float32) (tensor.Tensor, error) {
	return s.scalar("mul_scalar", x, v, nn.Functional.MulScalar)
}

// AddReLU shadows Functional.AddReLU.
func (s *Shadow) AddReLU(x, y tensor.Tensor) (tensor.Tensor, error) {
	return s.binary("add_relu", x, y, nn.Functional.AddReLU)
}

// Cat shadows Functional.Cat.
func (s *Shadow) Cat(xs []tensor.Tensor, dim int) (tensor.Tensor, error) {
	orig, shadow, err := s.functionals("cat")
	if err != nil {
		return nil, err
	}
	out, err := orig.Cat(xs, dim)
	if err != nil {
		return nil, err
	}
	floats := make([]tensor.Tensor, len(xs))
	for i, x := range xs {
		floats[i] = x.Dequantize()
	}
	shadowOut, err := shadow.Cat(floats, dim)
	if err != nil {
		return nil, err
	}
	return s.log(out, shadowOut)
}

func (s *Shadow) binary(op string, x, y tensor.Tensor, fn func(nn.Functional, tensor.Tensor, tensor.Tensor) (tensor.Tensor, error)) (tensor.Tensor, error) {
	orig, shadow, err := s.functionals(op)
	if err != nil {
		return nil, err
	}
	out, err := fn(orig, x, y)
	if err != nil {
		return nil, err
	}
	shadowOut, err := fn(shadow, x.Dequantize(), y.Dequantize())
	if err != nil {
		return nil, err
	}
	return s.log(out, shadowOut)
}

func (s *Shadow) scalar(op string, x tensor.Tensor, v float32, fn func(nn.Functional, tensor.Tensor, float32) (tensor.Tensor, error)) (tensor.Tensor, error) {
	orig, shadow, err := s.functionals(op)
	if err != nil {
		return nil, err
	}
	out, err := fn(orig, x, v)
	if err != nil {
		return nil, err
	}
	shadowOut, err := fn(shadow, x.Dequantize(), v)
	if err != nil {
		return nil, err
	}
	return s.log(out, shadowOut)
}

func (s *Shadow) functionals(op string) (nn.Functional, nn.Functional, error) {
	orig, ok := s.orig.(nn.Functional)
	if !ok {
		return nil, nil, fmt.Errorf("shadow %s: %w: %s", op, nn.ErrNotFunctional, nn.TypeName(s.orig))
	}
	shadow, ok := s.shadow.(nn.Functional)
	if !ok {
		return nil, nil, fmt.Errorf("shadow %s: %w: %s", op, nn.ErrNotFunctional, nn.TypeName(s.shadow))
	}
	return orig, shadow, nil
}

func (s *Shadow) log(out, shadowOut tensor.Tensor) (tensor.Tensor, error) {
	if err := s.logger.Record(out, shadowOut); err != nil {
		return nil, err
	}
	return out, nil
}
