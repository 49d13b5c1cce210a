package numeric_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

var errBoom = errors.New("boom")

// block is a user container with its own type tag, standing in for a
// residual block or similar composite layer.
type block struct {
	*nn.Sequential
}

func (b *block) TypeName() string { return "Block" }

// scaler is a leaf tagged "Scaler" that multiplies its input, in whichever
// representation it arrives.
type scaler struct {
	factor float32
}

func (s *scaler) TypeName() string { return "Scaler" }

func (s *scaler) Forward(x tensor.Tensor) (tensor.Tensor, error) {
	y := tensor.MulScalar(x.Dequantize(), s.factor)
	if q, ok := x.(*tensor.Quantized); ok {
		return tensor.Quantize(y, q.DType(), q.Scale(), q.ZeroPoint())
	}
	return y, nil
}

// failing always returns errBoom.
type failing struct{}

func (failing) Forward(tensor.Tensor) (tensor.Tensor, error) { return nil, errBoom }

// frozen is a parent that cannot replace children.
type frozen struct {
	child nn.Module
}

func (f *frozen) Forward(x tensor.Tensor) (tensor.Tensor, error) { return f.child.Forward(x) }
func (f *frozen) Children() []nn.Child                           { return []nn.Child{{Name: "child", Module: f.child}} }

func dense(t *testing.T, data []float32, shape ...int) *tensor.Dense {
	t.Helper()
	d, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return d
}

func quantized(t *testing.T, data []float32, scale float32, zp int32, shape ...int) *tensor.Quantized {
	t.Helper()
	q, err := tensor.Quantize(dense(t, data, shape...), tensor.QUInt8, scale, zp)
	require.NoError(t, err)
	return q
}

// modelPair is a float MLP and its quantized counterpart:
//
//	quant -> fc1 -> relu -> block{fc2} -> dequant
type modelPair struct {
	float, quant       *nn.Sequential
	floatFC1, floatFC2 *nn.Linear
	quantFC1, quantFC2 *nn.QuantizedLinear
	floatBlock, qBlock *block
}

func newModelPair(t *testing.T) *modelPair {
	t.Helper()
	fc1, err := nn.NewLinearFrom(
		dense(t, []float32{0.5, -0.25, 1, 0.75, -0.5, 0.2}, 3, 2),
		dense(t, []float32{0.1, 0, -0.1}, 3),
	)
	require.NoError(t, err)
	fc2, err := nn.NewLinearFrom(
		dense(t, []float32{1, -1, 0.5, 0.25, 0.5, -0.75}, 2, 3),
		dense(t, []float32{0, 0.05}, 2),
	)
	require.NoError(t, err)

	qfc1, err := nn.QuantizeLinear(fc1, 0.02, 128)
	require.NoError(t, err)
	qfc2, err := nn.QuantizeLinear(fc2, 0.02, 128)
	require.NoError(t, err)

	fBlock := &block{nn.NewNamedSequential(nn.Child{Name: "fc2", Module: fc2})}
	qBlock := &block{nn.NewNamedSequential(nn.Child{Name: "fc2", Module: qfc2})}

	return &modelPair{
		float: nn.NewNamedSequential(
			nn.Child{Name: "quant", Module: nn.NewQuantStub()},
			nn.Child{Name: "fc1", Module: fc1},
			nn.Child{Name: "relu", Module: nn.NewReLU()},
			nn.Child{Name: "block", Module: fBlock},
			nn.Child{Name: "dequant", Module: nn.NewDeQuantStub()},
		),
		quant: nn.NewNamedSequential(
			nn.Child{Name: "quant", Module: nn.NewQuantize(0.02, 128)},
			nn.Child{Name: "fc1", Module: qfc1},
			nn.Child{Name: "relu", Module: nn.NewQuantizedReLU()},
			nn.Child{Name: "block", Module: qBlock},
			nn.Child{Name: "dequant", Module: nn.NewDeQuantize()},
		),
		floatFC1:   fc1,
		floatFC2:   fc2,
		quantFC1:   qfc1,
		quantFC2:   qfc2,
		floatBlock: fBlock,
		qBlock:     qBlock,
	}
}

// batch returns an input of shape [n, 2].
func batch(t *testing.T, n int) *tensor.Dense {
	t.Helper()
	data := make([]float32, 2*n)
	for i := range data {
		data[i] = float32(i%5)*0.3 - 0.6
	}
	return dense(t, data, n, 2)
}
