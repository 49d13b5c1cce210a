package nn_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

func TestLinear(t *testing.T) {
	layer := nn.NewLinear(10, 5, rand.NewPCG(1, 1))
	assert.Equal(t, 10, layer.InFeatures())
	assert.Equal(t, 5, layer.OutFeatures())
	assert.Equal(t, tensor.Shape{5, 10}, layer.Weight().Tensor().Shape())
	assert.Equal(t, tensor.Shape{5}, layer.Bias().Tensor().Shape())
	assert.Equal(t, "weight", layer.Weight().Name())

	out, err := layer.Forward(tensor.Zeros(tensor.Shape{3, 10}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 5}, out.Shape())

	q, err := tensor.Quantize(tensor.Zeros(tensor.Shape{3, 10}), tensor.QUInt8, 1, 0)
	require.NoError(t, err)
	_, err = layer.Forward(q)
	assert.ErrorIs(t, err, nn.ErrUnsupportedInput)
}

func TestNewLinearFrom(t *testing.T) {
	_, err := nn.NewLinearFrom(dense(t, []float32{1, 2}, 2), nil)
	assert.Error(t, err)

	_, err = nn.NewLinearFrom(dense(t, []float32{1, 2}, 1, 2), dense(t, []float32{1, 2}, 2))
	assert.Error(t, err)

	l, err := nn.NewLinearFrom(dense(t, []float32{1, 2}, 1, 2), nil)
	require.NoError(t, err)
	assert.Nil(t, l.Bias())
	assert.NotContains(t, l.StateDict(), "bias")
}

func TestQuantizeLinear(t *testing.T) {
	w := dense(t, []float32{0.5, -1, 0.25, 1}, 2, 2)
	b := dense(t, []float32{0.1, -0.1}, 2)
	fl, err := nn.NewLinearFrom(w, b)
	require.NoError(t, err)

	ql, err := nn.QuantizeLinear(fl, 0.05, 128)
	require.NoError(t, err)
	assert.Equal(t, float32(0.05), ql.Scale())
	assert.Equal(t, int32(128), ql.ZeroPoint())

	qw, ok := ql.Weight().Tensor().(*tensor.Quantized)
	require.True(t, ok)
	assert.Equal(t, tensor.QInt8, qw.DType())
	assert.InDeltaSlice(t, w.Data(), qw.Dequantize().Data(), 1.0/127)

	sd := ql.StateDict()
	assert.Contains(t, sd, "weight")
	assert.Contains(t, sd, "bias")
	assert.Contains(t, sd, "scale")
	assert.Contains(t, sd, "zero_point")

	x := dense(t, []float32{1, 1, -1, 2}, 2, 2)
	want, err := fl.Forward(x)
	require.NoError(t, err)

	qx, err := tensor.Quantize(x, tensor.QUInt8, 0.02, 128)
	require.NoError(t, err)
	got, err := ql.Forward(qx)
	require.NoError(t, err)

	gq, ok := got.(*tensor.Quantized)
	require.True(t, ok)
	assert.Equal(t, tensor.QUInt8, gq.DType())
	assert.InDeltaSlice(t, want.Dequantize().Data(), got.Dequantize().Data(), 0.05)

	_, err = ql.Forward(x)
	assert.ErrorIs(t, err, nn.ErrUnsupportedInput)

	_, err = nn.QuantizeLinear(fl, 0, 0)
	assert.Error(t, err)
}

func TestReLUVariants(t *testing.T) {
	x := dense(t, []float32{-1, 0, 2}, 3)

	out, err := nn.NewReLU().Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 2}, out.Dequantize().Data())

	qx, err := tensor.Quantize(x, tensor.QUInt8, 0.5, 10)
	require.NoError(t, err)
	qout, err := nn.NewQuantizedReLU().Forward(qx)
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 10, 14}, qout.(*tensor.Quantized).IntRepr())
	assert.Equal(t, []float32{0, 0, 2}, qout.Dequantize().Data())

	_, err = nn.NewReLU().Forward(qx)
	assert.ErrorIs(t, err, nn.ErrUnsupportedInput)
}

func TestStubs(t *testing.T) {
	x := dense(t, []float32{0.5, 1}, 2)

	out, err := nn.NewQuantStub().Forward(x)
	require.NoError(t, err)
	assert.Same(t, x, out)

	out, err = nn.NewDeQuantStub().Forward(x)
	require.NoError(t, err)
	assert.Same(t, x, out)

	quant := nn.NewQuantize(0.5, 0)
	q, err := quant.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, q.(*tensor.Quantized).IntRepr())
	assert.Contains(t, quant.StateDict(), "scale")

	_, err = quant.Forward(q)
	assert.ErrorIs(t, err, nn.ErrUnsupportedInput)

	back, err := nn.NewDeQuantize().Forward(q)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 1}, back.Dequantize().Data())
}
