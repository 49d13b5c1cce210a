package nn_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

func dense(t *testing.T, data []float32, shape ...int) *tensor.Dense {
	t.Helper()
	d, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return d
}

// block is a user-defined container with its own type tag.
type block struct {
	*nn.Sequential
}

func (b *block) TypeName() string { return "Block" }

func TestTypeName(t *testing.T) {
	assert.Equal(t, "*nn.Linear", nn.TypeName(&nn.Linear{}))
	assert.Equal(t, "*nn.QuantizedReLU", nn.TypeName(nn.NewQuantizedReLU()))
	assert.Equal(t, "Block", nn.TypeName(&block{nn.NewSequential()}))
}

func TestTypeSet(t *testing.T) {
	s := nn.TypeSetOf(nn.NewReLU(), &nn.Linear{})
	assert.True(t, s.Contains(nn.NewReLU()))
	assert.False(t, s.Contains(nn.NewQuantizedReLU()))

	s.Add(nn.NewQuantizedReLU())
	assert.True(t, s.Contains(nn.NewQuantizedReLU()))
	assert.Equal(t, []string{"*nn.Linear", "*nn.QuantizedReLU", "*nn.ReLU"}, s.Names())

	custom := nn.NewTypeSet("Block")
	assert.True(t, custom.Contains(&block{nn.NewSequential()}))
}

func TestSequential_Forward(t *testing.T) {
	w := dense(t, []float32{1, -1}, 1, 2)
	fc, err := nn.NewLinearFrom(w, nil)
	require.NoError(t, err)

	model := nn.NewNamedSequential(
		nn.Child{Name: "fc", Module: fc},
		nn.Child{Name: "relu", Module: nn.NewReLU()},
	)

	out, err := model.Forward(dense(t, []float32{3, 1, 1, 3}, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 0}, out.Dequantize().Data())
}

func TestSequential_Children(t *testing.T) {
	relu := nn.NewReLU()
	s := nn.NewSequential(nn.NewQuantStub(), relu)

	children := s.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "0", children[0].Name)
	assert.Equal(t, "1", children[1].Name)
	assert.Same(t, relu, children[1].Module)
	assert.Equal(t, 2, s.Len())
	assert.Same(t, relu, s.Module("1"))

	replacement := nn.NewQuantizedReLU()
	require.NoError(t, s.SetChild("1", replacement))
	assert.Same(t, replacement, s.Children()[1].Module)

	err := s.SetChild("missing", relu)
	assert.ErrorIs(t, err, nn.ErrNoSuchChild)

	assert.Error(t, s.Add("0", relu))
	assert.Error(t, s.Add("", relu))
	assert.Panics(t, func() {
		nn.NewNamedSequential(nn.Child{Name: "a", Module: relu}, nn.Child{Name: "a", Module: relu})
	})
}

func TestSequential_PropagatesErrors(t *testing.T) {
	// QuantizedReLU rejects float input.
	s := nn.NewSequential(nn.NewQuantizedReLU())
	_, err := s.Forward(dense(t, []float32{1}, 1))
	assert.ErrorIs(t, err, nn.ErrUnsupportedInput)
}

func TestLookup(t *testing.T) {
	relu := nn.NewReLU()
	inner := nn.NewNamedSequential(nn.Child{Name: "act", Module: relu})
	root := nn.NewNamedSequential(nn.Child{Name: "encoder", Module: inner})

	m, ok := nn.Lookup(root, "encoder.act")
	require.True(t, ok)
	assert.Same(t, relu, m)

	m, ok = nn.Lookup(root, "")
	require.True(t, ok)
	assert.Same(t, root, m)

	_, ok = nn.Lookup(root, "encoder.missing")
	assert.False(t, ok)

	assert.True(t, nn.IsLeaf(relu))
	assert.False(t, nn.IsLeaf(root))
}

func TestStateDictOf(t *testing.T) {
	fc1 := nn.NewLinear(4, 3, rand.NewPCG(1, 1))
	fc2 := nn.NewLinear(3, 2, rand.NewPCG(2, 2))
	root := nn.NewNamedSequential(
		nn.Child{Name: "fc1", Module: fc1},
		nn.Child{Name: "relu", Module: nn.NewReLU()},
		nn.Child{Name: "head", Module: nn.NewNamedSequential(nn.Child{Name: "fc2", Module: fc2})},
	)

	sd := nn.StateDictOf(root)
	assert.Len(t, sd, 4)
	assert.Same(t, fc1.Weight().Tensor(), sd["fc1.weight"])
	assert.Same(t, fc2.Weight().Tensor(), sd["head.fc2.weight"])
	assert.Contains(t, sd, "fc1.bias")
	assert.Contains(t, sd, "head.fc2.bias")
}

func TestXavierIsSeeded(t *testing.T) {
	a := nn.Xavier(4, 4, tensor.Shape{4, 4}, rand.NewPCG(7, 7))
	b := nn.Xavier(4, 4, tensor.Shape{4, 4}, rand.NewPCG(7, 7))
	assert.Equal(t, a.Data(), b.Data())

	bound := float32(0.8660254) // sqrt(6/8)
	for _, v := range a.Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}
