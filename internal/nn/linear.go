package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/numsuite/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	layer := nn.NewLinear(784, 128, rand.NewPCG(1, 1))
//	output, err := layer.Forward(input) // shape: [batch, 128]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]
}

// NewLinear creates a new Linear layer with Xavier-initialized weights.
func NewLinear(inFeatures, outFeatures int, src rand.Source) *Linear {
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, src)
	bias := tensor.Zeros(tensor.Shape{outFeatures})
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// NewLinearFrom creates a Linear layer from existing tensors.
//
// weight must be [out, in]; bias may be nil or [out].
func NewLinearFrom(weight, bias *tensor.Dense) (*Linear, error) {
	ws := weight.Shape()
	if len(ws) != 2 {
		return nil, fmt.Errorf("linear: weight must be 2D, got %v", ws)
	}
	l := &Linear{
		inFeatures:  ws[1],
		outFeatures: ws[0],
		weight:      NewParameter("weight", weight),
	}
	if bias != nil {
		if bs := bias.Shape(); len(bs) != 1 || bs[0] != ws[0] {
			return nil, fmt.Errorf("linear: bias shape %v, want [%d]", bs, ws[0])
		}
		l.bias = NewParameter("bias", bias)
	}
	return l, nil
}

// Forward computes x @ W.T + b. The input must be a float tensor.
func (l *Linear) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	x, ok := input.(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("Linear.Forward: %w: got %s, want float32", ErrUnsupportedInput, input.DType())
	}
	return tensor.Linear(x, l.WeightTensor(), l.biasTensor())
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// WeightTensor returns the weight as a float tensor.
func (l *Linear) WeightTensor() *tensor.Dense {
	return l.weight.Tensor().Dequantize()
}

// Bias returns the bias parameter, or nil.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

func (l *Linear) biasTensor() *tensor.Dense {
	if l.bias == nil {
		return nil
	}
	return l.bias.Tensor().Dequantize()
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns the layer parameters.
func (l *Linear) StateDict() StateDict {
	sd := StateDict{"weight": l.weight.Tensor()}
	if l.bias != nil {
		sd["bias"] = l.bias.Tensor()
	}
	return sd
}
