package nn

import (
	"github.com/born-ml/numsuite/internal/tensor"
)

// Parameter is a named tensor owned by a layer.
//
// Float layers hold Dense parameters; quantized layers may hold
// Quantized ones. Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
type Parameter struct {
	name   string        // Parameter name (e.g., "weight", "bias")
	tensor tensor.Tensor // The parameter tensor
}

// NewParameter creates a new parameter.
func NewParameter(name string, t tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() tensor.Tensor {
	return p.tensor
}
