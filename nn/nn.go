// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

// Graph

// Module is a node of a model graph.
type Module = nn.Module

// Child is a named child of a module.
type Child = nn.Child

// Parent is a module with ordered, named children.
type Parent = nn.Parent

// ChildSetter is a Parent that can replace a child in place.
type ChildSetter = nn.ChildSetter

// Typer overrides the type tag of a module.
type Typer = nn.Typer

// TypeSet is a set of module type tags.
type TypeSet = nn.TypeSet

// Errors returned by graph operations and layers.
var (
	ErrNoSuchChild      = nn.ErrNoSuchChild
	ErrNotFunctional    = nn.ErrNotFunctional
	ErrUnsupportedInput = nn.ErrUnsupportedInput
)

// TypeName returns the type tag of m.
func TypeName(m Module) string {
	return nn.TypeName(m)
}

// NewTypeSet creates a TypeSet from type tags.
func NewTypeSet(names ...string) TypeSet {
	return nn.NewTypeSet(names...)
}

// TypeSetOf creates a TypeSet holding the type tags of samples.
func TypeSetOf(samples ...Module) TypeSet {
	return nn.TypeSetOf(samples...)
}

// Children returns the children of m, or nil for a leaf.
func Children(m Module) []Child {
	return nn.Children(m)
}

// Lookup resolves a dotted child path below root.
func Lookup(root Module, path string) (Module, bool) {
	return nn.Lookup(root, path)
}

// Sequential applies named modules in order.
type Sequential = nn.Sequential

// NewSequential creates a Sequential whose children are named "0", "1", ...
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// NewNamedSequential creates a Sequential from named children.
func NewNamedSequential(children ...Child) *Sequential {
	return nn.NewNamedSequential(children...)
}

// Parameters

// Parameter is a named tensor owned by a layer.
type Parameter = nn.Parameter

// StateDict maps dotted parameter names to tensors.
type StateDict = nn.StateDict

// StateDictOf flattens the parameters of every module under root.
func StateDictOf(root Module) StateDict {
	return nn.StateDictOf(root)
}

// Float layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	layer := nn.NewLinear(784, 128, rand.NewPCG(1, 1))
func NewLinear(inFeatures, outFeatures int, src rand.Source) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, src)
}

// NewLinearFrom creates a linear layer from existing weight and bias.
func NewLinearFrom(weight, bias *tensor.Dense) (*Linear, error) {
	return nn.NewLinearFrom(weight, bias)
}

// ReLU represents the Rectified Linear Unit activation function.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// QuantStub marks where a float model's input would be quantized.
type QuantStub = nn.QuantStub

// NewQuantStub creates a QuantStub.
func NewQuantStub() *QuantStub {
	return nn.NewQuantStub()
}

// DeQuantStub marks where a float model's output would be dequantized.
type DeQuantStub = nn.DeQuantStub

// NewDeQuantStub creates a DeQuantStub.
func NewDeQuantStub() *DeQuantStub {
	return nn.NewDeQuantStub()
}

// Functional exposes tensor operators as module methods.
type Functional = nn.Functional

// FloatFunctional implements Functional on float tensors.
type FloatFunctional = nn.FloatFunctional

// NewFloatFunctional creates a FloatFunctional.
func NewFloatFunctional() *FloatFunctional {
	return nn.NewFloatFunctional()
}

// Quantized layers

// QuantizedLinear is a linear layer with a qint8 weight.
type QuantizedLinear = nn.QuantizedLinear

// QuantizeLinear converts a float Linear to a QuantizedLinear producing
// quint8 outputs with the given parameters.
func QuantizeLinear(l *Linear, outScale float32, outZeroPoint int32) (*QuantizedLinear, error) {
	return nn.QuantizeLinear(l, outScale, outZeroPoint)
}

// QuantizedReLU is ReLU on quantized tensors.
type QuantizedReLU = nn.QuantizedReLU

// NewQuantizedReLU creates a QuantizedReLU.
func NewQuantizedReLU() *QuantizedReLU {
	return nn.NewQuantizedReLU()
}

// Quantize converts float input to quint8.
type Quantize = nn.Quantize

// NewQuantize creates a Quantize module with the given parameters.
func NewQuantize(scale float32, zeroPoint int32) *Quantize {
	return nn.NewQuantize(scale, zeroPoint)
}

// DeQuantize converts quantized input back to float.
type DeQuantize = nn.DeQuantize

// NewDeQuantize creates a DeQuantize module.
func NewDeQuantize() *DeQuantize {
	return nn.NewDeQuantize()
}

// QFunctional implements Functional on quantized tensors.
type QFunctional = nn.QFunctional

// NewQFunctional creates a QFunctional with the given output parameters.
func NewQFunctional(scale float32, zeroPoint int32) *QFunctional {
	return nn.NewQFunctional(scale, zeroPoint)
}
