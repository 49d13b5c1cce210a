// Package nn implements the model graph used by numsuite.
//
// A model is a tree of modules. Leaves compute; parents hold named
// children and may allow a child to be replaced in place:
//   - Module: Forward computation contract
//   - Parent: ordered, uniquely named children
//   - ChildSetter: in-place substitution of an existing child
//   - Functional: operator-style modules (add, mul, cat, ...)
//
// Float layers (Linear, ReLU, QuantStub, DeQuantStub, FloatFunctional)
// have quantized counterparts (QuantizedLinear, QuantizedReLU, Quantize,
// DeQuantize, QFunctional) so that float and quantized trees can be built
// with matching shapes and names.
package nn

import (
	"errors"
	"reflect"
	"strings"

	"github.com/born-ml/numsuite/internal/tensor"
)

// Errors reported by modules and containers.
var (
	ErrNoSuchChild      = errors.New("nn: no such child")
	ErrNotFunctional    = errors.New("nn: module does not implement functional operators")
	ErrUnsupportedInput = errors.New("nn: unsupported input representation")
)

// Module is the base interface for all model components.
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input tensor.Tensor) (tensor.Tensor, error)
}

// Child is a named sub-module.
type Child struct {
	Name   string
	Module Module
}

// Parent is a module composed of named sub-modules.
//
// Children returns the children in a stable order. Names are unique
// among siblings.
type Parent interface {
	Module
	Children() []Child
}

// ChildSetter replaces an existing child in place.
type ChildSetter interface {
	SetChild(name string, m Module) error
}

// Typer lets a module report its own type tag.
type Typer interface {
	TypeName() string
}

// TypeName returns the type tag of m.
//
// Modules implementing Typer report their own tag; all other modules are
// identified by their Go type (e.g. "*nn.Linear").
func TypeName(m Module) string {
	if t, ok := m.(Typer); ok {
		return t.TypeName()
	}
	return reflect.TypeOf(m).String()
}

// Children returns the children of m, or nil when m is a leaf.
func Children(m Module) []Child {
	if p, ok := m.(Parent); ok {
		return p.Children()
	}
	return nil
}

// IsLeaf reports whether m has no children.
func IsLeaf(m Module) bool {
	return len(Children(m)) == 0
}

// Lookup resolves a dotted path (e.g. "encoder.fc1") starting at root.
// The empty path resolves to root itself.
func Lookup(root Module, path string) (Module, bool) {
	if path == "" {
		return root, true
	}
	cur := root
	for _, name := range strings.Split(path, ".") {
		next, ok := childByName(cur, name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func childByName(m Module, name string) (Module, bool) {
	for _, c := range Children(m) {
		if c.Name == name {
			return c.Module, true
		}
	}
	return nil, false
}
