package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/numsuite/internal/tensor"
)

// Sequential is a container module that chains named modules together.
//
// Each module's output becomes the next module's input. Children keep
// their insertion order and can be replaced in place with SetChild, which
// is how shadow wrappers and observers are spliced into a model.
//
// Example:
//
//	model := nn.NewNamedSequential(
//	    nn.Child{Name: "quant", Module: nn.NewQuantStub()},
//	    nn.Child{Name: "fc1", Module: fc1},
//	    nn.Child{Name: "relu", Module: nn.NewReLU()},
//	    nn.Child{Name: "dequant", Module: nn.NewDeQuantStub()},
//	)
//
//	output, err := model.Forward(input)
type Sequential struct {
	names   []string
	modules map[string]Module
}

// NewSequential creates a container whose children are named by position
// ("0", "1", ...).
func NewSequential(modules ...Module) *Sequential {
	s := &Sequential{modules: make(map[string]Module, len(modules))}
	for i, m := range modules {
		s.mustAdd(strconv.Itoa(i), m)
	}
	return s
}

// NewNamedSequential creates a container from explicitly named children.
//
// Panics on duplicate or empty names.
func NewNamedSequential(children ...Child) *Sequential {
	s := &Sequential{modules: make(map[string]Module, len(children))}
	for _, c := range children {
		s.mustAdd(c.Name, c.Module)
	}
	return s
}

func (s *Sequential) mustAdd(name string, m Module) {
	if err := s.Add(name, m); err != nil {
		panic(err)
	}
}

// Add appends a named module to the sequence.
func (s *Sequential) Add(name string, m Module) error {
	if name == "" {
		return fmt.Errorf("sequential: empty child name")
	}
	if _, exists := s.modules[name]; exists {
		return fmt.Errorf("sequential: duplicate child name %q", name)
	}
	s.names = append(s.names, name)
	s.modules[name] = m
	return nil
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	output := input
	for _, name := range s.names {
		var err error
		output, err = s.modules[name].Forward(output)
		if err != nil {
			return nil, err
		}
	}
	return output, nil
}

// Children returns the children in insertion order.
func (s *Sequential) Children() []Child {
	out := make([]Child, len(s.names))
	for i, name := range s.names {
		out[i] = Child{Name: name, Module: s.modules[name]}
	}
	return out
}

// SetChild replaces an existing child, keeping its position.
func (s *Sequential) SetChild(name string, m Module) error {
	if _, ok := s.modules[name]; !ok {
		return fmt.Errorf("sequential: %w: %q", ErrNoSuchChild, name)
	}
	s.modules[name] = m
	return nil
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.names)
}

// Module returns the child with the given name, or nil.
func (s *Sequential) Module(name string) Module {
	return s.modules[name]
}
