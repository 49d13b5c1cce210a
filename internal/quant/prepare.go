// Package quant attaches activation observers to a model graph.
//
// It is the "prepare" step of a quantization workflow reduced to what
// numeric debugging needs: given a whitelist of module types, every
// matching leaf gets an observer that sees its output on each forward
// pass. Observers are regular modules and must return their input.
package quant

import (
	"errors"
	"fmt"

	"github.com/born-ml/numsuite/internal/logger"
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

// ErrNoActivation is returned when a QConfig has no activation observer.
var ErrNoActivation = errors.New("quant: qconfig has no activation observer")

// QConfig selects the observers attached by Prepare.
type QConfig struct {
	// Activation builds a fresh observer for each observed module.
	Activation func() nn.Module
}

// DefaultOutputWhitelist returns the module types observed by default
// when comparing model outputs: the float and quantized variants of every
// computing leaf, but not the quant/dequant stubs.
func DefaultOutputWhitelist() nn.TypeSet {
	return nn.TypeSetOf(
		&nn.Linear{},
		&nn.QuantizedLinear{},
		&nn.ReLU{},
		&nn.QuantizedReLU{},
		&nn.FloatFunctional{},
		&nn.QFunctional{},
	)
}

// Prepare attaches a fresh activation observer to every leaf of root whose
// type is in whitelist.
//
// Functional modules receive the observer through nn.ObserverSetter.
// Other leaves are replaced in their parent by an Observed wrapper, so the
// parent must implement nn.ChildSetter. Replacements are applied after the
// parent's children have been scanned. Modules that are already observed
// are left alone, which makes Prepare idempotent.
//
// The tree is modified in place. The returned module is root itself,
// unless root is an eligible leaf, in which case it is root wrapped.
func Prepare(root nn.Module, cfg QConfig, whitelist nn.TypeSet) (nn.Module, error) {
	if cfg.Activation == nil {
		return nil, ErrNoActivation
	}
	if eligible(root, whitelist) {
		if wrapped, swapped := attach(root, cfg); swapped {
			return wrapped, nil
		}
		return root, nil
	}
	if err := prepareChildren(root, "", cfg, whitelist); err != nil {
		return nil, err
	}
	return root, nil
}

func prepareChildren(parent nn.Module, path string, cfg QConfig, whitelist nn.TypeSet) error {
	var reassign []nn.Child
	for _, c := range nn.Children(parent) {
		childPath := joinPath(path, c.Name)
		if _, done := c.Module.(*Observed); done {
			continue
		}
		if eligible(c.Module, whitelist) {
			if wrapped, swapped := attach(c.Module, cfg); swapped {
				reassign = append(reassign, nn.Child{Name: c.Name, Module: wrapped})
			}
			logger.Log.Debug("observer attached", "path", childPath, "type", nn.TypeName(c.Module))
			continue
		}
		if err := prepareChildren(c.Module, childPath, cfg, whitelist); err != nil {
			return err
		}
	}
	if len(reassign) == 0 {
		return nil
	}

	setter, ok := parent.(nn.ChildSetter)
	if !ok {
		return fmt.Errorf("prepare: %q (%s) cannot replace children", path, nn.TypeName(parent))
	}
	for _, c := range reassign {
		if err := setter.SetChild(c.Name, c.Module); err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
	}
	return nil
}

// eligible reports whether m is an unobserved whitelisted leaf.
func eligible(m nn.Module, whitelist nn.TypeSet) bool {
	if _, done := m.(*Observed); done {
		return false
	}
	return whitelist.Contains(m) && nn.IsLeaf(m)
}

// attach installs a new observer on m. It returns the module that should
// take m's place and whether that differs from m.
func attach(m nn.Module, cfg QConfig) (nn.Module, bool) {
	obs := cfg.Activation()
	if s, ok := m.(nn.ObserverSetter); ok {
		s.SetObserver(obs)
		return m, false
	}
	return &Observed{module: m, observer: obs}, true
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Observed runs a module and then feeds its output through an observer.
//
// It reports the wrapped module's type tag and state, so whitelists and
// state dicts see through it. The observer is exposed as the child
// nn.ObserverName.
type Observed struct {
	module   nn.Module
	observer nn.Module
}

// Forward runs the wrapped module, then the observer.
func (o *Observed) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	out, err := o.module.Forward(input)
	if err != nil {
		return nil, err
	}
	return o.observer.Forward(out)
}

// Children returns the wrapped module's children followed by the observer.
func (o *Observed) Children() []nn.Child {
	children := nn.Children(o.module)
	return append(children, nn.Child{Name: nn.ObserverName, Module: o.observer})
}

// SetChild replaces the observer.
func (o *Observed) SetChild(name string, m nn.Module) error {
	if name != nn.ObserverName {
		return fmt.Errorf("observed: %w: %q", nn.ErrNoSuchChild, name)
	}
	o.observer = m
	return nil
}

// TypeName reports the wrapped module's type tag.
func (o *Observed) TypeName() string {
	return nn.TypeName(o.module)
}

// StateDict returns the wrapped module's parameters, if any.
func (o *Observed) StateDict() nn.StateDict {
	if sd, ok := o.module.(nn.StateDicter); ok {
		return sd.StateDict()
	}
	return nil
}

// Module returns the wrapped module.
func (o *Observed) Module() nn.Module {
	return o.module
}

// Observer returns the attached observer.
func (o *Observed) Observer() nn.Module {
	return o.observer
}
