package nn

import "github.com/born-ml/numsuite/internal/tensor"

// StateDict maps dotted parameter names to tensors.
type StateDict map[string]tensor.Tensor

// StateDicter is implemented by modules that own parameters directly.
type StateDicter interface {
	StateDict() StateDict
}

// StateDictOf flattens the parameters of every module under root into a
// single StateDict, prefixing each entry with its module path.
//
// For a tree {fc1: Linear, relu: ReLU, fc2: Linear} the keys are
// "fc1.weight", "fc1.bias", "fc2.weight" and "fc2.bias".
func StateDictOf(root Module) StateDict {
	out := make(StateDict)
	collectState(root, "", out)
	return out
}

func collectState(m Module, prefix string, out StateDict) {
	if sd, ok := m.(StateDicter); ok {
		for name, t := range sd.StateDict() {
			out[joinPath(prefix, name)] = t
		}
	}
	for _, c := range Children(m) {
		collectState(c.Module, joinPath(prefix, c.Name), out)
	}
}

// joinPath joins a dotted prefix and a name.
func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
