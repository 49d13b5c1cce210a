package numeric

import (
	"sort"

	"github.com/born-ml/numsuite/internal/logger"
	"github.com/born-ml/numsuite/internal/metrics"
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

// Stat slot and key names shared by loggers and comparators.
const (
	SlotFloat     = "float"
	SlotQuantized = "quantized"
	SlotTensorVal = "tensor_val"

	// WeightSuffix is the parameter leaf name compared by CompareWeights.
	WeightSuffix = "weight"
	// StatsSuffix is appended to a module path by CollectStats.
	StatsSuffix = "stats"
)

// Pair holds corresponding float and quantized values.
//
// Quantized is left in its stored representation; call Dequantize to
// compare it numerically with Float.
type Pair struct {
	Float     tensor.Tensor
	Quantized tensor.Tensor
}

// Comparison maps a name in the quantized model to its float/quantized pair.
type Comparison map[string]Pair

// Names returns the keys in sorted order.
func (c Comparison) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CompareWeights pairs every quantized weight with the float weight of the
// corresponding module.
//
// Only float weights are candidates, tried in ascending name order, so a
// module's bias never stands in for its weight. Quantized entries without a
// match (biases, qparams, weights of modules missing from the float model)
// are left out. The returned tensors are the ones stored in the inputs.
func CompareWeights(floatDict, quantizedDict nn.StateDict) Comparison {
	candidates := weightKeys(floatDict)
	out := make(Comparison)
	for _, key := range weightKeys(quantizedDict) {
		match, ok := FindMatch(candidates, key, WeightSuffix)
		metrics.RecordMatch("weight", ok)
		if !ok {
			logger.Log.Debug("weight has no float counterpart", "name", key)
			continue
		}
		out[key] = Pair{Float: floatDict[match], Quantized: quantizedDict[key]}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func weightKeys(d nn.StateDict) []string {
	var keys []string
	for _, k := range sortedKeys(d) {
		if lastSegment(k) == WeightSuffix {
			keys = append(keys, k)
		}
	}
	return keys
}

func lastSegment(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
