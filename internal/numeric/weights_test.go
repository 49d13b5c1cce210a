package numeric_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/numsuite/internal/metrics"
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/numeric"
	"github.com/born-ml/numsuite/internal/tensor"
)

func TestCompareWeightsWrapperLevel(t *testing.T) {
	w := dense(t, []float32{1, 2, 3, 4}, 2, 2)
	b := dense(t, []float32{0, 0}, 2)
	qw := quantized(t, []float32{1, 2, 3, 4}, 0.1, 0, 2, 2)

	floatDict := nn.StateDict{
		"fc.module.weight": w,
		"fc.module.bias":   b,
	}
	quantDict := nn.StateDict{
		"fc.weight":     qw,
		"fc.bias":       b,
		"fc.scale":      tensor.Scalar(0.1),
		"fc.zero_point": tensor.Scalar(0),
	}

	got := numeric.CompareWeights(floatDict, quantDict)

	require.Equal(t, []string{"fc.weight"}, got.Names())
	assert.Same(t, w, got["fc.weight"].Float)
	assert.Same(t, qw, got["fc.weight"].Quantized)
}

func TestCompareWeightsPrefersWeightOverBias(t *testing.T) {
	w := dense(t, []float32{1, 2}, 1, 2)
	qw := quantized(t, []float32{1, 2}, 0.1, 0, 1, 2)

	got := numeric.CompareWeights(
		nn.StateDict{"fc.bias": dense(t, []float32{0}, 1), "fc.weight": w},
		nn.StateDict{"fc.weight": qw},
	)

	require.Contains(t, got, "fc.weight")
	assert.Same(t, w, got["fc.weight"].Float)
}

func TestCompareWeightsModels(t *testing.T) {
	m := newModelPair(t)

	got := numeric.CompareWeights(nn.StateDictOf(m.float), nn.StateDictOf(m.quant))

	assert.Equal(t, []string{"block.fc2.weight", "fc1.weight"}, got.Names())
	assert.Same(t, m.floatFC1.WeightTensor(), got["fc1.weight"].Float)
	assert.Same(t, m.quantFC1.Weight().Tensor(), got["fc1.weight"].Quantized)
	assert.Same(t, m.floatFC2.WeightTensor(), got["block.fc2.weight"].Float)
	assert.Equal(t, tensor.QInt8, got["block.fc2.weight"].Quantized.DType())
}

func TestCompareWeightsUnmatched(t *testing.T) {
	unmatched := metrics.NameMatches.WithLabelValues("weight", "unmatched")
	matched := metrics.NameMatches.WithLabelValues("weight", "matched")
	beforeUnmatched := testutil.ToFloat64(unmatched)
	beforeMatched := testutil.ToFloat64(matched)

	got := numeric.CompareWeights(
		nn.StateDict{"fc1.weight": dense(t, []float32{1}, 1, 1)},
		nn.StateDict{
			"fc1.weight":   quantized(t, []float32{1}, 0.1, 0, 1, 1),
			"extra.weight": quantized(t, []float32{1}, 0.1, 0, 1, 1),
		},
	)

	assert.Equal(t, []string{"fc1.weight"}, got.Names())
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
	assert.Equal(t, beforeMatched+1, testutil.ToFloat64(matched))
}

func TestCompareWeightsEmpty(t *testing.T) {
	assert.Empty(t, numeric.CompareWeights(nil, nil))
	assert.Empty(t, numeric.CompareWeights(
		nn.StateDict{"fc.weight": dense(t, []float32{1}, 1)},
		nn.StateDict{"fc.bias": dense(t, []float32{1}, 1)},
	))
}
