package numeric_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/numsuite/internal/metrics"
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/numeric"
	"github.com/born-ml/numsuite/internal/quant"
	"github.com/born-ml/numsuite/internal/tensor"
)

func TestCompareModelOutputsSingleLeaf(t *testing.T) {
	float := nn.NewNamedSequential(
		nn.Child{Name: "quant", Module: nn.NewQuantStub()},
		nn.Child{Name: "block", Module: &scaler{factor: 2}},
		nn.Child{Name: "dequant", Module: nn.NewDeQuantStub()},
	)
	q := nn.NewNamedSequential(
		nn.Child{Name: "quant", Module: nn.NewQuantize(0.05, 128)},
		nn.Child{Name: "block", Module: &scaler{factor: 2}},
		nn.Child{Name: "dequant", Module: nn.NewDeQuantize()},
	)
	x := dense(t, []float32{0.1, -0.2, 0.3, 0.4, -0.5, 0.6}, 3, 2)

	got, err := numeric.CompareModelOutputs(float, q, x, numeric.WithWhitelist(nn.NewTypeSet("Scaler")))
	require.NoError(t, err)

	require.Equal(t, []string{"block.stats"}, got.Names())
	pair := got["block.stats"]

	assert.Equal(t, tensor.Shape{3, 2}, pair.Float.Shape())
	assert.InDeltaSlice(t, []float32{0.2, -0.4, 0.6, 0.8, -1, 1.2}, pair.Float.Dequantize().Data(), 1e-6)

	qv, ok := pair.Quantized.(*tensor.Quantized)
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{3, 2}, qv.Shape())
	assert.Equal(t, float32(0.05), qv.Scale())
	assert.InDeltaSlice(t, []float32{0.2, -0.4, 0.6, 0.8, -1, 1.2}, qv.Dequantize().Data(), 0.05)
}

func TestCompareModelOutputsDefaultWhitelist(t *testing.T) {
	m := newModelPair(t)
	before := testutil.ToFloat64(metrics.LoggersAttached)

	got, err := numeric.CompareModelOutputs(m.float, m.quant, batch(t, 4))
	require.NoError(t, err)

	assert.Equal(t, []string{"block.fc2.stats", "fc1.stats", "relu.stats"}, got.Names())
	assert.Equal(t, before+6, testutil.ToFloat64(metrics.LoggersAttached))

	fc1 := got["fc1.stats"]
	assert.Equal(t, tensor.Float32, fc1.Float.DType())
	assert.Equal(t, tensor.QUInt8, fc1.Quantized.DType())
	assert.Equal(t, tensor.Shape{4, 3}, fc1.Quantized.Shape())
	assert.Equal(t, tensor.Shape{4, 2}, got["block.fc2.stats"].Float.Shape())

	// Whitelisted leaves are wrapped in place, containers are kept.
	assert.IsType(t, &quant.Observed{}, m.quant.Module("fc1"))
	assert.IsType(t, &quant.Observed{}, m.qBlock.Module("fc2"))
	assert.Same(t, m.qBlock, m.quant.Module("block"))
}

func TestCompareModelOutputsUnmatchedLayer(t *testing.T) {
	m := newModelPair(t)
	require.NoError(t, m.qBlock.Add("act", nn.NewQuantizedReLU()))

	unmatched := metrics.NameMatches.WithLabelValues("activation", "unmatched")
	before := testutil.ToFloat64(unmatched)

	got, err := numeric.CompareModelOutputs(m.float, m.quant, batch(t, 2))
	require.NoError(t, err)

	assert.NotContains(t, got, "block.act.stats")
	assert.Len(t, got, 3)
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}

func TestCompareModelOutputsRootLeaf(t *testing.T) {
	x := dense(t, []float32{1, 2}, 1, 2)

	got, err := numeric.CompareModelOutputs(&scaler{factor: 3}, &scaler{factor: 2}, x,
		numeric.WithWhitelist(nn.NewTypeSet("Scaler")))
	require.NoError(t, err)

	require.Equal(t, []string{"stats"}, got.Names())
	assert.Equal(t, []float32{3, 6}, got["stats"].Float.Dequantize().Data())
	assert.Equal(t, []float32{2, 4}, got["stats"].Quantized.Dequantize().Data())
}

func TestCompareModelOutputsForwardError(t *testing.T) {
	m := newModelPair(t)
	require.NoError(t, m.quant.SetChild("relu", failing{}))

	_, err := numeric.CompareModelOutputs(m.float, m.quant, batch(t, 1))
	assert.Same(t, errBoom, err)
}

func TestOutputLoggersAccumulateAcrossPasses(t *testing.T) {
	m := newModelPair(t)

	floatRoot, qRoot, err := numeric.AttachOutputLoggers(m.float, m.quant, nil, quant.DefaultOutputWhitelist())
	require.NoError(t, err)
	assert.Same(t, m.float, floatRoot)
	assert.Same(t, m.quant, qRoot)

	for range 2 {
		_, err := floatRoot.Forward(batch(t, 3))
		require.NoError(t, err)
		_, err = qRoot.Forward(batch(t, 3))
		require.NoError(t, err)
	}

	got := numeric.MatchActivations(floatRoot, qRoot)
	require.Contains(t, got, "relu.stats")
	assert.Equal(t, tensor.Shape{6, 3}, got["relu.stats"].Float.Shape())
	assert.Equal(t, tensor.Shape{6, 3}, got["relu.stats"].Quantized.Shape())
}

func TestMatchActivationsSkipsEmptyRecords(t *testing.T) {
	m := newModelPair(t)
	_, _, err := numeric.AttachOutputLoggers(m.float, m.quant, nil, quant.DefaultOutputWhitelist())
	require.NoError(t, err)

	// Only the quantized model ran.
	_, err = m.quant.Forward(batch(t, 1))
	require.NoError(t, err)

	assert.Empty(t, numeric.MatchActivations(m.float, m.quant))
}

func TestCollectStats(t *testing.T) {
	m := newModelPair(t)
	_, qRoot, err := numeric.AttachOutputLoggers(m.float, m.quant, nil, nn.TypeSetOf(&nn.QuantizedReLU{}))
	require.NoError(t, err)
	_, err = qRoot.Forward(batch(t, 2))
	require.NoError(t, err)

	stats := numeric.CollectStats(qRoot)
	require.Len(t, stats, 1)
	require.Contains(t, stats, "relu.stats")
	assert.Equal(t, tensor.Shape{2, 3}, stats["relu.stats"][numeric.SlotTensorVal].Shape())
}

func TestCollectStatsRootShadow(t *testing.T) {
	m := newModelPair(t)
	s := numeric.NewShadow(m.quantFC1, m.floatFC1, numeric.ShadowLoggerFactory)
	_, err := s.Forward(quantized(t, []float32{0.2, -0.4}, 0.02, 128, 1, 2))
	require.NoError(t, err)

	stats := numeric.CollectStats(s)
	require.Len(t, stats, 1)
	assert.Contains(t, stats["stats"], numeric.SlotFloat)
}

func TestCollectStatsNoLoggers(t *testing.T) {
	m := newModelPair(t)
	assert.Empty(t, numeric.CollectStats(m.quant))
}
