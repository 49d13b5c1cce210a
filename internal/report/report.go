// Package report turns float/quantized comparisons into per-tensor error
// metrics and exports them for offline analysis.
package report

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/numsuite/internal/logger"
	"github.com/born-ml/numsuite/internal/metrics"
	"github.com/born-ml/numsuite/internal/numeric"
	"github.com/born-ml/numsuite/internal/tensor"
)

// Entry is the error summary for one compared tensor.
type Entry struct {
	Name  string
	Shape tensor.Shape

	// Float is the reference value, Quantized the dequantized value under test.
	Float     *tensor.Dense
	Quantized *tensor.Dense

	SQNR       float64 // dB, +Inf when both sides are identical
	MaxAbsErr  float64
	MeanAbsErr float64
	Cosine     float64
}

// Build computes an Entry for every pair in c, sorted by name.
func Build(c numeric.Comparison) ([]Entry, error) {
	entries := make([]Entry, 0, len(c))
	for _, name := range c.Names() {
		e, err := NewEntry(name, c[name])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// NewEntry dequantizes the quantized side of p and measures it against the
// float side.
func NewEntry(name string, p numeric.Pair) (Entry, error) {
	if p.Float == nil || p.Quantized == nil {
		return Entry{}, fmt.Errorf("report: %s: missing value", name)
	}
	f, q := p.Float.Dequantize(), p.Quantized.Dequantize()
	if !f.Shape().Equal(q.Shape()) {
		return Entry{}, fmt.Errorf("report: %s: %w: float %v, quantized %v",
			name, tensor.ErrShapeMismatch, f.Shape(), q.Shape())
	}

	fs, qs := toFloat64(f.Data()), toFloat64(q.Data())
	e := Entry{
		Name:      name,
		Shape:     f.Shape().Clone(),
		Float:     f,
		Quantized: q,
		SQNR:      sqnr(fs, qs),
		Cosine:    cosine(fs, qs),
	}
	if len(fs) > 0 {
		diff := make([]float64, len(fs))
		floats.SubTo(diff, fs, qs)
		for i, d := range diff {
			diff[i] = math.Abs(d)
		}
		e.MaxAbsErr = floats.Max(diff)
		e.MeanAbsErr = stat.Mean(diff, nil)
	}

	if !math.IsInf(e.SQNR, 0) && !math.IsNaN(e.SQNR) {
		metrics.SQNR.Observe(e.SQNR)
	}
	logger.Log.Debug("compared tensor", "name", name, "sqnr_db", e.SQNR, "max_abs_err", e.MaxAbsErr)
	return e, nil
}

// SQNR returns the signal-to-quantization-noise ratio of q against f in dB:
// 20·log10(‖f‖ / ‖f − q‖).
func SQNR(f, q *tensor.Dense) (float64, error) {
	if !f.Shape().Equal(q.Shape()) {
		return 0, fmt.Errorf("sqnr: %w: %v vs %v", tensor.ErrShapeMismatch, f.Shape(), q.Shape())
	}
	return sqnr(toFloat64(f.Data()), toFloat64(q.Data())), nil
}

func sqnr(f, q []float64) float64 {
	noise := floats.Distance(f, q, 2)
	if noise == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(floats.Norm(f, 2)/noise)
}

// cosine is 1 for two zero vectors and 0 when exactly one is zero.
func cosine(f, q []float64) float64 {
	nf, nq := floats.Norm(f, 2), floats.Norm(q, 2)
	switch {
	case nf == 0 && nq == 0:
		return 1
	case nf == 0 || nq == 0:
		return 0
	}
	return floats.Dot(f, q) / (nf * nq)
}

// Worst returns the entries whose SQNR is below thresholdDB, worst first.
func Worst(entries []Entry, thresholdDB float64) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.SQNR < thresholdDB {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SQNR < out[j].SQNR })
	return out
}

func toFloat64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}
