package numeric

import (
	"sort"

	"github.com/born-ml/numsuite/internal/logger"
	"github.com/born-ml/numsuite/internal/metrics"
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/quant"
	"github.com/born-ml/numsuite/internal/tensor"
)

// Option configures CompareModelStub and CompareModelOutputs.
type Option func(*options)

type options struct {
	newLogger LoggerFactory
	whitelist nn.TypeSet
}

// WithLogger selects the logger created at every attachment point.
func WithLogger(f LoggerFactory) Option {
	return func(o *options) { o.newLogger = f }
}

// WithWhitelist selects the module types observed by CompareModelOutputs.
func WithWhitelist(whitelist nn.TypeSet) Option {
	return func(o *options) { o.whitelist = whitelist }
}

func buildOptions(defaultLogger LoggerFactory, opts []Option) options {
	o := options{newLogger: defaultLogger}
	for _, opt := range opts {
		opt(&o)
	}
	if o.newLogger == nil {
		o.newLogger = defaultLogger
	}
	if o.whitelist == nil {
		o.whitelist = quant.DefaultOutputWhitelist()
	}
	return o
}

// StatsDict maps "<module path>.stats" to the record of the logger
// attached at that module.
type StatsDict map[string]Stats

// Pairs converts shadow records into a Comparison. Records missing either
// the "float" or the "quantized" slot are left out.
func (d StatsDict) Pairs() Comparison {
	out := make(Comparison, len(d))
	for key, st := range d {
		f, q := st[SlotFloat], st[SlotQuantized]
		if f == nil || q == nil {
			continue
		}
		out[key] = Pair{Float: f, Quantized: q}
	}
	return out
}

// CollectStats gathers the records of all loggers under root.
//
// A module with a Logger child contributes one entry keyed by its own
// path plus ".stats" (just "stats" at the root); the first such child
// wins. Loggers themselves are not descended into.
func CollectStats(root nn.Module) StatsDict {
	out := make(StatsDict)
	collectStats(root, "", out)
	return out
}

func collectStats(m nn.Module, prefix string, out StatsDict) {
	children := nn.Children(m)
	for _, c := range children {
		if l, ok := c.Module.(Logger); ok {
			out[joinPath(prefix, StatsSuffix)] = l.Stats()
			break
		}
	}
	for _, c := range children {
		if _, ok := c.Module.(Logger); ok {
			continue
		}
		collectStats(c.Module, joinPath(prefix, c.Name), out)
	}
}

// AttachOutputLoggers attaches a fresh logger to every whitelisted leaf of
// both models. The logger is installed as the module's activation observer,
// so it sees the module output on each forward pass.
//
// Both trees are modified in place; the returned roots differ from the
// inputs only when a root is itself a whitelisted leaf.
func AttachOutputLoggers(float, q nn.Module, newLogger LoggerFactory, whitelist nn.TypeSet) (nn.Module, nn.Module, error) {
	if newLogger == nil {
		newLogger = OutputLoggerFactory
	}
	cfg := quant.QConfig{Activation: func() nn.Module {
		metrics.LoggersAttached.Inc()
		return newLogger()
	}}

	floatRoot, err := quant.Prepare(float, cfg, whitelist)
	if err != nil {
		return nil, nil, err
	}
	qRoot, err := quant.Prepare(q, cfg, whitelist)
	if err != nil {
		return nil, nil, err
	}
	return floatRoot, qRoot, nil
}

// CompareModelOutputs logs the outputs of whitelisted modules in both
// models, runs each model once on input and pairs the activations at
// matching locations. Keys are the quantized model's stats keys.
//
// Loggers must record into the "tensor_val" slot (OutputLogger does).
// Both trees are modified in place.
func CompareModelOutputs(float, q nn.Module, input tensor.Tensor, opts ...Option) (Comparison, error) {
	o := buildOptions(OutputLoggerFactory, opts)
	floatRoot, qRoot, err := AttachOutputLoggers(float, q, o.newLogger, o.whitelist)
	if err != nil {
		return nil, err
	}
	if _, err := floatRoot.Forward(input); err != nil {
		return nil, err
	}
	if _, err := qRoot.Forward(input); err != nil {
		return nil, err
	}
	return MatchActivations(floatRoot, qRoot), nil
}

// MatchActivations pairs the logged "tensor_val" records of q with those of
// float. Float stats keys are tried in reverse-sorted order; records with
// an empty slot on either side are left out.
func MatchActivations(float, q nn.Module) Comparison {
	floatStats := CollectStats(float)
	qStats := CollectStats(q)

	candidates := sortedKeys(floatStats)
	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))

	out := make(Comparison)
	for _, key := range sortedKeys(qStats) {
		match, ok := FindMatch(candidates, key, StatsSuffix)
		metrics.RecordMatch("activation", ok)
		if !ok {
			logger.Log.Debug("activation has no float counterpart", "name", key)
			continue
		}
		f := floatStats[match][SlotTensorVal]
		qv := qStats[key][SlotTensorVal]
		if f == nil || qv == nil {
			continue
		}
		out[key] = Pair{Float: f, Quantized: qv}
	}
	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
