package numeric

import (
	"errors"
	"fmt"

	"github.com/born-ml/numsuite/internal/metrics"
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

// ErrArity is returned when a logger receives the wrong number of values.
var ErrArity = errors.New("numeric: wrong number of values for logger")

// Stats is the record kept by one logger: slot name to accumulated value.
// A nil value means the slot has not been recorded yet.
type Stats map[string]tensor.Tensor

// Logger is a passive recorder attached at one location of a model.
//
// Record appends one value per slot. Values from successive calls are
// concatenated along dimension 0 in call order. Accumulation never resets,
// so a logger must not be reused across comparison runs.
type Logger interface {
	nn.Module
	Record(values ...tensor.Tensor) error
	Stats() Stats
}

// LoggerFactory creates a fresh logger for one attachment point.
type LoggerFactory func() Logger

// ShadowLoggerFactory is the default LoggerFactory for CompareModelStub.
func ShadowLoggerFactory() Logger { return NewShadowLogger() }

// OutputLoggerFactory is the default LoggerFactory for CompareModelOutputs.
func OutputLoggerFactory() Logger { return NewOutputLogger() }

// accumulator implements slot bookkeeping for the logger variants.
type accumulator struct {
	kind  string
	slots []string
	stats Stats
}

func newAccumulator(kind string, slots ...string) accumulator {
	stats := make(Stats, len(slots))
	for _, s := range slots {
		stats[s] = nil
	}
	return accumulator{kind: kind, slots: slots, stats: stats}
}

// Record appends values to the slots, in slot order.
func (a *accumulator) Record(values ...tensor.Tensor) error {
	if len(values) != len(a.slots) {
		return fmt.Errorf("%s logger: %w: got %d, want %d", a.kind, ErrArity, len(values), len(a.slots))
	}

	next := make([]tensor.Tensor, len(values))
	for i, slot := range a.slots {
		prev := a.stats[slot]
		if prev == nil {
			next[i] = values[i]
			continue
		}
		joined, err := tensor.Cat([]tensor.Tensor{prev, values[i]}, 0)
		if err != nil {
			return fmt.Errorf("%s logger: slot %q: %w", a.kind, slot, err)
		}
		next[i] = joined
	}
	for i, slot := range a.slots {
		a.stats[slot] = next[i]
	}
	metrics.LoggerRecords.WithLabelValues(a.kind).Inc()
	return nil
}

// Stats returns a copy of the record.
func (a *accumulator) Stats() Stats {
	out := make(Stats, len(a.stats))
	for k, v := range a.stats {
		out[k] = v
	}
	return out
}

// ShadowLogger records the outputs of a quantized module and its float
// shadow. Slots: "quantized" and "float".
type ShadowLogger struct {
	accumulator
}

// NewShadowLogger creates an empty ShadowLogger.
func NewShadowLogger() *ShadowLogger {
	return &ShadowLogger{accumulator: newAccumulator("shadow", SlotQuantized, SlotFloat)}
}

// Forward is not supported: a ShadowLogger needs both outputs.
// Use Record(quantized, float).
func (l *ShadowLogger) Forward(tensor.Tensor) (tensor.Tensor, error) {
	return nil, fmt.Errorf("shadow logger: %w: Forward takes one value, use Record(quantized, float)", ErrArity)
}

// OutputLogger records the value flowing through it and passes it on
// unchanged. Slot: "tensor_val".
type OutputLogger struct {
	accumulator
}

// NewOutputLogger creates an empty OutputLogger.
func NewOutputLogger() *OutputLogger {
	return &OutputLogger{accumulator: newAccumulator("output", SlotTensorVal)}
}

// Forward records input and returns it.
func (l *OutputLogger) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	if err := l.Record(input); err != nil {
		return nil, err
	}
	return input, nil
}
