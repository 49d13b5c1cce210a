package numeric

import (
	"errors"
	"fmt"

	"github.com/born-ml/numsuite/internal/logger"
	"github.com/born-ml/numsuite/internal/metrics"
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

// ErrNotMutable is returned when a quantized parent cannot accept a
// substituted child.
var ErrNotMutable = errors.New("numeric: module cannot replace its children")

// AttachShadows walks float and q in lockstep, pairing children by name,
// and replaces every quantized child whose float counterpart's type is in
// swap with a Shadow of the two. Shadowed subtrees are not descended into.
//
// Quantized children with no float counterpart are skipped. The whole
// tree is scanned before anything is replaced, so the walk always sees the
// original child set and a parent that cannot replace children fails with
// ErrNotMutable while q is still untouched. q is modified in place.
func AttachShadows(float, q nn.Module, swap nn.TypeSet, newLogger LoggerFactory) error {
	if newLogger == nil {
		newLogger = ShadowLoggerFactory
	}
	var plan []substitution
	if err := planShadows(float, q, "", swap, &plan); err != nil {
		return err
	}
	for _, s := range plan {
		if err := s.parent.SetChild(s.name, NewShadow(s.q, s.float, newLogger)); err != nil {
			return err
		}
		metrics.ShadowsAttached.Inc()
		logger.Log.Debug("shadow attached", "path", s.path, "float", nn.TypeName(s.float), "quantized", nn.TypeName(s.q))
	}
	return nil
}

// substitution is a quantized child scheduled to be shadowed.
type substitution struct {
	parent   nn.ChildSetter
	path     string
	name     string
	q, float nn.Module
}

func planShadows(float, q nn.Module, path string, swap nn.TypeSet, plan *[]substitution) error {
	floatChildren := make(map[string]nn.Module)
	for _, c := range nn.Children(float) {
		floatChildren[c.Name] = c.Module
	}

	var setter nn.ChildSetter
	for _, c := range nn.Children(q) {
		f, ok := floatChildren[c.Name]
		if !ok {
			continue
		}
		childPath := joinPath(path, c.Name)
		if !swap.Contains(f) {
			if err := planShadows(f, c.Module, childPath, swap, plan); err != nil {
				return err
			}
			continue
		}
		if setter == nil {
			if setter, ok = q.(nn.ChildSetter); !ok {
				return fmt.Errorf("%w: %q (%s)", ErrNotMutable, path, nn.TypeName(q))
			}
		}
		*plan = append(*plan, substitution{parent: setter, path: childPath, name: c.Name, q: c.Module, float: f})
	}
	return nil
}

// CompareModelStub shadows the quantized modules of q whose float
// counterparts have a type in swap, runs q once on input and returns the
// stats of every shadow logger, keyed "<path>.stats".
//
// The default logger is a ShadowLogger, whose records hold "float" and
// "quantized" slots; StatsDict.Pairs turns them into a Comparison.
// q is modified in place; float is only evaluated through the shadows.
func CompareModelStub(float, q nn.Module, swap nn.TypeSet, input tensor.Tensor, opts ...Option) (StatsDict, error) {
	o := buildOptions(ShadowLoggerFactory, opts)
	if err := AttachShadows(float, q, swap, o.newLogger); err != nil {
		return nil, err
	}
	if _, err := q.Forward(input); err != nil {
		return nil, err
	}
	return CollectStats(q), nil
}
