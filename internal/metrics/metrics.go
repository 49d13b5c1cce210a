// Package metrics holds the Prometheus collectors exported by numsuite.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ShadowsAttached = promauto.NewCounter(prometheus.CounterOpts{
		Name: "numsuite_shadows_attached_total",
		Help: "Quantized modules replaced by a shadow wrapper",
	})

	LoggersAttached = promauto.NewCounter(prometheus.CounterOpts{
		Name: "numsuite_loggers_attached_total",
		Help: "Activation loggers attached to whitelisted modules",
	})

	LoggerRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numsuite_logger_records_total",
		Help: "Values accumulated by stat loggers",
	}, []string{"logger"})

	NameMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numsuite_name_matches_total",
		Help: "Float/quantized name matching outcomes",
	}, []string{"kind", "result"})

	SQNR = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "numsuite_sqnr_db",
		Help:    "Signal-to-quantization-noise ratio of compared tensors",
		Buckets: []float64{0, 5, 10, 15, 20, 25, 30, 40, 50, 60},
	})
)

// RecordMatch counts one matching outcome.
func RecordMatch(kind string, matched bool) {
	result := "unmatched"
	if matched {
		result = "matched"
	}
	NameMatches.WithLabelValues(kind, result).Inc()
}
