// Package config holds the run configuration of the numsuite CLI.
package config

import (
	"fmt"
	"math"
	"strings"
)

// Config is the run configuration assembled from command-line flags.
type Config struct {
	LogLevel  string
	LogFormat string

	// Seed drives weight initialization and input generation.
	Seed      uint64
	BatchSize int
	Batches   int

	// SQNRWarnDB flags comparison entries whose SQNR falls below it.
	SQNRWarnDB float64

	SafeTensorsPath string
	ArrowPath       string
	// MetricsPath receives a Prometheus text-format snapshot after the run.
	MetricsPath string
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		LogLevel:   "info",
		LogFormat:  "console",
		Seed:       1,
		BatchSize:  8,
		Batches:    1,
		SQNRWarnDB: 20,
	}
}

// Validate reports the first invalid or conflicting setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q (want debug, info, warn or error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format: %q (want console or json)", c.LogFormat)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("invalid batch_size: %d (must be positive)", c.BatchSize)
	}
	if c.Batches <= 0 {
		return fmt.Errorf("invalid batches: %d (must be positive)", c.Batches)
	}
	if math.IsNaN(c.SQNRWarnDB) || math.IsInf(c.SQNRWarnDB, 0) {
		return fmt.Errorf("invalid sqnr_warn_db: %v (must be finite)", c.SQNRWarnDB)
	}
	outputs := make(map[string]bool)
	for _, p := range []string{c.SafeTensorsPath, c.ArrowPath, c.MetricsPath} {
		if p == "" {
			continue
		}
		if outputs[p] {
			return fmt.Errorf("output paths must differ: %q used twice", p)
		}
		outputs[p] = true
	}
	return nil
}
