// Package main provides the numsuite CLI.
//
// It builds a small float MLP together with a calibrated quantized copy,
// runs the weight, per-module and activation comparisons and prints the
// error of every compared tensor.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/numsuite/internal/config"
	"github.com/born-ml/numsuite/internal/logger"
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/numeric"
	"github.com/born-ml/numsuite/internal/report"
	"github.com/born-ml/numsuite/internal/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("numsuite %s\n", version)
		return
	}

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, os.Stdout); err != nil {
		logger.Log.Error("numsuite failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (config.Config, error) {
	cfg := config.Default()
	fs := flag.NewFlagSet("numsuite", flag.ContinueOnError)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for weights and inputs")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "Rows per input batch")
	fs.IntVar(&cfg.Batches, "batches", cfg.Batches, "Number of input batches")
	fs.Float64Var(&cfg.SQNRWarnDB, "sqnr-warn", cfg.SQNRWarnDB, "Warn for tensors below this SQNR (dB)")
	fs.StringVar(&cfg.SafeTensorsPath, "safetensors", "", "Write compared tensors to this SafeTensors file")
	fs.StringVar(&cfg.ArrowPath, "arrow", "", "Write the report to this Arrow IPC stream file")
	fs.StringVar(&cfg.MetricsPath, "metrics", "", "Write a Prometheus metrics snapshot to this file")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

type comparison struct {
	kind string
	run  func(seed uint64, inputs []*tensor.Dense) (numeric.Comparison, error)
}

var comparisons = []comparison{
	{"weight", compareWeights},
	{"stub", compareStub},
	{"output", compareOutputs},
}

func run(cfg config.Config, out io.Writer) error {
	inputs := make([]*tensor.Dense, cfg.Batches)
	for i := range inputs {
		inputs[i] = randomInput(cfg.Seed+uint64(i)+1, cfg.BatchSize)
	}

	var entries []report.Entry
	for _, c := range comparisons {
		cmp, err := c.run(cfg.Seed, inputs)
		if err != nil {
			return fmt.Errorf("%s comparison: %w", c.kind, err)
		}
		built, err := report.Build(cmp)
		if err != nil {
			return fmt.Errorf("%s report: %w", c.kind, err)
		}
		for i := range built {
			built[i].Name = c.kind + "/" + built[i].Name
		}
		logger.Log.Info("comparison finished", "kind", c.kind, "tensors", len(built))
		entries = append(entries, built...)
	}

	if err := printTable(out, entries); err != nil {
		return err
	}
	for _, e := range report.Worst(entries, cfg.SQNRWarnDB) {
		logger.Log.Warn("low SQNR", "name", e.Name, "sqnr_db", e.SQNR, "threshold_db", cfg.SQNRWarnDB)
	}

	return export(cfg, entries)
}

func compareWeights(seed uint64, _ []*tensor.Dense) (numeric.Comparison, error) {
	float, quant, err := buildModels(seed)
	if err != nil {
		return nil, err
	}
	return numeric.CompareWeights(nn.StateDictOf(float), nn.StateDictOf(quant)), nil
}

func compareStub(seed uint64, inputs []*tensor.Dense) (numeric.Comparison, error) {
	float, quant, err := buildModels(seed)
	if err != nil {
		return nil, err
	}
	stats, err := numeric.CompareModelStub(float, quant, nn.TypeSetOf(&nn.Linear{}), inputs[0])
	if err != nil {
		return nil, err
	}
	if len(inputs) > 1 {
		for _, x := range inputs[1:] {
			if _, err := quant.Forward(x); err != nil {
				return nil, err
			}
		}
		stats = numeric.CollectStats(quant)
	}
	return stats.Pairs(), nil
}

func compareOutputs(seed uint64, inputs []*tensor.Dense) (numeric.Comparison, error) {
	float, quant, err := buildModels(seed)
	if err != nil {
		return nil, err
	}
	cmp, err := numeric.CompareModelOutputs(float, quant, inputs[0])
	if err != nil {
		return nil, err
	}
	if len(inputs) > 1 {
		for _, x := range inputs[1:] {
			if _, err := float.Forward(x); err != nil {
				return nil, err
			}
			if _, err := quant.Forward(x); err != nil {
				return nil, err
			}
		}
		cmp = numeric.MatchActivations(float, quant)
	}
	return cmp, nil
}

func printTable(out io.Writer, entries []report.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSHAPE\tSQNR(dB)\tMAX_ABS_ERR\tMEAN_ABS_ERR\tCOSINE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%v\t%.2f\t%.4g\t%.4g\t%.6f\n", e.Name, e.Shape, e.SQNR, e.MaxAbsErr, e.MeanAbsErr, e.Cosine)
	}
	return w.Flush()
}

func export(cfg config.Config, entries []report.Entry) error {
	if cfg.SafeTensorsPath != "" {
		meta := map[string]string{"generator": "numsuite " + version, "seed": fmt.Sprint(cfg.Seed)}
		if err := report.WriteSafeTensors(cfg.SafeTensorsPath, entries, meta); err != nil {
			return err
		}
		logger.Log.Info("wrote safetensors", "path", cfg.SafeTensorsPath)
	}
	if cfg.ArrowPath != "" {
		f, err := os.Create(cfg.ArrowPath)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if err := report.WriteArrow(f, entries); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Log.Info("wrote arrow stream", "path", cfg.ArrowPath)
	}
	if cfg.MetricsPath != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsPath, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
