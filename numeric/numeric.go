// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package numeric

import (
	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/numeric"
	"github.com/born-ml/numsuite/internal/tensor"
)

// Stat slot names.
const (
	SlotFloat     = numeric.SlotFloat
	SlotQuantized = numeric.SlotQuantized
	SlotTensorVal = numeric.SlotTensorVal
)

// Errors returned by the suite.
var (
	ErrArity      = numeric.ErrArity
	ErrNotMutable = numeric.ErrNotMutable
)

// Pair holds corresponding float and quantized values.
type Pair = numeric.Pair

// Comparison maps a quantized-model name to its float/quantized pair.
type Comparison = numeric.Comparison

// Stats is the record of one logger.
type Stats = numeric.Stats

// StatsDict maps "<module path>.stats" to a logger record.
type StatsDict = numeric.StatsDict

// Logger records values at one location of a model.
type Logger = numeric.Logger

// LoggerFactory creates a fresh Logger per attachment point.
type LoggerFactory = numeric.LoggerFactory

// ShadowLogger records quantized and float outputs of a Shadow.
type ShadowLogger = numeric.ShadowLogger

// OutputLogger records the value flowing through it.
type OutputLogger = numeric.OutputLogger

// Shadow runs a quantized module alongside its float original.
type Shadow = numeric.Shadow

// Option configures CompareModelStub and CompareModelOutputs.
type Option = numeric.Option

// NewShadowLogger creates an empty ShadowLogger.
func NewShadowLogger() *ShadowLogger {
	return numeric.NewShadowLogger()
}

// NewOutputLogger creates an empty OutputLogger.
func NewOutputLogger() *OutputLogger {
	return numeric.NewOutputLogger()
}

// NewShadow wraps q with its float counterpart f.
func NewShadow(q, f nn.Module, newLogger LoggerFactory) *Shadow {
	return numeric.NewShadow(q, f, newLogger)
}

// WithLogger selects the logger created at every attachment point.
func WithLogger(f LoggerFactory) Option {
	return numeric.WithLogger(f)
}

// WithWhitelist selects the module types observed by CompareModelOutputs.
func WithWhitelist(whitelist nn.TypeSet) Option {
	return numeric.WithWhitelist(whitelist)
}

// FindMatch returns the first candidate corresponding to target.
func FindMatch(candidates []string, target, suffix string) (string, bool) {
	return numeric.FindMatch(candidates, target, suffix)
}

// CompareWeights pairs quantized weights with their float originals.
func CompareWeights(floatDict, quantizedDict nn.StateDict) Comparison {
	return numeric.CompareWeights(floatDict, quantizedDict)
}

// AttachShadows replaces quantized modules whose float counterparts have a
// type in swap with shadows.
func AttachShadows(float, q nn.Module, swap nn.TypeSet, newLogger LoggerFactory) error {
	return numeric.AttachShadows(float, q, swap, newLogger)
}

// CompareModelStub shadows selected modules, runs q once and returns the
// shadow records.
func CompareModelStub(float, q nn.Module, swap nn.TypeSet, input tensor.Tensor, opts ...Option) (StatsDict, error) {
	return numeric.CompareModelStub(float, q, swap, input, opts...)
}

// AttachOutputLoggers attaches output loggers to whitelisted leaves of both
// models.
func AttachOutputLoggers(float, q nn.Module, newLogger LoggerFactory, whitelist nn.TypeSet) (nn.Module, nn.Module, error) {
	return numeric.AttachOutputLoggers(float, q, newLogger, whitelist)
}

// CompareModelOutputs logs and pairs the activations of both models.
func CompareModelOutputs(float, q nn.Module, input tensor.Tensor, opts ...Option) (Comparison, error) {
	return numeric.CompareModelOutputs(float, q, input, opts...)
}

// CollectStats gathers the records of all loggers under root.
func CollectStats(root nn.Module) StatsDict {
	return numeric.CollectStats(root)
}

// MatchActivations pairs the output records of q with those of float.
func MatchActivations(float, q nn.Module) Comparison {
	return numeric.MatchActivations(float, q)
}
