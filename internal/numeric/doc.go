// Package numeric compares a float model with its quantized counterpart.
//
// Three entry points cover the usual debugging questions:
//
//   - CompareWeights pairs float and quantized parameters by name.
//   - CompareModelStub shadows selected quantized modules with their float
//     originals, feeding both the same (dequantized) input, which isolates
//     per-module error.
//   - CompareModelOutputs logs the activations of whitelisted modules in
//     both models, which shows how error propagates through the network.
//
// Every result maps a name in the quantized model to a float/quantized
// pair. Names without a counterpart are left out rather than reported as
// errors.
//
// Loggers accumulate across forward passes and are not synchronized.
// Prepare fresh models (and therefore fresh loggers) for every comparison
// run, and do not evaluate a prepared model from several goroutines.
package numeric
