// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package numeric is the public entry point of the numeric suite: tools
// that locate where a quantized model diverges from its float original.
//
// # Weights
//
//	cmp := numeric.CompareWeights(nn.StateDictOf(float), nn.StateDictOf(quant))
//	for _, name := range cmp.Names() {
//	    fmt.Println(name, cmp[name].Float.Shape())
//	}
//
// # Per-module error
//
// CompareModelStub replaces selected quantized modules with shadows that
// also run the float module on the dequantized input:
//
//	stats, err := numeric.CompareModelStub(float, quant, nn.TypeSetOf(&nn.Linear{}), input)
//	pairs := stats.Pairs()
//
// # Propagated error
//
// CompareModelOutputs logs the outputs of whitelisted modules of both
// models and pairs them by location:
//
//	cmp, err := numeric.CompareModelOutputs(float, quant, input)
//
// All three calls modify the models they are given. Build fresh models for
// every run.
package numeric
