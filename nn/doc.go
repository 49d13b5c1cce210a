// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the model graph used by numsuite: modules, containers
// and the float and quantized layers of a post-training-quantized network.
//
// # Overview
//
// This package contains:
//   - Graph: Module, Parent, ChildSetter, Sequential, TypeSet
//   - Float layers: Linear, ReLU, QuantStub, DeQuantStub, FloatFunctional
//   - Quantized layers: QuantizedLinear, QuantizedReLU, Quantize, DeQuantize, QFunctional
//   - Parameters: Parameter, StateDict, StateDictOf
//
// # Basic Usage
//
//	src := rand.NewPCG(42, 42)
//	fc1 := nn.NewLinear(4, 8, src)
//	fc2 := nn.NewLinear(8, 2, src)
//
//	float := nn.NewNamedSequential(
//	    nn.Child{Name: "quant", Module: nn.NewQuantStub()},
//	    nn.Child{Name: "fc1", Module: fc1},
//	    nn.Child{Name: "relu", Module: nn.NewReLU()},
//	    nn.Child{Name: "fc2", Module: fc2},
//	    nn.Child{Name: "dequant", Module: nn.NewDeQuantStub()},
//	)
//
// # Type Tags
//
// Swap lists and whitelists match modules by type tag. A module's tag is
// the result of its TypeName method if it has one, otherwise its Go type:
//
//	nn.TypeName(fc1)            // "*nn.Linear"
//	nn.TypeSetOf(&nn.Linear{})  // {"*nn.Linear"}
//	nn.NewTypeSet("Block")      // user containers implementing TypeName
package nn
