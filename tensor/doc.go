// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor types exchanged by numsuite models and
// comparators.
//
// # Overview
//
// Two representations implement the Tensor interface:
//   - Dense: row-major float32 storage
//   - Quantized: per-tensor affine integer storage (quint8, qint8)
//
// Every tensor can be dequantized to a Dense tensor; a Dense tensor
// dequantizes to itself.
//
// # Basic Usage
//
//	x, err := tensor.FromSlice([]float32{0.1, -0.4, 0.9, 0.2}, tensor.Shape{2, 2})
//	if err != nil {
//	    return err
//	}
//
//	scale, zp := tensor.ChooseQParams(-0.4, 0.9, tensor.QUInt8)
//	q, err := tensor.Quantize(x, tensor.QUInt8, scale, zp)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(q.IntRepr(), q.Dequantize().Data())
//
// # Concatenation
//
// Cat joins tensors along one dimension. Dense tensors concatenate to a Dense
// tensor; quantized tensors concatenate only when they share dtype, scale
// and zero point.
package tensor
