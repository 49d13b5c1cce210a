package main

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/numsuite/internal/nn"
	"github.com/born-ml/numsuite/internal/tensor"
)

// Demo network dimensions.
const (
	inFeatures  = 4
	hidden      = 8
	outFeatures = 3

	calibrationRows = 64
)

// buildModels creates the float demo MLP and a quantized copy whose
// activation ranges are calibrated on a fixed batch:
//
//	quant -> fc1 -> relu -> fc2 -> dequant
//
// The same seed always yields the same pair.
func buildModels(seed uint64) (*nn.Sequential, *nn.Sequential, error) {
	src := rand.NewPCG(seed, seed)
	fc1 := nn.NewLinear(inFeatures, hidden, src)
	fc2 := nn.NewLinear(hidden, outFeatures, src)

	calib := randomInput(seed+1000, calibrationRows)
	inScale, inZP := qparamsOf(calib)

	h, err := fc1.Forward(calib)
	if err != nil {
		return nil, nil, fmt.Errorf("calibrate fc1: %w", err)
	}
	fc1Scale, fc1ZP := qparamsOf(h.Dequantize())

	y, err := fc2.Forward(tensor.ReLU(h.Dequantize()))
	if err != nil {
		return nil, nil, fmt.Errorf("calibrate fc2: %w", err)
	}
	fc2Scale, fc2ZP := qparamsOf(y.Dequantize())

	qfc1, err := nn.QuantizeLinear(fc1, fc1Scale, fc1ZP)
	if err != nil {
		return nil, nil, err
	}
	qfc2, err := nn.QuantizeLinear(fc2, fc2Scale, fc2ZP)
	if err != nil {
		return nil, nil, err
	}

	float := nn.NewNamedSequential(
		nn.Child{Name: "quant", Module: nn.NewQuantStub()},
		nn.Child{Name: "fc1", Module: fc1},
		nn.Child{Name: "relu", Module: nn.NewReLU()},
		nn.Child{Name: "fc2", Module: fc2},
		nn.Child{Name: "dequant", Module: nn.NewDeQuantStub()},
	)
	quant := nn.NewNamedSequential(
		nn.Child{Name: "quant", Module: nn.NewQuantize(inScale, inZP)},
		nn.Child{Name: "fc1", Module: qfc1},
		nn.Child{Name: "relu", Module: nn.NewQuantizedReLU()},
		nn.Child{Name: "fc2", Module: qfc2},
		nn.Child{Name: "dequant", Module: nn.NewDeQuantize()},
	)
	return float, quant, nil
}

// randomInput draws a [rows, inFeatures] batch uniformly from [-1, 1).
func randomInput(seed uint64, rows int) *tensor.Dense {
	dist := distuv.Uniform{Min: -1, Max: 1, Src: rand.NewPCG(seed, seed)}
	data := make([]float32, rows*inFeatures)
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	d, _ := tensor.FromSlice(data, tensor.Shape{rows, inFeatures})
	return d
}

func qparamsOf(d *tensor.Dense) (float32, int32) {
	lo, hi := float32(0), float32(0)
	for _, v := range d.Data() {
		lo, hi = min(lo, v), max(hi, v)
	}
	return tensor.ChooseQParams(lo, hi, tensor.QUInt8)
}
