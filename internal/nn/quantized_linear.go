package nn

import (
	"fmt"

	"github.com/born-ml/numsuite/internal/tensor"
)

// QuantizedLinear is the quantized counterpart of Linear.
//
// The weight is stored as a symmetric qint8 tensor and the output is
// requantized to quint8 with the layer's own scale and zero point. The
// arithmetic runs on dequantized values, which reproduces the rounding a
// real integer kernel would introduce.
type QuantizedLinear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // qint8 [out_features, in_features]
	bias        *Parameter // float32 [out_features]
	scale       float32
	zeroPoint   int32
}

// QuantizeLinear derives a QuantizedLinear from a float Linear.
//
// outScale and outZeroPoint are the quint8 parameters of the layer output.
func QuantizeLinear(l *Linear, outScale float32, outZeroPoint int32) (*QuantizedLinear, error) {
	w := l.WeightTensor()
	var maxAbs float32
	for _, v := range w.Data() {
		maxAbs = max(maxAbs, v, -v)
	}
	wScale := maxAbs / 127
	if wScale == 0 {
		wScale = 1
	}
	qw, err := tensor.Quantize(w, tensor.QInt8, wScale, 0)
	if err != nil {
		return nil, fmt.Errorf("quantize weight: %w", err)
	}
	if _, err := tensor.Quantize(tensor.Zeros(tensor.Shape{1}), tensor.QUInt8, outScale, outZeroPoint); err != nil {
		return nil, fmt.Errorf("output qparams: %w", err)
	}

	q := &QuantizedLinear{
		inFeatures:  l.inFeatures,
		outFeatures: l.outFeatures,
		weight:      NewParameter("weight", qw),
		scale:       outScale,
		zeroPoint:   outZeroPoint,
	}
	if b := l.biasTensor(); b != nil {
		q.bias = NewParameter("bias", b.Clone())
	}
	return q, nil
}

// Forward computes the quantized linear transform. The input must be quantized.
func (q *QuantizedLinear) Forward(input tensor.Tensor) (tensor.Tensor, error) {
	x, ok := input.(*tensor.Quantized)
	if !ok {
		return nil, fmt.Errorf("QuantizedLinear.Forward: %w: got %s, want a quantized tensor", ErrUnsupportedInput, input.DType())
	}
	var bias *tensor.Dense
	if q.bias != nil {
		bias = q.bias.Tensor().Dequantize()
	}
	y, err := tensor.Linear(x.Dequantize(), q.weight.Tensor().Dequantize(), bias)
	if err != nil {
		return nil, err
	}
	return tensor.Quantize(y, tensor.QUInt8, q.scale, q.zeroPoint)
}

// Weight returns the quantized weight parameter.
func (q *QuantizedLinear) Weight() *Parameter {
	return q.weight
}

// Scale returns the output scale.
func (q *QuantizedLinear) Scale() float32 {
	return q.scale
}

// ZeroPoint returns the output zero point.
func (q *QuantizedLinear) ZeroPoint() int32 {
	return q.zeroPoint
}

// StateDict returns the quantized weight, bias and output qparams.
func (q *QuantizedLinear) StateDict() StateDict {
	sd := StateDict{
		"weight":     q.weight.Tensor(),
		"scale":      tensor.Scalar(q.scale),
		"zero_point": tensor.Scalar(float32(q.zeroPoint)),
	}
	if q.bias != nil {
		sd["bias"] = q.bias.Tensor()
	}
	return sd
}
