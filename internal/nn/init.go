package nn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/numsuite/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// src seeds the draw; a nil src uses gonum's global source.
func Xavier(fanIn, fanOut int, shape tensor.Shape, src rand.Source) *tensor.Dense {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: src}

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	return t
}
