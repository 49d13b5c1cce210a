package tensor

import "fmt"

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same rank and the same shape except along the
// concatenation dimension. Dense tensors concatenate to a Dense tensor.
// Quantized tensors concatenate to a Quantized tensor only when they share
// dtype, scale and zero point. Mixing representations is an error.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2})
//	b, _ := tensor.FromSlice([]float32{3, 4, 5, 6}, tensor.Shape{2, 2})
//	c, _ := tensor.Cat([]tensor.Tensor{a, b}, 0) // Shape: [3, 2]
func Cat(tensors []Tensor, dim int) (Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("cat: at least one tensor required")
	}

	shapes := make([]Shape, len(tensors))
	for i, t := range tensors {
		shapes[i] = t.Shape()
	}
	outShape, dim, err := catShape(shapes, dim)
	if err != nil {
		return nil, err
	}

	switch first := tensors[0].(type) {
	case *Dense:
		parts := make([][]float32, len(tensors))
		for i, t := range tensors {
			d, ok := t.(*Dense)
			if !ok {
				return nil, fmt.Errorf("cat: %w: tensor %d is %s, want %s", ErrDTypeMismatch, i, t.DType(), Float32)
			}
			parts[i] = d.data
		}
		return &Dense{shape: outShape, data: catParts(parts, shapes, dim)}, nil

	case *Quantized:
		parts := make([][]int32, len(tensors))
		for i, t := range tensors {
			q, ok := t.(*Quantized)
			if !ok || !first.sameQParams(q) {
				return nil, fmt.Errorf("cat: %w: tensor %d does not share quantization parameters with tensor 0", ErrDTypeMismatch, i)
			}
			parts[i] = q.data
		}
		return &Quantized{
			shape:     outShape,
			data:      catParts(parts, shapes, dim),
			dtype:     first.dtype,
			scale:     first.scale,
			zeroPoint: first.zeroPoint,
		}, nil

	default:
		return nil, fmt.Errorf("cat: unsupported tensor type %T", first)
	}
}

// catShape validates shapes for concatenation and returns the result shape
// together with the normalized dimension.
func catShape(shapes []Shape, dim int) (Shape, int, error) {
	rank := len(shapes[0])
	dim, err := normalizeDim(dim, rank)
	if err != nil {
		return nil, 0, fmt.Errorf("cat: %w", err)
	}

	out := shapes[0].Clone()
	for i, s := range shapes[1:] {
		if len(s) != rank {
			return nil, 0, fmt.Errorf("cat: %w: rank %d vs %d at tensor %d", ErrShapeMismatch, len(s), rank, i+1)
		}
		for d := range s {
			if d != dim && s[d] != out[d] {
				return nil, 0, fmt.Errorf("cat: %w: %v vs %v at tensor %d", ErrShapeMismatch, s, shapes[0], i+1)
			}
		}
		out[dim] += s[dim]
	}
	return out, dim, nil
}

// catParts interleaves row-major buffers so that the result is their
// concatenation along dim.
func catParts[T float32 | int32](parts [][]T, shapes []Shape, dim int) []T {
	outer := 1
	for _, d := range shapes[0][:dim] {
		outer *= d
	}
	inner := shapes[0].ComputeStrides()[dim]

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]T, 0, total)
	for o := 0; o < outer; o++ {
		for i, p := range parts {
			chunk := shapes[i][dim] * inner
			out = append(out, p[o*chunk:(o+1)*chunk]...)
		}
	}
	return out
}
