package report

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/born-ml/numsuite/internal/tensor"
)

// safeTensorHeader describes one tensor in the SafeTensors header.
type safeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// WriteSafeTensors stores both sides of every entry in a SafeTensors file,
// as "<name>.float" and "<name>.quantized" (F32, dequantized).
//
// Format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]
//
// Tensors are written in alphabetical order by name.
func WriteSafeTensors(path string, entries []Entry, metadata map[string]string) error {
	tensors := make(map[string][]float32, 2*len(entries))
	shapes := make(map[string][]int64, 2*len(entries))
	for _, e := range entries {
		shape := make([]int64, len(e.Shape))
		for i, dim := range e.Shape {
			shape[i] = int64(dim)
		}
		for suffix, d := range map[string][]float32{"float": e.Float.Data(), "quantized": e.Quantized.Data()} {
			name := e.Name + "." + suffix
			if _, dup := tensors[name]; dup {
				return fmt.Errorf("safetensors: duplicate tensor %q", name)
			}
			tensors[name] = d
			shapes[name] = shape
		}
	}

	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]interface{}, len(names)+1)
	if len(metadata) > 0 {
		header["__metadata__"] = metadata
	}
	var offset int64
	for _, name := range names {
		size := int64(len(tensors[name]) * tensor.Float32.Size())
		header[name] = safeTensorHeader{
			DType:       "F32",
			Shape:       shapes[name],
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	//nolint:gosec // G304: output path is chosen by the user
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := binary.Write(file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := file.Write(headerJSON); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, name := range names {
		if _, err := file.Write(float32Bytes(tensors[name])); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write tensor %s: %w", name, err)
		}
	}
	return file.Close()
}

func float32Bytes(data []float32) []byte {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}
