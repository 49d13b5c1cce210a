package report

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Arrow column order of WriteArrow.
const (
	colName = iota
	colSQNR
	colMaxAbsErr
	colMeanAbsErr
	colCosine
	colFloat
	colQuantized
)

// Schema is the Arrow schema written by WriteArrow. The float and quantized
// columns hold the flattened tensors.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "name", Type: arrow.BinaryTypes.String},
	{Name: "sqnr_db", Type: arrow.PrimitiveTypes.Float64},
	{Name: "max_abs_err", Type: arrow.PrimitiveTypes.Float64},
	{Name: "mean_abs_err", Type: arrow.PrimitiveTypes.Float64},
	{Name: "cosine", Type: arrow.PrimitiveTypes.Float64},
	{Name: "float", Type: arrow.ListOf(arrow.PrimitiveTypes.Float32)},
	{Name: "quantized", Type: arrow.ListOf(arrow.PrimitiveTypes.Float32)},
}, nil)

// WriteArrow writes entries to w as a single-batch Arrow IPC stream.
func WriteArrow(w io.Writer, entries []Entry) error {
	return writeArrow(w, entries, memory.NewGoAllocator())
}

func writeArrow(w io.Writer, entries []Entry, mem memory.Allocator) error {
	b := array.NewRecordBuilder(mem, Schema)
	defer b.Release()
	b.Reserve(len(entries))

	names := b.Field(colName).(*array.StringBuilder)
	sqnr := b.Field(colSQNR).(*array.Float64Builder)
	maxErr := b.Field(colMaxAbsErr).(*array.Float64Builder)
	meanErr := b.Field(colMeanAbsErr).(*array.Float64Builder)
	cos := b.Field(colCosine).(*array.Float64Builder)
	floatVals := b.Field(colFloat).(*array.ListBuilder)
	quantVals := b.Field(colQuantized).(*array.ListBuilder)

	for _, e := range entries {
		names.Append(e.Name)
		sqnr.Append(e.SQNR)
		maxErr.Append(e.MaxAbsErr)
		meanErr.Append(e.MeanAbsErr)
		cos.Append(e.Cosine)
		appendList(floatVals, e.Float.Data())
		appendList(quantVals, e.Quantized.Data())
	}

	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(Schema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return fmt.Errorf("arrow: write record: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("arrow: close stream: %w", err)
	}
	return nil
}

func appendList(b *array.ListBuilder, data []float32) {
	b.Append(true)
	b.ValueBuilder().(*array.Float32Builder).AppendValues(data, nil)
}
