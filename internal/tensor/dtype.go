// Package tensor provides the dense and quantized tensor values that flow
// between numsuite modules.
package tensor

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	QUInt8
	QInt8
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case QUInt8, QInt8:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case QUInt8:
		return "quint8"
	case QInt8:
		return "qint8"
	default:
		return "unknown"
	}
}

// IsQuantized reports whether values of this type carry scale and zero point.
func (dt DataType) IsQuantized() bool {
	return dt == QUInt8 || dt == QInt8
}

// QRange returns the representable integer range of a quantized data type.
func (dt DataType) QRange() (qmin, qmax int32) {
	switch dt {
	case QUInt8:
		return 0, 255
	case QInt8:
		return -128, 127
	default:
		panic("QRange: " + dt.String() + " is not a quantized type")
	}
}
