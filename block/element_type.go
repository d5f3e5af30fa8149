package block

// Value is the closed set of primitive element types a block can hold.
type Value interface {
	bool | int32 | int64 | float64 | []byte
}

// ElementType identifies the primitive type of a block's values.
type ElementType int

const (
	// ElementNull is the type of blocks that hold only nulls.
	ElementNull ElementType = iota
	// ElementBool holds boolean values.
	ElementBool
	// ElementInt holds 32-bit integers.
	ElementInt
	// ElementLong holds 64-bit integers.
	ElementLong
	// ElementDouble holds 64-bit floats.
	ElementDouble
	// ElementBytes holds variable-width byte strings.
	ElementBytes
)

func (e ElementType) String() string {
	switch e {
	case ElementNull:
		return "null"
	case ElementBool:
		return "bool"
	case ElementInt:
		return "int"
	case ElementLong:
		return "long"
	case ElementDouble:
		return "double"
	case ElementBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// elementTypeOf maps a Go element type onto its ElementType tag.
func elementTypeOf[T Value]() ElementType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return ElementBool
	case int32:
		return ElementInt
	case int64:
		return ElementLong
	case float64:
		return ElementDouble
	case []byte:
		return ElementBytes
	}
	return ElementNull
}
