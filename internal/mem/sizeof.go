package mem

import "unsafe"

// Shallow sizes of primitive element types in bytes.
const (
	SizeOfBool    = 1
	SizeOfInt32   = 4
	SizeOfInt64   = 8
	SizeOfFloat64 = 8
)

// Fixed overheads used in footprint estimates.
const (
	// SliceHeaderBytes is the shallow size of a Go slice header.
	SliceHeaderBytes = int64(unsafe.Sizeof([]byte(nil)))

	// PointerBytes is the shallow size of a pointer.
	PointerBytes = int64(unsafe.Sizeof(uintptr(0)))

	// ObjectHeaderBytes approximates the fixed per-object overhead charged
	// for every tracked container (vector, block, builder).
	ObjectHeaderBytes = int64(64)
)

// SizeOf returns the shallow size in bytes of a single element value.
// Variable-width values ([]byte) are charged their current length plus a
// slice header.
func SizeOf[T any](v T) int64 {
	switch x := any(v).(type) {
	case bool:
		return SizeOfBool
	case int32:
		return SizeOfInt32
	case int64:
		return SizeOfInt64
	case float64:
		return SizeOfFloat64
	case []byte:
		return SliceHeaderBytes + int64(len(x))
	default:
		return int64(unsafe.Sizeof(v))
	}
}

// SizeOfSlice returns the footprint of a slice of fixed-width elements with
// the given capacity.
func SizeOfSlice(capacity int, elemSize int64) int64 {
	return SliceHeaderBytes + int64(capacity)*elemSize
}
