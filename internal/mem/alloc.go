package mem

import (
	"unsafe"
)

// Alignment is the byte alignment used for value buffers (64 bytes, one
// cache line, and the alignment required for AVX-512 loads).
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte
// alignment. The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size == 0 {
		return nil
	}

	// Over-allocate so an aligned start offset always exists.
	buf := make([]byte, size+Alignment)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // required for alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedSlice allocates a slice of n fixed-width elements backed by a
// 64-byte aligned buffer. T must not contain pointers; it is intended for
// the primitive element types of the columnar layer.
func AllocAlignedSlice[T any](n int) []T {
	if n <= 0 {
		return nil
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	buf := AllocAligned(n * elemSize)

	ptr := unsafe.Pointer(&buf[0])    //nolint:gosec // required for alignment
	return unsafe.Slice((*T)(ptr), n) //nolint:gosec // buf is 64-byte aligned
}

// SliceFromBytes reinterprets buf as a slice of n elements of type T. The
// buffer must be at least n*sizeof(T) bytes and aligned for T; T must not
// contain pointers. The caller keeps buf alive for the lifetime of the
// returned slice.
func SliceFromBytes[T any](buf []byte, n int) []T {
	if n <= 0 || len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n) //nolint:gosec // caller guarantees size and alignment
}
