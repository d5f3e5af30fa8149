package block

import (
	"fmt"

	"github.com/quarrydb/quarry/internal/mem"
	"github.com/quarrydb/quarry/internal/mmap"
)

// Vector is a flat, immutable, strictly 1:1 ordered sequence of one
// primitive type: position i holds exactly value i, with no nulls and no
// multi-valued entries. Vectors are reference counted jointly with the
// block that owns them and are only created by a factory's builders.
type Vector[T Value] struct {
	refCounted

	factory *Factory
	values  []T
	// mapping is non-nil when values live in an off-heap anonymous
	// mapping; it is unmapped on teardown.
	mapping  *mmap.Mapping
	ramBytes int64
}

func newVector[T Value](f *Factory, values []T, mapping *mmap.Mapping, ramBytes int64) *Vector[T] {
	v := &Vector[T]{
		factory:  f,
		values:   values,
		mapping:  mapping,
		ramBytes: ramBytes,
	}
	v.init()
	return v
}

// Get returns the value at index i.
func (v *Vector[T]) Get(i int) T {
	v.ensureAlive()
	return v.values[i]
}

// Len returns the number of values.
func (v *Vector[T]) Len() int {
	return len(v.values)
}

// ElementType returns the primitive type of the values.
func (v *Vector[T]) ElementType() ElementType {
	return elementTypeOf[T]()
}

// RAMBytesUsed returns the byte footprint charged for this vector.
func (v *Vector[T]) RAMBytesUsed() int64 {
	return v.ramBytes
}

// IncRef adds a reference. Panics with ErrReleased after teardown.
func (v *Vector[T]) IncRef() {
	v.incRef()
}

// Release drops a reference. Dropping the last one tears the vector down
// exactly once: the footprint is credited back to the factory's budget and
// any off-heap mapping is unmapped.
func (v *Vector[T]) Release() {
	if v.decRef() {
		v.closeInternal()
	}
}

// AllowPassingToDifferentDriver marks the vector safe to be consumed by a
// different driver goroutine than the one that produced it. Cross-driver
// use without this call is undefined behavior.
func (v *Vector[T]) AllowPassingToDifferentDriver() {
	v.markShared()
}

func (v *Vector[T]) closeInternal() {
	v.factory.release(v.ramBytes)
	if v.mapping != nil {
		_ = v.mapping.Close()
		v.mapping = nil
	}
	v.values = nil
}

func (v *Vector[T]) String() string {
	return fmt.Sprintf("Vector[%s len=%d]", v.ElementType(), len(v.values))
}

// vectorRAMBytes estimates the footprint of a value buffer, including the
// content of variable-width values.
func vectorRAMBytes[T Value](values []T) int64 {
	bytes := mem.ObjectHeaderBytes + mem.SliceHeaderBytes
	if elementTypeOf[T]() == ElementBytes {
		for _, v := range values {
			bytes += mem.SizeOf(v)
		}
		return bytes
	}
	var zero T
	return bytes + int64(len(values))*mem.SizeOf(zero)
}
