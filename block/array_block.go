package block

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// ArrayBlock is the general block representation: a vector plus an optional
// offset table and null mask. When the offset table is nil the block is
// strictly 1:1 and null-free, and AsVector returns a zero-copy view.
type ArrayBlock[T Value] struct {
	refCounted

	factory       *Factory
	vec           *Vector[T]
	positionCount int

	// firstValueIndexes has positionCount+1 entries when present:
	// non-decreasing, starting at 0 and ending at vec.Len(). Null
	// positions have zero-width runs. nil means strict 1:1 layout.
	firstValueIndexes []int32
	nulls             *bitset.BitSet
	ordering          MvOrdering

	// ramOwn is the block's own metadata footprint, excluding the vector.
	ramOwn int64
}

// ElementType returns the primitive type of the block's values.
func (b *ArrayBlock[T]) ElementType() ElementType {
	return elementTypeOf[T]()
}

// PositionCount returns the number of logical rows.
func (b *ArrayBlock[T]) PositionCount() int {
	return b.positionCount
}

// IsNull reports whether position p is null.
func (b *ArrayBlock[T]) IsNull(p int) bool {
	b.ensureAlive()
	return b.nulls != nil && b.nulls.Test(uint(p))
}

// ValueCount returns the number of values at position p. Null positions
// report 0; the null flag is authoritative.
func (b *ArrayBlock[T]) ValueCount(p int) int {
	if b.IsNull(p) {
		return 0
	}
	if b.firstValueIndexes == nil {
		return 1
	}
	return int(b.firstValueIndexes[p+1] - b.firstValueIndexes[p])
}

// FirstValueIndex returns the vector index of position p's first value.
func (b *ArrayBlock[T]) FirstValueIndex(p int) int {
	b.ensureAlive()
	if b.firstValueIndexes == nil {
		return p
	}
	return int(b.firstValueIndexes[p])
}

// MvOrdering returns the ordering declared for multi-valued positions.
func (b *ArrayBlock[T]) MvOrdering() MvOrdering {
	return b.ordering
}

// MayHaveNulls reports whether the block carries a null mask.
func (b *ArrayBlock[T]) MayHaveNulls() bool {
	return b.nulls != nil
}

// MayHaveMultivaluedFields reports whether the block carries an offset
// table, i.e. whether any position may hold zero or several values.
func (b *ArrayBlock[T]) MayHaveMultivaluedFields() bool {
	return b.firstValueIndexes != nil
}

// Get returns the value at the given vector index. Use FirstValueIndex and
// ValueCount to locate a position's value run.
func (b *ArrayBlock[T]) Get(valueIndex int) T {
	return b.vec.Get(valueIndex)
}

// AsVector returns the underlying vector when the block is strictly 1:1
// and null-free. The view shares the block's lifetime and must not be used
// after the block is released. For any other layout it returns (nil, false)
// and callers must go through the positional API.
func (b *ArrayBlock[T]) AsVector() (*Vector[T], bool) {
	b.ensureAlive()
	if b.firstValueIndexes != nil || b.nulls != nil {
		return nil, false
	}
	return b.vec, true
}

// RAMBytesUsed returns the block's metadata footprint plus its vector's.
func (b *ArrayBlock[T]) RAMBytesUsed() int64 {
	return b.ramOwn + b.vec.RAMBytesUsed()
}

// Filter builds a new block holding exactly the given positions in the
// given order. Value runs are copied verbatim, so the declared mv ordering
// is preserved unchanged.
func (b *ArrayBlock[T]) Filter(positions ...int) (Block, error) {
	b.ensureAlive()

	builder, err := NewBuilder[T](b.factory, len(positions))
	if err != nil {
		return nil, err
	}
	defer builder.Close()

	for _, p := range positions {
		if err := checkPosition(b, p); err != nil {
			return nil, err
		}
		if err := appendPositionTo(builder, b, p); err != nil {
			return nil, err
		}
	}
	return builder.MvOrdering(b.ordering).Build()
}

// Expand explodes every multi-valued position into one single-valued
// position per value. A 1:1 block is returned as-is with an extra
// reference. The result makes no mv ordering claim: it has no multi-valued
// positions left, so the tag would be meaningless.
func (b *ArrayBlock[T]) Expand() (Block, error) {
	b.ensureAlive()

	if b.firstValueIndexes == nil {
		b.IncRef()
		return b, nil
	}

	builder, err := NewBuilder[T](b.factory, b.vec.Len())
	if err != nil {
		return nil, err
	}
	defer builder.Close()

	for p := 0; p < b.positionCount; p++ {
		if b.IsNull(p) {
			if err := builder.AppendNull(); err != nil {
				return nil, err
			}
			continue
		}
		first := b.FirstValueIndex(p)
		end := first + b.ValueCount(p)
		for i := first; i < end; i++ {
			if err := builder.AppendValue(b.Get(i)); err != nil {
				return nil, err
			}
		}
	}
	return builder.Build()
}

// IncRef adds a reference. Panics with ErrReleased after teardown.
func (b *ArrayBlock[T]) IncRef() {
	b.incRef()
}

// Release drops a reference. The last drop runs teardown exactly once:
// the metadata footprint is credited back to the factory and the owned
// vector is released.
func (b *ArrayBlock[T]) Release() {
	if b.decRef() {
		b.closeInternal()
	}
}

// AllowPassingToDifferentDriver marks the block and its vector safe to be
// consumed by a different driver goroutine.
func (b *ArrayBlock[T]) AllowPassingToDifferentDriver() {
	b.markShared()
	b.vec.AllowPassingToDifferentDriver()
}

func (b *ArrayBlock[T]) closeInternal() {
	b.factory.release(b.ramOwn)
	b.vec.Release()
	b.firstValueIndexes = nil
	b.nulls = nil
}

func (b *ArrayBlock[T]) rawValue(valueIndex int) any {
	return b.vec.Get(valueIndex)
}

func (b *ArrayBlock[T]) String() string {
	return fmt.Sprintf("ArrayBlock[%s positions=%d mvOrdering=%s]",
		b.ElementType(), b.positionCount, b.ordering)
}

// appendPositionTo copies one position's value run from src into builder,
// preserving null status and run width exactly. Runs are never flattened.
func appendPositionTo[T Value](builder *Builder[T], src *ArrayBlock[T], p int) error {
	if src.IsNull(p) {
		return builder.AppendNull()
	}

	count := src.ValueCount(p)
	first := src.FirstValueIndex(p)
	if count == 1 {
		return builder.AppendValue(src.Get(first))
	}

	if err := builder.BeginPositionEntry(); err != nil {
		return err
	}
	for c := 0; c < count; c++ {
		if err := builder.AppendValue(src.Get(first + c)); err != nil {
			return err
		}
	}
	return builder.EndPositionEntry()
}
