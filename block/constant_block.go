package block

import (
	"fmt"

	"github.com/quarrydb/quarry/internal/mem"
)

// ConstantBlock repeats a single value over every position. It stores the
// value once, so filtering and expanding never copy value data. Operators
// see it through the same Block interface as any other representation, and
// it compares equal to an array block with identical logical content.
type ConstantBlock[T Value] struct {
	refCounted

	factory       *Factory
	value         T
	positionCount int
	ramBytes      int64
}

// NewConstantBlock builds a block in which every one of positionCount
// positions holds exactly the given value.
func NewConstantBlock[T Value](f *Factory, value T, positionCount int) (*ConstantBlock[T], error) {
	if positionCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, positionCount)
	}

	ramBytes := mem.ObjectHeaderBytes + mem.SizeOf(value)
	if err := f.reserve(ramBytes); err != nil {
		return nil, err
	}

	b := &ConstantBlock[T]{
		factory:       f,
		value:         copyValue(value),
		positionCount: positionCount,
		ramBytes:      ramBytes,
	}
	b.init()
	f.blocksBuilt.Add(1)
	return b, nil
}

// ElementType returns the primitive type of the repeated value.
func (b *ConstantBlock[T]) ElementType() ElementType {
	return elementTypeOf[T]()
}

// PositionCount returns the number of logical rows.
func (b *ConstantBlock[T]) PositionCount() int {
	return b.positionCount
}

// IsNull always reports false; constant blocks hold no nulls.
func (b *ConstantBlock[T]) IsNull(int) bool {
	b.ensureAlive()
	return false
}

// ValueCount is always 1.
func (b *ConstantBlock[T]) ValueCount(int) int {
	b.ensureAlive()
	return 1
}

// FirstValueIndex is always 0: every position reads the single stored value.
func (b *ConstantBlock[T]) FirstValueIndex(int) int {
	b.ensureAlive()
	return 0
}

// MvOrdering returns MvUnordered; a constant block has no multi-valued
// positions for the tag to describe.
func (b *ConstantBlock[T]) MvOrdering() MvOrdering {
	return MvUnordered
}

// MayHaveNulls reports false.
func (b *ConstantBlock[T]) MayHaveNulls() bool { return false }

// MayHaveMultivaluedFields reports false.
func (b *ConstantBlock[T]) MayHaveMultivaluedFields() bool { return false }

// Get returns the repeated value; the index is ignored.
func (b *ConstantBlock[T]) Get(int) T {
	b.ensureAlive()
	return b.value
}

// RAMBytesUsed returns the footprint of the single stored value plus
// overhead, independent of the position count.
func (b *ConstantBlock[T]) RAMBytesUsed() int64 {
	return b.ramBytes
}

// Filter returns a new constant block over len(positions) positions.
func (b *ConstantBlock[T]) Filter(positions ...int) (Block, error) {
	b.ensureAlive()
	for _, p := range positions {
		if err := checkPosition(b, p); err != nil {
			return nil, err
		}
	}
	return NewConstantBlock(b.factory, b.value, len(positions))
}

// Expand returns the block itself with an extra reference; it is already
// strictly single-valued.
func (b *ConstantBlock[T]) Expand() (Block, error) {
	b.ensureAlive()
	b.IncRef()
	return b, nil
}

// IncRef adds a reference.
func (b *ConstantBlock[T]) IncRef() {
	b.incRef()
}

// Release drops a reference; the last drop credits the footprint back.
func (b *ConstantBlock[T]) Release() {
	if b.decRef() {
		b.factory.release(b.ramBytes)
	}
}

// AllowPassingToDifferentDriver marks the block safe for another driver.
func (b *ConstantBlock[T]) AllowPassingToDifferentDriver() {
	b.markShared()
}

func (b *ConstantBlock[T]) rawValue(int) any {
	return b.value
}

func (b *ConstantBlock[T]) String() string {
	return fmt.Sprintf("ConstantBlock[%s positions=%d]", b.ElementType(), b.positionCount)
}

// ConstantNullBlock is an untyped block in which every position is null.
type ConstantNullBlock struct {
	refCounted

	factory       *Factory
	positionCount int
}

// NewConstantNullBlock builds an all-null block over positionCount positions.
func NewConstantNullBlock(f *Factory, positionCount int) (*ConstantNullBlock, error) {
	if positionCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, positionCount)
	}
	if err := f.reserve(mem.ObjectHeaderBytes); err != nil {
		return nil, err
	}

	b := &ConstantNullBlock{factory: f, positionCount: positionCount}
	b.init()
	f.blocksBuilt.Add(1)
	return b, nil
}

// ElementType returns ElementNull.
func (b *ConstantNullBlock) ElementType() ElementType { return ElementNull }

// PositionCount returns the number of logical rows.
func (b *ConstantNullBlock) PositionCount() int { return b.positionCount }

// IsNull always reports true.
func (b *ConstantNullBlock) IsNull(int) bool {
	b.ensureAlive()
	return true
}

// ValueCount is always 0.
func (b *ConstantNullBlock) ValueCount(int) int {
	b.ensureAlive()
	return 0
}

// FirstValueIndex is always 0; there are no values to index.
func (b *ConstantNullBlock) FirstValueIndex(int) int {
	b.ensureAlive()
	return 0
}

// MvOrdering returns MvUnordered.
func (b *ConstantNullBlock) MvOrdering() MvOrdering { return MvUnordered }

// MayHaveNulls reports true.
func (b *ConstantNullBlock) MayHaveNulls() bool { return true }

// MayHaveMultivaluedFields reports false.
func (b *ConstantNullBlock) MayHaveMultivaluedFields() bool { return false }

// RAMBytesUsed returns the fixed overhead of the block.
func (b *ConstantNullBlock) RAMBytesUsed() int64 { return mem.ObjectHeaderBytes }

// Filter returns a new all-null block over len(positions) positions.
func (b *ConstantNullBlock) Filter(positions ...int) (Block, error) {
	b.ensureAlive()
	for _, p := range positions {
		if err := checkPosition(b, p); err != nil {
			return nil, err
		}
	}
	return NewConstantNullBlock(b.factory, len(positions))
}

// Expand returns the block itself with an extra reference.
func (b *ConstantNullBlock) Expand() (Block, error) {
	b.ensureAlive()
	b.IncRef()
	return b, nil
}

// IncRef adds a reference.
func (b *ConstantNullBlock) IncRef() { b.incRef() }

// Release drops a reference; the last drop credits the footprint back.
func (b *ConstantNullBlock) Release() {
	if b.decRef() {
		b.factory.release(mem.ObjectHeaderBytes)
	}
}

// AllowPassingToDifferentDriver marks the block safe for another driver.
func (b *ConstantNullBlock) AllowPassingToDifferentDriver() { b.markShared() }

func (b *ConstantNullBlock) rawValue(int) any {
	panic("block: constant null block has no values")
}

func (b *ConstantNullBlock) String() string {
	return fmt.Sprintf("ConstantNullBlock[positions=%d]", b.positionCount)
}
