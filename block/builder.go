package block

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/quarrydb/quarry/internal/conv"
	"github.com/quarrydb/quarry/internal/mem"
)

// Builder accumulates values and position boundaries for exactly one
// block. Every interim buffer is reserved against the factory's budget as
// it grows and released again on every exit path: Build transfers the
// accounting to the finished block, Close gives it back. A builder that
// fails mid-way therefore never leaks a reservation.
//
// Builders are not safe for concurrent use.
type Builder[T Value] struct {
	factory *Factory

	values            []T
	firstValueIndexes []int32 // one longer than the closed positions
	nulls             *bitset.BitSet
	nullsCapBits      int

	positionCount   int
	inEntry         bool
	entryStart      int
	hasNulls        bool
	hasNonSingleRun bool
	ordering        MvOrdering

	elemSize  int64
	estimated int64 // bytes currently reserved for interim buffers
	closed    bool
}

// NewBuilder creates a builder for a block of element type T, sized for
// approximately sizeHint positions. The initial buffer is reserved against
// the factory's budget; if that fails the budget is left unchanged.
func NewBuilder[T Value](f *Factory, sizeHint int) (*Builder[T], error) {
	if sizeHint < 1 {
		sizeHint = 1
	}
	var zero T
	elemSize := mem.SizeOf(zero)

	initial := mem.ObjectHeaderBytes +
		mem.SizeOfSlice(sizeHint, elemSize) +
		mem.SizeOfSlice(sizeHint+1, mem.SizeOfInt32)
	if err := f.reserve(initial); err != nil {
		return nil, err
	}

	return &Builder[T]{
		factory:           f,
		values:            make([]T, 0, sizeHint),
		firstValueIndexes: make([]int32, 1, sizeHint+1),
		elemSize:          elemSize,
		estimated:         initial,
	}, nil
}

// AppendValue appends one value. Outside a position entry it forms a
// single-valued position and advances the cursor; inside one it extends
// the open entry.
func (b *Builder[T]) AppendValue(v T) error {
	if b.closed {
		return ErrBuilderClosed
	}
	if err := b.ensureValueCap(1); err != nil {
		return err
	}

	v = copyValue(v)
	if raw, ok := any(v).([]byte); ok {
		content := int64(len(raw))
		if err := b.factory.reserve(content); err != nil {
			return err
		}
		b.estimated += content
	}

	b.values = append(b.values, v)
	if b.inEntry {
		return nil
	}
	return b.endPosition()
}

// AppendNull records the current position as null. It consumes no value
// slot and advances to the next position. Not legal inside a position
// entry.
func (b *Builder[T]) AppendNull() error {
	if b.closed {
		return ErrBuilderClosed
	}
	if b.inEntry {
		return ErrOpenPositionEntry
	}
	if err := b.reserveNullBit(b.positionCount); err != nil {
		return err
	}

	b.nulls.Set(uint(b.positionCount))
	b.hasNulls = true
	b.hasNonSingleRun = true
	return b.endPosition()
}

// BeginPositionEntry opens a run of zero or more values that together form
// one multi-valued position.
func (b *Builder[T]) BeginPositionEntry() error {
	if b.closed {
		return ErrBuilderClosed
	}
	if b.inEntry {
		return ErrOpenPositionEntry
	}
	b.inEntry = true
	b.entryStart = len(b.values)
	return nil
}

// EndPositionEntry closes the open run. Closing with zero values is legal
// and denotes an intentionally empty but non-null position, distinct from
// AppendNull.
func (b *Builder[T]) EndPositionEntry() error {
	if b.closed {
		return ErrBuilderClosed
	}
	if !b.inEntry {
		return ErrNoOpenPositionEntry
	}

	width := len(b.values) - b.entryStart
	if width != 1 {
		b.hasNonSingleRun = true
	}
	b.inEntry = false
	return b.endPosition()
}

// MvOrdering declares the ordering guarantee holding for the value runs
// appended to this builder. The engine trusts the declaration and never
// re-derives or re-sorts; mis-declaring it corrupts downstream consumers.
func (b *Builder[T]) MvOrdering(o MvOrdering) *Builder[T] {
	b.ordering = o
	return b
}

// Build finalizes an immutable block, registers its footprint with the
// factory and invalidates the builder. When no position is null and every
// position holds exactly one value the offset table is dropped and the
// block exposes a zero-copy vector view.
func (b *Builder[T]) Build() (*ArrayBlock[T], error) {
	if b.closed {
		return nil, ErrBuilderClosed
	}
	if b.inEntry {
		return nil, ErrOpenPositionEntry
	}
	defer b.Close()

	checkOffsetTable(b.firstValueIndexes, len(b.values))

	oneToOne := !b.hasNulls && !b.hasNonSingleRun

	vals, mapping := allocValues[T](len(b.values))
	copy(vals, b.values)
	vecBytes := vectorRAMBytes(b.values)

	blockOwn := mem.ObjectHeaderBytes
	var offs []int32
	var nulls *bitset.BitSet
	if !oneToOne {
		offs = make([]int32, len(b.firstValueIndexes))
		copy(offs, b.firstValueIndexes)
		blockOwn += mem.SizeOfSlice(len(offs), mem.SizeOfInt32)

		if b.hasNulls {
			nulls = bitset.New(uint(b.positionCount))
			for i, ok := b.nulls.NextSet(0); ok; i, ok = b.nulls.NextSet(i + 1) {
				nulls.Set(i)
			}
			blockOwn += mem.ObjectHeaderBytes + int64((b.positionCount+63)/64*8)
		}
	}

	if err := b.factory.reserve(vecBytes + blockOwn); err != nil {
		if mapping != nil {
			_ = mapping.Close()
		}
		return nil, err
	}

	blk := &ArrayBlock[T]{
		factory:           b.factory,
		vec:               newVector(b.factory, vals, mapping, vecBytes),
		positionCount:     b.positionCount,
		firstValueIndexes: offs,
		nulls:             nulls,
		ordering:          b.ordering,
		ramOwn:            blockOwn,
	}
	blk.init()
	b.factory.blocksBuilt.Add(1)
	return blk, nil
}

// Close releases the builder's interim reservation and invalidates it. It
// is safe to call multiple times and after Build, so it can be deferred
// unconditionally.
func (b *Builder[T]) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.factory.release(b.estimated)
	b.estimated = 0
	b.values = nil
	b.firstValueIndexes = nil
	b.nulls = nil
}

// endPosition closes the current position by recording the end offset of
// its value run.
func (b *Builder[T]) endPosition() error {
	if err := b.ensureOffsetCap(1); err != nil {
		return err
	}
	off, err := conv.IntToInt32(len(b.values))
	if err != nil {
		return err
	}
	b.firstValueIndexes = append(b.firstValueIndexes, off)
	b.positionCount++
	return nil
}

func (b *Builder[T]) ensureValueCap(extra int) error {
	need := len(b.values) + extra
	if need <= cap(b.values) {
		return nil
	}
	newCap := 2 * cap(b.values)
	if newCap < need {
		newCap = need
	}

	delta := int64(newCap-cap(b.values)) * b.elemSize
	if err := b.factory.reserve(delta); err != nil {
		return err
	}
	b.estimated += delta

	grown := make([]T, len(b.values), newCap)
	copy(grown, b.values)
	b.values = grown
	return nil
}

func (b *Builder[T]) ensureOffsetCap(extra int) error {
	need := len(b.firstValueIndexes) + extra
	if need <= cap(b.firstValueIndexes) {
		return nil
	}
	newCap := 2 * cap(b.firstValueIndexes)
	if newCap < need {
		newCap = need
	}

	delta := int64(newCap-cap(b.firstValueIndexes)) * mem.SizeOfInt32
	if err := b.factory.reserve(delta); err != nil {
		return err
	}
	b.estimated += delta

	grown := make([]int32, len(b.firstValueIndexes), newCap)
	copy(grown, b.firstValueIndexes)
	b.firstValueIndexes = grown
	return nil
}

// reserveNullBit makes sure the null mask exists and has budgeted capacity
// for the given bit.
func (b *Builder[T]) reserveNullBit(bit int) error {
	if b.nulls == nil {
		capBits := bit + 1
		if capBits < 64 {
			capBits = 64
		}
		bytes := mem.ObjectHeaderBytes + int64((capBits+63)/64*8)
		if err := b.factory.reserve(bytes); err != nil {
			return err
		}
		b.estimated += bytes
		b.nulls = bitset.New(uint(capBits))
		b.nullsCapBits = capBits
		return nil
	}

	if bit < b.nullsCapBits {
		return nil
	}
	newCapBits := 2 * b.nullsCapBits
	if newCapBits <= bit {
		newCapBits = bit + 1
	}
	delta := int64((newCapBits+63)/64*8 - (b.nullsCapBits+63)/64*8)
	if err := b.factory.reserve(delta); err != nil {
		return err
	}
	b.estimated += delta
	b.nullsCapBits = newCapBits
	return nil
}

// checkOffsetTable verifies the offset-table invariant. The builder is the
// only producer of a block's layout, so a violation here is an internal
// bug, not a user-facing error path.
func checkOffsetTable(offsets []int32, valueCount int) {
	if offsets[0] != 0 {
		panic(fmt.Sprintf("block: malformed offset table: starts at %d", offsets[0]))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			panic(fmt.Sprintf("block: malformed offset table: decreases at %d", i))
		}
	}
	if got := int(offsets[len(offsets)-1]); got != valueCount {
		panic(fmt.Sprintf("block: malformed offset table: ends at %d, have %d values", got, valueCount))
	}
}

// copyValue defensively copies variable-width values so a block never
// aliases caller-owned memory. Fixed-width values pass through.
func copyValue[T Value](v T) T {
	if raw, ok := any(v).([]byte); ok {
		c := make([]byte, len(raw))
		copy(c, raw)
		return any(c).(T)
	}
	return v
}
