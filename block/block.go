package block

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/quarrydb/quarry/internal/hash"
)

// Block is the positional view consumed by query operators: a vector of
// values plus null flags, optional multi-value grouping and a declared
// value ordering. All implementations are immutable and reference counted.
//
// Typed value access (Get, AsVector) lives on the concrete types, since it
// depends on the element type.
type Block interface {
	// ElementType returns the primitive type of the block's values.
	ElementType() ElementType

	// PositionCount returns the number of logical rows.
	PositionCount() int

	// IsNull reports whether position p holds no value because it is null.
	IsNull(p int) bool

	// ValueCount returns the number of values at position p: 0 for null
	// positions, 1 for single-valued ones, more for multi-valued entries.
	ValueCount(p int) int

	// FirstValueIndex returns the index of position p's first value in the
	// underlying vector.
	FirstValueIndex(p int) int

	// MvOrdering returns the ordering declared for multi-valued positions.
	MvOrdering() MvOrdering

	// MayHaveNulls reports whether any position may be null.
	MayHaveNulls() bool

	// MayHaveMultivaluedFields reports whether any position may hold more
	// than one value.
	MayHaveMultivaluedFields() bool

	// RAMBytesUsed returns the block's byte footprint including its vector.
	RAMBytesUsed() int64

	// Filter builds a new block holding exactly the given positions in the
	// given order; duplicates and reordering are allowed. Each output
	// position's value run equals the corresponding source position's, so
	// the mv ordering carries over unchanged.
	Filter(positions ...int) (Block, error)

	// Expand explodes every multi-valued position into one single-valued
	// position per value, preserving appearance order. Null positions stay
	// single null positions. A block that is already 1:1 is returned as-is
	// with an extra reference, without copying.
	Expand() (Block, error)

	// IncRef adds a reference.
	IncRef()

	// Release drops a reference; the last drop tears the block down and
	// credits its footprint back to the factory's budget.
	Release()

	// AllowPassingToDifferentDriver marks the block (and its vector) safe
	// to be consumed by a different driver goroutine.
	AllowPassingToDifferentDriver()

	// rawValue returns the boxed value at a vector index. It exists so
	// structural equality and hashing work uniformly across concrete
	// representations without per-type duplicates.
	rawValue(valueIndex int) any
}

// checkPosition validates p against the block's position count.
func checkPosition(b Block, p int) error {
	if p < 0 || p >= b.PositionCount() {
		return fmt.Errorf("%w: %d of %d", ErrInvalidPosition, p, b.PositionCount())
	}
	return nil
}

// Equal reports structural equality: same position count and, for every
// position, the same null status and the same ordered sequence of values.
// The concrete representations may differ; a constant block equals an array
// block with identical logical content.
func Equal(a, b Block) bool {
	if a == b {
		return true
	}
	n := a.PositionCount()
	if n != b.PositionCount() {
		return false
	}
	for p := 0; p < n; p++ {
		if a.IsNull(p) != b.IsNull(p) {
			return false
		}
		if a.IsNull(p) {
			continue
		}
		count := a.ValueCount(p)
		if count != b.ValueCount(p) {
			return false
		}
		ai, bi := a.FirstValueIndex(p), b.FirstValueIndex(p)
		for c := 0; c < count; c++ {
			if !valueEqual(a.rawValue(ai+c), b.rawValue(bi+c)) {
				return false
			}
		}
	}
	return true
}

func valueEqual(x, y any) bool {
	switch xv := x.(type) {
	case []byte:
		yv, ok := y.([]byte)
		return ok && bytes.Equal(xv, yv)
	default:
		return x == y
	}
}

// Hash returns a hash of the block's logical content, consistent with
// Equal: structurally equal blocks hash identically regardless of their
// concrete representation.
func Hash(b Block) uint32 {
	h := hash.NewCRC32C()
	var scratch [8]byte

	n := b.PositionCount()
	for p := 0; p < n; p++ {
		if b.IsNull(p) {
			h.Write([]byte{0xff})
			continue
		}
		count := b.ValueCount(p)
		binary.LittleEndian.PutUint32(scratch[:4], uint32(count))
		h.Write(scratch[:4])

		first := b.FirstValueIndex(p)
		for c := 0; c < count; c++ {
			hashValue(h, &scratch, b.rawValue(first+c))
		}
	}
	return h.Sum32()
}

func hashValue(h interface{ Write(p []byte) (int, error) }, scratch *[8]byte, v any) {
	switch x := v.(type) {
	case bool:
		if x {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case int32:
		binary.LittleEndian.PutUint32(scratch[:4], uint32(x))
		h.Write(scratch[:4])
	case int64:
		binary.LittleEndian.PutUint64(scratch[:8], uint64(x))
		h.Write(scratch[:8])
	case float64:
		binary.LittleEndian.PutUint64(scratch[:8], math.Float64bits(x))
		h.Write(scratch[:8])
	case []byte:
		binary.LittleEndian.PutUint32(scratch[:4], uint32(len(x)))
		h.Write(scratch[:4])
		h.Write(x)
	}
}
