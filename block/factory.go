package block

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/quarrydb/quarry/internal/mem"
	"github.com/quarrydb/quarry/internal/mmap"
)

// MmapThresholdBytes is the value-buffer size above which fixed-width
// vectors are backed by an anonymous off-heap mapping instead of the Go
// heap. Large columns stay out of GC scans this way.
const MmapThresholdBytes = 1 << 20

// Factory is the allocation gate for one query execution. It creates
// builders, charges every backing allocation against the injected Breaker
// at allocation time, and credits it back symmetrically when blocks are
// released. It is the sole legitimate source of new blocks and vectors.
//
// A factory is scoped to a single query; blocks from different factories
// must never be combined, or memory would be mis-attributed across budgets.
type Factory struct {
	breaker Breaker

	reserved    atomic.Int64
	peak        atomic.Int64
	blocksBuilt atomic.Int64
}

// NewFactory creates a factory drawing on the given breaker. A nil breaker
// means no budget is enforced.
func NewFactory(breaker Breaker) *Factory {
	if breaker == nil {
		breaker = unlimitedBreaker{}
	}
	return &Factory{breaker: breaker}
}

// NewBoolBlockBuilder returns a builder for a bool block sized for
// approximately sizeHint positions.
func (f *Factory) NewBoolBlockBuilder(sizeHint int) (*Builder[bool], error) {
	return NewBuilder[bool](f, sizeHint)
}

// NewIntBlockBuilder returns a builder for an int32 block.
func (f *Factory) NewIntBlockBuilder(sizeHint int) (*Builder[int32], error) {
	return NewBuilder[int32](f, sizeHint)
}

// NewLongBlockBuilder returns a builder for an int64 block.
func (f *Factory) NewLongBlockBuilder(sizeHint int) (*Builder[int64], error) {
	return NewBuilder[int64](f, sizeHint)
}

// NewDoubleBlockBuilder returns a builder for a float64 block.
func (f *Factory) NewDoubleBlockBuilder(sizeHint int) (*Builder[float64], error) {
	return NewBuilder[float64](f, sizeHint)
}

// NewBytesBlockBuilder returns a builder for a variable-width bytes block.
func (f *Factory) NewBytesBlockBuilder(sizeHint int) (*Builder[[]byte], error) {
	return NewBuilder[[]byte](f, sizeHint)
}

// ReservedBytes returns the bytes currently attributed to this factory.
func (f *Factory) ReservedBytes() int64 {
	return f.reserved.Load()
}

// PeakReservedBytes returns the high-water mark of attributed bytes.
func (f *Factory) PeakReservedBytes() int64 {
	return f.peak.Load()
}

// BlocksBuilt returns the number of blocks this factory has produced.
func (f *Factory) BlocksBuilt() int64 {
	return f.blocksBuilt.Load()
}

// reserve charges bytes against the budget. On error nothing was charged.
func (f *Factory) reserve(bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	if err := f.breaker.Reserve(bytes); err != nil {
		return fmt.Errorf("block: reserving %d bytes: %w", bytes, err)
	}
	n := f.reserved.Add(bytes)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return nil
}

// release credits bytes back to the budget.
func (f *Factory) release(bytes int64) {
	if bytes <= 0 {
		return
	}
	f.reserved.Add(-bytes)
	f.breaker.Release(bytes)
}

// allocValues allocates the immutable backing buffer for n values of a
// fixed-width type, off-heap above MmapThresholdBytes. Bytes elements keep
// their headers on the heap. If the off-heap mapping cannot be created the
// allocation silently falls back to the heap; the budget was charged either
// way.
func allocValues[T Value](n int) ([]T, *mmap.Mapping) {
	if n <= 0 {
		return nil, nil
	}
	if elementTypeOf[T]() == ElementBytes {
		return make([]T, n), nil
	}

	var zero T
	byteLen := n * int(unsafe.Sizeof(zero))
	if byteLen >= MmapThresholdBytes {
		if m, err := mmap.MapAnon(byteLen); err == nil {
			return mem.SliceFromBytes[T](m.Bytes(), n), m
		}
	}
	return mem.AllocAlignedSlice[T](n), nil
}
