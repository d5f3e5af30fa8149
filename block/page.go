package block

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Page is one horizontal slice of query output: an ordered set of blocks
// that all describe the same rows, so every block has the same position
// count. Pages are the unit moved between operators and across drivers.
//
// A page owns one reference to each of its blocks and releases them all
// exactly once when the page is released.
type Page struct {
	blocks        []Block
	positionCount int
	released      atomic.Bool
}

// NewPage creates a page from the given blocks. All blocks must have the
// same position count. The page takes over the caller's reference to each
// block.
func NewPage(blocks ...Block) (*Page, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("block: page needs at least one block")
	}
	positionCount := blocks[0].PositionCount()
	for _, b := range blocks[1:] {
		if b.PositionCount() != positionCount {
			return nil, fmt.Errorf("%w: %d vs %d",
				ErrMismatchedPositionCount, b.PositionCount(), positionCount)
		}
	}
	return &Page{
		blocks:        append([]Block(nil), blocks...),
		positionCount: positionCount,
	}, nil
}

// BlockCount returns the number of blocks (columns) in the page.
func (p *Page) BlockCount() int {
	return len(p.blocks)
}

// Block returns the i-th block. The reference stays with the page.
func (p *Page) Block(i int) Block {
	if p.released.Load() {
		panic(ErrReleased)
	}
	return p.blocks[i]
}

// PositionCount returns the number of rows in the page.
func (p *Page) PositionCount() int {
	return p.positionCount
}

// AppendBlock adds a column to the page, taking over the caller's
// reference. The block must match the page's position count.
func (p *Page) AppendBlock(b Block) error {
	if p.released.Load() {
		return ErrPageReleased
	}
	if b.PositionCount() != p.positionCount {
		return fmt.Errorf("%w: %d vs %d",
			ErrMismatchedPositionCount, b.PositionCount(), p.positionCount)
	}
	p.blocks = append(p.blocks, b)
	return nil
}

// RAMBytesUsed returns the summed footprint of the page's blocks.
func (p *Page) RAMBytesUsed() int64 {
	var bytes int64
	for _, b := range p.blocks {
		bytes += b.RAMBytesUsed()
	}
	return bytes
}

// AllowPassingToDifferentDriver marks every block in the page safe to be
// consumed by a different driver goroutine.
func (p *Page) AllowPassingToDifferentDriver() {
	for _, b := range p.blocks {
		b.AllowPassingToDifferentDriver()
	}
}

// Release drops the page's reference to every block. It is idempotent;
// only the first call releases.
func (p *Page) Release() {
	if p.released.Swap(true) {
		return
	}
	for _, b := range p.blocks {
		b.Release()
	}
	p.blocks = nil
}

func (p *Page) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Page[positions=%d blocks=%d", p.positionCount, len(p.blocks))
	for _, b := range p.blocks {
		fmt.Fprintf(&sb, " %s", b.ElementType())
	}
	sb.WriteString("]")
	return sb.String()
}
