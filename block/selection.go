package block

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// PositionsFromBitmap converts a bitmap of selected rows into the ordered
// position list consumed by Filter. Selection-producing operators (row
// filters, index lookups) work in bitmaps; this is the bridge to the
// block transform API.
func PositionsFromBitmap(bm *roaring.Bitmap) []int {
	if bm == nil || bm.IsEmpty() {
		return nil
	}
	positions := make([]int, 0, int(bm.GetCardinality()))
	it := bm.Iterator()
	for it.HasNext() {
		positions = append(positions, int(it.Next()))
	}
	return positions
}

// FilterBitmap filters b down to the positions set in bm, in ascending
// position order.
func FilterBitmap(b Block, bm *roaring.Bitmap) (Block, error) {
	return b.Filter(PositionsFromBitmap(bm)...)
}
