package block

// MvOrdering is the ordering guarantee declared for the values within each
// multi-valued position of a block. It is a promise made by whoever built
// the block; the engine trusts it and never re-derives or re-sorts. The tag
// carries no meaning for blocks without multi-valued positions.
type MvOrdering int

const (
	// MvUnordered makes no guarantee.
	MvUnordered MvOrdering = iota
	// MvDeduplicatedUnordered guarantees no duplicate values within a
	// position, in no particular order.
	MvDeduplicatedUnordered
	// MvAscending guarantees values within a position are sorted ascending.
	MvAscending
	// MvDeduplicatedAndSortedAscending guarantees values within a position
	// are sorted ascending with no duplicates.
	MvDeduplicatedAndSortedAscending
)

func (o MvOrdering) String() string {
	switch o {
	case MvUnordered:
		return "UNORDERED"
	case MvDeduplicatedUnordered:
		return "DEDUPLICATED_UNORDERED"
	case MvAscending:
		return "ASCENDING"
	case MvDeduplicatedAndSortedAscending:
		return "DEDUPLICATED_AND_SORTED_ASCENDING"
	default:
		return "UNKNOWN"
	}
}
