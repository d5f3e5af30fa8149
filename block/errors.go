package block

import "errors"

var (
	// ErrReleased is the panic value raised by any operation on a block,
	// vector or page whose reference count already reached zero. This is a
	// programming error: released containers may be torn down concurrently,
	// so failing fast is the only safe behavior.
	ErrReleased = errors.New("block: use after release")

	// ErrBuilderClosed is returned when a builder is used after Build or
	// Close. A builder constructs exactly one block.
	ErrBuilderClosed = errors.New("block: builder already closed")

	// ErrOpenPositionEntry is returned by Build and AppendNull while a
	// position entry opened with BeginPositionEntry has not been closed.
	ErrOpenPositionEntry = errors.New("block: position entry still open")

	// ErrNoOpenPositionEntry is returned by EndPositionEntry when no entry
	// is open.
	ErrNoOpenPositionEntry = errors.New("block: no open position entry")

	// ErrInvalidPosition is wrapped by errors reporting a position outside
	// [0, positionCount).
	ErrInvalidPosition = errors.New("block: position out of range")

	// ErrPageReleased is returned when appending to a released page.
	ErrPageReleased = errors.New("block: page already released")

	// ErrMismatchedPositionCount is returned when combining blocks with
	// different position counts into one page.
	ErrMismatchedPositionCount = errors.New("block: mismatched position count")
)
