// Package block implements the columnar value containers moved between the
// operators of a vectorized query engine.
//
// A Vector is a flat, homogeneous, strictly 1:1 sequence of one primitive
// type. A Block wraps a Vector with positional metadata: a null mask, an
// optional offset table grouping values into multi-valued positions, and a
// declared ordering for those value runs. Operators consume blocks through
// the positional read API and reshape them with Filter and Expand, which
// copy whole value runs and never flatten them.
//
// # Ownership
//
// Blocks and vectors are immutable after construction and reference
// counted. Every block is created with one reference; IncRef shares it and
// Release drops it. When the count reaches zero the container tears down
// exactly once, releasing its byte footprint back to the factory's budget.
// Any use after release is a programming error and panics with ErrReleased.
//
// A block is owned by the driver goroutine that produced it. Before handing
// a block to a different driver the producer must call
// AllowPassingToDifferentDriver; crossing goroutines without it is
// undefined behavior.
//
// # Allocation
//
// The Factory is the sole legitimate source of builders and blocks. Every
// backing allocation is reserved against an injected Breaker when it is
// made and released symmetrically on teardown, so the sum of live block
// footprints never exceeds the execution-time budget. Blocks from different
// factories must never be combined; doing so mis-attributes memory.
package block
