// Package quarry is the execution-memory layer of a vectorized query
// engine: columnar blocks and vectors, the budget that bounds how much of
// them may be in flight, and the drivers that move them.
//
// An Engine owns the process-wide resource controller. Each query gets its
// own allocation factory so memory is attributed per query:
//
//	eng := quarry.New(quarry.WithMemoryLimit(512 << 20))
//	defer eng.Close()
//
//	q, _ := eng.NewQuery()
//	defer q.Close()
//
//	b, _ := q.Factory().NewLongBlockBuilder(3)
//	b.AppendValue(10)
//	b.AppendNull()
//	blk, _ := b.Build()
//	defer blk.Release()
//
// See package block for the container model and package driver for the
// execution model.
package quarry
