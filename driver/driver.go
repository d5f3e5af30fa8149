package driver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/quarrydb/quarry/resource"
)

// Driver executes one pipeline on one goroutine: source, an optional chain
// of transforms, sink. A driver is single-use.
type Driver struct {
	source     Source
	transforms []Transform
	sink       Sink
}

// New creates a driver for the given pipeline.
func New(source Source, sink Sink, transforms ...Transform) *Driver {
	return &Driver{
		source:     source,
		transforms: transforms,
		sink:       sink,
	}
}

// Run pulls pages until the source is exhausted, the context is canceled
// or an operator fails. Whatever happens, the source and sink are closed
// and every page the driver holds is released before Run returns.
func (d *Driver) Run(ctx context.Context) error {
	defer d.source.Close()
	defer d.sink.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := d.source.Next(ctx)
		if err != nil {
			return err
		}
		if page == nil {
			return nil
		}

		for _, t := range d.transforms {
			// Apply owns the input page on every path.
			page, err = t.Apply(ctx, page)
			if err != nil {
				return err
			}
		}

		if err := d.sink.Consume(ctx, page); err != nil {
			return err
		}
	}
}

// RunAll runs each driver on its own goroutine and waits for all of them.
// The first failure cancels the rest. When a controller is given, every
// driver holds a driver slot while it runs, bounding engine-wide
// parallelism.
func RunAll(ctx context.Context, ctrl *resource.Controller, drivers ...*Driver) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, d := range drivers {
		d := d
		g.Go(func() error {
			if ctrl != nil {
				if err := ctrl.AcquireDriver(ctx); err != nil {
					return err
				}
				defer ctrl.ReleaseDriver()
			}
			return d.Run(ctx)
		})
	}
	return g.Wait()
}
