package driver

import (
	"context"

	"github.com/quarrydb/quarry/block"
)

// Source produces the pages a pipeline consumes. Next returns nil when the
// source is exhausted. The caller owns every returned page.
type Source interface {
	Next(ctx context.Context) (*block.Page, error)
	Close()
}

// Transform rewrites one page into another. Apply takes ownership of in
// and must release it on every path, including errors; the caller owns the
// returned page.
type Transform interface {
	Apply(ctx context.Context, in *block.Page) (*block.Page, error)
}

// Sink consumes the pipeline's output. Consume takes ownership of the page
// and must release it on every path. Close is called exactly once when the
// driver finishes, successfully or not.
type Sink interface {
	Consume(ctx context.Context, p *block.Page) error
	Close()
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(ctx context.Context, in *block.Page) (*block.Page, error)

// Apply implements Transform.
func (f TransformFunc) Apply(ctx context.Context, in *block.Page) (*block.Page, error) {
	return f(ctx, in)
}
