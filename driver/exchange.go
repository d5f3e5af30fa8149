package driver

import (
	"context"
	"sync"

	"github.com/quarrydb/quarry/block"
)

// Exchange moves pages from one driver to another. The sending side must
// be the page's owning driver; Send marks the page as passable before
// publishing it, making the handoff the visibility fence required by the
// block ownership model.
type Exchange struct {
	ch         chan *block.Page
	finishOnce sync.Once
}

// NewExchange creates an exchange buffering up to capacity pages.
func NewExchange(capacity int) *Exchange {
	if capacity < 1 {
		capacity = 1
	}
	return &Exchange{ch: make(chan *block.Page, capacity)}
}

// Send transfers ownership of p to the receiving driver. If the context is
// canceled first, p is released here and the error returned.
func (e *Exchange) Send(ctx context.Context, p *block.Page) error {
	p.AllowPassingToDifferentDriver()
	select {
	case e.ch <- p:
		return nil
	case <-ctx.Done():
		p.Release()
		return ctx.Err()
	}
}

// Finish signals that no more pages will be sent. Idempotent.
func (e *Exchange) Finish() {
	e.finishOnce.Do(func() { close(e.ch) })
}

// Next implements Source for the receiving driver. It returns nil once the
// sending side called Finish and the buffer drained.
func (e *Exchange) Next(ctx context.Context) (*block.Page, error) {
	select {
	case p, ok := <-e.ch:
		if !ok {
			return nil, nil
		}
		return p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close implements Source. It releases any pages still buffered so an
// aborted receiving driver drains the budget.
func (e *Exchange) Close() {
	for {
		select {
		case p, ok := <-e.ch:
			if !ok {
				return
			}
			p.Release()
		default:
			return
		}
	}
}

// AsSink returns the sending side as a Sink: Consume forwards pages into
// the exchange and Close marks it finished.
func (e *Exchange) AsSink() Sink {
	return exchangeSink{e}
}

type exchangeSink struct {
	e *Exchange
}

func (s exchangeSink) Consume(ctx context.Context, p *block.Page) error {
	return s.e.Send(ctx, p)
}

func (s exchangeSink) Close() {
	s.e.Finish()
}
