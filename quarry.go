package quarry

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/quarrydb/quarry/block"
	"github.com/quarrydb/quarry/driver"
	"github.com/quarrydb/quarry/resource"
)

// Engine owns the resources shared by all queries: the memory budget and
// the driver slots. One engine per process is the expected shape.
type Engine struct {
	ctrl    *resource.Controller
	logger  *Logger
	metrics MetricsCollector
	closed  atomic.Bool
}

// New creates an engine.
func New(opts ...Option) *Engine {
	o := options{
		maxDrivers: int64(runtime.GOMAXPROCS(0)),
		logger:     NoopLogger(),
		metrics:    NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{
		ctrl: resource.NewController(resource.Config{
			MemoryLimitBytes: o.memoryLimit,
			MaxDrivers:       o.maxDrivers,
		}),
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Controller exposes the shared resource controller.
func (e *Engine) Controller() *resource.Controller {
	return e.ctrl
}

// NewQuery starts a query execution scope with its own allocation factory.
// Close the query once every block it produced has been released.
func (e *Engine) NewQuery() (*Query, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	return &Query{
		engine:  e,
		factory: block.NewFactory(e.ctrl),
		started: time.Now(),
	}, nil
}

// Close verifies the budget has drained back to zero. It does not force
// anything: queries own their blocks and must release them on abort.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	if used := e.ctrl.MemoryUsage(); used != 0 {
		e.logger.Error("engine closed with reserved memory", "bytes", used)
		return fmt.Errorf("%w: %d bytes reserved", ErrBudgetNotDrained, used)
	}
	return nil
}

// Query is one query execution scope: a factory whose reservations are
// attributed to this query, and the drivers that run its pipelines.
type Query struct {
	engine  *Engine
	factory *block.Factory
	started time.Time
	closed  atomic.Bool
}

// Factory returns the query's allocation factory. Blocks from different
// queries must never be combined.
func (q *Query) Factory() *block.Factory {
	return q.factory
}

// Run executes the query's drivers, bounded by the engine's driver slots.
func (q *Query) Run(ctx context.Context, drivers ...*driver.Driver) error {
	return driver.RunAll(ctx, q.engine.ctrl, drivers...)
}

// Close records the query's metrics and verifies its reservations were
// drained. Idempotent; only the first call reports.
func (q *Query) Close() error {
	if q.closed.Swap(true) {
		return nil
	}

	leaked := q.factory.ReservedBytes()
	q.engine.metrics.RecordQuery(
		time.Since(q.started),
		q.factory.PeakReservedBytes(),
		q.factory.BlocksBuilt(),
		leaked,
	)
	if leaked != 0 {
		q.engine.logger.Error("query closed with reserved memory",
			"bytes", leaked, "blocksBuilt", q.factory.BlocksBuilt())
		return fmt.Errorf("%w: %d bytes reserved", ErrBudgetNotDrained, leaked)
	}
	return nil
}
