package quarry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/block"
	"github.com/quarrydb/quarry/driver"
	"github.com/quarrydb/quarry/resource"
)

func TestEngine_QueryLifecycle(t *testing.T) {
	e := New(WithMemoryLimit(1 << 20))
	defer e.Close()

	q, err := e.NewQuery()
	require.NoError(t, err)

	b, err := q.Factory().NewLongBlockBuilder(3)
	require.NoError(t, err)
	for _, v := range []int64{1, 2, 3} {
		require.NoError(t, b.AppendValue(v))
	}
	blk, err := b.Build()
	require.NoError(t, err)

	blk.Release()
	require.NoError(t, q.Close())
	require.NoError(t, q.Close()) // idempotent
	require.NoError(t, e.Close())
}

func TestEngine_ClosedRejectsQueries(t *testing.T) {
	e := New()
	require.NoError(t, e.Close())

	_, err := e.NewQuery()
	assert.ErrorIs(t, err, ErrEngineClosed)
}

func TestQuery_CloseReportsLeak(t *testing.T) {
	e := New(WithMemoryLimit(1 << 20))

	q, err := e.NewQuery()
	require.NoError(t, err)

	b, err := q.Factory().NewLongBlockBuilder(2)
	require.NoError(t, err)
	require.NoError(t, b.AppendValue(1))
	blk, err := b.Build()
	require.NoError(t, err)

	// Closing with the block still alive reports the outstanding bytes.
	err = q.Close()
	assert.ErrorIs(t, err, ErrBudgetNotDrained)
	assert.ErrorIs(t, e.Close(), ErrBudgetNotDrained)

	blk.Release()
}

func TestQuery_SharedBudgetAcrossQueries(t *testing.T) {
	e := New(WithMemoryLimit(32 << 10))
	defer e.Close()

	q1, err := e.NewQuery()
	require.NoError(t, err)
	q2, err := e.NewQuery()
	require.NoError(t, err)

	// One query can exhaust the engine-wide budget for the other.
	blk, err := q1.Factory().NewBytesBlockBuilder(1)
	require.NoError(t, err)
	require.NoError(t, blk.AppendValue(make([]byte, 8000)))
	built, err := blk.Build()
	require.NoError(t, err)

	_, err = q2.Factory().NewLongBlockBuilder(10000)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	built.Release()
	require.NoError(t, q1.Close())
	require.NoError(t, q2.Close())
}

func TestQuery_RunDrivers(t *testing.T) {
	e := New(WithMemoryLimit(1<<20), WithMaxDrivers(2))
	defer e.Close()

	q, err := e.NewQuery()
	require.NoError(t, err)

	b, err := q.Factory().NewLongBlockBuilder(3)
	require.NoError(t, err)
	for _, v := range []int64{1, 2, 3} {
		require.NoError(t, b.AppendValue(v))
	}
	blk, err := b.Build()
	require.NoError(t, err)
	page, err := block.NewPage(blk)
	require.NoError(t, err)

	source := &onePageSource{page: page}
	sink := &countingSink{}
	require.NoError(t, q.Run(context.Background(), driver.New(source, sink)))

	assert.Equal(t, 1, sink.pages)
	require.NoError(t, q.Close())
}

func TestEngine_MetricsRecorded(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	e := New(WithMemoryLimit(1<<20), WithMetrics(metrics))
	defer e.Close()

	q, err := e.NewQuery()
	require.NoError(t, err)

	b, err := q.Factory().NewLongBlockBuilder(2)
	require.NoError(t, err)
	require.NoError(t, b.AppendValue(1))
	blk, err := b.Build()
	require.NoError(t, err)
	peak := blk.RAMBytesUsed()
	blk.Release()

	require.NoError(t, q.Close())

	assert.Equal(t, int64(1), metrics.QueryCount.Load())
	assert.Equal(t, int64(1), metrics.BlocksBuilt.Load())
	assert.GreaterOrEqual(t, metrics.PeakBytesMax.Load(), peak)
	assert.Zero(t, metrics.LeakedQueries.Load())
}

func TestEngine_MetricsCountLeaks(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	e := New(WithMetrics(metrics))

	q, err := e.NewQuery()
	require.NoError(t, err)
	blk, err := block.NewConstantBlock[int64](q.Factory(), 1, 1)
	require.NoError(t, err)

	assert.Error(t, q.Close())
	assert.Equal(t, int64(1), metrics.LeakedQueries.Load())

	blk.Release()
}

type onePageSource struct {
	page *block.Page
}

func (s *onePageSource) Next(context.Context) (*block.Page, error) {
	p := s.page
	s.page = nil
	return p, nil
}

func (s *onePageSource) Close() {
	if s.page != nil {
		s.page.Release()
		s.page = nil
	}
}

type countingSink struct {
	pages int
}

func (s *countingSink) Consume(_ context.Context, p *block.Page) error {
	defer p.Release()
	s.pages++
	return nil
}

func (s *countingSink) Close() {}
