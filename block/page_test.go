package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/resource"
)

func buildLongColumn(t *testing.T, f *Factory, values ...int64) Block {
	t.Helper()
	b, err := f.NewLongBlockBuilder(len(values))
	require.NoError(t, err)
	for _, v := range values {
		require.NoError(t, b.AppendValue(v))
	}
	blk, err := b.Build()
	require.NoError(t, err)
	return blk
}

func TestPage_Basics(t *testing.T) {
	f := NewFactory(nil)

	a := buildLongColumn(t, f, 1, 2, 3)
	b := buildLongColumn(t, f, 4, 5, 6)

	p, err := NewPage(a, b)
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, 2, p.BlockCount())
	assert.Equal(t, 3, p.PositionCount())
	assert.Same(t, a, p.Block(0))
	assert.Same(t, b, p.Block(1))
	assert.Equal(t, a.RAMBytesUsed()+b.RAMBytesUsed(), p.RAMBytesUsed())
}

func TestPage_RejectsMismatchedPositionCounts(t *testing.T) {
	f := NewFactory(nil)

	a := buildLongColumn(t, f, 1, 2, 3)
	defer a.Release()
	b := buildLongColumn(t, f, 4, 5)
	defer b.Release()

	_, err := NewPage(a, b)
	assert.ErrorIs(t, err, ErrMismatchedPositionCount)

	p, err := NewPage(a)
	require.NoError(t, err)
	defer p.Release()
	a.IncRef() // the page took over the original reference

	// A failed append leaves the reference with the caller.
	assert.ErrorIs(t, p.AppendBlock(b), ErrMismatchedPositionCount)
}

func TestPage_AppendBlock(t *testing.T) {
	f := NewFactory(nil)

	a := buildLongColumn(t, f, 1, 2)
	p, err := NewPage(a)
	require.NoError(t, err)
	defer p.Release()

	b := buildLongColumn(t, f, 3, 4)
	require.NoError(t, p.AppendBlock(b))
	assert.Equal(t, 2, p.BlockCount())
	assert.Same(t, b, p.Block(1))
}

func TestPage_ReleaseDrainsBudget(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	f := NewFactory(ctrl)

	p, err := NewPage(
		buildLongColumn(t, f, 1, 2, 3),
		buildLongColumn(t, f, 4, 5, 6),
	)
	require.NoError(t, err)
	assert.Positive(t, ctrl.MemoryUsage())

	p.Release()
	assert.Zero(t, ctrl.MemoryUsage())

	p.Release() // idempotent
	assert.Zero(t, ctrl.MemoryUsage())

	assert.PanicsWithValue(t, ErrReleased, func() { p.Block(0) })
	assert.ErrorIs(t, p.AppendBlock(nil), ErrPageReleased)
}

func TestPage_SharedBlockSurvivesPageRelease(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	f := NewFactory(ctrl)

	a := buildLongColumn(t, f, 1, 2, 3)
	a.IncRef() // keep our own reference besides the page's

	p, err := NewPage(a)
	require.NoError(t, err)
	p.Release()

	// The page's reference is gone, ours still holds the block alive.
	assert.Equal(t, 3, a.PositionCount())
	assert.Positive(t, ctrl.MemoryUsage())

	a.Release()
	assert.Zero(t, ctrl.MemoryUsage())
}
