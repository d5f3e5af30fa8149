package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMixedLongBlock builds [[10], null, [20,30], [40]].
func buildMixedLongBlock(t *testing.T, f *Factory) *ArrayBlock[int64] {
	t.Helper()

	b, err := f.NewLongBlockBuilder(4)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.AppendValue(10))
	require.NoError(t, b.AppendNull())
	require.NoError(t, b.BeginPositionEntry())
	require.NoError(t, b.AppendValue(20))
	require.NoError(t, b.AppendValue(30))
	require.NoError(t, b.EndPositionEntry())
	require.NoError(t, b.AppendValue(40))

	blk, err := b.MvOrdering(MvAscending).Build()
	require.NoError(t, err)
	return blk
}

func TestFilter_SelectsAndReorders(t *testing.T) {
	f := NewFactory(nil)
	blk := buildMixedLongBlock(t, f)
	defer blk.Release()

	out, err := blk.Filter(2, 0)
	require.NoError(t, err)
	defer out.Release()

	filtered := out.(*ArrayBlock[int64])
	require.Equal(t, 2, filtered.PositionCount())

	// Position 0 is the source's [20,30] run, copied verbatim.
	assert.Equal(t, 2, filtered.ValueCount(0))
	first := filtered.FirstValueIndex(0)
	assert.Equal(t, int64(20), filtered.Get(first))
	assert.Equal(t, int64(30), filtered.Get(first+1))

	assert.Equal(t, 1, filtered.ValueCount(1))
	assert.Equal(t, int64(10), filtered.Get(filtered.FirstValueIndex(1)))

	// The declared ordering carries over since runs are copied unchanged.
	assert.Equal(t, MvAscending, filtered.MvOrdering())
}

func TestFilter_Identity(t *testing.T) {
	f := NewFactory(nil)
	blk := buildMixedLongBlock(t, f)
	defer blk.Release()

	out, err := blk.Filter(0, 1, 2, 3)
	require.NoError(t, err)
	defer out.Release()

	assert.True(t, Equal(blk, out))
	assert.Equal(t, Hash(blk), Hash(out))
}

func TestFilter_Composes(t *testing.T) {
	f := NewFactory(nil)
	blk := buildMixedLongBlock(t, f)
	defer blk.Release()

	inner, err := blk.Filter(2, 0, 3)
	require.NoError(t, err)
	defer inner.Release()

	twice, err := inner.Filter(1, 2)
	require.NoError(t, err)
	defer twice.Release()

	// filter(filter(b, A), B) selects A[B[i]] from the source.
	direct, err := blk.Filter(0, 3)
	require.NoError(t, err)
	defer direct.Release()

	assert.True(t, Equal(twice, direct))
}

func TestFilter_DuplicatesAndEmpty(t *testing.T) {
	f := NewFactory(nil)
	blk := buildMixedLongBlock(t, f)
	defer blk.Release()

	dup, err := blk.Filter(1, 1, 1)
	require.NoError(t, err)
	defer dup.Release()
	require.Equal(t, 3, dup.PositionCount())
	for p := 0; p < 3; p++ {
		assert.True(t, dup.IsNull(p))
	}

	empty, err := blk.Filter()
	require.NoError(t, err)
	defer empty.Release()
	assert.Zero(t, empty.PositionCount())
}

func TestFilter_OutOfRange(t *testing.T) {
	f := NewFactory(nil)
	blk := buildMixedLongBlock(t, f)
	defer blk.Release()

	_, err := blk.Filter(4)
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = blk.Filter(-1)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestExpand_ExplodesMultivalued(t *testing.T) {
	f := NewFactory(nil)
	blk := buildMixedLongBlock(t, f)
	defer blk.Release()

	out, err := blk.Expand()
	require.NoError(t, err)
	defer out.Release()

	expanded := out.(*ArrayBlock[int64])
	require.Equal(t, 5, expanded.PositionCount())

	want := []struct {
		null  bool
		value int64
	}{
		{false, 10},
		{true, 0},
		{false, 20},
		{false, 30},
		{false, 40},
	}
	for p, w := range want {
		assert.Equal(t, w.null, expanded.IsNull(p), "position %d", p)
		if !w.null {
			assert.Equal(t, 1, expanded.ValueCount(p), "position %d", p)
			assert.Equal(t, w.value, expanded.Get(expanded.FirstValueIndex(p)), "position %d", p)
		}
	}
}

func TestExpand_Idempotent(t *testing.T) {
	f := NewFactory(nil)
	blk := buildMixedLongBlock(t, f)
	defer blk.Release()

	once, err := blk.Expand()
	require.NoError(t, err)
	defer once.Release()

	twice, err := once.Expand()
	require.NoError(t, err)
	defer twice.Release()

	assert.True(t, Equal(once, twice))
	assert.Equal(t, Hash(once), Hash(twice))
}

func TestExpand_OneToOneIsZeroCopy(t *testing.T) {
	f := NewFactory(nil)

	b, err := f.NewLongBlockBuilder(3)
	require.NoError(t, err)
	for _, v := range []int64{1, 2, 3} {
		require.NoError(t, b.AppendValue(v))
	}
	blk, err := b.Build()
	require.NoError(t, err)
	defer blk.Release()

	out, err := blk.Expand()
	require.NoError(t, err)
	defer out.Release()

	assert.Same(t, blk, out)
	assert.Zero(t, f.ReservedBytes()-blk.RAMBytesUsed()) // no extra allocation
}

func TestEqual_AcrossRepresentations(t *testing.T) {
	f := NewFactory(nil)

	b, err := f.NewLongBlockBuilder(3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.AppendValue(7))
	}
	arr, err := b.Build()
	require.NoError(t, err)
	defer arr.Release()

	cons, err := NewConstantBlock[int64](f, 7, 3)
	require.NoError(t, err)
	defer cons.Release()

	assert.True(t, Equal(arr, cons))
	assert.True(t, Equal(cons, arr))
	assert.Equal(t, Hash(arr), Hash(cons))
}

func TestEqual_AllNullRepresentations(t *testing.T) {
	f := NewFactory(nil)

	b, err := f.NewLongBlockBuilder(3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.AppendNull())
	}
	arr, err := b.Build()
	require.NoError(t, err)
	defer arr.Release()

	nulls, err := NewConstantNullBlock(f, 3)
	require.NoError(t, err)
	defer nulls.Release()

	assert.True(t, Equal(arr, nulls))
	assert.Equal(t, Hash(arr), Hash(nulls))
}

func TestEqual_Distinguishes(t *testing.T) {
	f := NewFactory(nil)

	build := func(fill func(b *Builder[int64])) Block {
		b, err := f.NewLongBlockBuilder(2)
		require.NoError(t, err)
		fill(b)
		blk, err := b.Build()
		require.NoError(t, err)
		return blk
	}

	mv := build(func(b *Builder[int64]) {
		require.NoError(t, b.BeginPositionEntry())
		require.NoError(t, b.AppendValue(20))
		require.NoError(t, b.AppendValue(30))
		require.NoError(t, b.EndPositionEntry())
	})
	defer mv.Release()

	reversed := build(func(b *Builder[int64]) {
		require.NoError(t, b.BeginPositionEntry())
		require.NoError(t, b.AppendValue(30))
		require.NoError(t, b.AppendValue(20))
		require.NoError(t, b.EndPositionEntry())
	})
	defer reversed.Release()

	nullPos := build(func(b *Builder[int64]) {
		require.NoError(t, b.AppendNull())
	})
	defer nullPos.Release()

	emptyPos := build(func(b *Builder[int64]) {
		require.NoError(t, b.BeginPositionEntry())
		require.NoError(t, b.EndPositionEntry())
	})
	defer emptyPos.Release()

	// Value order within a position matters.
	assert.False(t, Equal(mv, reversed))
	// An empty entry is not a null position.
	assert.False(t, Equal(nullPos, emptyPos))
}

func TestBytesBlockEqualityAndHash(t *testing.T) {
	f := NewFactory(nil)

	build := func(values ...string) Block {
		b, err := f.NewBytesBlockBuilder(len(values))
		require.NoError(t, err)
		for _, v := range values {
			require.NoError(t, b.AppendValue([]byte(v)))
		}
		blk, err := b.Build()
		require.NoError(t, err)
		return blk
	}

	a := build("foo", "bar")
	defer a.Release()
	same := build("foo", "bar")
	defer same.Release()
	other := build("foo", "baz")
	defer other.Release()

	assert.True(t, Equal(a, same))
	assert.Equal(t, Hash(a), Hash(same))
	assert.False(t, Equal(a, other))
}

func TestRAMBytesUsed_FloorsAtEmpty(t *testing.T) {
	f := NewFactory(nil)

	empty, err := func() (Block, error) {
		b, err := f.NewLongBlockBuilder(0)
		if err != nil {
			return nil, err
		}
		return b.Build()
	}()
	require.NoError(t, err)
	defer empty.Release()

	blk := buildMixedLongBlock(t, f)
	defer blk.Release()

	assert.Positive(t, empty.RAMBytesUsed())
	assert.GreaterOrEqual(t, blk.RAMBytesUsed(), empty.RAMBytesUsed())
}
