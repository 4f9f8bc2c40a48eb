package featgo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hupe1980/featgo/blobstore"
	"github.com/hupe1980/featgo/internal/math32"
	"github.com/hupe1980/featgo/persistence"
	"github.com/hupe1980/featgo/testutil"
	"github.com/hupe1980/featgo/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("NoOrderedIDs", func(t *testing.T) {
		fm := New(WithFeatures(map[string][]float32{"a": make([]float32, 10)}))

		require.NoError(t, fm.Build(nil))
		assert.Equal(t, StateBuiltEmpty, fm.State())
		assert.Nil(t, fm.Features())
		assert.Equal(t, 0, fm.FeatureDim())
	})

	t.Run("NoRawFeatures", func(t *testing.T) {
		fm := New()

		require.NoError(t, fm.Build([]string{"a", "b"}))
		assert.Equal(t, StateBuiltEmpty, fm.State())
		assert.Nil(t, fm.Features())
	})

	t.Run("BuildAndDrain", func(t *testing.T) {
		fm := New(
			WithFeatures(map[string][]float32{"a": make([]float32, 10)}),
			WithNormalization(),
		)

		require.NoError(t, fm.Build([]string{"a"}))
		assert.Equal(t, StateBuiltWithData, fm.State())
		assert.Equal(t, 1, fm.Rows())
		assert.Equal(t, 10, fm.FeatureDim())
		assert.Equal(t, 0, fm.RawFeatureCount())
	})

	t.Run("RowOrderFollowsOrderedIDs", func(t *testing.T) {
		fm := New(WithFeatures(map[string][]float32{
			"a": {1, 1},
			"b": {2, 2},
			"c": {3, 3},
		}))

		require.NoError(t, fm.Build([]string{"c", "a", "b"}))
		mat := fm.Features()
		require.NotNil(t, mat)
		assert.Equal(t, []float32{3, 3}, mat.Row(0))
		assert.Equal(t, []float32{1, 1}, mat.Row(1))
		assert.Equal(t, []float32{2, 2}, mat.Row(2))
	})

	t.Run("MissingID", func(t *testing.T) {
		fm := New(WithFeatures(map[string][]float32{"a": {1, 2}}))

		err := fm.Build([]string{"a", "ghost"})
		require.Error(t, err)

		var missing *ErrMissingFeature
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "ghost", missing.ID)

		// Failed build keeps the module unbuilt with its raw map intact.
		assert.Equal(t, StateUnbuilt, fm.State())
		assert.Equal(t, 1, fm.RawFeatureCount())
		require.NoError(t, fm.Build([]string{"a"}))
	})

	t.Run("InconsistentDimension", func(t *testing.T) {
		fm := New(WithFeatures(map[string][]float32{
			"a": {1, 2, 3},
			"b": {1, 2},
		}))

		err := fm.Build([]string{"a", "b"})
		require.Error(t, err)

		var dim *ErrInconsistentDimension
		require.True(t, errors.As(err, &dim))
		assert.Equal(t, "b", dim.ID)
		assert.Equal(t, 3, dim.Expected)
		assert.Equal(t, 2, dim.Actual)
	})

	t.Run("BuildTwice", func(t *testing.T) {
		fm := New(WithFeatures(map[string][]float32{"a": {1}}))

		require.NoError(t, fm.Build([]string{"a"}))
		assert.ErrorIs(t, fm.Build([]string{"a"}), ErrAlreadyBuilt)
	})

	t.Run("BuildTwiceAfterEmpty", func(t *testing.T) {
		fm := New()

		require.NoError(t, fm.Build(nil))
		assert.ErrorIs(t, fm.Build(nil), ErrAlreadyBuilt)
	})

	t.Run("Normalization", func(t *testing.T) {
		fm := New(
			WithFeatures(map[string][]float32{
				"zero":    make([]float32, 4),
				"nonzero": {3, 4, 0, 0},
			}),
			WithNormalization(),
		)

		require.NoError(t, fm.Build([]string{"zero", "nonzero"}))
		mat := fm.Features()

		for _, x := range mat.Row(0) {
			assert.Equal(t, float32(0), x)
		}
		assert.InDelta(t, 1.0, math32.Norm(mat.Row(1)), 1e-6)
		assert.InDelta(t, 0.6, mat.At(1, 0), 1e-6)
		assert.InDelta(t, 0.8, mat.At(1, 1), 1e-6)
	})

	t.Run("VocabOrdering", func(t *testing.T) {
		rng := testutil.NewRNG(42)
		features, ids := rng.FeatureMap(50, 8)

		reg := vocab.FromIDs(ids...)
		want := append([]float32(nil), features["entity-0007"]...)

		fm := New(WithFeatures(features))
		require.NoError(t, fm.Build(reg.IDs()))

		assert.Equal(t, 50, fm.Rows())
		assert.Equal(t, 8, fm.FeatureDim())

		i, ok := reg.Index("entity-0007")
		require.True(t, ok)
		assert.Equal(t, want, fm.Features().Row(i))
	})
}

func TestBatchFeature(t *testing.T) {
	newBuilt := func(t *testing.T) *FeatureModule {
		t.Helper()
		fm := New(WithFeatures(map[string][]float32{
			"a": {1, 10},
			"b": {2, 20},
			"c": {3, 30},
		}))
		require.NoError(t, fm.Build([]string{"a", "b", "c"}))
		return fm
	}

	t.Run("SingleRow", func(t *testing.T) {
		fm := New(
			WithFeatures(map[string][]float32{"a": make([]float32, 10)}),
			WithNormalization(),
		)
		require.NoError(t, fm.Build([]string{"a"}))

		batch, err := fm.BatchFeature([]int{0})
		require.NoError(t, err)
		assert.Equal(t, 1, batch.Rows())
		assert.Equal(t, 10, batch.Dim())
	})

	t.Run("OrderAndDuplicates", func(t *testing.T) {
		fm := newBuilt(t)

		batch, err := fm.BatchFeature([]int{2, 0, 2})
		require.NoError(t, err)
		require.Equal(t, 3, batch.Rows())
		assert.Equal(t, []float32{3, 30}, batch.Row(0))
		assert.Equal(t, []float32{1, 10}, batch.Row(1))
		assert.Equal(t, []float32{3, 30}, batch.Row(2))
	})

	t.Run("ResultIsACopy", func(t *testing.T) {
		fm := newBuilt(t)

		batch, err := fm.BatchFeature([]int{0})
		require.NoError(t, err)
		batch.Row(0)[0] = 99

		assert.Equal(t, float32(1), fm.Features().At(0, 0))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		fm := newBuilt(t)

		_, err := fm.BatchFeature([]int{0, 3})
		var oor *ErrIndexOutOfRange
		require.True(t, errors.As(err, &oor))
		assert.Equal(t, 3, oor.Index)
		assert.Equal(t, 3, oor.Rows)

		_, err = fm.BatchFeature([]int{-1})
		assert.True(t, errors.As(err, &oor))
	})

	t.Run("Unbuilt", func(t *testing.T) {
		fm := New(WithFeatures(map[string][]float32{"a": {1}}))

		_, err := fm.BatchFeature([]int{0})
		assert.ErrorIs(t, err, ErrNoFeatureData)
	})

	t.Run("BuiltEmpty", func(t *testing.T) {
		fm := New()
		require.NoError(t, fm.Build(nil))

		_, err := fm.BatchFeature([]int{0})
		assert.ErrorIs(t, err, ErrNoFeatureData)
	})

	t.Run("ConcurrentReaders", func(t *testing.T) {
		rng := testutil.NewRNG(7)
		features, ids := rng.FeatureMap(100, 16)

		fm := New(WithFeatures(features), WithNormalization())
		require.NoError(t, fm.Build(ids))

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					batch, err := fm.BatchFeature([]int{i, 99 - i, i})
					assert.NoError(t, err)
					assert.Equal(t, 3, batch.Rows())
				}
			}()
		}
		wg.Wait()
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := persistence.NewManager(blobstore.NewMemoryStore())

	rng := testutil.NewRNG(1)
	features, ids := rng.FeatureMap(20, 6)

	fm := New(WithFeatures(features), WithNormalization())
	require.NoError(t, fm.Build(ids))
	require.NoError(t, fm.SaveTo(ctx, mgr, "items.fgo"))

	loaded, err := LoadFrom(ctx, mgr, "items.fgo")
	require.NoError(t, err)

	assert.Equal(t, StateBuiltWithData, loaded.State())
	assert.Equal(t, fm.Rows(), loaded.Rows())
	assert.Equal(t, fm.FeatureDim(), loaded.FeatureDim())
	assert.True(t, loaded.Normalized())
	assert.ErrorIs(t, loaded.Build(ids), ErrAlreadyBuilt)

	want, err := fm.BatchFeature([]int{3, 3, 19})
	require.NoError(t, err)
	got, err := loaded.BatchFeature([]int{3, 3, 19})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveToRequiresData(t *testing.T) {
	ctx := context.Background()
	mgr := persistence.NewManager(blobstore.NewMemoryStore())

	fm := New()
	require.NoError(t, fm.Build(nil))

	assert.ErrorIs(t, fm.SaveTo(ctx, mgr, "empty.fgo"), ErrNoFeatureData)
}
