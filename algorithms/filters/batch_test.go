package filters_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/RyanBlaney/sonido-insar/algorithms/filters"
	"github.com/RyanBlaney/sonido-insar/internal/testutil"
	"github.com/RyanBlaney/sonido-insar/logging"
)

func TestGoldsteinFilterBatchMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	gf, err := filters.NewGoldsteinFilter(goldsteinConfig(0.5, 8, 2, 1), logging.NewRecordingLogger())
	require.NoError(t, err)

	tiles := make([]*mat.CDense, 12)
	for i := range tiles {
		tiles[i] = testutil.RandomMatrix(rng, 8, 24)
	}

	got, err := gf.FilterBatch(tiles)
	require.NoError(t, err)
	require.Len(t, got, len(tiles))

	for i, tile := range tiles {
		want, err := gf.FilterBuffer(tile)
		require.NoError(t, err)
		testutil.RequireMatrixNearlyEqual(t, want, got[i], 0)
	}
}

func TestGoldsteinFilterBatchReportsFailingTile(t *testing.T) {
	gf, err := filters.NewGoldsteinFilter(goldsteinConfig(0.5, 8, 2, 1), logging.NewRecordingLogger())
	require.NoError(t, err)

	tiles := []*mat.CDense{mat.NewCDense(8, 16, nil), mat.NewCDense(4, 16, nil)}
	_, err = gf.FilterBatch(tiles)
	require.ErrorIs(t, err, common.ErrInvalidArgument)
	require.Contains(t, err.Error(), "tile 1")

	_, err = gf.FilterBatch(nil)
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestRangeFilterBatch(t *testing.T) {
	const tiles, rows, cols = 5, 16, 16

	rng := rand.New(rand.NewSource(42))
	rec := logging.NewRecordingLogger()
	rf, err := filters.NewRangeFilter(rangeConfig(3, 1, 1), rangeGeometry(cols), rec)
	require.NoError(t, err)

	masters := make([]*mat.CDense, tiles)
	slaves := make([]*mat.CDense, tiles)
	for i := range masters {
		masters[i] = testutil.RandomPhaseMatrix(rng, rows, cols)
		slaves[i] = common.Clone(masters[i])
	}

	results, err := rf.FilterBatch(masters, slaves)
	require.NoError(t, err)
	require.Len(t, results, tiles)
	for _, res := range results {
		require.Equal(t, rows-2, res.Lines)
		require.Equal(t, 0.0, res.MeanShift)
	}
	require.Equal(t, tiles, rec.Count(logging.InfoLevel))

	_, err = rf.FilterBatch(masters, slaves[:1])
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}
