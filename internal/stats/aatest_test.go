package stats_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aabench/aabench/internal/stats"
)

func syntheticMetric(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	metric := make([]float64, n)
	for i := range metric {
		if rng.Float64() < 0.3 {
			metric[i] = 1
		}
	}
	return metric
}

func TestRandomSplitAA_Deterministic(t *testing.T) {
	metric := syntheticMetric(1000, 11)

	first, err := stats.RandomSplitAA(metric, 42, 0.5)
	require.NoError(t, err)
	second, err := stats.RandomSplitAA(metric, 42, 0.5)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must reproduce the same split")
}

func TestRandomSplitAA_SplitProportions(t *testing.T) {
	metric := syntheticMetric(10000, 12)

	result, err := stats.RandomSplitAA(metric, 42, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 10000, result.ControlSize+result.TreatmentSize)
	assert.InDelta(t, 5000, float64(result.TreatmentSize), 300)

	skewed, err := stats.RandomSplitAA(metric, 42, 0.8)
	require.NoError(t, err)
	assert.InDelta(t, 8000, float64(skewed.TreatmentSize), 300)
}

func TestRandomSplitAA_NoEffect(t *testing.T) {
	metric := syntheticMetric(10000, 13)

	result, err := stats.RandomSplitAA(metric, 42, 0.5)
	require.NoError(t, err)

	// An A/A split of i.i.d. values should not show a large difference.
	assert.InDelta(t, 0, result.Difference(), 0.05)
	assert.Greater(t, result.PValue, 0.0)
	assert.LessOrEqual(t, result.PValue, 1.0)
}

func TestRandomSplitAA_TestSizeBounds(t *testing.T) {
	metric := syntheticMetric(100, 14)

	for _, size := range []float64{0, 1, -0.5, 1.5} {
		_, err := stats.RandomSplitAA(metric, 42, size)
		require.Error(t, err, "test size %v must be rejected", size)
		assert.Contains(t, err.Error(), "between 0 and 1")
	}
}

func TestRandomSplitAA_TooFewObservations(t *testing.T) {
	// Two values can never fill both arms with two observations each.
	var sizeErr *stats.InsufficientDataError
	_, err := stats.RandomSplitAA([]float64{1, 0}, 42, 0.5)
	require.ErrorAs(t, err, &sizeErr)
}
