package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aabench/aabench/internal/stats"
)

func TestMeanInterval(t *testing.T) {
	values := []float64{0.2, 0.3, 0.4, 0.3, 0.2, 0.4, 0.3, 0.3}

	lower, upper := stats.MeanInterval(values, 0.95)
	assert.Less(t, lower, upper)
	assert.Less(t, lower, 0.3)
	assert.Greater(t, upper, 0.3)

	wideLower, wideUpper := stats.MeanInterval(values, 0.99)
	assert.Less(t, wideLower, lower, "higher confidence must widen the interval")
	assert.Greater(t, wideUpper, upper)
}

func TestMeanInterval_Degenerate(t *testing.T) {
	lower, upper := stats.MeanInterval(nil, 0.95)
	assert.Equal(t, 0.0, lower)
	assert.Equal(t, 0.0, upper)

	lower, upper = stats.MeanInterval([]float64{0.7}, 0.95)
	assert.Equal(t, 0.7, lower)
	assert.Equal(t, 0.7, upper)
}
