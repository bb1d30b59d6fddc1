package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MeanInterval returns a normal-approximation confidence interval for the
// mean of values at the given confidence level (e.g. 0.95). Degenerate
// inputs (fewer than two values) collapse to a zero-width interval.
func MeanInterval(values []float64, confidence float64) (lower, upper float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := stat.Mean(values, nil)
	if len(values) < 2 {
		return mean, mean
	}

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - (1-confidence)/2)
	half := z * stat.StdDev(values, nil) / math.Sqrt(float64(len(values)))

	return mean - half, mean + half
}
