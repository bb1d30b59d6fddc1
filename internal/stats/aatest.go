package stats

import (
	"fmt"
	"math/rand"
)

// RandomSplitAA runs the single-shot A/A variant: a seeded pseudo-random
// split of the metric into two arms followed by the same pooled t-test the
// trial engine uses. testSize is the proportion routed to the treatment arm.
//
// This is the only place a stateful random generator is allowed; the
// repeated-trial engine assigns by hashing so trials stay pure functions of
// their salt.
func RandomSplitAA(metric []float64, seed int64, testSize float64) (TTestResult, error) {
	if testSize <= 0 || testSize >= 1 {
		return TTestResult{}, fmt.Errorf("test size must be between 0 and 1, got %v", testSize)
	}

	rng := rand.New(rand.NewSource(seed))
	var control, treatment []float64
	for _, v := range metric {
		if rng.Float64() < testSize {
			treatment = append(treatment, v)
		} else {
			control = append(control, v)
		}
	}

	return TwoSampleTTest(control, treatment)
}
