// Package stats implements the two-sample hypothesis test the trial engine
// runs, plus the single-shot seeded A/A split the tool started with.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrZeroVariance is returned when both samples are constant and identical,
// leaving the t-statistic undefined. Callers must not paper over this with a
// fabricated p-value.
var ErrZeroVariance = errors.New("zero pooled variance: t-statistic is undefined")

// InsufficientDataError reports an arm too small to carry a sample standard
// deviation, and therefore a t-test.
type InsufficientDataError struct {
	Arm  string
	Size int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s arm has %d observation(s); the t-test needs at least 2 per arm", e.Arm, e.Size)
}

// TTestResult holds one two-sample comparison.
type TTestResult struct {
	ControlMean     float64
	TreatmentMean   float64
	ControlStdDev   float64
	TreatmentStdDev float64
	PValue          float64
	ControlSize     int
	TreatmentSize   int
}

// Difference is the treatment-minus-control mean difference.
func (r TTestResult) Difference() float64 {
	return r.TreatmentMean - r.ControlMean
}

// TwoSampleTTest runs an independent two-sample, two-tailed t-test under the
// equal-variance (pooled) assumption and reports descriptive statistics for
// both arms. Standard deviations are sample standard deviations (n−1).
func TwoSampleTTest(control, treatment []float64) (TTestResult, error) {
	if len(control) < 2 {
		return TTestResult{}, &InsufficientDataError{Arm: "control", Size: len(control)}
	}
	if len(treatment) < 2 {
		return TTestResult{}, &InsufficientDataError{Arm: "treatment", Size: len(treatment)}
	}

	n1 := float64(len(control))
	n2 := float64(len(treatment))

	result := TTestResult{
		ControlMean:     stat.Mean(control, nil),
		TreatmentMean:   stat.Mean(treatment, nil),
		ControlStdDev:   stat.StdDev(control, nil),
		TreatmentStdDev: stat.StdDev(treatment, nil),
		ControlSize:     len(control),
		TreatmentSize:   len(treatment),
	}

	df := n1 + n2 - 2
	pooled := ((n1-1)*result.ControlStdDev*result.ControlStdDev +
		(n2-1)*result.TreatmentStdDev*result.TreatmentStdDev) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))

	diff := result.ControlMean - result.TreatmentMean
	if se == 0 {
		if diff == 0 {
			return TTestResult{}, ErrZeroVariance
		}
		// Constant but different samples: the difference is exact.
		result.PValue = 0
		return result, nil
	}

	t := diff / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	result.PValue = 2 * dist.CDF(-math.Abs(t))

	return result, nil
}
