// Package engine runs repeated A/A trials and measures how often they
// falsely declare significance at a chosen analysis level.
package engine

import (
	"sort"

	"github.com/aabench/aabench/internal/assign"
	"github.com/aabench/aabench/internal/dataset"
)

// GroupCTR is one aggregated row: the click-through rate of a single
// analysis-level group, labeled with its (unique) treatment arm.
type GroupCTR struct {
	Key       string
	Treatment bool
	CTR       float64
	Count     int
}

type groupAcc struct {
	clicks int
	count  int
	arms   [2]bool
}

// Aggregate rolls observations up to the requested analysis level under one
// trial's assignment. Every group must land in exactly one arm; a group seen
// in both produces a ConsistencyError naming every offending key. The input
// is not modified.
func Aggregate(obs []dataset.Observation, level dataset.Level, a assign.Assignment) ([]GroupCTR, error) {
	accs := make(map[string]*groupAcc)
	var order []string

	for _, o := range obs {
		key := o.Key(level)
		acc, ok := accs[key]
		if !ok {
			acc = &groupAcc{}
			accs[key] = acc
			order = append(order, key)
		}
		acc.count++
		if o.Click {
			acc.clicks++
		}
		acc.arms[a[o.UserID]] = true
	}

	var conflicted []string
	for _, key := range order {
		if acc := accs[key]; acc.arms[assign.Control] && acc.arms[assign.Treatment] {
			conflicted = append(conflicted, key)
		}
	}
	if len(conflicted) > 0 {
		sort.Strings(conflicted)
		return nil, &ConsistencyError{Level: level, Keys: conflicted}
	}

	groups := make([]GroupCTR, 0, len(order))
	for _, key := range order {
		acc := accs[key]
		groups = append(groups, GroupCTR{
			Key:       key,
			Treatment: acc.arms[assign.Treatment],
			CTR:       float64(acc.clicks) / float64(acc.count),
			Count:     acc.count,
		})
	}

	return groups, nil
}

// SplitByArm separates group-level CTR values into control and treatment
// samples for the hypothesis test.
func SplitByArm(groups []GroupCTR) (control, treatment []float64) {
	for _, g := range groups {
		if g.Treatment {
			treatment = append(treatment, g.CTR)
		} else {
			control = append(control, g.CTR)
		}
	}
	return control, treatment
}
