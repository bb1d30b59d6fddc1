package engine_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aabench/aabench/internal/assign"
	"github.com/aabench/aabench/internal/dataset"
	"github.com/aabench/aabench/internal/engine"
)

// fourUserObservations is the canonical worked example: 4 users with 2 rows
// each, clicks A:[1,1] B:[0,0] C:[1,0] D:[0,1].
func fourUserObservations() []dataset.Observation {
	clicks := map[string][2]bool{
		"A": {true, true},
		"B": {false, false},
		"C": {true, false},
		"D": {false, true},
	}

	var obs []dataset.Observation
	ord := 0
	for _, user := range []string{"A", "B", "C", "D"} {
		for i := 0; i < 2; i++ {
			obs = append(obs, dataset.Observation{
				RowID:        strconv.Itoa(ord),
				ImpressionID: "imp-" + user + "-" + strconv.Itoa(i),
				UserID:       user,
				Click:        clicks[user][i],
			})
			ord++
		}
	}
	return obs
}

func TestAggregate_UserLevel(t *testing.T) {
	obs := fourUserObservations()
	a := assign.Assignment{
		"A": assign.Control, "B": assign.Control,
		"C": assign.Treatment, "D": assign.Treatment,
	}

	groups, err := engine.Aggregate(obs, dataset.LevelUser, a)
	require.NoError(t, err)
	require.Len(t, groups, 4)

	byKey := make(map[string]engine.GroupCTR)
	for _, g := range groups {
		byKey[g.Key] = g
	}

	// Per-user CTR is clicks/2.
	assert.Equal(t, 1.0, byKey["A"].CTR)
	assert.Equal(t, 0.0, byKey["B"].CTR)
	assert.Equal(t, 0.5, byKey["C"].CTR)
	assert.Equal(t, 0.5, byKey["D"].CTR)

	for _, user := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, 2, byKey[user].Count)
		assert.Equal(t, a[user].IsTreatment(), byKey[user].Treatment)
	}
}

func TestAggregate_RowLevel(t *testing.T) {
	obs := fourUserObservations()
	a := assign.Build(dataset.UniqueUserIDs(obs), "0")

	groups, err := engine.Aggregate(obs, dataset.LevelRow, a)
	require.NoError(t, err)
	require.Len(t, groups, len(obs), "row level must yield one group per row")

	for _, g := range groups {
		assert.Equal(t, 1, g.Count)
		assert.Contains(t, []float64{0, 1}, g.CTR)
	}
}

func TestAggregate_ConsistencyError(t *testing.T) {
	// Two rows share an impression but belong to users forced into
	// different arms: the impression-level grouping is inconsistent with
	// the assignment and must fail, naming the impression.
	obs := []dataset.Observation{
		{RowID: "0", ImpressionID: "imp-shared", UserID: "u1", Click: true},
		{RowID: "1", ImpressionID: "imp-shared", UserID: "u2", Click: false},
		{RowID: "2", ImpressionID: "imp-ok", UserID: "u1", Click: false},
	}
	a := assign.Assignment{"u1": assign.Control, "u2": assign.Treatment}

	_, err := engine.Aggregate(obs, dataset.LevelImpression, a)
	require.Error(t, err)

	var consErr *engine.ConsistencyError
	require.ErrorAs(t, err, &consErr)
	assert.Equal(t, dataset.LevelImpression, consErr.Level)
	assert.Equal(t, []string{"imp-shared"}, consErr.Keys)
	assert.Contains(t, consErr.Error(), "imp-shared")
}

func TestAggregate_DeterministicSplitOnFixedSalt(t *testing.T) {
	obs := fourUserObservations()
	a := assign.Build(dataset.UniqueUserIDs(obs), "0")

	first, err := engine.Aggregate(obs, dataset.LevelUser, a)
	require.NoError(t, err)
	second, err := engine.Aggregate(obs, dataset.LevelUser, a)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	control, treatment := engine.SplitByArm(first)
	assert.Equal(t, 4, len(control)+len(treatment))
}

func TestSplitByArm(t *testing.T) {
	groups := []engine.GroupCTR{
		{Key: "a", Treatment: false, CTR: 0.1},
		{Key: "b", Treatment: true, CTR: 0.9},
		{Key: "c", Treatment: false, CTR: 0.3},
	}

	control, treatment := engine.SplitByArm(groups)
	assert.Equal(t, []float64{0.1, 0.3}, control)
	assert.Equal(t, []float64{0.9}, treatment)
}
