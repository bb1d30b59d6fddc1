// Package dataset holds the observation model and the loaders that turn a
// raw click-log file into observations the trial engine can consume.
package dataset

import "fmt"

// Observation is one row of the source click log. The engine never mutates
// observations; it only derives labels from them.
type Observation struct {
	RowID        string // ordinal position of the row, the finest analysis unit
	ImpressionID string // analysis unit, may be shared by several rows
	UserID       string // randomization unit
	Click        bool
}

// Level names the column an aggregation groups by.
type Level string

const (
	LevelRow        Level = "row_id"
	LevelImpression Level = "impression_id"
	LevelUser       Level = "user_id"
)

// ParseLevel validates a user-supplied level name.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelRow, LevelImpression, LevelUser:
		return Level(s), nil
	}
	return "", fmt.Errorf("unknown analysis level %q (want row_id, impression_id or user_id)", s)
}

// Key returns the observation's value for the given level.
func (o Observation) Key(level Level) string {
	switch level {
	case LevelRow:
		return o.RowID
	case LevelImpression:
		return o.ImpressionID
	default:
		return o.UserID
	}
}

// UniqueUserIDs collects the distinct randomization-unit ids, preserving
// first-seen order so assignment construction is reproducible.
func UniqueUserIDs(obs []Observation) []string {
	seen := make(map[string]struct{}, len(obs))
	var ids []string
	for _, o := range obs {
		if _, ok := seen[o.UserID]; ok {
			continue
		}
		seen[o.UserID] = struct{}{}
		ids = append(ids, o.UserID)
	}
	return ids
}
