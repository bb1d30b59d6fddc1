// Package assign maps randomization-unit ids to treatment buckets.
//
// Assignment is a pure function of (unit id, salt): hashing the same pair
// always yields the same bucket, and changing the salt reshuffles the whole
// population. That is what makes repeated trials independent experiments
// without threading a random generator through the engine.
package assign

import "github.com/cespare/xxhash/v2"

// Bucket is a treatment arm label.
type Bucket int

const (
	Control   Bucket = 0
	Treatment Bucket = 1
)

// IsTreatment reports whether the bucket is the treatment arm.
func (b Bucket) IsTreatment() bool {
	return b == Treatment
}

// ForUnit assigns a unit id to a bucket for the given salt.
//
// The hash input is the standardized "<unit_id>_<salt>" concatenation fed
// through 64-bit xxHash, reduced modulo 2. Any implementation that wants
// bit-for-bit compatible assignments must use exactly this construction.
func ForUnit(unitID, salt string) Bucket {
	h := xxhash.Sum64String(unitID + "_" + salt)
	return Bucket(h % 2)
}

// Assignment is one trial's mapping from unit id to bucket. It is built
// once per trial and thrown away after aggregation.
type Assignment map[string]Bucket

// Build derives the assignment for every id in unitIDs under one salt.
// Duplicate ids are harmless; they hash to the same bucket.
func Build(unitIDs []string, salt string) Assignment {
	a := make(Assignment, len(unitIDs))
	for _, id := range unitIDs {
		a[id] = ForUnit(id, salt)
	}
	return a
}
