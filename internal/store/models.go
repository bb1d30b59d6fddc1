package store

import "time"

// Dataset describes one cached observation set.
type Dataset struct {
	ID        int64
	Name      string
	Source    string // file path or URL the data was imported from
	Rows      int
	Users     int
	Clicks    int
	CreatedAt time.Time
}

// CTR is the overall click-through rate of the cached dataset.
func (d *Dataset) CTR() float64 {
	if d.Rows == 0 {
		return 0
	}
	return float64(d.Clicks) / float64(d.Rows)
}
