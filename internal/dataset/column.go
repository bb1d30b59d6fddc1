package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ColumnRef selects a column either by zero-based index or, when the file
// has a header row, by name. The choice is resolved into a concrete offset
// once, before any data row is read.
type ColumnRef struct {
	index int
	name  string
	named bool
}

// ColumnByIndex refers to a column by zero-based position.
func ColumnByIndex(i int) ColumnRef {
	return ColumnRef{index: i}
}

// ColumnByName refers to a column by header name.
func ColumnByName(name string) ColumnRef {
	return ColumnRef{name: name, named: true}
}

// ParseColumnRef interprets a CLI argument: all-digits means an index,
// anything else a name.
func ParseColumnRef(s string) ColumnRef {
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		return ColumnByIndex(i)
	}
	return ColumnByName(s)
}

func (c ColumnRef) String() string {
	if c.named {
		return c.name
	}
	return strconv.Itoa(c.index)
}

// resolve turns the reference into an offset. header is nil when the file
// has no header row, in which case only index references are valid.
func (c ColumnRef) resolve(header []string) (int, error) {
	if !c.named {
		return c.index, nil
	}
	if header == nil {
		return 0, fmt.Errorf("column %q referenced by name but the file has no header row", c.name)
	}
	for i, name := range header {
		if strings.TrimSpace(name) == c.name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header", c.name)
}

// LoadMetric reads a single numeric column from a delimited file, for the
// single-shot A/A test. Rows that are empty, too short, or non-numeric in
// the metric column are skipped, matching the tolerant loader the tool
// started with.
func LoadMetric(path string, column ColumnRef, delimiter rune, hasHeader bool) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var header []string
	if hasHeader {
		header, err = reader.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}

	offset, err := column.resolve(header)
	if err != nil {
		return nil, err
	}

	var values []float64
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if offset >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[offset]), 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}

	return values, nil
}
