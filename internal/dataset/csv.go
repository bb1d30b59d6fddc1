package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SchemaError reports required columns missing from the input file.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset is missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// requiredColumns are the columns the trial engine needs. row_id is not on
// the list: it is synthesized from the row ordinal.
var requiredColumns = []string{"user_id", "impression_id", "click"}

// LoadObservations reads a delimited click log with a header row and returns
// one Observation per data row. The click column accepts 0/1 as well as
// true/false spellings.
func LoadObservations(path string, delimiter rune) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return ReadObservations(f, delimiter)
}

// ReadObservations is LoadObservations over an arbitrary reader.
func ReadObservations(r io.Reader, delimiter rune) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: requiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	userCol := index["user_id"]
	imprCol := index["impression_id"]
	clickCol := index["click"]

	var obs []Observation
	for ordinal := 0; ; ordinal++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", ordinal, err)
		}
		if len(row) <= userCol || len(row) <= imprCol || len(row) <= clickCol {
			return nil, fmt.Errorf("row %d has %d fields, need at least %d", ordinal, len(row), max3(userCol, imprCol, clickCol)+1)
		}

		click, err := parseClick(row[clickCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", ordinal, err)
		}

		obs = append(obs, Observation{
			RowID:        strconv.Itoa(ordinal),
			ImpressionID: strings.TrimSpace(row[imprCol]),
			UserID:       strings.TrimSpace(row[userCol]),
			Click:        click,
		})
	}

	return obs, nil
}

func parseClick(s string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "1", "true", "t":
		return true, nil
	case "0", "false", "f", "":
		return false, nil
	}
	// Some exports carry the label as a float ("1.0").
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v != 0, nil
	}
	return false, fmt.Errorf("cannot interpret click value %q", s)
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
