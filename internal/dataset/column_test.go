package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aabench/aabench/internal/dataset"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseColumnRef(t *testing.T) {
	assert.Equal(t, "0", dataset.ParseColumnRef("0").String())
	assert.Equal(t, "17", dataset.ParseColumnRef("17").String())
	assert.Equal(t, "click", dataset.ParseColumnRef("click").String())
	// A negative number is not a valid index, so it reads as a name.
	assert.Equal(t, "-1", dataset.ParseColumnRef("-1").String())
}

func TestLoadMetric_ByIndex(t *testing.T) {
	path := writeTempCSV(t, "1,0.5\n0,0.25\n1,0.75\n")

	values, err := dataset.LoadMetric(path, dataset.ColumnByIndex(0), ',', false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, values)
}

func TestLoadMetric_ByNameWithHeader(t *testing.T) {
	path := writeTempCSV(t, "click,score\n1,0.5\n0,0.25\n")

	values, err := dataset.LoadMetric(path, dataset.ColumnByName("score"), ',', true)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25}, values)
}

func TestLoadMetric_ByNameWithoutHeader(t *testing.T) {
	path := writeTempCSV(t, "1,0.5\n")

	_, err := dataset.LoadMetric(path, dataset.ColumnByName("click"), ',', false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header")
}

func TestLoadMetric_UnknownName(t *testing.T) {
	path := writeTempCSV(t, "click,score\n1,0.5\n")

	_, err := dataset.LoadMetric(path, dataset.ColumnByName("ctr"), ',', true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadMetric_SkipsBadRows(t *testing.T) {
	path := writeTempCSV(t, "1\nnot-a-number\n\n0\n")

	values, err := dataset.LoadMetric(path, dataset.ColumnByIndex(0), ',', false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, values)
}
