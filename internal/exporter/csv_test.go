package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Strip the UTF-8 BOM before parsing
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteABCReport(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteABCReport("abc.csv", abcResult()))

	records := readCSV(t, paths.GetReportPath("abc.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"SKU", "Period", "Value", "ABC_Group", "Cumulative_Percent"}, records[0])
	assert.Equal(t, []string{"W-1", "2024-01", "800.00", "A", "0.8"}, records[1])
	assert.Equal(t, []string{"W-2", "2024-01", "200.00", "C", "1"}, records[2])
}

func TestCSVWriter_WriteXYZReport(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteXYZReport("xyz.csv", xyzResult()))

	records := readCSV(t, paths.GetReportPath("xyz.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"SKU", "Period", "Value", "XYZ", "CV", "x_threshold_33", "y_threshold_66"}, records[0])
	assert.Equal(t, []string{"W-1", "2024-01", "10.00", "X", "0.05", "0.2", "0.5"}, records[1])

	// Undefined CV exports empty, thresholds still populated
	assert.Equal(t, []string{"W-3", "2024-01", "7.00", "", "", "0.2", "0.5"}, records[2])
}

func TestCSVWriter_BOMPrefix(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteABCReport("abc.csv", abcResult()))

	data, err := os.ReadFile(paths.GetReportPath("abc.csv"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
}

func TestCSVWriter_AppendSkipsHeaders(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteCSV("log.csv", WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}},
	}))
	require.NoError(t, writer.WriteCSV("log.csv", WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"3", "4"}},
		Append:  true,
	}))

	records := readCSV(t, paths.GetReportPath("log.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"3", "4"}, records[2])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "", formatFloat(math.NaN()))
	assert.Equal(t, "0.8660254037844386", formatStat(0.8660254037844386))
	assert.Equal(t, "", formatStat(math.NaN()))
	assert.Equal(t, "0", formatStat(0))
}
