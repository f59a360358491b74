package exporter

import (
	"fmt"
	"math"
	"strconv"
)

// formatFloat formats a value for CSV output with exactly 2 decimal
// places so 13.4 appears as 13.40
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}

// formatStat keeps full precision for statistical columns. Undefined
// values (NaN) export as empty cells.
func formatStat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
