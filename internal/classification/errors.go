package classification

import (
	"fmt"
	"strings"
)

// SchemaError reports required fields absent from the input table.
// It is fatal: the run aborts and the missing field names are surfaced
// to the caller.
type SchemaError struct {
	Missing []string `json:"missing"`
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// TypeConversionError reports a value that is not numeric and cannot
// be coerced. Row is the 1-based position in the source table.
type TypeConversionError struct {
	Column string `json:"column"`
	Row    int    `json:"row"`
	Value  string `json:"value"`
}

// Error implements the error interface
func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("column %s row %d: value %q is not numeric", e.Column, e.Row, e.Value)
}

// ConfigError reports invalid classifier parameters (mode, thresholds,
// grid limits). Validated at entry, before any work is done.
type ConfigError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// AssignmentError reports an internal consistency failure: records
// that did not receive a label after the broadcast join. This indicates
// a join-key mismatch and must never happen in correct operation.
type AssignmentError struct {
	Rows int `json:"rows"`
}

// Error implements the error interface
func (e *AssignmentError) Error() string {
	return fmt.Sprintf("group assignment failed for %d rows", e.Rows)
}
