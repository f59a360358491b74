package classification

// Group labels assigned by the classifiers
const (
	// GroupA marks SKUs contributing the top share of period value
	GroupA = "A"
	// GroupB marks SKUs in the middle value band
	GroupB = "B"
	// GroupC marks the long tail (and every SKU of a zero-value period)
	GroupC = "C"

	// GroupX marks stable SKUs (low coefficient of variation)
	GroupX = "X"
	// GroupY marks moderately volatile SKUs
	GroupY = "Y"
	// GroupZ marks volatile SKUs
	GroupZ = "Z"
	// GroupNone marks SKUs that cannot be classified (insufficient
	// data or zero mean) - deliberately distinct from GroupZ
	GroupNone = ""
)

// Mode selects how the XYZ classifier treats SKU x Period combinations
// absent from the input.
type Mode string

const (
	// ModeDense fills absent combinations with zero-value rows, so a
	// month without activity counts against a SKU's stability. This is
	// the default and the central reason dense mode exists.
	ModeDense Mode = "dense"
	// ModeSparse uses only observed combinations, understating
	// volatility for intermittent SKUs.
	ModeSparse Mode = "sparse"
)

// IsValid checks if the mode is a recognized value
func (m Mode) IsValid() bool {
	return m == ModeDense || m == ModeSparse
}

// InventoryRecord is a single raw input row. SKU x Period is not
// guaranteed unique on input; duplicates are summed during aggregation.
type InventoryRecord struct {
	SKU    string  `json:"sku"`
	Period string  `json:"period"` // "YYYY-MM"
	Value  float64 `json:"value"`
}

// IsValid checks that the identifying fields are present
func (r InventoryRecord) IsValid() bool {
	return r.SKU != "" && r.Period != ""
}

// PeriodAggregate is one row of the ABC-internal aggregate table: the
// summed value of a (Period, SKU) pair plus its cumulative diagnostics.
type PeriodAggregate struct {
	Period            string  `json:"period"`
	SKU               string  `json:"sku"`
	Value             float64 `json:"value"`
	TotalPeriodValue  float64 `json:"total_period_value"`
	CumulativeValue   float64 `json:"cumulative_value"`
	CumulativePercent float64 `json:"cumulative_percent"` // in (0,1]; defined as 1.0 when the period total is 0
	Group             string  `json:"group"`
}

// SKUStats holds the XYZ-internal per-SKU demand statistics.
//
// StdValue uses the sample (n-1) divisor; a SKU observed in exactly one
// period has StdValue 0, never NaN. CV is std/|mean| when the mean is
// nonzero, 0 when the mean is 0, and NaN when the computation produced
// an infinite value ("undefined", reported as an empty label).
type SKUStats struct {
	SKU       string  `json:"sku"`
	NPeriods  int     `json:"n_periods"`
	MeanValue float64 `json:"mean_value"`
	StdValue  float64 `json:"std_value"`
	CV        float64 `json:"cv"`
	Group     string  `json:"group"`
}

// ABCRow is an input record annotated with its ABC label and the
// cumulative share of its (Period, SKU) aggregate.
type ABCRow struct {
	InventoryRecord
	Group             string  `json:"abc_group"`
	CumulativePercent float64 `json:"cumulative_percent"`
}

// XYZRow is an input record annotated with its SKU's XYZ label,
// coefficient of variation, and the thresholds used for binning. The
// label is per SKU, not per period: all rows of a SKU share one label.
type XYZRow struct {
	InventoryRecord
	Group        string  `json:"xyz"`
	CV           float64 `json:"cv"`
	XThreshold33 float64 `json:"x_threshold_33"`
	YThreshold66 float64 `json:"y_threshold_66"`
}

// ABCResult is the full output of an ABC classification call.
type ABCResult struct {
	Rows       []ABCRow          `json:"rows"`
	Aggregates []PeriodAggregate `json:"aggregates"`
	Config     ABCConfig         `json:"config"`
}

// XYZResult is the full output of an XYZ classification call.
type XYZResult struct {
	Rows         []XYZRow   `json:"rows"`
	Stats        []SKUStats `json:"stats"`
	XThreshold33 float64    `json:"x_threshold_33"`
	YThreshold66 float64    `json:"y_threshold_66"`
	Mode         Mode       `json:"mode"`
}

// ABCConfig holds the cumulative-share thresholds for ABC
// classification. Thresholds are inclusive upper bounds: a cumulative
// share exactly at a threshold belongs to the more important tier.
type ABCConfig struct {
	AThreshold float64 `json:"a_threshold"`
	BThreshold float64 `json:"b_threshold"`
}

// DefaultABCConfig returns the conventional 80/95 split
func DefaultABCConfig() ABCConfig {
	return ABCConfig{AThreshold: 0.80, BThreshold: 0.95}
}

// Validate checks threshold sanity. Both thresholds must lie in (0,1]
// and AThreshold must be strictly below BThreshold.
func (c ABCConfig) Validate() error {
	if c.AThreshold <= 0 || c.AThreshold > 1 {
		return &ConfigError{Field: "a_threshold", Reason: "must be in (0,1]"}
	}
	if c.BThreshold <= 0 || c.BThreshold > 1 {
		return &ConfigError{Field: "b_threshold", Reason: "must be in (0,1]"}
	}
	if c.AThreshold >= c.BThreshold {
		return &ConfigError{Field: "a_threshold", Reason: "must be strictly below b_threshold"}
	}
	return nil
}

// XYZConfig configures the XYZ classifier.
type XYZConfig struct {
	Mode Mode `json:"mode"`

	// MinPeriods is the minimum number of period observations a SKU
	// needs to be classifiable and threshold-eligible.
	MinPeriods int `json:"min_periods"`

	// GridCellLimit bounds the dense grid at |SKUs| x |Periods| cells.
	// Exceeding it rejects the call rather than silently degrading.
	GridCellLimit int `json:"grid_cell_limit"`
}

// Default XYZ parameters
const (
	DefaultMinPeriods    = 2
	DefaultGridCellLimit = 5_000_000

	// Quantile points for the automatic X/Y threshold split
	xQuantile = 0.33
	yQuantile = 0.66
)

// DefaultXYZConfig returns dense mode with the standard guards
func DefaultXYZConfig() XYZConfig {
	return XYZConfig{
		Mode:          ModeDense,
		MinPeriods:    DefaultMinPeriods,
		GridCellLimit: DefaultGridCellLimit,
	}
}

// Validate checks mode and guard sanity
func (c XYZConfig) Validate() error {
	if !c.Mode.IsValid() {
		return &ConfigError{Field: "mode", Reason: `must be "dense" or "sparse"`}
	}
	if c.MinPeriods < 2 {
		return &ConfigError{Field: "min_periods", Reason: "must be at least 2"}
	}
	if c.GridCellLimit <= 0 {
		return &ConfigError{Field: "grid_cell_limit", Reason: "must be positive"}
	}
	return nil
}
