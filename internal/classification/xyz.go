package classification

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// ClassifyXYZ assigns XYZ stability groups to SKUs based on the
// coefficient of variation of their value across periods.
//
// In dense mode the full cross product of observed SKUs and observed
// periods is reconstructed and absent combinations are filled with
// zero-value rows, so a month with no activity counts against a SKU's
// stability. In sparse mode only observed (SKU, Period) pairs enter the
// statistics, understating volatility for intermittent SKUs. The mode
// is a first-class policy choice, not an implementation detail.
//
// Thresholds are data-driven: the 33rd and 66th percentiles of the CVs
// of eligible SKUs (at least MinPeriods observations, nonzero mean,
// defined CV). The label is per SKU and is broadcast to every original
// record of that SKU. The input is never mutated; errors are
// all-or-nothing.
func ClassifyXYZ(ctx context.Context, records []InventoryRecord, cfg XYZConfig) (*XYZResult, error) {
	start := time.Now()
	logger := slog.Default()

	logger.InfoContext(ctx, "starting XYZ classification",
		"records", len(records),
		"mode", string(cfg.Mode),
		"min_periods", cfg.MinPeriods,
	)

	if err := cfg.Validate(); err != nil {
		logger.ErrorContext(ctx, "XYZ config validation failed", "error", err)
		return nil, err
	}

	if err := checkSchema(records); err != nil {
		logger.ErrorContext(ctx, "XYZ schema validation failed", "error", err)
		return nil, err
	}

	// Aggregate: one value per (SKU, Period), duplicates summed
	sums, skus, periods := aggregateBySKUPeriod(records)

	// Densification: the reconstructed grid (dense) or the observed
	// pairs only (sparse)
	valuesBySKU, err := buildStatsInput(ctx, sums, skus, periods, cfg)
	if err != nil {
		logger.ErrorContext(ctx, "XYZ densification failed", "error", err)
		return nil, err
	}

	// Per-SKU statistics over the selected period values
	stats := make([]SKUStats, 0, len(skus))
	for _, sku := range skus {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("classification cancelled: %w", ctx.Err())
		default:
		}

		stats = append(stats, computeSKUStats(sku, valuesBySKU[sku]))
	}

	// Automatic threshold derivation from eligible SKUs
	xThreshold, yThreshold := deriveThresholds(stats, cfg.MinPeriods)

	logger.InfoContext(ctx, "derived CV thresholds",
		"x_threshold", xThreshold,
		"y_threshold", yThreshold,
	)

	statsBySKU := make(map[string]*SKUStats, len(stats))
	for i := range stats {
		stats[i].Group = classifyCV(&stats[i], cfg.MinPeriods, xThreshold, yThreshold)
		statsBySKU[stats[i].SKU] = &stats[i]
	}

	// Broadcast each SKU's label onto every original record
	rows := make([]XYZRow, len(records))
	missing := 0
	for i, record := range records {
		stat, ok := statsBySKU[record.SKU]
		if !ok {
			missing++
			continue
		}
		rows[i] = XYZRow{
			InventoryRecord: record,
			Group:           stat.Group,
			CV:              stat.CV,
			XThreshold33:    xThreshold,
			YThreshold66:    yThreshold,
		}
	}

	if missing > 0 {
		err := &AssignmentError{Rows: missing}
		logger.ErrorContext(ctx, "XYZ group assignment failed", "rows", missing)
		return nil, err
	}

	logger.InfoContext(ctx, "XYZ classification completed",
		"duration", time.Since(start),
		"rows", len(rows),
		"skus", len(stats),
		"periods", len(periods),
	)

	return &XYZResult{
		Rows:         rows,
		Stats:        stats,
		XThreshold33: xThreshold,
		YThreshold66: yThreshold,
		Mode:         cfg.Mode,
	}, nil
}

// aggregateBySKUPeriod sums values per (SKU, Period) pair and returns
// the distinct SKUs and periods in ascending order
func aggregateBySKUPeriod(records []InventoryRecord) (map[aggregateKey]float64, []string, []string) {
	sums := make(map[aggregateKey]float64)
	skuSet := make(map[string]bool)
	periodSet := make(map[string]bool)

	for _, record := range records {
		sums[aggregateKey{period: record.Period, sku: record.SKU}] += record.Value
		skuSet[record.SKU] = true
		periodSet[record.Period] = true
	}

	skus := make([]string, 0, len(skuSet))
	for sku := range skuSet {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	periods := make([]string, 0, len(periodSet))
	for period := range periodSet {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	return sums, skus, periods
}

// buildStatsInput selects the period values each SKU's statistics run
// over. Dense mode left-joins the aggregates onto the full SKU x Period
// grid with zero fill; sparse mode keeps observed pairs only.
func buildStatsInput(ctx context.Context, sums map[aggregateKey]float64, skus, periods []string, cfg XYZConfig) (map[string][]float64, error) {
	valuesBySKU := make(map[string][]float64, len(skus))

	if cfg.Mode == ModeSparse {
		for key, value := range sums {
			valuesBySKU[key.sku] = append(valuesBySKU[key.sku], value)
		}
		return valuesBySKU, nil
	}

	// The grid grows as |SKUs| x |Periods|; reject oversized grids
	// instead of silently switching modes behind the caller's back
	cells := len(skus) * len(periods)
	if cells > cfg.GridCellLimit {
		return nil, &ConfigError{
			Field:  "grid_cell_limit",
			Reason: fmt.Sprintf("dense grid needs %d cells (%d SKUs x %d periods), limit is %d", cells, len(skus), len(periods), cfg.GridCellLimit),
		}
	}

	slog.Default().DebugContext(ctx, "building dense grid",
		"skus", len(skus),
		"periods", len(periods),
		"cells", cells,
	)

	for _, sku := range skus {
		values := make([]float64, len(periods))
		for i, period := range periods {
			values[i] = sums[aggregateKey{period: period, sku: sku}]
		}
		valuesBySKU[sku] = values
	}

	return valuesBySKU, nil
}

// computeSKUStats derives the demand statistics for one SKU
func computeSKUStats(sku string, values []float64) SKUStats {
	mean := calculateMean(values)
	std := sampleStdDev(values, mean)

	var cv float64
	if mean == 0 {
		cv = 0
	} else {
		cv = std / math.Abs(mean)
	}
	if math.IsInf(cv, 0) {
		// Normalize infinities to "undefined" - distinct from 0.0
		cv = math.NaN()
	}

	return SKUStats{
		SKU:       sku,
		NPeriods:  len(values),
		MeanValue: mean,
		StdValue:  std,
		CV:        cv,
	}
}

// deriveThresholds computes the 33rd and 66th percentile of eligible
// SKUs' CV values. A SKU is eligible with at least minPeriods
// observations, a nonzero mean, and a defined CV. With no eligible
// SKUs both thresholds default to 0.
func deriveThresholds(stats []SKUStats, minPeriods int) (xThreshold, yThreshold float64) {
	var eligible []float64
	for _, stat := range stats {
		if stat.NPeriods >= minPeriods && stat.MeanValue != 0 && !math.IsNaN(stat.CV) {
			eligible = append(eligible, stat.CV)
		}
	}

	if len(eligible) == 0 {
		return 0, 0
	}

	return quantile(eligible, xQuantile), quantile(eligible, yQuantile)
}

// classifyCV maps one SKU's statistics to its XYZ group. Conditions
// are evaluated in priority order; the first match wins.
func classifyCV(stat *SKUStats, minPeriods int, xThreshold, yThreshold float64) string {
	switch {
	case stat.NPeriods < minPeriods:
		return GroupNone // insufficient data
	case stat.MeanValue == 0:
		return GroupNone // no activity
	case math.IsNaN(stat.CV):
		return GroupNone // undefined CV
	case stat.CV <= xThreshold:
		return GroupX
	case stat.CV <= yThreshold:
		return GroupY
	default:
		return GroupZ
	}
}
