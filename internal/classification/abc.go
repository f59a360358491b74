package classification

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// ClassifyABC assigns ABC groups to SKUs by period based on cumulative
// value contribution.
//
// Each period is classified independently: (Period, SKU) values are
// summed, sorted descending by value (ties broken ascending by SKU so
// the result is deterministic), and the running cumulative share of the
// period total places each SKU into a tier. A period whose total value
// is zero carries no signal; its cumulative share is defined as 1.0 and
// every SKU falls to group C. The labels are then joined back onto
// every original record sharing the (Period, SKU) key.
//
// The input is never mutated. Errors follow the package taxonomy and
// are all-or-nothing: no partial result is returned on failure.
func ClassifyABC(ctx context.Context, records []InventoryRecord, cfg ABCConfig) (*ABCResult, error) {
	start := time.Now()
	logger := slog.Default()

	logger.InfoContext(ctx, "starting ABC classification",
		"records", len(records),
		"a_threshold", cfg.AThreshold,
		"b_threshold", cfg.BThreshold,
	)

	if err := cfg.Validate(); err != nil {
		logger.ErrorContext(ctx, "ABC config validation failed", "error", err)
		return nil, err
	}

	if err := checkSchema(records); err != nil {
		logger.ErrorContext(ctx, "ABC schema validation failed", "error", err)
		return nil, err
	}

	// Aggregate: one row per (Period, SKU), duplicates summed
	aggregates, index := aggregateByPeriodSKU(records)

	// Rank and label each period independently
	periods, byPeriod := groupAggregatesByPeriod(aggregates)
	for _, period := range periods {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("classification cancelled: %w", ctx.Err())
		default:
		}

		classifyPeriod(byPeriod[period], cfg)
	}

	// Broadcast the per-(Period, SKU) label onto every original record
	rows := make([]ABCRow, len(records))
	missing := 0
	for i, record := range records {
		agg, ok := index[aggregateKey{period: record.Period, sku: record.SKU}]
		if !ok {
			missing++
			continue
		}
		rows[i] = ABCRow{
			InventoryRecord:   record,
			Group:             agg.Group,
			CumulativePercent: agg.CumulativePercent,
		}
	}

	if missing > 0 {
		err := &AssignmentError{Rows: missing}
		logger.ErrorContext(ctx, "ABC group assignment failed", "rows", missing)
		return nil, err
	}

	logger.InfoContext(ctx, "ABC classification completed",
		"duration", time.Since(start),
		"rows", len(rows),
		"aggregates", len(aggregates),
		"periods", len(periods),
	)

	return &ABCResult{
		Rows:       rows,
		Aggregates: flattenAggregates(periods, byPeriod),
		Config:     cfg,
	}, nil
}

// aggregateKey identifies one (Period, SKU) pair
type aggregateKey struct {
	period string
	sku    string
}

// checkSchema verifies that every record exposes the required fields
func checkSchema(records []InventoryRecord) error {
	for _, record := range records {
		if record.IsValid() {
			continue
		}
		var missing []string
		if record.SKU == "" {
			missing = append(missing, "SKU")
		}
		if record.Period == "" {
			missing = append(missing, "Period")
		}
		return &SchemaError{Missing: missing}
	}
	return nil
}

// aggregateByPeriodSKU sums values per (Period, SKU) pair. The returned
// index maps each key to its aggregate for the broadcast join.
func aggregateByPeriodSKU(records []InventoryRecord) ([]*PeriodAggregate, map[aggregateKey]*PeriodAggregate) {
	index := make(map[aggregateKey]*PeriodAggregate)
	var aggregates []*PeriodAggregate

	for _, record := range records {
		key := aggregateKey{period: record.Period, sku: record.SKU}
		if agg, ok := index[key]; ok {
			agg.Value += record.Value
			continue
		}
		agg := &PeriodAggregate{
			Period: record.Period,
			SKU:    record.SKU,
			Value:  record.Value,
		}
		index[key] = agg
		aggregates = append(aggregates, agg)
	}

	return aggregates, index
}

// groupAggregatesByPeriod buckets aggregates per period, with periods
// returned in ascending order for deterministic processing
func groupAggregatesByPeriod(aggregates []*PeriodAggregate) ([]string, map[string][]*PeriodAggregate) {
	byPeriod := make(map[string][]*PeriodAggregate)
	for _, agg := range aggregates {
		byPeriod[agg.Period] = append(byPeriod[agg.Period], agg)
	}

	periods := make([]string, 0, len(byPeriod))
	for period := range byPeriod {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	return periods, byPeriod
}

// classifyPeriod ranks one period's aggregates and assigns groups.
// Sort order is value descending with ascending SKU as the tie-break,
// so equal-value SKUs always classify in the same order.
func classifyPeriod(aggs []*PeriodAggregate, cfg ABCConfig) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].Value == aggs[j].Value {
			return aggs[i].SKU < aggs[j].SKU
		}
		return aggs[i].Value > aggs[j].Value
	})

	total := 0.0
	for _, agg := range aggs {
		total += agg.Value
	}

	cumulative := 0.0
	for _, agg := range aggs {
		cumulative += agg.Value
		agg.TotalPeriodValue = total
		agg.CumulativeValue = cumulative

		if total == 0 {
			// Degenerate period: no signal, share defined as 1.0
			agg.CumulativePercent = 1.0
		} else {
			agg.CumulativePercent = cumulative / total
		}

		agg.Group = classifyShare(agg.CumulativePercent, total, cfg)
	}
}

// classifyShare maps a cumulative share to its ABC group. Thresholds
// are inclusive upper bounds: a share exactly at a threshold belongs to
// the more important tier.
func classifyShare(cumulativePercent, totalValue float64, cfg ABCConfig) string {
	switch {
	case totalValue == 0:
		return GroupC
	case cumulativePercent <= cfg.AThreshold:
		return GroupA
	case cumulativePercent <= cfg.BThreshold:
		return GroupB
	default:
		return GroupC
	}
}

// flattenAggregates returns the aggregate table in output order:
// period ascending, then the ranked order within each period
func flattenAggregates(periods []string, byPeriod map[string][]*PeriodAggregate) []PeriodAggregate {
	var out []PeriodAggregate
	for _, period := range periods {
		for _, agg := range byPeriod[period] {
			out = append(out, *agg)
		}
	}
	return out
}
