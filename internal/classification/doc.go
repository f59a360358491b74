// Package classification implements ABC and XYZ inventory classification.
//
// ABC classification ranks SKUs within each reporting period by their
// contribution to total value (Pareto-style tiers A/B/C, assigned by
// cumulative-share thresholds). XYZ classification measures demand
// stability per SKU across periods via the coefficient of variation and
// bins SKUs into X/Y/Z tiers using data-driven quantile thresholds.
//
// # Architecture
//
//   - types.go:  input records, aggregates, per-SKU statistics, configs
//   - abc.go:    per-period cumulative-share ranking and labeling
//   - xyz.go:    densification grid, CV statistics, quantile binning
//   - stats.go:  mean, sample standard deviation, quantile helpers
//   - errors.go: the fatal error taxonomy shared with the loaders
//
// Both classifiers are pure functions: they read an immutable input
// slice and return a fresh result, holding no cross-call state. They
// are safe to invoke concurrently on the same input.
//
// # Usage Example
//
//	records, err := dataprocessing.BuildABCInput(ctx, stock, cogs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := classification.ClassifyABC(ctx, records, classification.DefaultABCConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, row := range result.Rows {
//	    fmt.Printf("%s %s -> %s\n", row.SKU, row.Period, row.Group)
//	}
package classification
