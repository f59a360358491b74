package classification

import (
	"context"
	"errors"
	"math"
	"testing"
)

func statBySKU(stats []SKUStats, sku string) *SKUStats {
	for i := range stats {
		if stats[i].SKU == sku {
			return &stats[i]
		}
	}
	return nil
}

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestClassifyXYZ_DenseVsSparse(t *testing.T) {
	// SKU X1 is absent in 2024-02; a filler SKU makes all three
	// periods observable. Dense mode must treat the gap as a real
	// zero-value observation, sparse mode must ignore it.
	records := []InventoryRecord{
		rec("X1", "2024-01", 10),
		rec("X1", "2024-03", 10),
		rec("FILL", "2024-01", 5),
		rec("FILL", "2024-02", 5),
		rec("FILL", "2024-03", 5),
	}

	denseCfg := DefaultXYZConfig()
	dense, err := ClassifyXYZ(context.Background(), records, denseCfg)
	if err != nil {
		t.Fatalf("dense run failed: %v", err)
	}

	sparseCfg := DefaultXYZConfig()
	sparseCfg.Mode = ModeSparse
	sparse, err := ClassifyXYZ(context.Background(), records, sparseCfg)
	if err != nil {
		t.Fatalf("sparse run failed: %v", err)
	}

	denseStat := statBySKU(dense.Stats, "X1")
	sparseStat := statBySKU(sparse.Stats, "X1")
	if denseStat == nil || sparseStat == nil {
		t.Fatal("X1 stats missing")
	}

	if denseStat.NPeriods != 3 {
		t.Errorf("dense NPeriods: got %d, want 3", denseStat.NPeriods)
	}
	if sparseStat.NPeriods != 2 {
		t.Errorf("sparse NPeriods: got %d, want 2", sparseStat.NPeriods)
	}

	// Dense: values [10,0,10], mean 6.667, sample std sqrt(33.33) -> cv 0.866
	if !approxEqual(denseStat.CV, 0.8660, 1e-3) {
		t.Errorf("dense CV: got %v, want ~0.866", denseStat.CV)
	}
	// Sparse: values [10,10] -> std 0 -> cv 0
	if sparseStat.CV != 0 {
		t.Errorf("sparse CV: got %v, want 0", sparseStat.CV)
	}
	if denseStat.CV == sparseStat.CV {
		t.Error("dense and sparse CV should differ for an intermittent SKU")
	}
}

func TestClassifyXYZ_SinglePeriodSKU(t *testing.T) {
	// One observation: std defined as 0, cv 0, not classifiable
	records := []InventoryRecord{
		rec("SOLO", "2024-01", 42),
	}

	cfg := DefaultXYZConfig()
	cfg.Mode = ModeSparse
	result, err := ClassifyXYZ(context.Background(), records, cfg)
	if err != nil {
		t.Fatalf("ClassifyXYZ failed: %v", err)
	}

	stat := statBySKU(result.Stats, "SOLO")
	if stat.StdValue != 0 {
		t.Errorf("StdValue: got %v, want 0", stat.StdValue)
	}
	if stat.CV != 0 || math.IsNaN(stat.CV) {
		t.Errorf("CV: got %v, want 0", stat.CV)
	}
	if stat.Group != GroupNone {
		t.Errorf("Group: got %q, want empty (insufficient data)", stat.Group)
	}
}

func TestClassifyXYZ_ZeroMeanSKU(t *testing.T) {
	records := []InventoryRecord{
		rec("DEAD", "2024-01", 0),
		rec("DEAD", "2024-02", 0),
		rec("LIVE", "2024-01", 10),
		rec("LIVE", "2024-02", 12),
	}

	result, err := ClassifyXYZ(context.Background(), records, DefaultXYZConfig())
	if err != nil {
		t.Fatalf("ClassifyXYZ failed: %v", err)
	}

	dead := statBySKU(result.Stats, "DEAD")
	if dead.Group != GroupNone {
		t.Errorf("zero-mean SKU group: got %q, want empty", dead.Group)
	}
	if dead.CV != 0 {
		t.Errorf("zero-mean SKU CV: got %v, want 0", dead.CV)
	}

	live := statBySKU(result.Stats, "LIVE")
	if live.Group == GroupNone {
		t.Error("active SKU should be classifiable")
	}
}

func TestClassifyXYZ_ThresholdDerivationAndBinning(t *testing.T) {
	// Four eligible SKUs over the same two periods (sparse mode keeps
	// the arithmetic exact). Two-period CV is sqrt(2)*|a-b|/(a+b):
	//   CV1=0, CV2~0.4714, CV3~0.7071, CV4~0.9428
	// x = 33rd pct ~0.4667, y = 66th pct ~0.7024
	records := []InventoryRecord{
		rec("S1", "2024-01", 10), rec("S1", "2024-02", 10),
		rec("S2", "2024-01", 10), rec("S2", "2024-02", 20),
		rec("S3", "2024-01", 10), rec("S3", "2024-02", 30),
		rec("S4", "2024-01", 10), rec("S4", "2024-02", 50),
	}

	cfg := DefaultXYZConfig()
	cfg.Mode = ModeSparse
	result, err := ClassifyXYZ(context.Background(), records, cfg)
	if err != nil {
		t.Fatalf("ClassifyXYZ failed: %v", err)
	}

	if !approxEqual(result.XThreshold33, 0.4667, 1e-3) {
		t.Errorf("x threshold: got %v, want ~0.4667", result.XThreshold33)
	}
	if !approxEqual(result.YThreshold66, 0.7024, 1e-3) {
		t.Errorf("y threshold: got %v, want ~0.7024", result.YThreshold66)
	}

	expected := map[string]string{
		"S1": GroupX,
		"S2": GroupY,
		"S3": GroupZ,
		"S4": GroupZ,
	}
	for sku, want := range expected {
		if got := statBySKU(result.Stats, sku).Group; got != want {
			t.Errorf("%s: got %q, want %q", sku, got, want)
		}
	}
}

func TestClassifyXYZ_NoEligibleSKUs(t *testing.T) {
	// Single-period SKUs only: nothing is eligible, thresholds 0
	records := []InventoryRecord{
		rec("S1", "2024-01", 10),
		rec("S2", "2024-01", 20),
	}

	cfg := DefaultXYZConfig()
	cfg.Mode = ModeSparse
	result, err := ClassifyXYZ(context.Background(), records, cfg)
	if err != nil {
		t.Fatalf("ClassifyXYZ failed: %v", err)
	}

	if result.XThreshold33 != 0 || result.YThreshold66 != 0 {
		t.Errorf("thresholds: got %v/%v, want 0/0", result.XThreshold33, result.YThreshold66)
	}
	for _, stat := range result.Stats {
		if stat.Group != GroupNone {
			t.Errorf("%s: got %q, want empty", stat.SKU, stat.Group)
		}
	}
}

func TestClassifyXYZ_BroadcastPerSKU(t *testing.T) {
	// All period rows of a SKU share one label, cv and thresholds
	records := []InventoryRecord{
		rec("S1", "2024-01", 10),
		rec("S1", "2024-02", 20),
		rec("S1", "2024-03", 15),
		rec("S2", "2024-01", 5),
		rec("S2", "2024-02", 50),
		rec("S2", "2024-03", 5),
	}

	result, err := ClassifyXYZ(context.Background(), records, DefaultXYZConfig())
	if err != nil {
		t.Fatalf("ClassifyXYZ failed: %v", err)
	}

	seen := make(map[string]XYZRow)
	for _, row := range result.Rows {
		if first, ok := seen[row.SKU]; ok {
			if row.Group != first.Group || row.CV != first.CV {
				t.Errorf("%s: rows disagree on label/cv: %+v vs %+v", row.SKU, row, first)
			}
		} else {
			seen[row.SKU] = row
		}
		if row.XThreshold33 != result.XThreshold33 || row.YThreshold66 != result.YThreshold66 {
			t.Errorf("%s: row thresholds differ from result thresholds", row.SKU)
		}
	}
}

func TestClassifyXYZ_GridLimitRejected(t *testing.T) {
	records := []InventoryRecord{
		rec("S1", "2024-01", 1),
		rec("S2", "2024-02", 1),
		rec("S3", "2024-03", 1),
	}

	cfg := DefaultXYZConfig()
	cfg.GridCellLimit = 4 // grid needs 3x3 = 9 cells

	_, err := ClassifyXYZ(context.Background(), records, cfg)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want ConfigError", err)
	}
	if cfgErr.Field != "grid_cell_limit" {
		t.Errorf("field: got %q, want grid_cell_limit", cfgErr.Field)
	}

	// Sparse mode ignores the grid limit entirely
	cfg.Mode = ModeSparse
	if _, err := ClassifyXYZ(context.Background(), records, cfg); err != nil {
		t.Errorf("sparse mode should not hit the grid limit: %v", err)
	}
}

func TestClassifyXYZ_InvalidMode(t *testing.T) {
	cfg := DefaultXYZConfig()
	cfg.Mode = Mode("banana")

	_, err := ClassifyXYZ(context.Background(), []InventoryRecord{rec("S1", "2024-01", 1)}, cfg)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want ConfigError", err)
	}
}

func TestClassifyXYZ_DuplicatePairsSummed(t *testing.T) {
	// Duplicate (SKU, Period) rows are summed before statistics
	records := []InventoryRecord{
		rec("S1", "2024-01", 4),
		rec("S1", "2024-01", 6),
		rec("S1", "2024-02", 10),
	}

	cfg := DefaultXYZConfig()
	cfg.Mode = ModeSparse
	result, err := ClassifyXYZ(context.Background(), records, cfg)
	if err != nil {
		t.Fatalf("ClassifyXYZ failed: %v", err)
	}

	stat := statBySKU(result.Stats, "S1")
	if stat.NPeriods != 2 {
		t.Errorf("NPeriods: got %d, want 2", stat.NPeriods)
	}
	if stat.MeanValue != 10 {
		t.Errorf("MeanValue: got %v, want 10", stat.MeanValue)
	}
	if stat.StdValue != 0 {
		t.Errorf("StdValue: got %v, want 0", stat.StdValue)
	}
}

func TestClassifyXYZ_Idempotent(t *testing.T) {
	records := []InventoryRecord{
		rec("S1", "2024-01", 10), rec("S1", "2024-02", 12),
		rec("S2", "2024-01", 5), rec("S2", "2024-03", 50),
		rec("S3", "2024-02", 7),
	}

	first, err := ClassifyXYZ(context.Background(), records, DefaultXYZConfig())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	rederived := make([]InventoryRecord, len(first.Rows))
	for i, row := range first.Rows {
		rederived[i] = row.InventoryRecord
	}

	second, err := ClassifyXYZ(context.Background(), rederived, DefaultXYZConfig())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	for i := range first.Rows {
		if first.Rows[i].Group != second.Rows[i].Group {
			t.Errorf("row %d: labels differ across runs: %q vs %q", i, first.Rows[i].Group, second.Rows[i].Group)
		}
	}
}

func TestClassifyXYZ_SchemaError(t *testing.T) {
	records := []InventoryRecord{
		{SKU: "S1", Period: "", Value: 10},
	}

	_, err := ClassifyXYZ(context.Background(), records, DefaultXYZConfig())
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("got %v, want SchemaError", err)
	}
}
