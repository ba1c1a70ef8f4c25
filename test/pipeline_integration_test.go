//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/engine"
	"veridata-hq/tabular/pkg/report"
	"veridata-hq/tabular/pkg/report/export"
	"veridata-hq/tabular/pkg/rules"
	"veridata-hq/tabular/pkg/rules/source"
	"veridata-hq/tabular/pkg/storage"
)

const pipelineRules = `
version: "1"
rules:
  - id: required-fields
    kind: simple
    type: not_blank
    columns: [name, email]
    message: required field is blank
  - id: valid-email
    kind: simple
    type: email
    columns: [email]
    params:
      trim: true
    message: not a valid email address
  - id: unique-email
    kind: simple
    type: duplicate
    columns: [email]
    params:
      case_sensitive: false
    message: duplicate email address
  - id: totals-add-up
    kind: multi_column
    type: sum_equal
    columns: [net, tax, gross]
    message: net + tax does not equal gross
  - id: vip-needs-phone
    kind: conditional
    conditions:
      - column: tier
        operator: equals
        value: VIP
    action:
      column: phone
      type: not_blank
    message: VIP customers must have a phone number
`

const pipelineData = `name,email,tier,phone,net,tax,gross
Alice,alice@example.com,VIP,+49 30 1234567,100.00,19.00,119.00
Bob,bob@,Standard,,50.00,10.00,60.00
Carla,,Standard,,20.00,4.20,24.20
Dana,dana@example.com,VIP,,80.00,18.40,99.00
Erik,ALICE@example.com,Standard,,10.00,2.10,12.10
`

// TestFilePipeline runs the whole path a real invocation takes: rules
// loaded from disk, CSV parsed, engine run, result exported and stored.
func TestFilePipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	rulesPath := filepath.Join(tmpDir, "rules.yaml")
	if err := os.WriteFile(rulesPath, []byte(pipelineRules), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	set, err := source.NewFileSource(rulesPath, slog.New(slog.DiscardHandler)).Load(ctx)
	if err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}

	ds, err := dataset.ReadCSV(strings.NewReader(pipelineData))
	if err != nil {
		t.Fatalf("failed to read dataset: %v", err)
	}

	eng, err := engine.New(engine.DefaultConfig(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	result, err := eng.Validate(ctx, set, ds)
	if err != nil {
		t.Fatalf("validation run failed: %v", err)
	}

	// Expected failures, in (row, rule order, column) order:
	//   row 2: bad email
	//   row 3: blank email (not_blank)
	//   row 4: sum mismatch, missing VIP phone
	//   row 5: duplicate of alice@example.com (case-insensitive), plus
	//          the first occurrence on row 1
	wantErrors := []struct {
		row    int
		ruleID string
	}{
		{1, "unique-email"},
		{2, "valid-email"},
		{3, "required-fields"},
		{4, "totals-add-up"},
		{4, "vip-needs-phone"},
		{5, "unique-email"},
	}
	if len(result.Errors) != len(wantErrors) {
		for _, e := range result.Errors {
			t.Logf("error: row=%d rule=%s coord=%s msg=%s", e.Row, e.RuleID, e.Coordinate, e.Message)
		}
		t.Fatalf("got %d errors, want %d", len(result.Errors), len(wantErrors))
	}
	for i, want := range wantErrors {
		got := result.Errors[i]
		if got.Row != want.row || got.RuleID != want.ruleID {
			t.Errorf("error %d = (row %d, rule %s), want (row %d, rule %s)",
				i, got.Row, got.RuleID, want.row, want.ruleID)
		}
	}
	if result.Valid() {
		t.Error("Valid() = true with errors present")
	}
	if result.RuleCount != 5 || result.RowCount != 5 {
		t.Errorf("counts = %d rules, %d rows", result.RuleCount, result.RowCount)
	}

	// Second run over the same inputs must be identical.
	again, err := eng.Validate(ctx, set, ds)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(again.Errors) != len(result.Errors) {
		t.Errorf("second run produced %d errors, want %d", len(again.Errors), len(result.Errors))
	}

	// JSON export round-trips the full result.
	var buf bytes.Buffer
	if err := (&export.JSONExporter{Pretty: true}).Export(ctx, result, &buf); err != nil {
		t.Fatalf("json export failed: %v", err)
	}
	var doc struct {
		RunID  string `json:"run_id"`
		Valid  bool   `json:"valid"`
		Errors []struct {
			RuleID string `json:"rule_id"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("exported json does not parse: %v", err)
	}
	if doc.RunID != result.RunID || doc.Valid || len(doc.Errors) != len(result.Errors) {
		t.Errorf("exported doc = %+v", doc)
	}

	// Summary groups by rule.
	summary := report.NewSummary(result)
	if summary.TotalErrors != len(result.Errors) {
		t.Errorf("summary total = %d, want %d", summary.TotalErrors, len(result.Errors))
	}

	// Persist and read back.
	store := storage.NewMemoryStore()
	defer store.Close()

	if err := store.SaveRun(ctx, storage.NewRunRecord(result, "customers.csv")); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	record, err := store.GetRun(ctx, result.RunID)
	if err != nil {
		t.Fatalf("failed to read run back: %v", err)
	}
	if record.Dataset != "customers.csv" || len(record.Errors) != len(result.Errors) {
		t.Errorf("stored record = %+v", record)
	}
}

// TestFilePipeline_MissingColumn checks the skip path: a rule bound to a
// column the dataset does not have is reported once, the rest still run.
func TestFilePipeline_MissingColumn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	set := rules.NewRuleSet(
		&rules.Rule{
			ID: "ghost", Kind: rules.KindSimple, Active: true,
			Simple: &rules.SimpleRule{
				Columns: []dataset.ColumnRef{"missing"},
				Check:   rules.SimpleCheck{Type: rules.SimpleNotBlank},
			},
		},
		&rules.Rule{
			ID: "real", Kind: rules.KindSimple, Active: true, Message: "blank",
			Simple: &rules.SimpleRule{
				Columns: []dataset.ColumnRef{"name"},
				Check:   rules.SimpleCheck{Type: rules.SimpleNotBlank},
			},
		},
	)

	ds, err := dataset.ReadCSV(strings.NewReader("name\nAlice\n\n"))
	if err != nil {
		t.Fatal(err)
	}

	eng, err := engine.New(engine.DefaultConfig(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}

	result, err := eng.Validate(ctx, set, ds)
	if err != nil {
		t.Fatalf("validation run failed: %v", err)
	}
	if len(result.ConfigErrors) != 1 || result.ConfigErrors[0].RuleID != "ghost" {
		t.Errorf("config errors = %+v", result.ConfigErrors)
	}
	if result.RuleCount != 1 {
		t.Errorf("RuleCount = %d, want 1", result.RuleCount)
	}
}
