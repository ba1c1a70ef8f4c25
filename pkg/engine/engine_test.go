package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func makeDataset(header []string, rows ...[]string) *dataset.Dataset {
	data := make([][]dataset.Cell, len(rows))
	for i, row := range rows {
		cells := make([]dataset.Cell, len(row))
		for j, v := range row {
			cells[j] = dataset.NewStringCell(v)
		}
		data[i] = cells
	}
	return dataset.New(header, data)
}

func simpleRule(id string, typ rules.SimpleRuleType, params rules.SimpleParams, cols ...string) *rules.Rule {
	refs := make([]dataset.ColumnRef, len(cols))
	for i, c := range cols {
		refs[i] = dataset.ColumnRef(c)
	}
	return &rules.Rule{
		ID:      id,
		Kind:    rules.KindSimple,
		Message: string(typ) + " check failed",
		Active:  true,
		Simple: &rules.SimpleRule{
			Columns: refs,
			Check:   rules.SimpleCheck{Type: typ, Params: params},
		},
	}
}

func multiRule(id string, typ rules.MultiRuleType, params rules.MultiParams, cols ...string) *rules.Rule {
	refs := make([]dataset.ColumnRef, len(cols))
	for i, c := range cols {
		refs[i] = dataset.ColumnRef(c)
	}
	return &rules.Rule{
		ID:      id,
		Kind:    rules.KindMultiColumn,
		Message: string(typ) + " check failed",
		Active:  true,
		Multi:   &rules.MultiColumnRule{Columns: refs, Type: typ, Params: params},
	}
}

func conditionalRule(id string, conditions []rules.Condition, action rules.Action) *rules.Rule {
	return &rules.Rule{
		ID:      id,
		Kind:    rules.KindConditional,
		Message: "conditional rule failed",
		Active:  true,
		Conditional: &rules.ConditionalRule{
			Conditions: conditions,
			Combinator: rules.CombinatorAnd,
			Action:     action,
		},
	}
}

func validate(t *testing.T, e *Engine, set *rules.RuleSet, ds *dataset.Dataset) *Result {
	t.Helper()
	result, err := e.Validate(context.Background(), set, ds)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return result
}

func errorCoordinates(result *Result) []string {
	coords := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		coords[i] = e.Coordinate
	}
	return coords
}

func assertCoordinates(t *testing.T, result *Result, want ...string) {
	t.Helper()
	got := errorCoordinates(result)
	if len(got) != len(want) {
		t.Fatalf("got %d errors %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("error %d: got coordinate %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidate_NilInputs(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"A"}, []string{"x"})

	if _, err := e.Validate(context.Background(), nil, ds); !errors.Is(err, ErrNilRuleSet) {
		t.Errorf("nil rule set: got %v, want ErrNilRuleSet", err)
	}
	if _, err := e.Validate(context.Background(), rules.NewRuleSet(), nil); !errors.Is(err, ErrNilDataset) {
		t.Errorf("nil dataset: got %v, want ErrNilDataset", err)
	}
}

func TestValidate_NotBlankPerCell(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"name"},
		[]string{"john"},
		[]string{""},
		[]string{"   "},
		[]string{"jane"},
	)
	set := rules.NewRuleSet(simpleRule("nb", rules.SimpleNotBlank, rules.SimpleParams{}, "A"))

	result := validate(t, e, set, ds)
	// Row numbers in coordinates account for the header row.
	assertCoordinates(t, result, "A3", "A4")
	for _, ve := range result.Errors {
		if ve.RuleID != "nb" {
			t.Errorf("got rule id %q, want nb", ve.RuleID)
		}
	}
}

func TestValidate_HeaderNameResolution(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"id", "email"},
		[]string{"1", "a@example.com"},
		[]string{"2", "not-an-email"},
	)
	set := rules.NewRuleSet(simpleRule("mail", rules.SimpleEmail, rules.SimpleParams{}, "email"))

	result := validate(t, e, set, ds)
	assertCoordinates(t, result, "B3")
	if result.Errors[0].Column() != "B" {
		t.Errorf("got column %q, want B", result.Errors[0].Column())
	}
}

func TestValidate_ConditionalScenario(t *testing.T) {
	// Condition column B = "VIP", action: column C not blank. Exactly
	// two errors: row 2 column A from the not-blank rule and row 2
	// column C from the conditional action.
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B", "C"},
		[]string{"John", "VIP", "1000"},
		[]string{"", "VIP", ""},
		[]string{"Jane", "STD", "500"},
	)
	set := rules.NewRuleSet(
		simpleRule("nb", rules.SimpleNotBlank, rules.SimpleParams{}, "A"),
		conditionalRule("vip",
			[]rules.Condition{{Column: "B", Operator: rules.OperatorEqual, Value: "VIP"}},
			rules.Action{Column: "C", Type: rules.ActionNotBlank}),
	)

	result := validate(t, e, set, ds)
	assertCoordinates(t, result, "A3", "C3")
	if result.Errors[0].RuleID != "nb" || result.Errors[1].RuleID != "vip" {
		t.Errorf("got rule ids %q, %q; want nb, vip", result.Errors[0].RuleID, result.Errors[1].RuleID)
	}
	for _, ve := range result.Errors {
		if ve.Row != 2 {
			t.Errorf("got error on row %d, want 2", ve.Row)
		}
	}
}

func TestValidate_ConditionalCombinators(t *testing.T) {
	tests := []struct {
		name       string
		combinator rules.Combinator
		wantCoords []string
	}{
		{"and triggers only when both hold", rules.CombinatorAnd, []string{"C2"}},
		{"or triggers when either holds", rules.CombinatorOr, []string{"C2", "C3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine(t)
			ds := makeDataset([]string{"A", "B", "C"},
				[]string{"x", "y", ""},
				[]string{"x", "z", ""},
				[]string{"w", "w", ""},
			)
			rule := conditionalRule("cond",
				[]rules.Condition{
					{Column: "A", Operator: rules.OperatorEqual, Value: "x"},
					{Column: "B", Operator: rules.OperatorEqual, Value: "y"},
				},
				rules.Action{Column: "C", Type: rules.ActionNotBlank})
			rule.Conditional.Combinator = tt.combinator

			result := validate(t, e, rules.NewRuleSet(rule), ds)
			assertCoordinates(t, result, tt.wantCoords...)
		})
	}
}

func TestValidate_ConditionMissingColumnFailsOpen(t *testing.T) {
	// A condition on a column absent from the header never triggers the
	// rule, it does not disable it.
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"}, []string{"", "x"})
	set := rules.NewRuleSet(conditionalRule("cond",
		[]rules.Condition{{Column: "missing", Operator: rules.OperatorEqual, Value: "x"}},
		rules.Action{Column: "A", Type: rules.ActionNotBlank}))

	result := validate(t, e, set, ds)
	if len(result.Errors) != 0 {
		t.Errorf("got %d errors, want 0", len(result.Errors))
	}
	if len(result.ConfigErrors) != 0 {
		t.Errorf("got %d config errors, want 0", len(result.ConfigErrors))
	}
}

func TestValidate_DuplicateFlagsEveryOccurrence(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"code"},
		[]string{"a"},
		[]string{"b"},
		[]string{"a"},
		[]string{""},
		[]string{""},
	)
	set := rules.NewRuleSet(simpleRule("dup", rules.SimpleDuplicate, rules.SimpleParams{}, "A"))

	result := validate(t, e, set, ds)
	// Both occurrences error; empty cells never count as duplicates.
	assertCoordinates(t, result, "A2", "A4")
}

func TestValidate_DuplicateCaseInsensitive(t *testing.T) {
	e := testEngine(t)
	cs := false
	ds := makeDataset([]string{"code"},
		[]string{"Alpha"},
		[]string{"alpha"},
		[]string{"beta"},
	)
	set := rules.NewRuleSet(simpleRule("dup", rules.SimpleDuplicate, rules.SimpleParams{CaseSensitive: &cs}, "A"))

	result := validate(t, e, set, ds)
	assertCoordinates(t, result, "A2", "A3")
}

func TestValidate_UniqueCombination(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"first", "last"},
		[]string{"john", "doe"},
		[]string{"john", "smith"},
		[]string{"john", "doe"},
	)
	set := rules.NewRuleSet(multiRule("uniq", rules.MultiUniqueCombination, rules.MultiParams{}, "A", "B"))

	result := validate(t, e, set, ds)
	assertCoordinates(t, result, "A2+B2", "A4+B4")
	if got := result.Errors[0].Columns; len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("got columns %v, want [A B]", got)
	}
}

func TestValidate_ErrorOrdering(t *testing.T) {
	// Errors come out in (row, rule order, column) order regardless of
	// which rule or column produced them.
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"},
		[]string{"", ""},
		[]string{"x", ""},
	)
	set := rules.NewRuleSet(
		simpleRule("r1", rules.SimpleNotBlank, rules.SimpleParams{}, "A", "B"),
		simpleRule("r2", rules.SimpleNotBlank, rules.SimpleParams{}, "B"),
	)

	result := validate(t, e, set, ds)
	assertCoordinates(t, result, "A2", "B2", "B2", "B3", "B3")
	wantRules := []string{"r1", "r1", "r2", "r1", "r2"}
	for i, ve := range result.Errors {
		if ve.RuleID != wantRules[i] {
			t.Errorf("error %d: got rule %q, want %q", i, ve.RuleID, wantRules[i])
		}
	}
}

func TestValidate_Idempotence(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"},
		[]string{"", "x"},
		[]string{"y", ""},
	)
	set := rules.NewRuleSet(
		simpleRule("nb", rules.SimpleNotBlank, rules.SimpleParams{}, "A", "B"),
	)

	first := validate(t, e, set, ds)
	second := validate(t, e, set, ds)

	if len(first.Errors) != len(second.Errors) {
		t.Fatalf("run 1 produced %d errors, run 2 produced %d", len(first.Errors), len(second.Errors))
	}
	for i := range first.Errors {
		a, b := first.Errors[i], second.Errors[i]
		if a.Coordinate != b.Coordinate || a.RuleID != b.RuleID || a.Message != b.Message {
			t.Errorf("error %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestValidate_InactiveRule(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"},
		[]string{"", ""},
		[]string{"x", "y"},
	)
	nb := simpleRule("nb-a", rules.SimpleNotBlank, rules.SimpleParams{}, "A")
	other := simpleRule("nb-b", rules.SimpleNotBlank, rules.SimpleParams{}, "B")

	active := validate(t, e, rules.NewRuleSet(nb, other), ds)
	assertCoordinates(t, active, "A2", "B2")

	nb.Active = false
	toggled := validate(t, e, rules.NewRuleSet(nb, other), ds)
	assertCoordinates(t, toggled, "B2")
	if toggled.Errors[0].RuleID != "nb-b" {
		t.Errorf("got rule id %q, want nb-b", toggled.Errors[0].RuleID)
	}
}

func TestValidate_FailModeSkip(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"}, []string{"", "x"})
	set := rules.NewRuleSet(
		simpleRule("ghost", rules.SimpleNotBlank, rules.SimpleParams{}, "missing"),
		simpleRule("nb", rules.SimpleNotBlank, rules.SimpleParams{}, "A"),
	)

	result := validate(t, e, set, ds)
	if len(result.ConfigErrors) != 1 {
		t.Fatalf("got %d config errors, want 1", len(result.ConfigErrors))
	}
	if result.ConfigErrors[0].RuleID != "ghost" {
		t.Errorf("got config error for rule %q, want ghost", result.ConfigErrors[0].RuleID)
	}
	// The healthy rule still ran.
	assertCoordinates(t, result, "A2")
	if result.RuleCount != 1 {
		t.Errorf("got rule count %d, want 1", result.RuleCount)
	}
}

func TestValidate_FailModeAbort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailMode = FailAbort
	e, err := New(cfg, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ds := makeDataset([]string{"A"}, []string{""})
	set := rules.NewRuleSet(simpleRule("ghost", rules.SimpleNotBlank, rules.SimpleParams{}, "missing"))

	if _, err := e.Validate(context.Background(), set, ds); err == nil {
		t.Fatal("expected abort error for unresolvable column")
	}
}

func TestValidate_TrailingBlankRowsSkipped(t *testing.T) {
	// Blank rows below the last data row are export padding and are not
	// validated; a blank row between data rows is a data defect.
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"},
		[]string{"x", "1"},
		[]string{"", ""},
		[]string{"y", ""},
		[]string{"", ""},
		[]string{"", ""},
	)
	set := rules.NewRuleSet(simpleRule("nb", rules.SimpleNotBlank, rules.SimpleParams{}, "A", "B"))

	result := validate(t, e, set, ds)
	assertCoordinates(t, result, "A3", "B3", "B4")
}

func TestValidate_DirectRulesBeforeConditional(t *testing.T) {
	// Simple and multi-column rules report before conditional rules on
	// each row, even when a conditional rule is listed first.
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"},
		[]string{"VIP", ""},
	)
	set := rules.NewRuleSet(
		conditionalRule("vip",
			[]rules.Condition{{Column: "A", Operator: rules.OperatorEqual, Value: "VIP"}},
			rules.Action{Column: "B", Type: rules.ActionNotBlank}),
		simpleRule("nb", rules.SimpleNotBlank, rules.SimpleParams{}, "B"),
	)

	result := validate(t, e, set, ds)
	assertCoordinates(t, result, "B2", "B2")
	wantRules := []string{"nb", "vip"}
	for i, ve := range result.Errors {
		if ve.RuleID != wantRules[i] {
			t.Errorf("error %d: got rule %q, want %q", i, ve.RuleID, wantRules[i])
		}
	}
}

func TestValidate_ConcurrentRunsShareRuleSet(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"code"},
		[]string{"AB123"},
		[]string{"nope"},
	)
	set := rules.NewRuleSet(simpleRule("code", rules.SimpleRegex, rules.SimpleParams{Pattern: "[A-Z]{2}[0-9]+"}, "A"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := e.Validate(context.Background(), set, ds)
			if err != nil {
				t.Errorf("Validate: %v", err)
				return
			}
			if got := errorCoordinates(result); len(got) != 1 || got[0] != "A3" {
				t.Errorf("got coordinates %v, want [A3]", got)
			}
		}()
	}
	wg.Wait()
}

func TestValidate_CancelledContext(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"A"}, []string{"x"})
	set := rules.NewRuleSet(simpleRule("nb", rules.SimpleNotBlank, rules.SimpleParams{}, "A"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Validate(ctx, set, ds); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestValidate_DefaultCheck(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"name", "amount", "notes"},
		[]string{"alice", "", ""},
		[]string{"", "10", "info"},
	)
	set := rules.NewRuleSet(
		simpleRule("len", rules.SimpleLength, rules.SimpleParams{Max: intPtr(10)}, "name"),
	)
	set.Default = &rules.DefaultCheck{
		Check:   rules.SimpleCheck{Type: rules.SimpleNotBlank},
		Exclude: []dataset.ColumnRef{"notes"},
		Message: "cell must not be empty",
	}

	result := validate(t, e, set, ds)

	// The default check covers name and amount only; notes stays blank
	// without complaint. Row 2 of the data is display row 3.
	wantCoords := []string{"B2", "A3"}
	gotCoords := errorCoordinates(result)
	if len(gotCoords) != len(wantCoords) {
		t.Fatalf("got coordinates %v, want %v", gotCoords, wantCoords)
	}
	for i := range wantCoords {
		if gotCoords[i] != wantCoords[i] {
			t.Errorf("coordinate %d: got %s, want %s", i, gotCoords[i], wantCoords[i])
		}
	}
	for _, ve := range result.Errors {
		if ve.RuleID != "default" {
			t.Errorf("rule id = %q, want default", ve.RuleID)
		}
		if ve.Message != "cell must not be empty" {
			t.Errorf("message = %q", ve.Message)
		}
	}
	if result.RuleCount != 2 {
		t.Errorf("RuleCount = %d, want 2 (explicit rule plus default)", result.RuleCount)
	}
}

func TestValidate_DefaultCheckIDCollision(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"}, []string{"", "x"})
	set := rules.NewRuleSet(
		simpleRule("default", rules.SimpleNotBlank, rules.SimpleParams{}, "A"),
	)
	set.Default = &rules.DefaultCheck{Check: rules.SimpleCheck{Type: rules.SimpleNotBlank}}

	result := validate(t, e, set, ds)

	ids := make(map[string]bool)
	for _, ve := range result.Errors {
		ids[ve.RuleID] = true
	}
	if !ids["default"] || !ids["default-check"] {
		t.Errorf("rule ids = %v, want both default and default-check", ids)
	}
}

func TestResult_Annotations(t *testing.T) {
	e := testEngine(t)
	ds := makeDataset([]string{"A", "B"},
		[]string{"", "100"},
	)
	set := rules.NewRuleSet(
		simpleRule("nb", rules.SimpleNotBlank, rules.SimpleParams{}, "A"),
		multiRule("sum", rules.MultiSumEqual, rules.MultiParams{}, "A", "B"),
	)

	result := validate(t, e, set, ds)
	annotations := result.Annotations()
	want := []Annotation{{Row: 1, Column: "A"}, {Row: 1, Column: "B"}}
	if len(annotations) != len(want) {
		t.Fatalf("got %d annotations %v, want %d", len(annotations), annotations, len(want))
	}
	for i := range want {
		if annotations[i] != want[i] {
			t.Errorf("annotation %d: got %+v, want %+v", i, annotations[i], want[i])
		}
	}
}
