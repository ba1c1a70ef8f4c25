package engine

import (
	"strings"
	"time"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

// ValidationError is one reported data failure: a rule that did not hold
// for a cell (or cell group) of one row. It is the expected, user-facing
// output of a run — never an error return.
type ValidationError struct {
	// Row is the 1-based, data-relative row index (header excluded).
	Row int

	// Columns are the display-form column identifiers involved, in rule
	// order. Simple and conditional rules report one column; multi-column
	// rules report every listed column.
	Columns []string

	// Coordinate is the spreadsheet-style cell address ("B12", or
	// "A3+B3" for multi-column errors). Row numbers account for the
	// header row so they match what the user sees in their sheet.
	Coordinate string

	// Message is the rule's user-facing message, optionally extended
	// with a failure detail (e.g. "invalid date format").
	Message string

	// RuleID identifies the rule that produced the error.
	RuleID string

	// Values are the string forms of the offending cell values.
	Values []string
}

// Column returns the first involved column's display identifier.
func (e *ValidationError) Column() string {
	if len(e.Columns) == 0 {
		return ""
	}
	return e.Columns[0]
}

// Annotation is one (row, column) cell the report generator should mark
// in the source table.
type Annotation struct {
	Row    int
	Column string
}

// Result is the outcome of one validation run.
type Result struct {
	// RunID uniquely identifies the run.
	RunID string

	// StartedAt is when the run began; Duration is the total run time.
	StartedAt time.Time
	Duration  time.Duration

	// RowCount is the number of data rows in the dataset; RuleCount is
	// the number of active rules that were evaluated.
	RowCount  int
	RuleCount int

	// Errors is the ordered error list, in (row, rule order, column)
	// order, direct rules before conditional rules on each row.
	// Duplicate errors from the same rule on the same cell are
	// suppressed; errors from different (row, column, rule) triples are
	// never merged.
	Errors []*ValidationError

	// ConfigErrors are rules that could not run (referenced column
	// missing from the header), surfaced once per run. Only populated
	// when the engine runs with FailSkip.
	ConfigErrors []*rules.ConfigurationError
}

// Valid reports whether the dataset passed every evaluated rule.
// Skipped rules do not count as passes; check ConfigErrors separately.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Annotations derives the distinct cells to mark in the source table,
// in error order.
func (r *Result) Annotations() []Annotation {
	seen := make(map[Annotation]bool)
	var cells []Annotation
	for _, e := range r.Errors {
		for _, col := range e.Columns {
			a := Annotation{Row: e.Row, Column: col}
			if seen[a] {
				continue
			}
			seen[a] = true
			cells = append(cells, a)
		}
	}
	return cells
}

// coordinate renders the display address for an error's cells.
func coordinate(cols []int, row int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = dataset.Coordinate(c, row)
	}
	return strings.Join(parts, "+")
}
