package report

import (
	"time"

	"veridata-hq/tabular/pkg/engine"
)

// RuleCount is the error count attributed to one rule.
type RuleCount struct {
	RuleID string `json:"rule_id"`
	Count  int    `json:"count"`
}

// ColumnCount is the error count attributed to one column.
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// Summary aggregates one run's outcome. Groupings preserve first-seen
// order, which for rules is rule-set order and for columns is the order
// errors appeared in.
type Summary struct {
	RunID        string        `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	RowCount     int           `json:"row_count"`
	RuleCount    int           `json:"rule_count"`
	Valid        bool          `json:"valid"`
	TotalErrors  int           `json:"total_errors"`
	RowsAffected int           `json:"rows_affected"`
	SkippedRules int           `json:"skipped_rules"`
	ByRule       []RuleCount   `json:"by_rule,omitempty"`
	ByColumn     []ColumnCount `json:"by_column,omitempty"`
}

// NewSummary aggregates a validation result.
func NewSummary(result *engine.Result) *Summary {
	s := &Summary{
		RunID:        result.RunID,
		StartedAt:    result.StartedAt,
		Duration:     result.Duration,
		RowCount:     result.RowCount,
		RuleCount:    result.RuleCount,
		Valid:        result.Valid(),
		TotalErrors:  len(result.Errors),
		SkippedRules: len(result.ConfigErrors),
	}

	ruleIdx := make(map[string]int)
	colIdx := make(map[string]int)
	rows := make(map[int]bool)

	for _, e := range result.Errors {
		rows[e.Row] = true

		i, ok := ruleIdx[e.RuleID]
		if !ok {
			i = len(s.ByRule)
			ruleIdx[e.RuleID] = i
			s.ByRule = append(s.ByRule, RuleCount{RuleID: e.RuleID})
		}
		s.ByRule[i].Count++

		for _, col := range e.Columns {
			j, ok := colIdx[col]
			if !ok {
				j = len(s.ByColumn)
				colIdx[col] = j
				s.ByColumn = append(s.ByColumn, ColumnCount{Column: col})
			}
			s.ByColumn[j].Count++
		}
	}

	s.RowsAffected = len(rows)
	return s
}
