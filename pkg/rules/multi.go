package rules

import (
	"veridata-hq/tabular/pkg/dataset"
)

// MultiRuleType identifies one of the nine cross-column checks.
type MultiRuleType string

const (
	MultiSumEqual          MultiRuleType = "sum_equal"
	MultiSumInRange        MultiRuleType = "sum_in_range"
	MultiDateCompare       MultiRuleType = "date_compare"
	MultiDateGap           MultiRuleType = "date_gap"
	MultiPercentageOf      MultiRuleType = "percentage_of"
	MultiAllOrNothing      MultiRuleType = "all_or_nothing"
	MultiUniqueCombination MultiRuleType = "unique_combination"
	MultiConditionalSum    MultiRuleType = "conditional_sum"
	MultiMaxMin            MultiRuleType = "max_min"
)

var knownMultiTypes = map[MultiRuleType]bool{
	MultiSumEqual:          true,
	MultiSumInRange:        true,
	MultiDateCompare:       true,
	MultiDateGap:           true,
	MultiPercentageOf:      true,
	MultiAllOrNothing:      true,
	MultiUniqueCombination: true,
	MultiConditionalSum:    true,
	MultiMaxMin:            true,
}

// MaxMin operations and target selectors.
const (
	OperationMax = "max"
	OperationMin = "min"

	TargetFirst = "first"
	TargetLast  = "last"
)

// MultiParams carries the type-specific parameters of a multi-column rule.
type MultiParams struct {
	// Tolerance is the absolute tolerance for SumEqual and MaxMin, and
	// the tolerance for PercentageOf (a fraction of the base column
	// unless AbsoluteTolerance is set). Nil means exact (0).
	Tolerance *float64

	// Strict makes SumEqual treat non-numeric cells as errors instead
	// of zeros.
	Strict bool

	// Min and Max bound the sum for SumInRange (inclusive).
	Min *float64
	Max *float64

	// Operator selects the comparison for DateCompare (less_than or
	// greater_than) and for ConditionalSum (any ordering operator).
	Operator Operator

	// MinDays and MaxDays bound the absolute day gap for DateGap.
	MinDays *int
	MaxDays *int

	// Percentage is the expected percentage for PercentageOf (20 means
	// the first column should be 20% of the second).
	Percentage float64

	// AbsoluteTolerance makes the PercentageOf tolerance absolute
	// instead of a fraction of the base column.
	AbsoluteTolerance bool

	// CaseSensitive controls tuple matching for UniqueCombination.
	// Nil means case-sensitive, the default.
	CaseSensitive *bool

	// Condition is the per-row trigger for ConditionalSum; the sum is
	// only checked on rows where it holds.
	Condition *Condition

	// Threshold is the comparison target for ConditionalSum.
	Threshold float64

	// Operation and Target parameterize MaxMin: the Target column
	// ("first" or "last" of the listed columns) must equal the max or
	// min of the remaining columns.
	Operation string
	Target    string

	// Formats is the ordered date layout list for DateCompare and
	// DateGap. Empty falls back to dataset.DefaultDateFormats.
	Formats []string
}

// IsCaseSensitive reports the effective case sensitivity (default true).
func (p *MultiParams) IsCaseSensitive() bool {
	return p.CaseSensitive == nil || *p.CaseSensitive
}

// MultiColumnRule applies one cross-column check to an ordered column
// sequence. Column order is significant: SumEqual sums all but the last
// column and compares against the last, DateCompare compares the first
// two, MaxMin designates the first or last column as the target.
type MultiColumnRule struct {
	Columns []dataset.ColumnRef
	Type    MultiRuleType
	Params  MultiParams
}

// Validate checks the rule's structural integrity: column counts per
// type, coherent bounds, known operators.
func (r *MultiColumnRule) Validate(ruleID string) *ConfigurationError {
	if !knownMultiTypes[r.Type] {
		return newConfigError(ruleID, "type", "unknown multi-column rule type %q", r.Type)
	}
	for _, col := range r.Columns {
		if col == "" {
			return newConfigError(ruleID, "columns", "column reference must not be empty")
		}
	}

	minColumns := 2
	if r.Type == MultiSumInRange || r.Type == MultiUniqueCombination || r.Type == MultiConditionalSum {
		minColumns = 1
	}
	if len(r.Columns) < minColumns {
		return newConfigError(ruleID, "columns", "%s rule requires at least %d columns, got %d", r.Type, minColumns, len(r.Columns))
	}

	if r.Params.Tolerance != nil && *r.Params.Tolerance < 0 {
		return newConfigError(ruleID, "params.tolerance", "tolerance must not be negative, got %v", *r.Params.Tolerance)
	}

	switch r.Type {
	case MultiSumInRange:
		if r.Params.Min == nil && r.Params.Max == nil {
			return newConfigError(ruleID, "params", "sum_in_range rule requires min and/or max")
		}
		if r.Params.Min != nil && r.Params.Max != nil && *r.Params.Min > *r.Params.Max {
			return newConfigError(ruleID, "params", "min %v exceeds max %v", *r.Params.Min, *r.Params.Max)
		}

	case MultiDateCompare:
		if r.Params.Operator != OperatorLessThan && r.Params.Operator != OperatorGreaterThan {
			return newConfigError(ruleID, "params.operator", "date_compare rule requires less_than or greater_than, got %q", r.Params.Operator)
		}

	case MultiDateGap:
		if r.Params.MinDays == nil && r.Params.MaxDays == nil {
			return newConfigError(ruleID, "params", "date_gap rule requires min_days and/or max_days")
		}
		if r.Params.MinDays != nil && *r.Params.MinDays < 0 {
			return newConfigError(ruleID, "params.min_days", "min_days must not be negative, got %d", *r.Params.MinDays)
		}
		if r.Params.MinDays != nil && r.Params.MaxDays != nil && *r.Params.MinDays > *r.Params.MaxDays {
			return newConfigError(ruleID, "params", "min_days %d exceeds max_days %d", *r.Params.MinDays, *r.Params.MaxDays)
		}

	case MultiPercentageOf:
		if r.Params.Percentage < 0 {
			return newConfigError(ruleID, "params.percentage", "percentage must not be negative, got %v", r.Params.Percentage)
		}

	case MultiConditionalSum:
		if r.Params.Condition == nil {
			return newConfigError(ruleID, "params.condition", "conditional_sum rule requires a condition")
		}
		if err := r.Params.Condition.Validate(ruleID); err != nil {
			return err
		}
		switch r.Params.Operator {
		case OperatorEqual, OperatorGreaterThan, OperatorGreaterEqual, OperatorLessThan, OperatorLessEqual:
		default:
			return newConfigError(ruleID, "params.operator", "conditional_sum rule requires a numeric comparison operator, got %q", r.Params.Operator)
		}

	case MultiMaxMin:
		if r.Params.Operation != OperationMax && r.Params.Operation != OperationMin {
			return newConfigError(ruleID, "params.operation", "max_min rule requires operation max or min, got %q", r.Params.Operation)
		}
		if r.Params.Target != TargetFirst && r.Params.Target != TargetLast {
			return newConfigError(ruleID, "params.target", "max_min rule requires target first or last, got %q", r.Params.Target)
		}
	}

	for _, layout := range r.Params.Formats {
		if !validDateLayout(layout) {
			return newConfigError(ruleID, "params.formats", "invalid date layout %q", layout)
		}
	}

	return nil
}
