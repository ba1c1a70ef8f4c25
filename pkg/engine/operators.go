package engine

import (
	"strings"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

// evaluateOperator applies a comparison operator to a cell and an operand.
//
// Coercion follows one rule set for conditions and Comparison checks:
// when both sides look numeric, the comparison is numeric; otherwise both
// sides are compared as case-sensitive strings. Pattern operators
// (contains, starts_with, ends_with) always operate on string forms.
// The unary operators use the shared emptiness definition (nil, empty,
// whitespace-only).
func evaluateOperator(op rules.Operator, cell dataset.Cell, operand string) bool {
	switch op {
	case rules.OperatorIsEmpty:
		return cell.IsEmpty()

	case rules.OperatorIsNotEmpty:
		return !cell.IsEmpty()
	}

	actual := strings.TrimSpace(cell.String())
	expected := strings.TrimSpace(operand)

	switch op {
	case rules.OperatorEqual:
		return compareValues(cell, actual, expected) == 0

	case rules.OperatorNotEqual:
		return compareValues(cell, actual, expected) != 0

	case rules.OperatorGreaterThan:
		return compareValues(cell, actual, expected) > 0

	case rules.OperatorGreaterEqual:
		return compareValues(cell, actual, expected) >= 0

	case rules.OperatorLessThan:
		return compareValues(cell, actual, expected) < 0

	case rules.OperatorLessEqual:
		return compareValues(cell, actual, expected) <= 0

	case rules.OperatorContains:
		return strings.Contains(actual, expected)

	case rules.OperatorNotContains:
		return !strings.Contains(actual, expected)

	case rules.OperatorStartsWith:
		return strings.HasPrefix(actual, expected)

	case rules.OperatorEndsWith:
		return strings.HasSuffix(actual, expected)

	default:
		// Unknown operators are rejected at rule-creation time.
		return false
	}
}

// compareValues returns -1, 0, or 1 ordering the cell against the
// operand. Numeric comparison when both sides are numeric-looking,
// case-sensitive string comparison otherwise.
func compareValues(cell dataset.Cell, actual, expected string) int {
	if an, ok := cell.Number(); ok {
		if en, ok := dataset.ParseNumber(expected); ok {
			switch {
			case an < en:
				return -1
			case an > en:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(actual, expected)
}
