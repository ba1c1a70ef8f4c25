package rules

import "veridata-hq/tabular/pkg/dataset"

// Operator is a comparison operator used by conditions and by the
// Comparison rule type. The operand side of pattern operators
// (contains, starts_with, ends_with) is always treated as a string.
type Operator string

const (
	OperatorEqual        Operator = "equals"
	OperatorNotEqual     Operator = "not_equals"
	OperatorGreaterThan  Operator = "greater_than"
	OperatorGreaterEqual Operator = "greater_equal"
	OperatorLessThan     Operator = "less_than"
	OperatorLessEqual    Operator = "less_equal"
	OperatorContains     Operator = "contains"
	OperatorNotContains  Operator = "not_contains"
	OperatorStartsWith   Operator = "starts_with"
	OperatorEndsWith     Operator = "ends_with"
	OperatorIsEmpty      Operator = "is_empty"
	OperatorIsNotEmpty   Operator = "is_not_empty"
)

var knownOperators = map[Operator]bool{
	OperatorEqual:        true,
	OperatorNotEqual:     true,
	OperatorGreaterThan:  true,
	OperatorGreaterEqual: true,
	OperatorLessThan:     true,
	OperatorLessEqual:    true,
	OperatorContains:     true,
	OperatorNotContains:  true,
	OperatorStartsWith:   true,
	OperatorEndsWith:     true,
	OperatorIsEmpty:      true,
	OperatorIsNotEmpty:   true,
}

// IsValid reports whether the operator is one of the twelve known
// comparison operators.
func (o Operator) IsValid() bool {
	return knownOperators[o]
}

// IsUnary reports whether the operator takes no comparison operand.
func (o Operator) IsUnary() bool {
	return o == OperatorIsEmpty || o == OperatorIsNotEmpty
}

// Combinator joins the results of a conditional rule's condition list.
type Combinator string

const (
	CombinatorAnd Combinator = "AND"
	CombinatorOr  Combinator = "OR"
)

// Condition is a boolean test on a single column's value.
type Condition struct {
	// Column is the column whose cell value is tested.
	Column dataset.ColumnRef

	// Operator is one of the twelve comparison operators.
	Operator Operator

	// Value is the comparison operand. It is kept in string form and
	// coerced at evaluation time: numeric comparison when both sides
	// look numeric, case-sensitive string comparison otherwise. Unary
	// operators ignore it.
	Value string
}

// Validate checks the condition's structural integrity.
func (c *Condition) Validate(ruleID string) *ConfigurationError {
	if c.Column == "" {
		return newConfigError(ruleID, "condition.column", "condition column must not be empty")
	}
	if !c.Operator.IsValid() {
		return newConfigError(ruleID, "condition.operator", "unknown operator %q", c.Operator)
	}
	return nil
}
