package rules

import "veridata-hq/tabular/pkg/dataset"

// ActionType identifies the check a conditional rule applies when its
// conditions hold.
type ActionType string

const (
	// ActionNotBlank requires the target column to be non-empty.
	ActionNotBlank ActionType = "not_blank"

	// ActionBlank requires the target column to be empty.
	ActionBlank ActionType = "blank"

	// ActionCheck applies an embedded simple check to the target column.
	ActionCheck ActionType = "check"

	// ActionComparison compares the target column against a literal or
	// against another column.
	ActionComparison ActionType = "comparison"

	// ActionChoice requires the target column to be within a value set.
	ActionChoice ActionType = "choice"
)

// Action is the check side of a conditional rule: a constrained simple
// check applied to one target column only on rows where the rule's
// conditions hold.
type Action struct {
	// Column is the target column the action checks.
	Column dataset.ColumnRef

	// Type selects the action variant.
	Type ActionType

	// Check is the embedded check for ActionCheck.
	Check *SimpleCheck

	// Operator, Value, and OtherColumn parameterize ActionComparison.
	Operator    Operator
	Value       string
	OtherColumn dataset.ColumnRef

	// Choices and CaseSensitive parameterize ActionChoice.
	Choices       []string
	CaseSensitive *bool
}

// IsCaseSensitive reports the effective case sensitivity for ActionChoice.
func (a *Action) IsCaseSensitive() bool {
	return a.CaseSensitive == nil || *a.CaseSensitive
}

// Validate checks the action's structural integrity.
func (a *Action) Validate(ruleID string) *ConfigurationError {
	if a.Column == "" {
		return newConfigError(ruleID, "action.column", "action column must not be empty")
	}

	switch a.Type {
	case ActionNotBlank, ActionBlank:
		return nil

	case ActionCheck:
		if a.Check == nil {
			return newConfigError(ruleID, "action.check", "check action requires an embedded check")
		}
		if a.Check.Type == SimpleDuplicate {
			// Dataset-wide checks cannot run as per-row actions.
			return newConfigError(ruleID, "action.check", "duplicate check cannot be used as a conditional action")
		}
		return a.Check.Validate(ruleID)

	case ActionComparison:
		if !a.Operator.IsValid() {
			return newConfigError(ruleID, "action.operator", "unknown operator %q", a.Operator)
		}
		if !a.Operator.IsUnary() && a.Value == "" && a.OtherColumn == "" {
			return newConfigError(ruleID, "action", "comparison action requires a value or another column")
		}
		if a.Value != "" && a.OtherColumn != "" {
			return newConfigError(ruleID, "action", "comparison action takes a value or another column, not both")
		}
		return nil

	case ActionChoice:
		if len(a.Choices) == 0 {
			return newConfigError(ruleID, "action.choices", "choice action requires at least one allowed value")
		}
		return nil

	default:
		return newConfigError(ruleID, "action.type", "unknown action type %q", a.Type)
	}
}

// ConditionalRule is an "if conditions then check" rule: the conditions
// are evaluated per row, and the action runs only on rows where they
// hold. A false condition silently skips the rule for that row.
type ConditionalRule struct {
	Conditions []Condition
	Combinator Combinator
	Action     Action
}

// Validate checks the rule's conditions, combinator, and action.
func (r *ConditionalRule) Validate(ruleID string) *ConfigurationError {
	if r.Combinator != CombinatorAnd && r.Combinator != CombinatorOr {
		return newConfigError(ruleID, "combinator", "combinator must be AND or OR, got %q", r.Combinator)
	}
	for i := range r.Conditions {
		if err := r.Conditions[i].Validate(ruleID); err != nil {
			return err
		}
	}
	return r.Action.Validate(ruleID)
}
