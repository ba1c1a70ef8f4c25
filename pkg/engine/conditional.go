package engine

import (
	"regexp"
	"strings"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

// checkAction applies a conditional rule's action to the target cell.
// The caller has already established that the rule's conditions hold
// for the row; re is the action check's pattern compiled at bind time.
func (e *Engine) checkAction(action *rules.Action, re *regexp.Regexp, cell dataset.Cell, rc rowContext) (bool, string) {
	switch action.Type {
	case rules.ActionNotBlank:
		return !cell.IsEmpty(), ""

	case rules.ActionBlank:
		return cell.IsEmpty(), ""

	case rules.ActionCheck:
		return e.checkSimple(action.Check, re, cell, rc)

	case rules.ActionComparison:
		operand := action.Value
		if operand == "" && action.OtherColumn != "" {
			operand = rc.cell(action.OtherColumn).String()
		}
		return evaluateOperator(action.Operator, cell, operand), ""

	case rules.ActionChoice:
		if cell.IsEmpty() {
			return true, ""
		}
		return containsValue(action.Choices, strings.TrimSpace(cell.String()), action.IsCaseSensitive()), ""

	default:
		return true, ""
	}
}
