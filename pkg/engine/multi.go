package engine

import (
	"math"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

// conditionalSumEqualTolerance absorbs float noise when a conditional
// sum is compared for equality.
const conditionalSumEqualTolerance = 0.01

// checkMulti applies one multi-column check to a row. cells holds the
// row's cells for the rule's columns, in rule order. It returns whether
// the check passed and an optional detail appended to the rule message.
func (e *Engine) checkMulti(rule *rules.MultiColumnRule, cells []dataset.Cell, rc rowContext) (bool, string) {
	switch rule.Type {
	case rules.MultiSumEqual:
		return e.checkSumEqual(rule, cells)

	case rules.MultiSumInRange:
		return checkSumInRange(rule, cells)

	case rules.MultiDateCompare:
		return e.checkDateCompare(rule, cells)

	case rules.MultiDateGap:
		return e.checkDateGap(rule, cells)

	case rules.MultiPercentageOf:
		return checkPercentageOf(rule, cells)

	case rules.MultiAllOrNothing:
		return checkAllOrNothing(cells)

	case rules.MultiConditionalSum:
		return checkConditionalSum(rule, cells, rc)

	case rules.MultiMaxMin:
		return checkMaxMin(rule, cells)

	default:
		// MultiUniqueCombination runs against the pre-built index;
		// unknown types are rejected at rule-creation time.
		return true, ""
	}
}

// numericValue converts a cell for summing. Empty and non-numeric cells
// count as zero; the second return reports whether a non-empty cell
// failed to parse, for rules that demand strict numeric typing.
func numericValue(cell dataset.Cell) (float64, bool) {
	if cell.IsEmpty() {
		return 0, false
	}
	n, ok := cell.Number()
	if !ok {
		return 0, true
	}
	return n, false
}

func (e *Engine) checkSumEqual(rule *rules.MultiColumnRule, cells []dataset.Cell) (bool, string) {
	var sum float64
	for _, c := range cells[:len(cells)-1] {
		n, bad := numericValue(c)
		if bad && rule.Params.Strict {
			return false, "non-numeric value"
		}
		sum += n
	}
	target, bad := numericValue(cells[len(cells)-1])
	if bad && rule.Params.Strict {
		return false, "non-numeric value"
	}

	return math.Abs(sum-target) <= tolerance(rule.Params.Tolerance), ""
}

func checkSumInRange(rule *rules.MultiColumnRule, cells []dataset.Cell) (bool, string) {
	var sum float64
	for _, c := range cells {
		n, _ := numericValue(c)
		sum += n
	}
	if rule.Params.Min != nil && sum < *rule.Params.Min {
		return false, ""
	}
	if rule.Params.Max != nil && sum > *rule.Params.Max {
		return false, ""
	}
	return true, ""
}

func (e *Engine) checkDateCompare(rule *rules.MultiColumnRule, cells []dataset.Cell) (bool, string) {
	if cells[0].IsEmpty() || cells[1].IsEmpty() {
		return true, ""
	}
	layouts := e.dateFormats(rule.Params.Formats)
	t1, ok1 := cells[0].Date(layouts)
	t2, ok2 := cells[1].Date(layouts)
	if !ok1 || !ok2 {
		return false, "invalid date format"
	}

	if rule.Params.Operator == rules.OperatorGreaterThan {
		return t1.After(t2), ""
	}
	return t1.Before(t2), ""
}

func (e *Engine) checkDateGap(rule *rules.MultiColumnRule, cells []dataset.Cell) (bool, string) {
	if cells[0].IsEmpty() || cells[1].IsEmpty() {
		return true, ""
	}
	layouts := e.dateFormats(rule.Params.Formats)
	t1, ok1 := cells[0].Date(layouts)
	t2, ok2 := cells[1].Date(layouts)
	if !ok1 || !ok2 {
		return false, "invalid date format"
	}

	days := math.Abs(t2.Sub(t1).Hours() / 24)
	if rule.Params.MinDays != nil && days < float64(*rule.Params.MinDays) {
		return false, ""
	}
	if rule.Params.MaxDays != nil && days > float64(*rule.Params.MaxDays) {
		return false, ""
	}
	return true, ""
}

func checkPercentageOf(rule *rules.MultiColumnRule, cells []dataset.Cell) (bool, string) {
	part, badPart := numericValue(cells[0])
	base, badBase := numericValue(cells[1])
	if badPart || badBase {
		return false, "non-numeric value"
	}

	if base == 0 {
		return part == 0, ""
	}

	expected := base * rule.Params.Percentage / 100
	allowed := tolerance(rule.Params.Tolerance)
	if !rule.Params.AbsoluteTolerance {
		allowed = math.Abs(base) * allowed
	}
	return math.Abs(part-expected) <= allowed, ""
}

func checkAllOrNothing(cells []dataset.Cell) (bool, string) {
	nonEmpty := 0
	for _, c := range cells {
		if !c.IsEmpty() {
			nonEmpty++
		}
	}
	return nonEmpty == 0 || nonEmpty == len(cells), ""
}

func checkConditionalSum(rule *rules.MultiColumnRule, cells []dataset.Cell, rc rowContext) (bool, string) {
	if !evaluateCondition(rule.Params.Condition, rc) {
		return true, ""
	}

	var sum float64
	for _, c := range cells {
		n, _ := numericValue(c)
		sum += n
	}

	target := rule.Params.Threshold
	switch rule.Params.Operator {
	case rules.OperatorGreaterThan:
		return sum > target, ""
	case rules.OperatorGreaterEqual:
		return sum >= target, ""
	case rules.OperatorLessThan:
		return sum < target, ""
	case rules.OperatorLessEqual:
		return sum <= target, ""
	default: // OperatorEqual, enforced at rule-creation time
		return math.Abs(sum-target) <= conditionalSumEqualTolerance, ""
	}
}

func checkMaxMin(rule *rules.MultiColumnRule, cells []dataset.Cell) (bool, string) {
	var target dataset.Cell
	var source []dataset.Cell
	if rule.Params.Target == rules.TargetFirst {
		target, source = cells[0], cells[1:]
	} else {
		target, source = cells[len(cells)-1], cells[:len(cells)-1]
	}

	var nums []float64
	for _, c := range source {
		if c.IsEmpty() {
			continue
		}
		if n, ok := c.Number(); ok {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return true, ""
	}

	if target.IsEmpty() {
		return false, ""
	}
	targetNum, ok := target.Number()
	if !ok {
		return false, "non-numeric value"
	}

	expected := nums[0]
	for _, n := range nums[1:] {
		if rule.Params.Operation == rules.OperationMax {
			expected = math.Max(expected, n)
		} else {
			expected = math.Min(expected, n)
		}
	}

	return math.Abs(targetNum-expected) <= tolerance(rule.Params.Tolerance), ""
}

// tolerance dereferences an optional tolerance; nil means exact.
func tolerance(t *float64) float64 {
	if t == nil {
		return 0
	}
	return *t
}
