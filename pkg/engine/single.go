package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

// emailPattern is the whole-address email shape used by the Email check
// (the HTML5 input[type=email] grammar).
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// checkSimple applies one simple check to a cell. It returns whether the
// check passed and an optional detail appended to the rule message.
//
// Every check except NotBlank passes on empty cells: emptiness is
// NotBlank's concern, and combining it with another check on the same
// column is how "required and well-formed" is expressed.
//
// Duplicate is not handled here; it is a dataset-wide check evaluated
// against the run's pre-built index. Regex checks use re, the pattern
// compiled at bind time, so the shared check stays untouched.
func (e *Engine) checkSimple(check *rules.SimpleCheck, re *regexp.Regexp, cell dataset.Cell, rc rowContext) (bool, string) {
	if check.Params.Trim && cell.Type == dataset.CellString {
		cell = dataset.NewStringCell(strings.TrimSpace(cell.String()))
	}

	if check.Type == rules.SimpleNotBlank {
		return !cell.IsEmpty(), ""
	}
	if cell.IsEmpty() {
		return true, ""
	}

	switch check.Type {
	case rules.SimpleLength:
		return checkLength(cell, check.Params.Min, check.Params.Max), ""

	case rules.SimpleType:
		return checkValueKind(cell, check.Params.ValueKind), ""

	case rules.SimpleRegex:
		return re.MatchString(cell.String()), ""

	case rules.SimpleEmail:
		return emailPattern.MatchString(strings.TrimSpace(cell.String())), ""

	case rules.SimpleChoice:
		return containsValue(check.Params.Choices, cell.String(), check.Params.IsCaseSensitive()), ""

	case rules.SimpleCountry:
		countries := e.config.Countries
		if len(check.Params.Countries) > 0 {
			countries = rules.NewCountryList(check.Params.Countries)
		}
		return countries.Contains(cell.String()), ""

	case rules.SimpleDate:
		if _, ok := cell.Date(e.dateFormats(check.Params.Formats)); !ok {
			return false, "invalid date format"
		}
		return true, ""

	case rules.SimpleComparison:
		operand := check.Params.Value
		if check.Params.OtherColumn != "" {
			operand = rc.cell(check.Params.OtherColumn).String()
		}
		return evaluateOperator(check.Params.Operator, cell, operand), ""

	default:
		// Unknown types are rejected at rule-creation time.
		return true, ""
	}
}

// checkLength bounds the rune length of the cell's string form.
func checkLength(cell dataset.Cell, min, max *int) bool {
	length := len([]rune(cell.String()))
	if min != nil && length < *min {
		return false
	}
	if max != nil && length > *max {
		return false
	}
	return true
}

// checkValueKind reports whether the cell parses as the requested kind.
func checkValueKind(cell dataset.Cell, kind string) bool {
	switch kind {
	case rules.ValueKindInteger:
		if cell.Type == dataset.CellNumber {
			n, _ := cell.Number()
			return math.Trunc(n) == n
		}
		_, err := strconv.Atoi(strings.TrimSpace(cell.String()))
		return err == nil

	case rules.ValueKindDecimal:
		_, ok := cell.Number()
		return ok

	case rules.ValueKindBoolean:
		_, ok := cell.Bool()
		return ok

	default:
		return true
	}
}

// containsValue reports set membership with optional case folding.
func containsValue(values []string, v string, caseSensitive bool) bool {
	if !caseSensitive {
		v = strings.ToLower(v)
	}
	for _, allowed := range values {
		if !caseSensitive {
			allowed = strings.ToLower(allowed)
		}
		if allowed == v {
			return true
		}
	}
	return false
}

// dateFormats resolves the effective layout list for a rule: the rule's
// own formats, then the engine override, then the shared defaults.
func (e *Engine) dateFormats(ruleFormats []string) []string {
	if len(ruleFormats) > 0 {
		return ruleFormats
	}
	if len(e.config.DateFormats) > 0 {
		return e.config.DateFormats
	}
	return dataset.DefaultDateFormats
}
