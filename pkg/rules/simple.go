package rules

import (
	"regexp"
	"time"

	"veridata-hq/tabular/pkg/dataset"
)

// SimpleRuleType identifies one of the ten per-cell checks.
type SimpleRuleType string

const (
	SimpleNotBlank   SimpleRuleType = "not_blank"
	SimpleLength     SimpleRuleType = "length"
	SimpleType       SimpleRuleType = "type"
	SimpleRegex      SimpleRuleType = "regex"
	SimpleEmail      SimpleRuleType = "email"
	SimpleChoice     SimpleRuleType = "choice"
	SimpleCountry    SimpleRuleType = "country"
	SimpleDate       SimpleRuleType = "date"
	SimpleComparison SimpleRuleType = "comparison"
	SimpleDuplicate  SimpleRuleType = "duplicate"
)

var knownSimpleTypes = map[SimpleRuleType]bool{
	SimpleNotBlank:   true,
	SimpleLength:     true,
	SimpleType:       true,
	SimpleRegex:      true,
	SimpleEmail:      true,
	SimpleChoice:     true,
	SimpleCountry:    true,
	SimpleDate:       true,
	SimpleComparison: true,
	SimpleDuplicate:  true,
}

// Value kinds accepted by the Type check.
const (
	ValueKindInteger = "integer"
	ValueKindDecimal = "decimal"
	ValueKindBoolean = "boolean"
)

// SimpleParams carries the type-specific parameters of a simple check.
// Only the fields relevant to the check's type are consulted.
type SimpleParams struct {
	// Trim strips surrounding whitespace from string cells before the
	// check runs.
	Trim bool

	// Min and Max bound the string length for Length checks.
	Min *int
	Max *int

	// ValueKind selects the parse target for Type checks: "integer",
	// "decimal", or "boolean".
	ValueKind string

	// Pattern is the regular expression for Regex checks. It must
	// compile; compilation happens once during Validate.
	Pattern string

	// Choices is the allowed value set for Choice checks.
	Choices []string

	// CaseSensitive controls Choice and Duplicate matching.
	// Nil means case-sensitive, the default.
	CaseSensitive *bool

	// Formats is the ordered list of accepted date layouts for Date
	// checks. Empty falls back to dataset.DefaultDateFormats.
	Formats []string

	// Operator, Value, and OtherColumn parameterize Comparison checks.
	// Exactly one of Value or OtherColumn supplies the right-hand side.
	Operator    Operator
	Value       string
	OtherColumn dataset.ColumnRef

	// Countries is an inline allowed-country list for Country checks.
	// When empty, the engine's configured country catalog is used.
	Countries []string
}

// SimpleCheck is one per-cell check: a type tag plus its parameters.
// It is shared by SimpleRule (broadcast across columns) and by the
// "check" conditional action.
type SimpleCheck struct {
	Type   SimpleRuleType
	Params SimpleParams
}

// CompilePattern compiles the pattern of a Regex check, anchored as a
// full match. Callers own the compiled expression; the check itself
// stays immutable so rule sets can be evaluated concurrently.
func (c *SimpleCheck) CompilePattern() (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + c.Params.Pattern + `)\z`)
}

// IsCaseSensitive reports the effective case sensitivity (default true).
func (p *SimpleParams) IsCaseSensitive() bool {
	return p.CaseSensitive == nil || *p.CaseSensitive
}

// Validate checks the parameters for structural integrity. It never
// mutates the check; a rule set stays shareable across concurrent runs.
func (c *SimpleCheck) Validate(ruleID string) *ConfigurationError {
	if !knownSimpleTypes[c.Type] {
		return newConfigError(ruleID, "type", "unknown simple rule type %q", c.Type)
	}

	switch c.Type {
	case SimpleLength:
		if c.Params.Min == nil && c.Params.Max == nil {
			return newConfigError(ruleID, "params", "length check requires min and/or max")
		}
		if c.Params.Min != nil && *c.Params.Min < 0 {
			return newConfigError(ruleID, "params.min", "min length must not be negative, got %d", *c.Params.Min)
		}
		if c.Params.Max != nil && *c.Params.Max < 0 {
			return newConfigError(ruleID, "params.max", "max length must not be negative, got %d", *c.Params.Max)
		}
		if c.Params.Min != nil && c.Params.Max != nil && *c.Params.Min > *c.Params.Max {
			return newConfigError(ruleID, "params", "min length %d exceeds max length %d", *c.Params.Min, *c.Params.Max)
		}

	case SimpleType:
		switch c.Params.ValueKind {
		case ValueKindInteger, ValueKindDecimal, ValueKindBoolean:
		default:
			return newConfigError(ruleID, "params.value_kind", "unknown value kind %q", c.Params.ValueKind)
		}

	case SimpleRegex:
		if c.Params.Pattern == "" {
			return newConfigError(ruleID, "params.pattern", "regex check requires a pattern")
		}
		if _, err := regexp.Compile(c.Params.Pattern); err != nil {
			return newConfigError(ruleID, "params.pattern", "pattern does not compile: %v", err)
		}

	case SimpleChoice:
		if len(c.Params.Choices) == 0 {
			return newConfigError(ruleID, "params.choices", "choice check requires at least one allowed value")
		}

	case SimpleDate:
		for _, layout := range c.Params.Formats {
			if !validDateLayout(layout) {
				return newConfigError(ruleID, "params.formats", "invalid date layout %q", layout)
			}
		}

	case SimpleComparison:
		if !c.Params.Operator.IsValid() {
			return newConfigError(ruleID, "params.operator", "unknown operator %q", c.Params.Operator)
		}
		if !c.Params.Operator.IsUnary() && c.Params.Value == "" && c.Params.OtherColumn == "" {
			return newConfigError(ruleID, "params", "comparison check requires a value or another column")
		}
		if c.Params.Value != "" && c.Params.OtherColumn != "" {
			return newConfigError(ruleID, "params", "comparison check takes a value or another column, not both")
		}
	}

	return nil
}

// validDateLayout reports whether a Go reference layout round-trips a
// known date. Literal-only strings parse trivially but lose the year,
// which the round trip catches.
func validDateLayout(layout string) bool {
	ref := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	parsed, err := time.Parse(layout, ref.Format(layout))
	return err == nil && parsed.Year() == 2006
}

// SimpleRule applies one check independently to one or more columns.
// Each failing column produces its own validation error.
type SimpleRule struct {
	Columns []dataset.ColumnRef
	Check   SimpleCheck
}

// Validate checks the rule's columns and embedded check.
func (r *SimpleRule) Validate(ruleID string) *ConfigurationError {
	if len(r.Columns) == 0 {
		return newConfigError(ruleID, "columns", "simple rule requires at least one column")
	}
	for _, col := range r.Columns {
		if col == "" {
			return newConfigError(ruleID, "columns", "column reference must not be empty")
		}
	}
	return r.Check.Validate(ruleID)
}
