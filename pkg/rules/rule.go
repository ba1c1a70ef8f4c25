package rules

import "veridata-hq/tabular/pkg/dataset"

// RuleKind tags the variant populated in a Rule.
type RuleKind string

const (
	KindSimple      RuleKind = "simple"
	KindMultiColumn RuleKind = "multi_column"
	KindConditional RuleKind = "conditional"
)

// Rule is the tagged union over the three rule variants. Exactly one of
// Simple, Multi, or Conditional is populated, selected by Kind.
type Rule struct {
	// ID uniquely identifies the rule within its set. It appears in
	// validation errors as the rule source.
	ID string

	// Kind selects the populated variant.
	Kind RuleKind

	// Message is the user-facing error message emitted when the rule
	// fails. Empty falls back to a per-type default at parse time.
	Message string

	// Active controls whether the rule participates in validation.
	// Inactive rules are skipped entirely but retained in the set.
	Active bool

	Simple      *SimpleRule
	Multi       *MultiColumnRule
	Conditional *ConditionalRule
}

// Validate checks the rule's structural integrity, dispatching to the
// populated variant. Malformed rules are caught here, at construction
// time, and never reach the evaluation engine silently.
func (r *Rule) Validate() *ConfigurationError {
	if r.ID == "" {
		return newConfigError("", "id", "rule id must not be empty")
	}

	switch r.Kind {
	case KindSimple:
		if r.Simple == nil {
			return newConfigError(r.ID, "kind", "simple rule has no simple variant")
		}
		return r.Simple.Validate(r.ID)

	case KindMultiColumn:
		if r.Multi == nil {
			return newConfigError(r.ID, "kind", "multi_column rule has no multi-column variant")
		}
		return r.Multi.Validate(r.ID)

	case KindConditional:
		if r.Conditional == nil {
			return newConfigError(r.ID, "kind", "conditional rule has no conditional variant")
		}
		return r.Conditional.Validate(r.ID)

	default:
		return newConfigError(r.ID, "kind", "unknown rule kind %q", r.Kind)
	}
}

// DefaultCheck applies one simple check to every dataset column that is
// not explicitly excluded. It runs after the explicit simple and
// multi-column rules, once per column.
type DefaultCheck struct {
	Check   SimpleCheck
	Exclude []dataset.ColumnRef

	// Message overrides the per-type default error message.
	Message string
}

// RuleSet is an ordered rule sequence. Insertion order is preserved for
// reproducible evaluation and reporting. The set is immutable during a
// validation run.
type RuleSet struct {
	Rules []*Rule

	// Default, when set, is expanded over the dataset header at
	// evaluation time.
	Default *DefaultCheck
}

// NewRuleSet creates a rule set from rules in order.
func NewRuleSet(rules ...*Rule) *RuleSet {
	return &RuleSet{Rules: rules}
}

// ActiveRules returns the active rules in insertion order.
func (s *RuleSet) ActiveRules() []*Rule {
	var active []*Rule
	for _, r := range s.Rules {
		if r.Active {
			active = append(active, r)
		}
	}
	return active
}

// Validate checks every rule in the set and returns an ErrorList
// covering all malformed rules, or nil when the set is clean.
func (s *RuleSet) Validate() error {
	errs := NewErrorList()
	seen := make(map[string]bool)
	for _, r := range s.Rules {
		if r.ID != "" && seen[r.ID] {
			errs.Add(newConfigError(r.ID, "id", "duplicate rule id"))
		}
		seen[r.ID] = true
		errs.Add(r.Validate())
	}
	if s.Default != nil {
		errs.Add(s.Default.Validate())
	}
	return errs.ToError()
}

// Validate checks the default check's structural integrity.
func (d *DefaultCheck) Validate() *ConfigurationError {
	if d.Check.Type == SimpleDuplicate {
		// Flagging duplicates in every column at once is never what a
		// blanket check means.
		return newConfigError("default", "type", "duplicate check cannot be used as the default check")
	}
	return d.Check.Validate("default")
}
