package rules

import (
	"fmt"
	"strings"
)

// ConfigurationError indicates a structurally invalid rule: malformed
// parameters at construction time, or a referenced column missing from
// the dataset header at resolution time. It is fatal to the run for the
// offending rule and is always reported distinctly from data-level
// validation errors.
type ConfigurationError struct {
	// RuleID identifies the offending rule ("" for set-level errors).
	RuleID string

	// Field names the parameter that failed ("params.min", "columns").
	Field string

	// Message describes what is wrong.
	Message string
}

// Error returns the error message.
func (e *ConfigurationError) Error() string {
	switch {
	case e.RuleID != "" && e.Field != "":
		return fmt.Sprintf("rule %s: invalid %s: %s", e.RuleID, e.Field, e.Message)
	case e.RuleID != "":
		return fmt.Sprintf("rule %s: %s", e.RuleID, e.Message)
	default:
		return e.Message
	}
}

func newConfigError(ruleID, field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		RuleID:  ruleID,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorList accumulates configuration errors so rule-set validation can
// report every malformed rule in one pass instead of stopping at the first.
type ErrorList struct {
	Errors []*ConfigurationError
}

// NewErrorList creates an empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends an error to the list. Nil errors are ignored.
func (l *ErrorList) Add(err *ConfigurationError) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
}

// HasErrors reports whether any errors were recorded.
func (l *ErrorList) HasErrors() bool {
	return len(l.Errors) > 0
}

// ToError returns the list as an error, or nil when empty.
func (l *ErrorList) ToError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

// Error returns all recorded messages joined for display.
func (l *ErrorList) Error() string {
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	msgs := make([]string, len(l.Errors))
	for i, e := range l.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d configuration errors: %s", len(l.Errors), strings.Join(msgs, "; "))
}
