package engine

import "errors"

// Common sentinel errors
var (
	// ErrNilRuleSet indicates Validate was called without a rule set.
	ErrNilRuleSet = errors.New("rule set cannot be nil")

	// ErrNilDataset indicates Validate was called without a dataset.
	ErrNilDataset = errors.New("dataset cannot be nil")

	// ErrInvalidConfig indicates invalid engine configuration.
	ErrInvalidConfig = errors.New("invalid engine configuration")
)
