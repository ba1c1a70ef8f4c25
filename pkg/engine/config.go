package engine

import (
	"fmt"

	"veridata-hq/tabular/pkg/rules"
)

// FailMode controls how the engine handles a rule whose referenced
// column is missing from the dataset header.
type FailMode string

const (
	// FailSkip skips only the offending rule and records it in the
	// result's ConfigErrors. The run continues.
	FailSkip FailMode = "skip"

	// FailAbort aborts the whole run with an error.
	FailAbort FailMode = "abort"
)

// Config contains engine configuration.
type Config struct {
	// FailMode decides whether a configuration error aborts the run or
	// skips only the offending rule. Either way it is never silently
	// ignored. Default: FailSkip.
	FailMode FailMode

	// DateFormats overrides the accepted date layouts for rules that do
	// not carry their own. Empty falls back to
	// dataset.DefaultDateFormats.
	DateFormats []string

	// Countries is the known-country catalog consulted by Country
	// checks without an inline country list. Rules that need it fail
	// with a configuration error when it is absent.
	Countries *rules.CountryList
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		FailMode: FailSkip,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.FailMode {
	case FailSkip, FailAbort:
		return nil
	default:
		return fmt.Errorf("%w: unknown fail mode %q", ErrInvalidConfig, c.FailMode)
	}
}
