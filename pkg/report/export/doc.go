// Package export writes validation results to external formats.
//
// Two exporters are provided: CSV for spreadsheet round-trips and JSON
// for programmatic consumers. Both operate on a complete result; the
// error list of a single run fits comfortably in memory.
package export
