// Package dataset provides the tabular data model consumed by the validation
// engine: typed cells, header-aware datasets, and column reference resolution.
//
// A Dataset is a header row plus ordered data rows. Data rows are 1-indexed
// to match spreadsheet semantics (row 1 is the first row below the header).
// Columns are addressed by ColumnRef, which is either a spreadsheet letter
// identifier ("A", "BC") or a header name ("Amount"); references are resolved
// once per validation run into stable zero-based indexes and cached.
//
// The package also owns the value coercion rules shared by all validators:
// emptiness (nil, empty string, whitespace-only string), locale-tolerant
// numeric parsing, and multi-format date parsing.
package dataset
