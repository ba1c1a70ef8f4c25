// Package rules defines the typed rule model for tabular validation:
// simple per-column rules, multi-column rules, and conditional rules, plus
// the condition and action types they share.
//
// Rule variants are modeled as a tagged union: each Rule carries a Kind tag
// and exactly one populated variant struct, and evaluation code switches
// exhaustively on the tag. Rule types, condition operators, and action kinds
// are closed sets of string constants.
//
// Parameter validation happens at construction time. A structurally invalid
// rule (Length with min > max, an uncompilable Regex pattern, an unknown
// operator) fails Validate with a ConfigurationError and never reaches the
// evaluation engine silently.
//
// A RuleSet preserves insertion order for reproducible evaluation and
// reporting. Rules are independently activatable; inactive rules are skipped
// during validation but retained in the set.
package rules
