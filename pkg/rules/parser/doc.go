// Package parser loads rule sets from YAML rule files into the typed rule
// model.
//
// Parsing is two-stage: the YAML is first decoded into intermediate
// structures that mirror the file layout, then transformed into the
// rules model with defaults applied (active flag, per-type messages,
// original tolerance defaults). The resulting rule set is validated
// before it is returned, so structurally invalid rules surface as
// configuration errors at load time, never during evaluation.
package parser
