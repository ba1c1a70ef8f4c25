// Package report turns validation results into user-facing artifacts:
// aggregate summaries for dashboards and the exporters' document model.
//
// The engine reports raw, ordered errors; this package is where they
// are grouped, counted, and shaped for humans. Nothing here feeds back
// into evaluation.
package report
