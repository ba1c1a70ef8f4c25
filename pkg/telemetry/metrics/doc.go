// Package metrics exposes Prometheus metrics for validation runs.
//
// The Collector implements the engine's Metrics interface and records
// run counts, durations, processed rows, and per-rule error counts. It
// keeps its own registry; Handler exposes it for scraping.
package metrics
