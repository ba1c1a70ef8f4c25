// Package telemetry groups the observability surfaces: structured
// logging setup (logging) and Prometheus metrics (metrics).
package telemetry
