// Package logging configures the process-wide structured logger.
//
// All packages log through log/slog; this package only decides level,
// format, and destination from configuration.
package logging
