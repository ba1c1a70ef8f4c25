package export

import "fmt"

// ExportError indicates an export operation failed.
type ExportError struct {
	// Format is the export format ("csv", "json").
	Format string

	// RecordCount is the number of errors being exported.
	RecordCount int

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export %d records to %s: %v", e.RecordCount, e.Format, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

func newExportError(format string, count int, cause error) *ExportError {
	return &ExportError{Format: format, RecordCount: count, Cause: cause}
}
