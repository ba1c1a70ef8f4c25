package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"veridata-hq/tabular/pkg/engine"
)

// CSVExporter writes a result's error list as CSV, one row per
// validation error.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

var csvHeader = []string{"row", "columns", "coordinate", "rule_id", "message", "values"}

// Export writes the result's errors to w in CSV format. Multi-column
// errors join their columns and values with "+" so each error stays a
// single row.
func (e *CSVExporter) Export(ctx context.Context, result *engine.Result, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return newExportError("csv", len(result.Errors), err)
		}
	}

	for _, ve := range result.Errors {
		if err := ctx.Err(); err != nil {
			return newExportError("csv", len(result.Errors), err)
		}
		row := []string{
			strconv.Itoa(ve.Row),
			strings.Join(ve.Columns, "+"),
			ve.Coordinate,
			ve.RuleID,
			ve.Message,
			strings.Join(ve.Values, "+"),
		}
		if err := writer.Write(row); err != nil {
			return newExportError("csv", len(result.Errors), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return newExportError("csv", len(result.Errors), err)
	}
	return nil
}
