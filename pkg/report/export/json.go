package export

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"veridata-hq/tabular/pkg/engine"
	"veridata-hq/tabular/pkg/report"
)

// JSONExporter writes a complete result document as JSON: run metadata,
// the ordered error list, skipped rules, and the aggregate summary.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

type jsonError struct {
	Row        int      `json:"row"`
	Columns    []string `json:"columns"`
	Coordinate string   `json:"coordinate"`
	Message    string   `json:"message"`
	RuleID     string   `json:"rule_id"`
	Values     []string `json:"values,omitempty"`
}

type jsonSkippedRule struct {
	RuleID  string `json:"rule_id"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type jsonDocument struct {
	RunID        string            `json:"run_id"`
	StartedAt    time.Time         `json:"started_at"`
	DurationMS   int64             `json:"duration_ms"`
	RowCount     int               `json:"row_count"`
	RuleCount    int               `json:"rule_count"`
	Valid        bool              `json:"valid"`
	Errors       []jsonError       `json:"errors"`
	SkippedRules []jsonSkippedRule `json:"skipped_rules,omitempty"`
	Summary      *report.Summary   `json:"summary"`
}

// Export writes the result document to w.
func (e *JSONExporter) Export(ctx context.Context, result *engine.Result, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return newExportError("json", len(result.Errors), err)
	}

	doc := jsonDocument{
		RunID:      result.RunID,
		StartedAt:  result.StartedAt,
		DurationMS: result.Duration.Milliseconds(),
		RowCount:   result.RowCount,
		RuleCount:  result.RuleCount,
		Valid:      result.Valid(),
		Errors:     make([]jsonError, 0, len(result.Errors)),
		Summary:    report.NewSummary(result),
	}
	for _, ve := range result.Errors {
		doc.Errors = append(doc.Errors, jsonError{
			Row:        ve.Row,
			Columns:    ve.Columns,
			Coordinate: ve.Coordinate,
			Message:    ve.Message,
			RuleID:     ve.RuleID,
			Values:     ve.Values,
		})
	}
	for _, ce := range result.ConfigErrors {
		doc.SkippedRules = append(doc.SkippedRules, jsonSkippedRule{
			RuleID:  ce.RuleID,
			Field:   ce.Field,
			Message: ce.Message,
		})
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return newExportError("json", len(result.Errors), err)
	}

	if _, err := w.Write(data); err != nil {
		return newExportError("json", len(result.Errors), err)
	}
	return nil
}
