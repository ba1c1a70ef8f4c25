package storage

import (
	"context"
	"time"

	"veridata-hq/tabular/pkg/engine"
	"veridata-hq/tabular/pkg/rules"
)

// RunRecord is one persisted validation run.
type RunRecord struct {
	RunID        string
	Dataset      string
	StartedAt    time.Time
	Duration     time.Duration
	RowCount     int
	RuleCount    int
	Valid        bool
	Errors       []*engine.ValidationError
	ConfigErrors []*rules.ConfigurationError
}

// NewRunRecord builds a record from a result. dataset names the
// validated input for later lookup; it may be empty.
func NewRunRecord(result *engine.Result, dataset string) *RunRecord {
	return &RunRecord{
		RunID:        result.RunID,
		Dataset:      dataset,
		StartedAt:    result.StartedAt,
		Duration:     result.Duration,
		RowCount:     result.RowCount,
		RuleCount:    result.RuleCount,
		Valid:        result.Valid(),
		Errors:       result.Errors,
		ConfigErrors: result.ConfigErrors,
	}
}

// Store persists validation runs. Implementations must be safe for
// concurrent use.
type Store interface {
	// SaveRun persists one run record.
	SaveRun(ctx context.Context, record *RunRecord) error

	// GetRun retrieves a run by ID. Returns ErrRunNotFound when absent.
	GetRun(ctx context.Context, runID string) (*RunRecord, error)

	// ListRuns returns the most recent runs, newest first. limit <= 0
	// means no limit.
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)

	// DeleteRunsBefore removes runs started before the cutoff and
	// returns how many were removed.
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases backend resources.
	Close() error
}
