package retention

import (
	"context"
	"log/slog"
	"time"

	"veridata-hq/tabular/pkg/storage"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain runs.
	// 0 means keep runs forever (no pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables the
	// scheduler.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces the retention window on the run store.
type Pruner struct {
	store  storage.Store
	config *Config
	logger *slog.Logger
}

// NewPruner creates a retention pruner.
func NewPruner(store storage.Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "storage.retention"),
	}
}

// Prune deletes runs older than the retention window and returns how
// many were removed. With RetentionDays 0 it is a no-op.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.store.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		p.logger.Info("pruned old runs",
			"deleted", deleted,
			"cutoff", cutoff.Format(time.RFC3339),
			"retention_days", p.config.RetentionDays)
	}
	return deleted, nil
}
