package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for coherent values. It assumes
// defaults have been applied.
func Validate(cfg *Config) error {
	switch cfg.Engine.FailMode {
	case "skip", "abort":
	default:
		return fmt.Errorf("engine.fail_mode must be \"skip\" or \"abort\", got %q", cfg.Engine.FailMode)
	}

	for _, layout := range cfg.Engine.DateFormats {
		if !validDateLayout(layout) {
			return fmt.Errorf("engine.date_formats: invalid layout %q", layout)
		}
	}

	switch cfg.Storage.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend must be \"sqlite\" or \"memory\", got %q", cfg.Storage.Backend)
	}
	switch cfg.Storage.Driver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("storage.driver must be \"sqlite3\" or \"sqlite\", got %q", cfg.Storage.Driver)
	}

	if cfg.Retention.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.PruneSchedule); err != nil {
			return fmt.Errorf("retention.prune_schedule: %w", err)
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("telemetry.logging.format must be \"text\" or \"json\", got %q", cfg.Telemetry.Logging.Format)
	}

	return nil
}

// validDateLayout reports whether a Go reference layout round-trips a
// known date. Literal-only strings (e.g. strftime patterns) parse but
// lose the year, which the round trip catches.
func validDateLayout(layout string) bool {
	ref := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	parsed, err := time.Parse(layout, ref.Format(layout))
	return err == nil && parsed.Year() == 2006
}
