package config

// Default configuration values.
const (
	DefaultFailMode      = "skip"
	DefaultBackend       = "sqlite"
	DefaultStoragePath   = "data/runs.db"
	DefaultSQLiteDriver  = "sqlite3"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultRetentionDays = 90
)

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Engine.FailMode == "" {
		cfg.Engine.FailMode = DefaultFailMode
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultSQLiteDriver
	}
	if cfg.Retention.RetentionDays == 0 {
		cfg.Retention.RetentionDays = DefaultRetentionDays
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
}
