package config

// Config is the root configuration for the validator.
type Config struct {
	// Rules configures where rule definitions come from.
	Rules RulesConfig `yaml:"rules"`

	// Engine configures rule evaluation.
	Engine EngineConfig `yaml:"engine"`

	// Storage configures run history persistence.
	Storage StorageConfig `yaml:"storage"`

	// Retention configures pruning of stored runs.
	Retention RetentionConfig `yaml:"retention"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RulesConfig configures the rule source.
type RulesConfig struct {
	// Path is a rule file or a directory of rule files.
	Path string `yaml:"path"`

	// Watch reloads rules when the file changes.
	Watch bool `yaml:"watch"`

	// CountriesFile is the country catalog consulted by country checks
	// without an inline list. Optional.
	CountriesFile string `yaml:"countries_file"`
}

// EngineConfig configures rule evaluation.
type EngineConfig struct {
	// FailMode decides how rules with configuration errors are
	// handled: "skip" or "abort".
	FailMode string `yaml:"fail_mode"`

	// DateFormats overrides the accepted date layouts (Go reference
	// layouts, tried in order).
	DateFormats []string `yaml:"date_formats"`
}

// StorageConfig configures run history persistence.
type StorageConfig struct {
	// Enabled turns run persistence on.
	Enabled bool `yaml:"enabled"`

	// Backend is "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// Driver selects the SQLite driver: "sqlite3" (cgo) or "sqlite"
	// (pure Go).
	Driver string `yaml:"driver"`
}

// RetentionConfig configures pruning of stored runs.
type RetentionConfig struct {
	// RetentionDays is how long runs are kept. 0 applies the default;
	// a negative value keeps runs forever.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression; empty disables scheduled
	// pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Enabled turns metrics collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace and Subsystem prefix every metric name.
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// ListenAddress serves /metrics in watch mode when set
	// (e.g. "127.0.0.1:9090"). Empty disables the endpoint.
	ListenAddress string `yaml:"listen_address"`
}
