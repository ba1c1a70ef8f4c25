package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
rules:
  path: rules.yaml
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Rules.Path != "rules.yaml" {
		t.Errorf("got rules path %q", cfg.Rules.Path)
	}
	if cfg.Engine.FailMode != "skip" {
		t.Errorf("got fail mode %q, want skip", cfg.Engine.FailMode)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Driver != "sqlite3" {
		t.Errorf("got storage %q/%q", cfg.Storage.Backend, cfg.Storage.Driver)
	}
	if cfg.Retention.RetentionDays != 90 {
		t.Errorf("got retention %d, want 90", cfg.Retention.RetentionDays)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("got logging %q/%q", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad fail mode", "engine:\n  fail_mode: explode\n"},
		{"bad backend", "storage:\n  backend: oracle\n"},
		{"bad log level", "telemetry:\n  logging:\n    level: shout\n"},
		{"bad cron", "retention:\n  prune_schedule: whenever\n"},
		{"bad date layout", "engine:\n  date_formats: [\"%Y-%m-%d\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
rules:
  path: rules.yaml
engine:
  fail_mode: skip
`)
	t.Setenv("VERIDATA_ENGINE_FAIL_MODE", "abort")
	t.Setenv("VERIDATA_RULES_WATCH", "true")
	t.Setenv("VERIDATA_STORAGE_DRIVER", "sqlite")
	t.Setenv("VERIDATA_TELEMETRY_METRICS_LISTEN_ADDRESS", "127.0.0.1:9090")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}
	if cfg.Engine.FailMode != "abort" {
		t.Errorf("got fail mode %q, want abort", cfg.Engine.FailMode)
	}
	if !cfg.Rules.Watch {
		t.Error("watch override not applied")
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("got driver %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Telemetry.Metrics.ListenAddress != "127.0.0.1:9090" {
		t.Errorf("got listen address %q", cfg.Telemetry.Metrics.ListenAddress)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
