package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"veridata-hq/tabular/pkg/config"
	"veridata-hq/tabular/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "veridata",
	Short: "Veridata - rule-based validation for tabular data",
	Long: `Veridata validates tabular data against user-defined rule sets.

Rules cover single columns (not blank, length, type, regex, email,
choice, country, date, comparison, duplicate), column groups (sums,
date relations, percentages, unique combinations), and conditional
checks that only apply to rows matching their conditions.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration file. A missing file at the
// default location falls back to defaults so the command works without
// any configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the configured logger as the process default.
// The --verbose flag forces debug level.
func setupLogging(cfg *config.Config) error {
	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	_, err := logging.Setup(logCfg)
	return err
}
