package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"veridata-hq/tabular/pkg/cli"
	"veridata-hq/tabular/pkg/config"
	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/engine"
	"veridata-hq/tabular/pkg/report"
	"veridata-hq/tabular/pkg/report/export"
	"veridata-hq/tabular/pkg/rules"
	"veridata-hq/tabular/pkg/rules/source"
	"veridata-hq/tabular/pkg/storage"
	"veridata-hq/tabular/pkg/storage/retention"
	"veridata-hq/tabular/pkg/telemetry/metrics"
)

var validateFlags struct {
	data     string
	rules    string
	output   string
	outFile  string
	failMode string
	watch    bool
	noStore  bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a dataset against a rule set",
	Long: `Validate a CSV dataset against a YAML rule set.

Every rule violation is reported with its row, column, and spreadsheet
coordinate. The command exits non-zero when any violation is found.

Examples:
  # Validate a dataset
  veridata validate --data orders.csv --rules rules.yaml

  # JSON output for CI/CD
  veridata validate --data orders.csv --rules rules.yaml --output json

  # Abort on misconfigured rules instead of skipping them
  veridata validate --data orders.csv --rules rules.yaml --fail-mode abort

  # Re-validate whenever the rule file changes
  veridata validate --data orders.csv --rules rules.yaml --watch`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.data, "data", "d", "", "CSV dataset to validate (required)")
	validateCmd.Flags().StringVarP(&validateFlags.rules, "rules", "r", "", "rule file or directory (default from config)")
	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format: text, json, csv")
	validateCmd.Flags().StringVar(&validateFlags.outFile, "out-file", "", "write output to file instead of stdout")
	validateCmd.Flags().StringVar(&validateFlags.failMode, "fail-mode", "", "rule configuration error handling: skip, abort")
	validateCmd.Flags().BoolVarP(&validateFlags.watch, "watch", "w", false, "re-validate when the rule file changes")
	validateCmd.Flags().BoolVar(&validateFlags.noStore, "no-store", false, "do not persist the run")
	validateCmd.MarkFlagRequired("data")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	rulesPath := validateFlags.rules
	if rulesPath == "" {
		rulesPath = cfg.Rules.Path
	}
	if rulesPath == "" {
		return cli.NewConfigError("rules", "no rule file given: use --rules or set rules.path")
	}

	format, err := cli.ParseFormat(validateFlags.output)
	if err != nil {
		return err
	}
	if validateFlags.failMode != "" {
		cfg.Engine.FailMode = validateFlags.failMode
	}

	eng, collector, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ds, err := dataset.LoadCSV(validateFlags.data)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	ctx := cli.SetupSignalHandler()
	ruleSource := source.NewFileSource(rulesPath, slog.Default())

	runOnce := func() (*engine.Result, error) {
		set, err := ruleSource.Load(ctx)
		if err != nil {
			return nil, err
		}
		result, err := eng.Validate(ctx, set, ds)
		if err != nil {
			return nil, err
		}
		if err := writeResult(result, format); err != nil {
			return nil, err
		}
		if cfg.Storage.Enabled && !validateFlags.noStore {
			if err := persistRun(ctx, cfg, result); err != nil {
				slog.Warn("could not persist run", "error", err)
			}
		}
		return result, nil
	}

	result, err := runOnce()
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	if validateFlags.watch || cfg.Rules.Watch {
		if cfg.Storage.Enabled && !validateFlags.noStore {
			stop, err := startRetention(ctx, cfg)
			if err != nil {
				return cli.NewCommandError("validate", err)
			}
			defer stop()
		}
		if collector != nil && cfg.Telemetry.Metrics.ListenAddress != "" {
			serveMetrics(ctx, cfg.Telemetry.Metrics.ListenAddress, collector)
		}
		return watchAndRevalidate(ctx, ruleSource, runOnce)
	}

	if !result.Valid() {
		cmd.SilenceUsage = true
		return fmt.Errorf("validation failed: %d errors", len(result.Errors))
	}
	return nil
}

// buildEngine assembles the engine from configuration: fail mode, date
// layouts, country catalog, and the metrics collector when enabled.
// The collector is nil when metrics are disabled.
func buildEngine(cfg *config.Config) (*engine.Engine, *metrics.Collector, error) {
	engCfg := engine.DefaultConfig()
	engCfg.FailMode = engine.FailMode(cfg.Engine.FailMode)
	engCfg.DateFormats = cfg.Engine.DateFormats

	if cfg.Rules.CountriesFile != "" {
		countries, err := rules.LoadCountries(cfg.Rules.CountriesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading country catalog: %w", err)
		}
		engCfg.Countries = countries
	}

	var opts []engine.Option
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&metrics.Config{
			Namespace: cfg.Telemetry.Metrics.Namespace,
			Subsystem: cfg.Telemetry.Metrics.Subsystem,
		}, nil)
		opts = append(opts, engine.WithMetrics(collector))
	}

	eng, err := engine.New(engCfg, slog.Default(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return eng, collector, nil
}

// serveMetrics exposes /metrics for the duration of a watch session.
func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("serving metrics", "address", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
}

// watchAndRevalidate re-runs the validation whenever the rule source
// reports a change, until the context is cancelled.
func watchAndRevalidate(ctx context.Context, ruleSource source.Source, runOnce func() (*engine.Result, error)) error {
	events, err := ruleSource.Watch(ctx)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	slog.Info("watching for rule changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Err != nil {
				slog.Error("rule watch error", "error", ev.Err)
				continue
			}
			slog.Info("rules changed, re-validating", "path", ev.Path, "event", ev.Type)
			if _, err := runOnce(); err != nil {
				slog.Error("re-validation failed", "error", err)
			}
		}
	}
}

// writeResult renders the result in the selected format.
func writeResult(result *engine.Result, format cli.OutputFormat) error {
	var out io.Writer = os.Stdout
	if validateFlags.outFile != "" {
		f, err := os.Create(validateFlags.outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	ctx := context.Background()
	switch format {
	case cli.FormatJSON:
		return export.NewJSONExporter(true).Export(ctx, result, out)
	case cli.FormatCSV:
		return export.NewCSVExporter(true).Export(ctx, result, out)
	default:
		return writeText(result, out)
	}
}

// writeText renders the human-readable report.
func writeText(result *engine.Result, w io.Writer) error {
	summary := report.NewSummary(result)

	fmt.Fprintf(w, "Validated %d rows against %d rules in %s\n",
		summary.RowCount, summary.RuleCount, result.Duration.Round(time.Millisecond))

	for _, ce := range result.ConfigErrors {
		fmt.Fprintf(w, "warning: rule %s skipped: %s\n", ce.RuleID, ce.Message)
	}

	if result.Valid() {
		fmt.Fprintln(w, "OK: no validation errors")
		return nil
	}

	fmt.Fprintf(w, "%d errors in %d rows:\n", summary.TotalErrors, summary.RowsAffected)
	for _, ve := range result.Errors {
		fmt.Fprintf(w, "  %s: %s [%s]\n", ve.Coordinate, ve.Message, ve.RuleID)
	}
	return nil
}

// startRetention begins scheduled pruning of old runs for long-running
// watch sessions. The returned stop function also closes the store.
func startRetention(ctx context.Context, cfg *config.Config) (func(), error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	pruner := retention.NewPruner(store, &retention.Config{
		RetentionDays: cfg.Retention.RetentionDays,
		PruneSchedule: cfg.Retention.PruneSchedule,
	})
	scheduler := retention.NewScheduler(pruner)
	if err := scheduler.Start(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return func() {
		scheduler.Stop()
		store.Close()
	}, nil
}

// persistRun saves the run to the configured store.
func persistRun(ctx context.Context, cfg *config.Config, result *engine.Result) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveRun(ctx, storage.NewRunRecord(result, validateFlags.data))
}

// openStore opens the configured run store backend.
func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Backend == "memory" {
		return storage.NewMemoryStore(), nil
	}
	sqliteCfg := storage.DefaultSQLiteConfig()
	sqliteCfg.Path = cfg.Storage.Path
	sqliteCfg.Driver = cfg.Storage.Driver
	return storage.NewSQLiteStore(sqliteCfg)
}
