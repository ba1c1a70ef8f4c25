package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"veridata-hq/tabular/pkg/cli"
	"veridata-hq/tabular/pkg/storage/retention"
)

var runsFlags struct {
	limit  int
	format string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored validation runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one stored run with its errors",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention window",
	RunE:  runRunsPrune,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsPruneCmd)

	runsListCmd.Flags().IntVarP(&runsFlags.limit, "limit", "n", 20, "maximum runs to list")
	runsListCmd.Flags().StringVar(&runsFlags.format, "format", "text", "output format: text, json")
	runsShowCmd.Flags().StringVar(&runsFlags.format, "format", "text", "output format: text, json")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("runs list", err)
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	runs, err := store.ListRuns(ctx, runsFlags.limit)
	if err != nil {
		return cli.NewCommandError("runs list", err)
	}

	if runsFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, runs)
	}

	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	for _, r := range runs {
		status := "ok"
		if !r.Valid {
			status = fmt.Sprintf("%d errors", len(r.Errors))
		}
		fmt.Printf("%s  %s  %-20s rows=%d rules=%d  %s\n",
			r.RunID, r.StartedAt.Format(time.RFC3339), r.Dataset, r.RowCount, r.RuleCount, status)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("runs show", err)
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	run, err := store.GetRun(ctx, args[0])
	if err != nil {
		return cli.NewCommandError("runs show", err)
	}

	if runsFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, run)
	}

	fmt.Printf("Run %s\n", run.RunID)
	fmt.Printf("Dataset:  %s\n", run.Dataset)
	fmt.Printf("Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Printf("Duration: %s\n", run.Duration)
	fmt.Printf("Rows:     %d\n", run.RowCount)
	fmt.Printf("Rules:    %d\n", run.RuleCount)
	for _, ce := range run.ConfigErrors {
		fmt.Printf("warning: rule %s skipped: %s\n", ce.RuleID, ce.Message)
	}
	if run.Valid {
		fmt.Println("OK: no validation errors")
		return nil
	}
	fmt.Printf("%d errors:\n", len(run.Errors))
	for _, ve := range run.Errors {
		fmt.Printf("  %s: %s [%s]\n", ve.Coordinate, ve.Message, ve.RuleID)
	}
	return nil
}

func runRunsPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("runs prune", err)
	}
	defer store.Close()

	pruner := retention.NewPruner(store, &retention.Config{
		RetentionDays: cfg.Retention.RetentionDays,
	})

	ctx := cli.SetupSignalHandler()
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("runs prune", err)
	}

	fmt.Printf("deleted %d runs older than %d days\n", deleted, cfg.Retention.RetentionDays)
	return nil
}
