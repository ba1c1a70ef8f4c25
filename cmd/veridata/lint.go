package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"veridata-hq/tabular/pkg/cli"
	"veridata-hq/tabular/pkg/rules/parser"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check rule files without validating data",
	Long: `Check rule files for syntax and configuration errors.

The lint command parses rule files and validates every rule: known
types, required parameters, coherent bounds, compilable patterns.
Column references are not checked against any dataset.

Examples:
  # Lint a single file
  veridata lint --file rules.yaml

  # Lint a directory
  veridata lint --dir rules/

  # JSON output for CI/CD
  veridata lint --file rules.yaml --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to check")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the check outcome for one rule file.
type LintResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Rules  int      `json:"rules"`
	Errors []string `json:"errors,omitempty"`
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return cli.NewConfigError("lint", "either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return cli.NewCommandError("lint", err)
			}
			files = append(files, matches...)
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return cli.NewCommandError("lint", fmt.Errorf("no rule files found"))
	}

	p := parser.NewParser()
	results := make([]LintResult, 0, len(files))
	failed := false
	for _, file := range files {
		result := LintResult{File: file, Valid: true}
		set, err := p.ParseFile(file)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.Error())
			failed = true
		} else {
			result.Rules = len(set.Rules)
		}
		results = append(results, result)
	}

	if lintFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("ok   %s (%d rules)\n", r.File, r.Rules)
				continue
			}
			fmt.Printf("FAIL %s\n", r.File)
			for _, msg := range r.Errors {
				fmt.Printf("     %s\n", msg)
			}
		}
	}

	if failed {
		cmd.SilenceUsage = true
		return fmt.Errorf("lint failed")
	}
	return nil
}
