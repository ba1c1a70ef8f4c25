/*
Package cli provides command-line interface utilities for the veridata
command: output format selection, error types with process exit
semantics, and signal handling.

Output Formatting:

Commands accept an output format flag parsed with ParseFormat. Text and
JSON rendering of arbitrary command results goes through a Formatter:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, data); err != nil {
		return err
	}

CSV rendering of validation results is format-specific and lives in
pkg/report/export.

Signal Handling:

For cancelling long validations on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
*/
package cli
