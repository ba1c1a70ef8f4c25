// Veridata validates tabular data against user-defined rule sets.
//
// It reads a CSV dataset and a YAML rule file, evaluates simple,
// multi-column, and conditional rules, and reports every violation
// with its cell coordinate.
//
// Usage:
//
//	# Validate a dataset
//	veridata validate --data orders.csv --rules rules.yaml
//
//	# JSON output for CI/CD
//	veridata validate --data orders.csv --rules rules.yaml --output json
//
//	# Re-validate whenever the rule file changes
//	veridata validate --data orders.csv --rules rules.yaml --watch
//
//	# Check rule files without a dataset
//	veridata lint --file rules.yaml
//
//	# Inspect stored runs
//	veridata runs list
package main

func main() {
	Execute()
}
