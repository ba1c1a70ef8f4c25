// Package engine evaluates rule sets against tabular datasets and reports
// per-cell validation errors.
//
// # Architecture
//
// The engine uses a three-layer design:
//
//  1. Condition Evaluator - Evaluates single conditions and AND/OR
//     combinations against a row
//  2. Validator Library - The per-cell simple checks and cross-column
//     multi checks
//  3. Validation Orchestrator - Resolves columns, runs dataset-wide
//     pre-passes, iterates rows, and aggregates errors
//
// # Evaluation Flow
//
//	RuleSet + Dataset
//	       ↓
//	Resolve all column references once against the header
//	       ↓
//	Build dataset-wide indexes (Duplicate, UniqueCombination)
//	       ↓
//	For each data row in file order:
//	  Apply simple and multi-column rules in rule-set order
//	  Apply conditional rules in rule-set order
//	       ↓
//	Return Result (ordered errors, skipped rules, annotations)
//
// Errors are appended in (row, rule order, column) order, with simple and
// multi-column rules reporting before conditional rules on each row; this
// ordering is a contract the report generator depends on for deterministic
// output. Blank rows below the last data row are export padding and are
// not validated; blank rows between data rows are.
// Validation failures never short-circuit: a row failing one rule is still
// checked against all remaining rules, and running the same inputs twice
// yields an identical error list.
//
// # Error Classes
//
// Structurally invalid rules are caught when the rule set is built and
// never reach the engine. A rule whose referenced column is absent from
// the header yields a configuration error surfaced once per run; the
// FailMode setting decides whether the run aborts or skips only the
// offending rule. Data-level failures are ValidationError values in the
// result, never error returns.
//
// # Concurrency
//
// Evaluation is single-threaded and synchronous. Dataset-wide indexes are
// built fully before per-row evaluation begins and are read-only
// afterwards. Rule sets and datasets are never mutated during a run.
package engine
