package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

// Metrics receives engine instrumentation events. Implementations must
// be safe for concurrent use.
type Metrics interface {
	ObserveRun(result *Result)
}

// Engine evaluates rule sets against datasets. An Engine is stateless
// between runs and safe for concurrent Validate calls.
type Engine struct {
	config  *Config
	logger  *slog.Logger
	metrics Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches a metrics sink to the engine.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates a validation engine.
func New(config *Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		config: config,
		logger: logger.With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// boundRule is a rule with its column references resolved against one
// dataset's header. Binding happens once per run; the row loop works on
// integer column indexes only.
type boundRule struct {
	rule *rules.Rule

	// cols are the resolved target columns in rule order. Simple rules
	// check each column independently; multi-column rules check them as
	// a group; conditional rules have exactly the action column.
	cols []int

	// colDups holds, per target column, the rows carrying a duplicated
	// value. Populated only for Duplicate rules.
	colDups map[int]map[int]bool

	// tupleDups holds the rows carrying a duplicated column
	// combination. Populated only for UniqueCombination rules.
	tupleDups map[int]bool

	// re is the compiled pattern of a Regex check, either the rule's
	// own or the one embedded in a conditional action. Compiling here
	// keeps the rule set read-only during evaluation, so one set can
	// serve concurrent runs.
	re *regexp.Regexp
}

// Validate runs every active rule of the set against the dataset.
//
// The returned Result carries the ordered validation errors; the error
// return is reserved for run-level failures (nil inputs, cancelled
// context, or a configuration error under FailAbort). Malformed or
// unbindable rules under FailSkip are recorded in Result.ConfigErrors
// and skipped.
func (e *Engine) Validate(ctx context.Context, set *rules.RuleSet, ds *dataset.Dataset) (*Result, error) {
	if set == nil {
		return nil, ErrNilRuleSet
	}
	if ds == nil {
		return nil, ErrNilDataset
	}

	start := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: start,
		RowCount:  ds.RowCount(),
	}

	resolver := dataset.NewResolver(ds)
	bound, err := e.bindRules(set, ds, resolver, result)
	if err != nil {
		return nil, err
	}
	result.RuleCount = len(bound)

	e.logger.Debug("validation run started",
		"run_id", result.RunID,
		"rows", result.RowCount,
		"rules", result.RuleCount,
		"skipped_rules", len(result.ConfigErrors))

	// Simple and multi-column rules run before conditional rules on
	// every row, each group in set order. Trailing blank rows are export
	// padding and are not validated; blank rows between data rows are.
	var direct, conditional []*boundRule
	for _, b := range bound {
		if b.rule.Kind == rules.KindConditional {
			conditional = append(conditional, b)
		} else {
			direct = append(direct, b)
		}
	}

	seen := make(map[errorKey]bool)
	for row, last := 1, ds.LastDataRow(); row <= last; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rc := rowContext{ds: ds, resolver: resolver, row: row}
		for _, b := range direct {
			e.evaluateRow(b, rc, result, seen)
		}
		for _, b := range conditional {
			e.evaluateRow(b, rc, result, seen)
		}
	}

	result.Duration = time.Since(start)

	e.logger.Info("validation run finished",
		"run_id", result.RunID,
		"rows", result.RowCount,
		"rules", result.RuleCount,
		"errors", len(result.Errors),
		"duration", result.Duration)

	if e.metrics != nil {
		e.metrics.ObserveRun(result)
	}
	return result, nil
}

// bindRules validates and binds the set's active rules, building the
// dataset-wide duplicate indexes as a side effect. Under FailSkip,
// rules that fail validation or binding land in result.ConfigErrors;
// under FailAbort the first such rule aborts the run.
func (e *Engine) bindRules(set *rules.RuleSet, ds *dataset.Dataset, resolver *dataset.Resolver, result *Result) ([]*boundRule, error) {
	var bound []*boundRule
	seenIDs := make(map[string]bool)

	for _, r := range set.ActiveRules() {
		cfgErr := r.Validate()
		if cfgErr == nil && seenIDs[r.ID] {
			cfgErr = &rules.ConfigurationError{RuleID: r.ID, Field: "id", Message: "duplicate rule id"}
		}
		if cfgErr == nil {
			seenIDs[r.ID] = true
		}

		var b *boundRule
		if cfgErr == nil {
			b, cfgErr = e.bind(r, ds, resolver)
		}

		if cfgErr != nil {
			if e.config.FailMode == FailAbort {
				return nil, fmt.Errorf("rule %q: %w", r.ID, cfgErr)
			}
			e.logger.Warn("skipping rule", "rule_id", r.ID, "reason", cfgErr.Message)
			result.ConfigErrors = append(result.ConfigErrors, cfgErr)
			continue
		}
		bound = append(bound, b)
	}

	if set.Default != nil {
		b, cfgErr := e.bindDefault(set.Default, ds, resolver, seenIDs)
		if cfgErr != nil {
			if e.config.FailMode == FailAbort {
				return nil, fmt.Errorf("rule %q: %w", cfgErr.RuleID, cfgErr)
			}
			e.logger.Warn("skipping default check", "reason", cfgErr.Message)
			result.ConfigErrors = append(result.ConfigErrors, cfgErr)
		} else if b != nil {
			bound = append(bound, b)
		}
	}
	return bound, nil
}

// bindDefault expands the set's default check into a synthetic simple
// rule covering every header column not excluded. Excluded references
// that do not resolve are ignored: there is nothing to exempt.
func (e *Engine) bindDefault(d *rules.DefaultCheck, ds *dataset.Dataset, resolver *dataset.Resolver, seenIDs map[string]bool) (*boundRule, *rules.ConfigurationError) {
	if cfgErr := d.Validate(); cfgErr != nil {
		return nil, cfgErr
	}

	excluded := make(map[int]bool, len(d.Exclude))
	for _, ref := range d.Exclude {
		if idx, err := resolver.Resolve(ref); err == nil {
			excluded[idx] = true
		}
	}

	var cols []dataset.ColumnRef
	for i := range ds.Header {
		if !excluded[i] {
			cols = append(cols, dataset.ColumnRef(dataset.ColumnLetter(i)))
		}
	}
	if len(cols) == 0 {
		return nil, nil
	}

	id := "default"
	if seenIDs[id] {
		id = "default-check"
	}
	msg := d.Message
	if msg == "" {
		msg = fmt.Sprintf("%s check failed", d.Check.Type)
	}

	return e.bind(&rules.Rule{
		ID:      id,
		Kind:    rules.KindSimple,
		Message: msg,
		Active:  true,
		Simple:  &rules.SimpleRule{Columns: cols, Check: d.Check},
	}, ds, resolver)
}

// bind resolves a rule's column references. Condition columns are
// deliberately not bound: an unresolvable condition column makes the
// condition false for every row instead of disabling the rule.
func (e *Engine) bind(r *rules.Rule, ds *dataset.Dataset, resolver *dataset.Resolver) (*boundRule, *rules.ConfigurationError) {
	b := &boundRule{rule: r}

	resolve := func(ref dataset.ColumnRef, field string) (int, *rules.ConfigurationError) {
		idx, err := resolver.Resolve(ref)
		if err != nil {
			return 0, &rules.ConfigurationError{RuleID: r.ID, Field: field, Message: err.Error()}
		}
		return idx, nil
	}

	switch r.Kind {
	case rules.KindSimple:
		for _, ref := range r.Simple.Columns {
			idx, cfgErr := resolve(ref, "columns")
			if cfgErr != nil {
				return nil, cfgErr
			}
			b.cols = append(b.cols, idx)
		}
		check := &r.Simple.Check
		if check.Type == rules.SimpleComparison && check.Params.OtherColumn != "" {
			if _, cfgErr := resolve(check.Params.OtherColumn, "params.other_column"); cfgErr != nil {
				return nil, cfgErr
			}
		}
		if check.Type == rules.SimpleRegex {
			re, err := check.CompilePattern()
			if err != nil {
				return nil, &rules.ConfigurationError{RuleID: r.ID, Field: "params.pattern", Message: err.Error()}
			}
			b.re = re
		}
		if check.Type == rules.SimpleCountry && len(check.Params.Countries) == 0 && e.config.Countries == nil {
			return nil, &rules.ConfigurationError{RuleID: r.ID, Field: "params.countries", Message: "country check requires a country catalog"}
		}
		if check.Type == rules.SimpleDuplicate {
			b.colDups = make(map[int]map[int]bool, len(b.cols))
			for _, col := range b.cols {
				b.colDups[col] = duplicateRows(ds, col, check.Params.IsCaseSensitive())
			}
		}

	case rules.KindMultiColumn:
		for _, ref := range r.Multi.Columns {
			idx, cfgErr := resolve(ref, "columns")
			if cfgErr != nil {
				return nil, cfgErr
			}
			b.cols = append(b.cols, idx)
		}
		if r.Multi.Type == rules.MultiUniqueCombination {
			b.tupleDups = duplicateTupleRows(ds, b.cols, r.Multi.Params.IsCaseSensitive())
		}

	case rules.KindConditional:
		action := &r.Conditional.Action
		idx, cfgErr := resolve(action.Column, "action.column")
		if cfgErr != nil {
			return nil, cfgErr
		}
		b.cols = []int{idx}
		if action.Type == rules.ActionCheck && action.Check.Type == rules.SimpleRegex {
			re, err := action.Check.CompilePattern()
			if err != nil {
				return nil, &rules.ConfigurationError{RuleID: r.ID, Field: "action.check.params.pattern", Message: err.Error()}
			}
			b.re = re
		}
		if action.Type == rules.ActionComparison && action.OtherColumn != "" {
			if _, cfgErr := resolve(action.OtherColumn, "action.other_column"); cfgErr != nil {
				return nil, cfgErr
			}
		}
	}

	return b, nil
}

// errorKey identifies one (row, rule, cell group) triple for error
// deduplication.
type errorKey struct {
	row        int
	ruleID     string
	coordinate string
}

// evaluateRow applies one bound rule to one row, appending any errors
// to the result in column order.
func (e *Engine) evaluateRow(b *boundRule, rc rowContext, result *Result, seen map[errorKey]bool) {
	r := b.rule

	switch r.Kind {
	case rules.KindSimple:
		for _, col := range b.cols {
			cell := rc.ds.Cell(rc.row, col)

			var ok bool
			var detail string
			if r.Simple.Check.Type == rules.SimpleDuplicate {
				ok = !b.colDups[col][rc.row]
			} else {
				ok, detail = e.checkSimple(&r.Simple.Check, b.re, cell, rc)
			}
			if !ok {
				e.report(result, seen, r, []int{col}, rc.row, detail, []string{cell.String()})
			}
		}

	case rules.KindMultiColumn:
		if r.Multi.Type == rules.MultiUniqueCombination {
			if b.tupleDups[rc.row] {
				e.report(result, seen, r, b.cols, rc.row, "", cellValues(rc, b.cols))
			}
			return
		}

		cells := make([]dataset.Cell, len(b.cols))
		for i, col := range b.cols {
			cells[i] = rc.ds.Cell(rc.row, col)
		}
		if ok, detail := e.checkMulti(r.Multi, cells, rc); !ok {
			e.report(result, seen, r, b.cols, rc.row, detail, cellValues(rc, b.cols))
		}

	case rules.KindConditional:
		if !evaluateConditions(r.Conditional.Conditions, r.Conditional.Combinator, rc) {
			return
		}
		cell := rc.ds.Cell(rc.row, b.cols[0])
		if ok, detail := e.checkAction(&r.Conditional.Action, b.re, cell, rc); !ok {
			e.report(result, seen, r, b.cols, rc.row, detail, []string{cell.String()})
		}
	}
}

// report appends one validation error unless the same rule already
// reported the same cell group on the same row.
func (e *Engine) report(result *Result, seen map[errorKey]bool, r *rules.Rule, cols []int, row int, detail string, values []string) {
	coord := coordinate(cols, row)
	key := errorKey{row: row, ruleID: r.ID, coordinate: coord}
	if seen[key] {
		return
	}
	seen[key] = true

	msg := r.Message
	if detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, detail)
	}

	letters := make([]string, len(cols))
	for i, col := range cols {
		letters[i] = dataset.ColumnLetter(col)
	}

	result.Errors = append(result.Errors, &ValidationError{
		Row:        row,
		Columns:    letters,
		Coordinate: coord,
		Message:    msg,
		RuleID:     r.ID,
		Values:     values,
	})
}

func cellValues(rc rowContext, cols []int) []string {
	values := make([]string, len(cols))
	for i, col := range cols {
		values[i] = rc.ds.Cell(rc.row, col).String()
	}
	return values
}
