package parser

import (
	"fmt"
	"os"

	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

// Tolerance defaults carried over from the original rule definitions.
const (
	DefaultSumTolerance        = 0.01
	DefaultMaxMinTolerance     = 0.01
	DefaultPercentageTolerance = 0.05
)

// Parser transforms YAML rule files into validated rule sets.
type Parser struct{}

// NewParser creates a rule file parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile loads and parses a rule file from disk.
func (p *Parser) ParseFile(path string) (*rules.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %q: %w", path, err)
	}
	set, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule file %q: %w", path, err)
	}
	return set, nil
}

// ParseBytes parses rule file bytes into a validated rule set.
// The returned set preserves file order.
func (p *Parser) ParseBytes(data []byte) (*rules.RuleSet, error) {
	file, err := parseYAMLBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	set := rules.NewRuleSet()
	if file.Default != nil {
		set.Default = &rules.DefaultCheck{
			Check: rules.SimpleCheck{
				Type:   rules.SimpleRuleType(file.Default.Type),
				Params: buildSimpleParams(file.Default.Params),
			},
			Exclude: toColumnRefs(file.Default.Exclude),
			Message: file.Default.Message,
		}
	}
	for i, yr := range file.Rules {
		rule, err := buildRule(yr, i)
		if err != nil {
			return nil, err
		}
		set.Rules = append(set.Rules, rule)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// buildRule transforms one intermediate rule into the model, applying
// defaults for id, active flag, message, and tolerances.
func buildRule(yr yamlRule, index int) (*rules.Rule, error) {
	rule := &rules.Rule{
		ID:      yr.ID,
		Kind:    rules.RuleKind(yr.Kind),
		Message: yr.Message,
		Active:  yr.Active == nil || *yr.Active,
	}
	if rule.ID == "" {
		rule.ID = fmt.Sprintf("rule-%d", index+1)
	}

	switch rule.Kind {
	case rules.KindSimple:
		rule.Simple = &rules.SimpleRule{
			Columns: toColumnRefs(yr.Columns),
			Check: rules.SimpleCheck{
				Type:   rules.SimpleRuleType(yr.Type),
				Params: buildSimpleParams(yr.Params),
			},
		}
		if rule.Message == "" {
			rule.Message = fmt.Sprintf("%s check failed", yr.Type)
		}

	case rules.KindMultiColumn:
		rule.Multi = &rules.MultiColumnRule{
			Columns: toColumnRefs(yr.Columns),
			Type:    rules.MultiRuleType(yr.Type),
			Params:  buildMultiParams(yr.Params, rules.MultiRuleType(yr.Type)),
		}
		if rule.Message == "" {
			rule.Message = fmt.Sprintf("%s check failed", yr.Type)
		}

	case rules.KindConditional:
		if yr.Action == nil {
			return nil, &rules.ConfigurationError{RuleID: rule.ID, Field: "action", Message: "conditional rule requires an action"}
		}
		conds := make([]rules.Condition, len(yr.Conditions))
		for i, yc := range yr.Conditions {
			conds[i] = buildCondition(yc)
		}
		combinator := rules.Combinator(yr.Combinator)
		if combinator == "" {
			combinator = rules.CombinatorAnd
		}
		rule.Conditional = &rules.ConditionalRule{
			Conditions: conds,
			Combinator: combinator,
			Action:     buildAction(*yr.Action),
		}
		if rule.Message == "" {
			rule.Message = "conditional rule failed"
		}

	default:
		return nil, &rules.ConfigurationError{RuleID: rule.ID, Field: "kind", Message: fmt.Sprintf("unknown rule kind %q", yr.Kind)}
	}

	return rule, nil
}

func buildSimpleParams(yp yamlParams) rules.SimpleParams {
	return rules.SimpleParams{
		Trim:          yp.Trim,
		Min:           yp.Min,
		Max:           yp.Max,
		ValueKind:     yp.ValueKind,
		Pattern:       yp.Pattern,
		Choices:       yp.Choices,
		CaseSensitive: yp.CaseSensitive,
		Formats:       yp.Formats,
		Operator:      rules.Operator(yp.Operator),
		Value:         yp.Value,
		OtherColumn:   dataset.ColumnRef(yp.OtherColumn),
		Countries:     yp.Countries,
	}
}

func buildMultiParams(yp yamlParams, ruleType rules.MultiRuleType) rules.MultiParams {
	params := rules.MultiParams{
		Tolerance:         yp.Tolerance,
		Strict:            yp.Strict,
		Min:               yp.MinValue,
		Max:               yp.MaxValue,
		Operator:          rules.Operator(yp.Operator),
		MinDays:           yp.MinDays,
		MaxDays:           yp.MaxDays,
		Percentage:        yp.Percentage,
		AbsoluteTolerance: yp.AbsoluteTol,
		CaseSensitive:     yp.CaseSensitive,
		Threshold:         yp.Threshold,
		Operation:         yp.Operation,
		Target:            yp.Target,
		Formats:           yp.Formats,
	}
	if yp.Condition != nil {
		cond := buildCondition(*yp.Condition)
		params.Condition = &cond
	}

	// Original max_min defaults: check the maximum, expect it in the
	// last column.
	if ruleType == rules.MultiMaxMin {
		if params.Operation == "" {
			params.Operation = rules.OperationMax
		}
		if params.Target == "" {
			params.Target = rules.TargetLast
		}
	}

	// Original tolerance defaults when the file does not set one.
	if params.Tolerance == nil {
		var def float64
		switch ruleType {
		case rules.MultiSumEqual:
			def = DefaultSumTolerance
		case rules.MultiMaxMin:
			def = DefaultMaxMinTolerance
		case rules.MultiPercentageOf:
			def = DefaultPercentageTolerance
		default:
			return params
		}
		params.Tolerance = &def
	}
	return params
}

func buildCondition(yc yamlCondition) rules.Condition {
	return rules.Condition{
		Column:   dataset.ColumnRef(yc.Column),
		Operator: rules.Operator(yc.Operator),
		Value:    yc.Value,
	}
}

func buildAction(ya yamlAction) rules.Action {
	action := rules.Action{
		Column:        dataset.ColumnRef(ya.Column),
		Type:          rules.ActionType(ya.Type),
		Operator:      rules.Operator(ya.Operator),
		Value:         ya.Value,
		OtherColumn:   dataset.ColumnRef(ya.OtherColumn),
		Choices:       ya.Choices,
		CaseSensitive: ya.CaseSensitive,
	}
	if action.Type == rules.ActionCheck {
		action.Check = &rules.SimpleCheck{
			Type:   rules.SimpleRuleType(ya.CheckType),
			Params: buildSimpleParams(ya.CheckParams),
		}
	}
	return action
}

func toColumnRefs(cols []string) []dataset.ColumnRef {
	refs := make([]dataset.ColumnRef, len(cols))
	for i, c := range cols {
		refs[i] = dataset.ColumnRef(c)
	}
	return refs
}
