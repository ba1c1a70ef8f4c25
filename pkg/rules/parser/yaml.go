package parser

import (
	"gopkg.in/yaml.v3"
)

// yamlRuleFile is the intermediate structure for a rule file before
// transformation into the rules model.
type yamlRuleFile struct {
	Version     string       `yaml:"version"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Default     *yamlDefault `yaml:"default"`
	Rules       []yamlRule   `yaml:"rules"`
}

// yamlDefault is the intermediate structure for the blanket check
// applied to every column not listed in exclude.
type yamlDefault struct {
	Type    string     `yaml:"type"`
	Params  yamlParams `yaml:"params"`
	Exclude []string   `yaml:"exclude"`
	Message string     `yaml:"message"`
}

// yamlRule is the intermediate structure for one rule of any kind.
type yamlRule struct {
	ID      string   `yaml:"id"`
	Kind    string   `yaml:"kind"`
	Type    string   `yaml:"type"`
	Columns []string `yaml:"columns"`
	Message string   `yaml:"message"`
	// Pointer to distinguish unset from false; unset means active.
	Active *bool `yaml:"active"`

	Params yamlParams `yaml:"params"`

	// Conditional rule fields.
	Combinator string          `yaml:"combinator"`
	Conditions []yamlCondition `yaml:"conditions"`
	Action     *yamlAction     `yaml:"action"`
}

// yamlParams is the superset of type-specific parameters. Pointer fields
// distinguish unset values from explicit zeros.
type yamlParams struct {
	Trim          bool     `yaml:"trim"`
	Min           *int     `yaml:"min"`
	Max           *int     `yaml:"max"`
	ValueKind     string   `yaml:"value_kind"`
	Pattern       string   `yaml:"pattern"`
	Choices       []string `yaml:"choices"`
	CaseSensitive *bool    `yaml:"case_sensitive"`
	Formats       []string `yaml:"formats"`
	Operator      string   `yaml:"operator"`
	Value         string   `yaml:"value"`
	OtherColumn   string   `yaml:"other_column"`
	Countries     []string `yaml:"countries"`

	Tolerance     *float64       `yaml:"tolerance"`
	Strict        bool           `yaml:"strict"`
	MinValue      *float64       `yaml:"min_value"`
	MaxValue      *float64       `yaml:"max_value"`
	MinDays       *int           `yaml:"min_days"`
	MaxDays       *int           `yaml:"max_days"`
	Percentage    float64        `yaml:"percentage"`
	AbsoluteTol   bool           `yaml:"absolute_tolerance"`
	Condition     *yamlCondition `yaml:"condition"`
	Threshold     float64        `yaml:"threshold"`
	Operation     string         `yaml:"operation"`
	Target        string         `yaml:"target"`
}

// yamlCondition is the intermediate structure for one condition.
type yamlCondition struct {
	Column   string `yaml:"column"`
	Operator string `yaml:"operator"`
	Value    string `yaml:"value"`
}

// yamlAction is the intermediate structure for a conditional action.
type yamlAction struct {
	Column string `yaml:"column"`
	Type   string `yaml:"type"`

	// Embedded check for "check" actions.
	CheckType   string     `yaml:"check_type"`
	CheckParams yamlParams `yaml:"check_params"`

	// Comparison action fields.
	Operator    string `yaml:"operator"`
	Value       string `yaml:"value"`
	OtherColumn string `yaml:"other_column"`

	// Choice action fields.
	Choices       []string `yaml:"choices"`
	CaseSensitive *bool    `yaml:"case_sensitive"`
}

// parseYAMLBytes decodes rule file bytes into the intermediate structure.
func parseYAMLBytes(data []byte) (*yamlRuleFile, error) {
	var file yamlRuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}
