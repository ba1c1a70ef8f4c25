package source

import (
	"context"

	"veridata-hq/tabular/pkg/rules"
)

// MemorySource is an in-memory rule source for testing.
type MemorySource struct {
	set *rules.RuleSet
}

// NewMemorySource creates an in-memory rule source.
func NewMemorySource(set *rules.RuleSet) *MemorySource {
	return &MemorySource{set: set}
}

// Load returns the rule set stored in memory.
func (s *MemorySource) Load(ctx context.Context) (*rules.RuleSet, error) {
	// Return a shallow copy so callers cannot reorder the stored set.
	set := rules.NewRuleSet()
	set.Rules = append(set.Rules, s.set.Rules...)
	set.Default = s.set.Default
	return set, nil
}

// Watch returns a channel that never sends events.
func (s *MemorySource) Watch(ctx context.Context) (<-chan Event, error) {
	eventCh := make(chan Event)

	go func() {
		<-ctx.Done()
		close(eventCh)
	}()

	return eventCh, nil
}

// SetRules replaces the stored rule set (for testing).
func (s *MemorySource) SetRules(set *rules.RuleSet) {
	s.set = set
}
