package source

import (
	"context"

	"veridata-hq/tabular/pkg/rules"
)

// Source provides rule sets to the validation engine.
type Source interface {
	// Load loads the rule set from the source.
	Load(ctx context.Context) (*rules.RuleSet, error)

	// Watch watches for rule changes and sends events on the returned
	// channel. The channel is closed when the context is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}

// EventType identifies the kind of rule file change.
type EventType string

const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
	EventDeleted  EventType = "deleted"
)

// Event is a rule file change notification.
type Event struct {
	// Type is the change kind.
	Type EventType

	// Path is the file path that changed.
	Path string

	// Err carries any watcher-level error.
	Err error
}
