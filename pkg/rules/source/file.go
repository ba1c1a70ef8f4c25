package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"veridata-hq/tabular/pkg/rules"
	"veridata-hq/tabular/pkg/rules/parser"
)

// FileSource loads rule sets from YAML files on disk. The path can be a
// single file or a directory; for a directory, every .yaml and .yml file
// is loaded and the files' rules are concatenated in lexical file order,
// preserving each file's internal rule order.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file-based rule source.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{path: path, logger: logger}
}

// Load loads the rule set from the configured path.
func (s *FileSource) Load(ctx context.Context) (*rules.RuleSet, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %q: %w", s.path, err)
	}

	p := parser.NewParser()

	if !info.IsDir() {
		set, err := p.ParseFile(s.path)
		if err != nil {
			return nil, err
		}
		s.logger.Info("loaded rules from file", "path", s.path, "rule_count", len(set.Rules))
		return set, nil
	}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", s.path, err)
	}

	combined := rules.NewRuleSet()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		set, err := p.ParseFile(filepath.Join(s.path, entry.Name()))
		if err != nil {
			return nil, err
		}
		combined.Rules = append(combined.Rules, set.Rules...)
		if set.Default != nil {
			if combined.Default != nil {
				return nil, fmt.Errorf("multiple rule files in %q define a default check", s.path)
			}
			combined.Default = set.Default
		}
	}

	if err := combined.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("loaded rules from directory",
		"path", s.path,
		"rule_count", len(combined.Rules),
	)
	return combined, nil
}

// Watch watches the configured path for rule file changes.
func (s *FileSource) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch path %q: %w", s.path, err)
	}

	eventCh := make(chan Event)

	go func() {
		defer close(eventCh)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != s.path && !isRuleFile(ev.Name) {
					continue
				}
				event, relevant := translateEvent(ev)
				if !relevant {
					continue
				}
				select {
				case eventCh <- event:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case eventCh <- Event{Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return eventCh, nil
}

func isRuleFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

func translateEvent(ev fsnotify.Event) (Event, bool) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		return Event{Type: EventCreated, Path: ev.Name}, true
	case ev.Op.Has(fsnotify.Write):
		return Event{Type: EventModified, Path: ev.Name}, true
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		return Event{Type: EventDeleted, Path: ev.Name}, true
	default:
		return Event{}, false
	}
}
