// Package source provides rule-set sources for the validation engine.
//
// A Source loads an ordered rule set and can watch for rule file changes,
// emitting events so callers can reload between validation runs. FileSource
// reads YAML rule files (a single file or a directory of files) and watches
// them with fsnotify; MemorySource holds a rule set in memory for tests.
package source
