// Package storage persists validation run history.
//
// Each completed run is stored as one record: run metadata plus the
// serialized error list. Two backends are provided: SQLite for
// durability across restarts and an in-memory store for tests and
// short-lived embedding. Retention pruning lives in the retention
// subpackage.
package storage
