package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite" // cgo-free fallback driver
)

// SQLite driver names. DriverCGO is the mattn driver; DriverPure is the
// modernc transpiled driver for builds without cgo.
const (
	DriverCGO  = "sqlite3"
	DriverPure = "sqlite"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the SQLite driver, DriverCGO or DriverPure.
	// Default: DriverCGO.
	Driver string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/runs.db",
		Driver:       DriverCGO,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the run history database.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverCGO
	}
	if config.Driver != DriverCGO && config.Driver != DriverPure {
		return nil, newStorageError("sqlite", "open", fmt.Errorf("unknown driver %q", config.Driver))
	}

	logger := slog.Default().With("component", "storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("run store initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return newStorageError("sqlite", "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return newStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return newStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return newStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil && err != sql.ErrNoRows {
		return newStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// SaveRun persists one run record.
func (s *SQLiteStore) SaveRun(ctx context.Context, record *RunRecord) error {
	errs, err := json.Marshal(record.Errors)
	if err != nil {
		return newStorageError("sqlite", "save_run", err)
	}
	cfgErrs, err := json.Marshal(record.ConfigErrors)
	if err != nil {
		return newStorageError("sqlite", "save_run", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, dataset, started_at, duration_ms, row_count, rule_count, valid, errors, config_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RunID, record.Dataset, record.StartedAt, record.Duration.Milliseconds(),
		record.RowCount, record.RuleCount, record.Valid, string(errs), string(cfgErrs),
	)
	if err != nil {
		return newStorageError("sqlite", "save_run", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, dataset, started_at, duration_ms, row_count, rule_count, valid, errors, config_errors
		FROM runs WHERE id = ?`, runID)

	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, newStorageError("sqlite", "get_run", err)
	}
	return record, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := `
		SELECT id, dataset, started_at, duration_ms, row_count, rule_count, valid, errors, config_errors
		FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, newStorageError("sqlite", "list_runs", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, newStorageError("sqlite", "list_runs", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("sqlite", "list_runs", err)
	}
	return records, nil
}

// DeleteRunsBefore removes runs started before the cutoff.
func (s *SQLiteStore) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, newStorageError("sqlite", "delete_runs", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, newStorageError("sqlite", "delete_runs", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunRecord, error) {
	var record RunRecord
	var durationMS int64
	var errs, cfgErrs string

	err := row.Scan(&record.RunID, &record.Dataset, &record.StartedAt, &durationMS,
		&record.RowCount, &record.RuleCount, &record.Valid, &errs, &cfgErrs)
	if err != nil {
		return nil, err
	}

	record.Duration = time.Duration(durationMS) * time.Millisecond
	if err := json.Unmarshal([]byte(errs), &record.Errors); err != nil {
		return nil, err
	}
	if cfgErrs != "" {
		if err := json.Unmarshal([]byte(cfgErrs), &record.ConfigErrors); err != nil {
			return nil, err
		}
	}
	return &record, nil
}
