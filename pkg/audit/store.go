package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS compile_audit (
	id          TEXT PRIMARY KEY,
	compiled_at TIMESTAMP NOT NULL,
	policy_hash TEXT NOT NULL,
	auth_hash   TEXT,
	limit_hash  TEXT,
	auth_empty  BOOLEAN NOT NULL,
	limit_empty BOOLEAN NOT NULL,
	outcome     TEXT NOT NULL,
	field       TEXT,
	reason      TEXT
);

CREATE INDEX IF NOT EXISTS idx_compile_audit_compiled_at
	ON compile_audit (compiled_at);
`

// StoreConfig contains configuration for the SQLite audit store.
type StoreConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// Store persists audit records in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the audit database and prepares its
// schema. WAL mode is always enabled.
func Open(config *StoreConfig) (*Store, error) {
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %q: %w", config.Path, err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default().With("component", "audit.store"),
	}
	if err := s.initialize(config); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("audit store opened", "path", config.Path)
	return s, nil
}

func (s *Store) initialize(config *StoreConfig) error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO schema_version (version) VALUES (?)", schemaVersion,
	); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	var version int
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("audit schema version mismatch: expected %d, got %d",
			schemaVersion, version)
	}
	return nil
}

// Append persists one audit record.
func (s *Store) Append(ctx context.Context, r *Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compile_audit (
			id, compiled_at, policy_hash, auth_hash, limit_hash,
			auth_empty, limit_empty, outcome, field, reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CompiledAt, r.PolicyHash, nullable(r.AuthHash), nullable(r.LimitHash),
		r.AuthEmpty, r.LimitEmpty, string(r.Outcome), nullable(r.Field), nullable(r.Reason),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, compiled_at, policy_hash,
		       COALESCE(auth_hash, ''), COALESCE(limit_hash, ''),
		       auth_empty, limit_empty, outcome,
		       COALESCE(field, ''), COALESCE(reason, '')
		FROM compile_audit
		ORDER BY compiled_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r := &Record{}
		var outcome string
		if err := rows.Scan(
			&r.ID, &r.CompiledAt, &r.PolicyHash, &r.AuthHash, &r.LimitHash,
			&r.AuthEmpty, &r.LimitEmpty, &outcome, &r.Field, &r.Reason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		r.Outcome = Outcome(outcome)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneBefore deletes records older than cutoff and returns the number
// deleted.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM compile_audit WHERE compiled_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// nullable converts empty strings to NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
