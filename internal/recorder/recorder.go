// Package recorder persists filter decisions to SQLite for offline tuning
// of the debounce parameters.
package recorder

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // CGO-free SQLite

	"github.com/ITJesse/mouse-smoother/internal/filter"
)

// Recorder appends one row per debouncer verdict.
type Recorder struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// Open creates or opens the decision database at path.
func Open(path string) (*Recorder, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	stmt, err := db.Prepare(`INSERT INTO decisions(ts_utc, axis, raw, filtered, suppressed) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}

	return &Recorder{db: db, stmt: stmt}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS decisions(
	  id         INTEGER PRIMARY KEY,
	  ts_utc     INTEGER NOT NULL,
	  axis       TEXT    NOT NULL CHECK (axis IN ('vertical','horizontal')),
	  raw        INTEGER NOT NULL,
	  filtered   INTEGER NOT NULL,
	  suppressed INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(ts_utc);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Record writes one decision. Errors are returned, not fatal: the caller
// decides whether a failed tuning log should stop the filter (it should not).
func (r *Recorder) Record(d filter.Decision) error {
	_, err := r.stmt.Exec(d.At.UnixMilli(), string(d.Axis), d.Raw, d.Filtered, boolToInt(d.Suppressed))
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// Count returns the number of recorded decisions, suppressed ones included.
func (r *Recorder) Count() (int64, error) {
	var n int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM decisions`).Scan(&n)
	return n, err
}

// Close flushes and closes the database.
func (r *Recorder) Close() error {
	if r.stmt != nil {
		r.stmt.Close()
	}
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
