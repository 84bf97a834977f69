// Package history keeps a local journal of completed sync passes.
//
// The journal is observability, not correctness: the orchestrator's loop
// avoidance rests solely on the state file, and a failure to record a
// pass here is logged and otherwise ignored. The journal backs the
// "history" command so a user can see what the tool has been doing.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Entry describes one completed sync pass.
type Entry struct {
	// ID is the journal row identifier.
	ID int64

	// FinishedAt is when the pass completed.
	FinishedAt time.Time

	// Revision is the published-branch head the pass recorded.
	Revision string

	// FilesChanged is the size of the changed-file set the pass examined.
	FilesChanged int

	// FilesConverted is how many of those files conversion modified.
	FilesConverted int
}

// DB wraps the journal database connection.
type DB struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS passes (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	finished_at     TEXT NOT NULL,
	revision        TEXT NOT NULL,
	files_changed   INTEGER NOT NULL,
	files_converted INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_passes_finished_at ON passes(finished_at);
`

// Open opens (creating if needed) the journal database at path.
// The caller must Close() when done.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Record appends one completed pass to the journal.
func (d *DB) Record(ctx context.Context, revision string, filesChanged, filesConverted int) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO passes (finished_at, revision, files_changed, files_converted)
		 VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), revision, filesChanged, filesConverted)
	if err != nil {
		return fmt.Errorf("failed to record pass: %w", err)
	}
	return nil
}

// Recent returns the most recent passes, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, finished_at, revision, files_changed, files_converted
		 FROM passes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var finished string
		if err := rows.Scan(&e.ID, &finished, &e.Revision, &e.FilesChanged, &e.FilesConverted); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, finished); err == nil {
			e.FinishedAt = t
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
