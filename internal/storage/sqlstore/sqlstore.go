// Package sqlstore persists the habit document in a SQLite database
// instead of habits.json.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DataFile is the database file name inside the data directory.
const DataFile = "dailyflow.db"

const queryTimeout = 5 * time.Second

// Backend stores the serialized document in a single-row table.
type Backend struct {
	db   *sql.DB
	path string
}

// Open creates (if needed) and migrates the database at path.
func Open(path string) (*Backend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One owner per process; a single connection keeps writes ordered.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, err
	}

	return &Backend{db: db, path: path}, nil
}

// Read returns the stored document, or an error matching fs.ErrNotExist
// when nothing has been saved yet.
func (b *Backend) Read() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var body string
	err := b.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no document in %s: %w", b.path, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return []byte(body), nil
}

// Write upserts the document row.
func (b *Backend) Write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO documents (id, body, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (b *Backend) Location() string {
	return b.path
}

// Quarantine moves the stored document into documents_corrupt so the
// next write cannot overwrite it. It returns a location such as
// "dailyflow.db#documents_corrupt/3", or "" when nothing was moved.
func (b *Backend) Quarantine(now time.Time) string {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return ""
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents_corrupt (body, quarantined_at)
		SELECT body, ? FROM documents WHERE id = 1`,
		now.UTC().Format(time.RFC3339))
	if err != nil {
		return ""
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return ""
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ""
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = 1`); err != nil {
		return ""
	}
	if err := tx.Commit(); err != nil {
		return ""
	}
	return fmt.Sprintf("%s#documents_corrupt/%d", b.path, id)
}

// Quarantined returns the bodies set aside by Quarantine, oldest first.
func (b *Backend) Quarantined() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := b.db.QueryContext(ctx, `SELECT body FROM documents_corrupt ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read quarantined documents: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan quarantined document: %w", err)
		}
		out = append(out, body)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (b *Backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
