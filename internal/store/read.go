package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/logkeep/internal/record"
)

// Row is a persisted record together with its surrogate id.
type Row struct {
	ID        int64  `json:"id"`
	Severity  string `json:"priority"`
	Tag       string `json:"tag"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}

// Record returns the record stored in the row.
func (r Row) Record() record.Record {
	return record.Record{
		Severity:        r.Severity,
		Tag:             r.Tag,
		Message:         r.Message,
		TimestampMillis: r.CreatedAt,
	}
}

// Count returns the number of rows in the log table.
//
// Reads bypass the write worker: the result may or may not include
// writes that are still queued.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM log").Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// List returns the newest limit rows in insertion order (ascending id).
// A limit of 0 or less returns every row.
//
// Returns an empty slice (not nil) if the table is empty.
func (s *Store) List(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, priority, tag, message, created_at FROM (
			SELECT id, priority, tag, message, created_at
			FROM log
			ORDER BY id DESC
			LIMIT ?
		)
		ORDER BY id ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Severity, &r.Tag, &r.Message, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: iterate: %w", err)
	}
	return out, nil
}

// ErrExportExists is returned by Export when the destination already exists.
var ErrExportExists = errors.New("export destination already exists")

// Export writes a consistent copy of the database to dest using
// VACUUM INTO. The destination must not exist yet.
func (s *Store) Export(ctx context.Context, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("export %s: %w", dest, ErrExportExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("export %s: %w", dest, err)
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return fmt.Errorf("export %s: %w", dest, err)
	}
	return nil
}
