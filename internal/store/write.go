package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/logkeep/internal/record"
)

// ErrNegativeCapacity is returned by Append for capacity < 0.
var ErrNegativeCapacity = errors.New("capacity must be 0 or greater")

const (
	insertSQL = `
		INSERT INTO log (priority, tag, message, created_at)
		VALUES (?, ?, ?, ?)
	`

	// Ids grow with insertion, so the newest capacity rows are the
	// capacity largest ids. LIMIT 0 keeps nothing.
	evictSQL = `
		DELETE FROM log
		WHERE id NOT IN (SELECT id FROM log ORDER BY id DESC LIMIT ?)
	`
)

// Append inserts rec and evicts every row outside the newest capacity
// rows. Both statements run in one transaction, so no reader ever sees
// more than capacity rows or an eviction without the new row.
//
// Any error rolls the transaction back and leaves the table unchanged.
// There is no retry.
func (s *Store) Append(ctx context.Context, rec record.Record, capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("append: %w", ErrNegativeCapacity)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, insertSQL,
		rec.Severity,
		rec.Tag,
		rec.Message,
		rec.TimestampMillis,
	); err != nil {
		return fmt.Errorf("append: insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, evictSQL, capacity); err != nil {
		return fmt.Errorf("append: evict: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append: commit: %w", err)
	}
	return nil
}

// Clear deletes every row in one transaction.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clear: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM log"); err != nil {
		return fmt.Errorf("clear: delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clear: commit: %w", err)
	}
	return nil
}
