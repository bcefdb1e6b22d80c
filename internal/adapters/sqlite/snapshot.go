package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pmboard/internal/domain"
)

const fetchedAtKey = "fetched_at"

// SaveSnapshot replaces the cached snapshot wholesale
func (c *Cache) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	tx, err := c.beginSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.Clear(ctx); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear records: %w", err)
	}
	for i, rec := range snap.Records {
		if err := tx.InsertRecord(ctx, i, rec); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}
	if err := tx.SetMeta(ctx, fetchedAtKey, snap.FetchedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached snapshot, or nil when nothing was saved
func (c *Cache) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var fetchedAt string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, fetchedAtKey).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid fetch time %q: %w", fetchedAt, err)
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT row_key, %s FROM records ORDER BY seq`, strings.Join(recordColumns, ", "),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	fields := domain.Fields()
	snap := &domain.Snapshot{FetchedAt: ts, Records: []domain.TaskRecord{}}
	for rows.Next() {
		values := make([]string, len(fields)+1)
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec := domain.TaskRecord{RowKey: values[0]}
		for i, f := range fields {
			rec.Set(f, values[i+1])
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return snap, nil
}
