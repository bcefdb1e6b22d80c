package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pmboard/internal/domain"
)

// snapshotTx replaces the cached snapshot inside one transaction
type snapshotTx struct {
	tx     *sql.Tx
	insert *sql.Stmt
}

func (c *Cache) beginSnapshot(ctx context.Context) (*snapshotTx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	cols := append([]string{"seq", "row_key"}, recordColumns...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO records (%s) VALUES (%s)`,
		strings.Join(cols, ", "), placeholders,
	))
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &snapshotTx{tx: tx, insert: stmt}, nil
}

// Clear removes every cached record
func (t *snapshotTx) Clear(ctx context.Context) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM records`)
	return err
}

// InsertRecord stores one record at position seq
func (t *snapshotTx) InsertRecord(ctx context.Context, seq int, rec domain.TaskRecord) error {
	args := make([]any, 0, len(recordColumns)+2)
	args = append(args, seq, rec.RowKey)
	for _, f := range domain.Fields() {
		args = append(args, rec.Get(f))
	}
	_, err := t.insert.ExecContext(ctx, args...)
	return err
}

// SetMeta records a metadata value
func (t *snapshotTx) SetMeta(ctx context.Context, key, value string) error {
	_, err := t.tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Commit commits the transaction
func (t *snapshotTx) Commit() error {
	t.insert.Close()
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *snapshotTx) Rollback() error {
	t.insert.Close()
	return t.tx.Rollback()
}
