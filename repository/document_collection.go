package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// document is the constraint for types stored in a DocumentCollection
type document[T any] interface {
	*T
	SetMeta(id string, createdAt, updatedAt time.Time)
}

// DocumentCollection stores entities of type T as JSONB documents in a single table
// with the columns (id, data, created_at, updated_at)
type DocumentCollection[T any, PT document[T]] struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
	now    func() time.Time
}

// NewDocumentCollection creates a DocumentCollection over table
func NewDocumentCollection[T any, PT document[T]](conn *sql.DB, table string, logger *zap.Logger) *DocumentCollection[T, PT] {
	return &DocumentCollection[T, PT]{
		db:     conn,
		table:  table,
		logger: logger.With(zap.String("collection", table)),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetAll returns every document, newest first
func (c *DocumentCollection[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	return c.list(ctx, "")
}

// GetByID returns the document with the given id or ErrNotFound
func (c *DocumentCollection[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf(`SELECT id, data, created_at, updated_at FROM %s WHERE id = $1`, c.table)

	item, err := c.scan(c.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		c.logger.Error("❌ Error fetching document", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get %s %s: %w", c.table, id, err)
	}
	return item, nil
}

// Create stores item under a new id and returns the id
func (c *DocumentCollection[T, PT]) Create(ctx context.Context, item *T) (string, error) {
	id := uuid.NewString()
	now := c.now()
	PT(item).SetMeta(id, now, now)

	data, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s document: %w", c.table, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, data, created_at, updated_at) VALUES ($1, $2, $3, $4)`, c.table)
	if _, err := c.db.ExecContext(ctx, query, id, data, now, now); err != nil {
		c.logger.Error("❌ Error inserting document", zap.Error(err))
		return "", fmt.Errorf("failed to insert %s: %w", c.table, err)
	}

	c.logger.Debug("✓ Document created", zap.String("id", id))
	return id, nil
}

// Update merges changes into the stored document; id and timestamps cannot be changed this way
func (c *DocumentCollection[T, PT]) Update(ctx context.Context, id string, changes map[string]any) error {
	patch := make(map[string]any, len(changes))
	for k, v := range changes {
		switch k {
		case "id", "createdAt", "updatedAt":
			continue
		}
		patch[k] = v
	}

	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode %s changes: %w", c.table, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET data = data || $2::jsonb, updated_at = $3 WHERE id = $1`, c.table)
	res, err := c.db.ExecContext(ctx, query, id, data, c.now())
	if err != nil {
		c.logger.Error("❌ Error updating document", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update %s %s: %w", c.table, id, err)
	}
	return expectOneRow(res)
}

// Delete removes the document with the given id
func (c *DocumentCollection[T, PT]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	res, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		c.logger.Error("❌ Error deleting document", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete %s %s: %w", c.table, id, err)
	}
	return expectOneRow(res)
}

// BulkCreate stores all items in one transaction with a shared timestamp
func (c *DocumentCollection[T, PT]) BulkCreate(ctx context.Context, items []T) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`INSERT INTO %s (id, data, created_at, updated_at) VALUES ($1, $2, $3, $4)`, c.table)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare bulk insert: %w", err)
	}
	defer stmt.Close()

	now := c.now()
	for i := range items {
		id := uuid.NewString()
		PT(&items[i]).SetMeta(id, now, now)

		data, err := json.Marshal(&items[i])
		if err != nil {
			return fmt.Errorf("failed to encode %s document %d: %w", c.table, i, err)
		}
		if _, err := stmt.ExecContext(ctx, id, data, now, now); err != nil {
			return fmt.Errorf("failed to insert %s document %d: %w", c.table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}

	c.logger.Info("✓ Bulk insert completed", zap.Int("count", len(items)))
	return nil
}

// list runs a select over the table with an optional WHERE clause, newest first
func (c *DocumentCollection[T, PT]) list(ctx context.Context, where string, args ...any) ([]T, error) {
	query := fmt.Sprintf(`SELECT id, data, created_at, updated_at FROM %s %s ORDER BY created_at DESC`, c.table, where)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		c.logger.Error("❌ Error querying documents", zap.Error(err))
		return nil, fmt.Errorf("failed to query %s: %w", c.table, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := c.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", c.table, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", c.table, err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (c *DocumentCollection[T, PT]) scan(row rowScanner) (*T, error) {
	var (
		id                   string
		data                 []byte
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	item := new(T)
	if err := json.Unmarshal(data, item); err != nil {
		return nil, fmt.Errorf("failed to decode %s document %s: %w", c.table, id, err)
	}
	PT(item).SetMeta(id, createdAt, updatedAt)
	return item, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
