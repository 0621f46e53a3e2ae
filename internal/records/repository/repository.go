package repository

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serveon_backend/internal/grid"
	"serveon_backend/platform/apperr"
)

const recordNotFoundMessage = "record not found"

// Reserved keys are owned by the table columns and stripped from data.
var reservedKeys = []string{"id", "createdAt", "updatedAt"}

// Repo implements Repository on the serveon_records table.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new records repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const selectColumns = `id, data, created_at AS "createdAt", updated_at AS "updatedAt"`

// List returns every record of entityType ordered by id.
func (r *Repo) List(ctx context.Context, entityType string) ([]grid.Map, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM serveon_records
		WHERE entity_type = $1
		ORDER BY id`, entityType)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entityType, err)
	}

	raw, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entityType, err)
	}

	records := make([]grid.Map, len(raw))
	for i, row := range raw {
		records[i] = flatten(row)
	}
	return records, nil
}

// Get returns one record.
func (r *Repo) Get(ctx context.Context, entityType string, id int64) (grid.Map, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM serveon_records
		WHERE entity_type = $1 AND id = $2`, entityType, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", entityType, err)
	}
	return collectOne(rows, entityType)
}

// Create stores a new record.
func (r *Repo) Create(ctx context.Context, entityType string, data map[string]any) (grid.Map, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO serveon_records (entity_type, data)
		VALUES ($1, $2)
		RETURNING `+selectColumns, entityType, stripReserved(data))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", entityType, err)
	}
	return collectOne(rows, entityType)
}

// Update replaces the fields of a record.
func (r *Repo) Update(ctx context.Context, entityType string, id int64, data map[string]any) (grid.Map, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE serveon_records
		SET data = $3, updated_at = now()
		WHERE entity_type = $1 AND id = $2
		RETURNING `+selectColumns, entityType, id, stripReserved(data))
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", entityType, err)
	}
	return collectOne(rows, entityType)
}

// Delete removes a record.
func (r *Repo) Delete(ctx context.Context, entityType string, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM serveon_records WHERE entity_type = $1 AND id = $2`, entityType, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", entityType, err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(recordNotFoundMessage)
	}
	return nil
}

// Count returns how many records entityType has.
func (r *Repo) Count(ctx context.Context, entityType string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM serveon_records WHERE entity_type = $1`, entityType).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", entityType, err)
	}
	return n, nil
}

func collectOne(rows pgx.Rows, entityType string) (grid.Map, error) {
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(recordNotFoundMessage)
		}
		return nil, fmt.Errorf("read %s: %w", entityType, err)
	}
	return flatten(row), nil
}

// flatten merges the JSONB fields with the row columns. Column values win.
func flatten(row map[string]any) grid.Map {
	record := grid.Map{}
	if data, ok := row["data"].(map[string]any); ok {
		maps.Copy(record, data)
	}
	for _, key := range reservedKeys {
		record[key] = row[key]
	}
	return record
}

func stripReserved(data map[string]any) map[string]any {
	out := maps.Clone(data)
	if out == nil {
		out = map[string]any{}
	}
	for _, key := range reservedKeys {
		delete(out, key)
	}
	return out
}
