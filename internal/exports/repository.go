package exports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one logged export.
type Entry struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entityType"`
	UserID     uuid.UUID `json:"userId"`
	RowCount   int       `json:"rowCount"`
	ObjectKey  *string   `json:"objectKey,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Repository provides data access for the export log.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends e to the log and returns it with its ID and timestamp.
func (r *Repository) Insert(ctx context.Context, e Entry) (Entry, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO serveon_export_log (entity_type, user_id, row_count, object_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, e.EntityType, e.UserID, e.RowCount, e.ObjectKey).Scan(&e.ID, &e.CreatedAt)
	return e, err
}

// Recent returns the latest entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, entity_type, user_id, row_count, object_key, created_at
		FROM serveon_export_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.UserID, &e.RowCount, &e.ObjectKey, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
