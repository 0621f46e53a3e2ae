package repository

import (
	"context"

	"serveon_backend/internal/grid"
)

// Repository persists master-data records of every entity type.
// Records come back flattened: the JSON fields plus id, createdAt and updatedAt.
type Repository interface {
	List(ctx context.Context, entityType string) ([]grid.Map, error)
	Get(ctx context.Context, entityType string, id int64) (grid.Map, error)
	Create(ctx context.Context, entityType string, data map[string]any) (grid.Map, error)
	Update(ctx context.Context, entityType string, id int64, data map[string]any) (grid.Map, error)
	Delete(ctx context.Context, entityType string, id int64) error
	Count(ctx context.Context, entityType string) (int, error)
}
