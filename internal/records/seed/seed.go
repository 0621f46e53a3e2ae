// Package seed loads the sample master data used by development databases.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"serveon_backend/internal/grid"
	"serveon_backend/internal/records/entity"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultData []byte

// Batch is the sample records of one entity type.
type Batch struct {
	Entity  string           `yaml:"entity"`
	Records []map[string]any `yaml:"records"`
}

// Records is the slice of the records service the seeder needs.
type Records interface {
	Count(ctx context.Context, entityType string) (int, error)
	Create(ctx context.Context, entityType string, data map[string]any) (grid.Map, error)
}

// Parse decodes seed batches and rejects unknown entity types.
func Parse(data []byte) ([]Batch, error) {
	var batches []Batch
	if err := yaml.Unmarshal(data, &batches); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	for _, b := range batches {
		if _, ok := entity.Lookup(b.Entity); !ok {
			return nil, fmt.Errorf("seed data: unknown entity %q", b.Entity)
		}
	}
	return batches, nil
}

// Default returns the embedded sample data.
func Default() ([]Batch, error) {
	return Parse(defaultData)
}

// Apply creates every batch whose entity type is still empty, so running it
// twice does not duplicate data. It returns the records created per type.
func Apply(ctx context.Context, records Records, batches []Batch) (map[string]int, error) {
	created := make(map[string]int, len(batches))
	for _, b := range batches {
		n, err := records.Count(ctx, b.Entity)
		if err != nil {
			return created, fmt.Errorf("count %s: %w", b.Entity, err)
		}
		if n > 0 {
			continue
		}
		for _, rec := range b.Records {
			if _, err := records.Create(ctx, b.Entity, rec); err != nil {
				return created, fmt.Errorf("create %s: %w", b.Entity, err)
			}
			created[b.Entity]++
		}
	}
	return created, nil
}
