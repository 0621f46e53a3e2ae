package dashboard

import (
	"context"

	"serveon_backend/internal/navsearch/transport"
	"serveon_backend/internal/records/entity"
	"serveon_backend/platform/apperr"

	"golang.org/x/sync/errgroup"
)

const (
	maxConcurrentCounts = 4
	topDestinations     = 5
)

// Counter counts the records of an entity type.
type Counter interface {
	Count(ctx context.Context, entityType string) (int, error)
}

// VisitReader reports the caller's most visited destinations.
type VisitReader interface {
	TopVisited(ctx context.Context, scope string, n int) []transport.Destination
}

type EntityCount struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Summary struct {
	Counts          []EntityCount           `json:"counts"`
	Total           int                     `json:"total"`
	TopDestinations []transport.Destination `json:"topDestinations"`
}

type Service struct {
	counter Counter
	visits  VisitReader
}

func NewService(counter Counter, visits VisitReader) *Service {
	return &Service{counter: counter, visits: visits}
}

// Summary counts every entity type concurrently. One failed count fails
// the whole summary.
func (s *Service) Summary(ctx context.Context, scope string) (*Summary, error) {
	entities := entity.All()
	counts := make([]EntityCount, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCounts)
	for i, e := range entities {
		g.Go(func() error {
			n, err := s.counter.Count(gctx, e.Type)
			if err != nil {
				return err
			}
			counts[i] = EntityCount{Type: e.Type, Label: e.Label, Count: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Classify("dashboard.Summary", "failed to build dashboard", err)
	}

	summary := &Summary{Counts: counts, TopDestinations: []transport.Destination{}}
	for _, c := range counts {
		summary.Total += c.Count
	}
	if s.visits != nil {
		summary.TopDestinations = s.visits.TopVisited(ctx, scope, topDestinations)
	}
	return summary, nil
}
