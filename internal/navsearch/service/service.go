package service

import (
	"context"

	"serveon_backend/internal/navsearch/engine"
	"serveon_backend/internal/navsearch/transport"
	"serveon_backend/platform/apperr"
	"serveon_backend/platform/config"
	"serveon_backend/platform/kvstore"
)

// Service answers navigation searches for a caller. History and visit
// counts live under the caller's storage scope.
type Service struct {
	catalog      []engine.Item
	kv           *kvstore.Safe
	historyLimit int
	resultLimit  int
}

func New(catalog []engine.Item, kv *kvstore.Safe, cfg config.SearchConfig) *Service {
	return &Service{
		catalog:      catalog,
		kv:           kv,
		historyLimit: cfg.GetNavHistoryLimit(),
		resultLimit:  cfg.GetNavResultLimit(),
	}
}

func (s *Service) stores(scope string) (*engine.History, *engine.Popularity) {
	kv := s.kv.Scope(scope)
	return engine.NewHistory(kv, s.historyLimit), engine.NewPopularity(kv)
}

func (s *Service) Search(ctx context.Context, scope string, req transport.SearchRequest) *transport.SearchResponse {
	limit := s.resultLimit
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}

	_, visits := s.stores(scope)
	results := engine.Search(s.catalog, req.Query, visits.Counts(ctx), limit)

	items := make([]transport.Destination, len(results))
	for i, r := range results {
		items[i] = toDestination(r.Item)
		items[i].Score = r.Score
	}
	return &transport.SearchResponse{Items: items, Total: len(items)}
}

func (s *Service) Suggestions(ctx context.Context, scope string) *transport.SuggestionsResponse {
	history, visits := s.stores(scope)
	return &transport.SuggestionsResponse{
		History: history.List(ctx),
		Popular: toVisited(engine.Top(s.catalog, visits.Counts(ctx), s.resultLimit)),
	}
}

// Commit records that the caller navigated to req.Path after searching
// for req.Query.
func (s *Service) Commit(ctx context.Context, scope string, req transport.CommitRequest) (*transport.CommitResponse, error) {
	item, ok := engine.FindByPath(s.catalog, req.Path)
	if !ok {
		return nil, apperr.NotFound("destination not found").WithOp("navsearch.Commit")
	}

	history, visits := s.stores(scope)
	engine.RecordCommit(ctx, history, visits, req.Query, item.Path)

	return &transport.CommitResponse{
		Destination: toDestination(item),
		History:     history.List(ctx),
	}, nil
}

func (s *Service) ClearHistory(ctx context.Context, scope string) {
	history, _ := s.stores(scope)
	history.Clear(ctx)
}

// TopVisited returns the caller's n most visited destinations that have
// at least one visit.
func (s *Service) TopVisited(ctx context.Context, scope string, n int) []transport.Destination {
	_, visits := s.stores(scope)
	top := engine.Top(s.catalog, visits.Counts(ctx), n)
	visited := top[:0]
	for _, v := range top {
		if v.Visits > 0 {
			visited = append(visited, v)
		}
	}
	return toVisited(visited)
}

func toDestination(item engine.Item) transport.Destination {
	return transport.Destination{
		Title:       item.Title,
		Path:        item.Path,
		Description: item.Description,
		Category:    item.Category,
	}
}

func toVisited(top []engine.Visited) []transport.Destination {
	out := make([]transport.Destination, len(top))
	for i, v := range top {
		out[i] = toDestination(v.Item)
		out[i].Visits = v.Visits
	}
	return out
}
