package service

import (
	"bytes"
	"context"
	"maps"
	"strconv"
	"strings"

	"serveon_backend/internal/favorites"
	"serveon_backend/internal/grid"
	"serveon_backend/internal/records/entity"
	"serveon_backend/internal/records/repository"
	"serveon_backend/internal/records/transport"
	"serveon_backend/platform/apperr"
	"serveon_backend/platform/kvstore"
	"serveon_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	entityNotFoundMessage = "unknown entity type"
	invalidIDMessage      = "invalid record id"
)

// ExportRecorder receives every CSV handed to a user.
type ExportRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, entityType string, body []byte, rows int)
}

// Caller is who a request acts for.
type Caller struct {
	UserID uuid.UUID
	// Scope is the key-value prefix holding the caller's favorites.
	Scope string
}

// Service lists, edits and exports master-data records.
type Service struct {
	repo    repository.Repository
	kv      *kvstore.Safe
	exports ExportRecorder
}

func New(repo repository.Repository, kv *kvstore.Safe, exports ExportRecorder) *Service {
	return &Service{repo: repo, kv: kv, exports: exports}
}

func (s *Service) favorites(caller Caller) *favorites.Store {
	return favorites.NewStore(s.kv.Scope(caller.Scope))
}

func lookup(entityType, op string) (entity.Entity, error) {
	e, ok := entity.Lookup(entityType)
	if !ok {
		return entity.Entity{}, apperr.NotFound(entityNotFoundMessage).WithOp(op).WithDetails(entityType)
	}
	return e, nil
}

func parseID(raw, op string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest(invalidIDMessage).WithOp(op)
	}
	return id, nil
}

// Entities lists the browsable entity types.
func (s *Service) Entities() []transport.EntitySummary {
	all := entity.All()
	out := make([]transport.EntitySummary, len(all))
	for i, e := range all {
		out[i] = transport.EntitySummary{Type: e.Type, Label: e.Label}
	}
	return out
}

// ParseQuery builds a grid query from request parameters. Filters must use
// a known operator on a field the entity declares.
func ParseQuery(e entity.Entity, req transport.ListRequest) (grid.Query, error) {
	q := grid.Query{Text: req.Query}
	for _, raw := range req.Filters {
		c, err := grid.ParseCondition(raw)
		if err != nil {
			return grid.Query{}, apperr.Validation("invalid filter").WithDetails(err.Error())
		}
		if !e.HasField(c.Field) {
			return grid.Query{}, apperr.Validation("invalid filter").WithDetails("unknown field " + c.Field)
		}
		q.Conditions = append(q.Conditions, c)
	}
	return q, nil
}

// List filters the entity's records, floats the caller's favorites to the
// top and projects them into the requested view.
func (s *Service) List(ctx context.Context, caller Caller, entityType string, req transport.ListRequest) (*transport.ListResponse, error) {
	const op = "records.List"
	e, err := lookup(entityType, op)
	if err != nil {
		return nil, err
	}
	q, err := ParseQuery(e, req)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, e.Type)
	if err != nil {
		return nil, apperr.Classify(op, "failed to list records", err)
	}

	def := e.Definition()
	favs := s.favorites(caller).Load(ctx, e.Type)
	applied := def.Apply(records, q, favs)

	resp := &transport.ListResponse{
		Entity:     e.Type,
		Label:      e.Label,
		View:       grid.ParseView(req.View),
		Columns:    columns(e),
		Conditions: q.Conditions,
		Total:      len(records),
		Count:      len(applied),
		Filename:   def.Filename(),
	}
	if resp.Conditions == nil {
		resp.Conditions = []grid.Condition{}
	}
	if resp.View == grid.ViewCard {
		resp.Cards = def.Cards(applied, favs)
	} else {
		resp.Rows = def.Rows(applied, favs)
	}
	return resp, nil
}

func columns(e entity.Entity) []transport.Column {
	out := make([]transport.Column, len(e.Columns))
	for i, col := range e.Columns {
		name, _ := col.Key.Field()
		out[i] = transport.Column{Header: col.Header, Field: name, Derived: col.Key.IsDerived()}
	}
	return out
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, entityType, rawID string) (grid.Map, error) {
	const op = "records.Get"
	e, err := lookup(entityType, op)
	if err != nil {
		return nil, err
	}
	id, err := parseID(rawID, op)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Get(ctx, e.Type, id)
	if err != nil {
		return nil, apperr.Classify(op, "failed to get record", err)
	}
	return record, nil
}

// Create validates and stores a new record.
func (s *Service) Create(ctx context.Context, entityType string, data map[string]any) (grid.Map, error) {
	const op = "records.Create"
	e, err := lookup(entityType, op)
	if err != nil {
		return nil, err
	}
	data, err = prepare(e, data)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Create(ctx, e.Type, data)
	if err != nil {
		return nil, apperr.Classify(op, "failed to create record", err)
	}
	return record, nil
}

// Update validates and replaces a record's fields.
func (s *Service) Update(ctx context.Context, entityType, rawID string, data map[string]any) (grid.Map, error) {
	const op = "records.Update"
	e, err := lookup(entityType, op)
	if err != nil {
		return nil, err
	}
	id, err := parseID(rawID, op)
	if err != nil {
		return nil, err
	}
	data, err = prepare(e, data)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Update(ctx, e.Type, id, data)
	if err != nil {
		return nil, apperr.Classify(op, "failed to update record", err)
	}
	return record, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, entityType, rawID string) error {
	const op = "records.Delete"
	e, err := lookup(entityType, op)
	if err != nil {
		return err
	}
	id, err := parseID(rawID, op)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, e.Type, id); err != nil {
		return apperr.Classify(op, "failed to delete record", err)
	}
	return nil
}

// Count returns how many records entityType holds.
func (s *Service) Count(ctx context.Context, entityType string) (int, error) {
	const op = "records.Count"
	e, err := lookup(entityType, op)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.Count(ctx, e.Type)
	if err != nil {
		return 0, apperr.Classify(op, "failed to count records", err)
	}
	return n, nil
}

// Export is a finished CSV file.
type Export struct {
	Filename string
	Body     []byte
	Rows     int
}

// Export renders the records matching req as CSV and hands a copy to the
// export recorder. Recording never fails the export.
func (s *Service) Export(ctx context.Context, caller Caller, entityType string, req transport.ListRequest) (*Export, error) {
	const op = "records.Export"
	e, err := lookup(entityType, op)
	if err != nil {
		return nil, err
	}
	q, err := ParseQuery(e, req)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, e.Type)
	if err != nil {
		return nil, apperr.Classify(op, "failed to list records", err)
	}

	def := e.Definition()
	var buf bytes.Buffer
	n, err := def.WriteCSV(&buf, records, q)
	if err != nil {
		return nil, apperr.Classify(op, "failed to write csv", err)
	}

	if s.exports != nil {
		s.exports.Record(ctx, caller.UserID, e.Type, buf.Bytes(), n)
	}
	return &Export{Filename: def.Filename(), Body: buf.Bytes(), Rows: n}, nil
}

// Favorites returns the caller's favorite IDs for entityType.
func (s *Service) Favorites(ctx context.Context, caller Caller, entityType string) (*transport.FavoritesResponse, error) {
	e, err := lookup(entityType, "records.Favorites")
	if err != nil {
		return nil, err
	}
	return &transport.FavoritesResponse{
		Entity: e.Type,
		IDs:    s.favorites(caller).IDs(ctx, e.Type),
	}, nil
}

// ToggleFavorite flips the caller's star on a record.
func (s *Service) ToggleFavorite(ctx context.Context, caller Caller, entityType, id string) (*transport.ToggleFavoriteResponse, error) {
	const op = "records.ToggleFavorite"
	e, err := lookup(entityType, op)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.BadRequest(invalidIDMessage).WithOp(op)
	}
	now := s.favorites(caller).Toggle(ctx, e.Type, id)
	return &transport.ToggleFavoriteResponse{Entity: e.Type, ID: id, Favorite: now}, nil
}

// prepare checks required fields and normalises phone numbers.
func prepare(e entity.Entity, data map[string]any) (map[string]any, error) {
	missing := map[string]string{}
	for _, name := range e.Required {
		if strings.TrimSpace(grid.Stringify(data[name])) == "" {
			missing[name] = "required"
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("validation failed").WithDetails(missing)
	}

	out := maps.Clone(data)

	region := ""
	if e.RegionField != "" {
		region, _ = out[e.RegionField].(string)
	}
	for _, name := range e.PhoneFields {
		if raw, ok := out[name].(string); ok {
			out[name] = phone.NormalizeE164In(raw, region)
		}
	}
	return out, nil
}
