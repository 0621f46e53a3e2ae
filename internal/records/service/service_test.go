package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"serveon_backend/internal/grid"
	"serveon_backend/internal/records/transport"
	"serveon_backend/platform/apperr"
	"serveon_backend/platform/kvstore"

	"github.com/google/uuid"
)

type memoryRepo struct {
	next    int64
	records map[string][]grid.Map
	err     error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[string][]grid.Map{}}
}

func (m *memoryRepo) seed(entityType string, data ...grid.Map) {
	for _, d := range data {
		m.next++
		d["id"] = m.next
		m.records[entityType] = append(m.records[entityType], d)
	}
}

func (m *memoryRepo) List(_ context.Context, entityType string) ([]grid.Map, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records[entityType], nil
}

func (m *memoryRepo) Get(_ context.Context, entityType string, id int64) (grid.Map, error) {
	for _, r := range m.records[entityType] {
		if r["id"] == id {
			return r, nil
		}
	}
	return nil, apperr.NotFound("record not found")
}

func (m *memoryRepo) Create(_ context.Context, entityType string, data map[string]any) (grid.Map, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.seed(entityType, grid.Map(data))
	list := m.records[entityType]
	return list[len(list)-1], nil
}

func (m *memoryRepo) Update(ctx context.Context, entityType string, id int64, data map[string]any) (grid.Map, error) {
	for i, r := range m.records[entityType] {
		if r["id"] == id {
			updated := grid.Map(data)
			updated["id"] = id
			m.records[entityType][i] = updated
			return updated, nil
		}
	}
	return nil, apperr.NotFound("record not found")
}

func (m *memoryRepo) Delete(_ context.Context, entityType string, id int64) error {
	for i, r := range m.records[entityType] {
		if r["id"] == id {
			m.records[entityType] = append(m.records[entityType][:i], m.records[entityType][i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("record not found")
}

func (m *memoryRepo) Count(_ context.Context, entityType string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.records[entityType]), nil
}

type recordedExport struct {
	entityType string
	rows       int
	body       string
}

type exportSpy struct {
	calls []recordedExport
}

func (s *exportSpy) Record(_ context.Context, _ uuid.UUID, entityType string, body []byte, rows int) {
	s.calls = append(s.calls, recordedExport{entityType: entityType, rows: rows, body: string(body)})
}

func newService(t *testing.T) (*Service, *memoryRepo, *exportSpy) {
	t.Helper()
	repo := newMemoryRepo()
	repo.seed("countries",
		grid.Map{"nome": "Brasil", "sigla": "BR", "ddi": "+55"},
		grid.Map{"nome": "Argentina", "sigla": "AR", "ddi": "+54"},
		grid.Map{"nome": "Paraguai", "sigla": "PY", "ddi": "+595"},
	)
	spy := &exportSpy{}
	return New(repo, kvstore.NewSafe(kvstore.NewMemory(), nil), spy), repo, spy
}

var alice = Caller{UserID: uuid.New(), Scope: "user:alice:"}

func rowIDs(resp *transport.ListResponse) []string {
	ids := make([]string, len(resp.Rows))
	for i, r := range resp.Rows {
		ids[i] = r.ID
	}
	return ids
}

func TestListFiltersAndSortsFavorites(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.List(ctx, alice, "countries", transport.ListRequest{Query: "bra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fmt.Sprint(rowIDs(resp)) != "[1]" || resp.Total != 3 || resp.Count != 1 {
		t.Fatalf("unexpected list %v total=%d count=%d", rowIDs(resp), resp.Total, resp.Count)
	}

	if _, err := svc.ToggleFavorite(ctx, alice, "countries", "3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, _ = svc.List(ctx, alice, "countries", transport.ListRequest{})
	if fmt.Sprint(rowIDs(resp)) != "[3 1 2]" {
		t.Fatalf("expected favorite first, got %v", rowIDs(resp))
	}
	if !resp.Rows[0].Favorite || resp.Rows[1].Favorite {
		t.Fatalf("favorite flags wrong: %+v", resp.Rows[:2])
	}

	other := Caller{UserID: uuid.New(), Scope: "user:bob:"}
	resp, _ = svc.List(ctx, other, "countries", transport.ListRequest{})
	if fmt.Sprint(rowIDs(resp)) != "[1 2 3]" {
		t.Fatalf("favorites must be per user, got %v", rowIDs(resp))
	}
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newService(t)
	resp, err := svc.List(context.Background(), alice, "countries", transport.ListRequest{
		Filters: []string{"ddi:startsWith:+59", "nome:notContains:x"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fmt.Sprint(rowIDs(resp)) != "[3]" || len(resp.Conditions) != 2 {
		t.Fatalf("unexpected result %v", rowIDs(resp))
	}

	_, err = svc.List(context.Background(), alice, "countries", transport.ListRequest{Filters: []string{"senha:equals:x"}})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("unknown field should be a validation error, got %v", err)
	}
}

func TestListCardView(t *testing.T) {
	svc, _, _ := newService(t)
	resp, err := svc.List(context.Background(), alice, "countries", transport.ListRequest{View: "card"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Cards) != 3 || resp.Rows != nil {
		t.Fatalf("expected cards only")
	}
	if resp.Cards[0].Title != "Brasil" || resp.Cards[0].Subtitles[0] != "BR" {
		t.Fatalf("unexpected card %+v", resp.Cards[0])
	}
}

func TestUnknownEntity(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.List(context.Background(), alice, "leads", transport.ListRequest{})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRepositoryErrorsAreInternal(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.err = errors.New("connection reset")
	_, err := svc.List(context.Background(), alice, "countries", transport.ListRequest{})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestExportCountsAndRecords(t *testing.T) {
	svc, _, spy := newService(t)
	export, err := svc.Export(context.Background(), alice, "countries", transport.ListRequest{Query: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(export.Body)), "\n")
	if len(lines) != 1+export.Rows || export.Rows != 3 {
		t.Fatalf("expected header plus %d rows, got %d lines", export.Rows, len(lines))
	}
	if export.Filename != "countries.csv" {
		t.Fatalf("unexpected filename %q", export.Filename)
	}
	if len(spy.calls) != 1 || spy.calls[0].rows != 3 || spy.calls[0].body != string(export.Body) {
		t.Fatalf("export should be recorded once, got %+v", spy.calls)
	}
}

func TestCreateValidatesAndNormalisesPhones(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "customers", map[string]any{"email": "a@b.c"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("missing nome should fail validation, got %v", err)
	}

	record, err := svc.Create(ctx, "customers", map[string]any{
		"nome":     "Ana",
		"telefone": "(11) 98765-4321",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record["telefone"] != "+5511987654321" {
		t.Fatalf("expected E.164 phone, got %v", record["telefone"])
	}

	record, err = svc.Create(ctx, "suppliers", map[string]any{
		"razao_social": "Importadora",
		"telefone":     "(650) 253-0000",
		"pais_sigla":   "US",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record["telefone"] != "+16502530000" {
		t.Fatalf("expected a US number, got %v", record["telefone"])
	}
}

func TestGetUpdateDelete(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "countries", "abc"); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for non-numeric id, got %v", err)
	}
	if _, err := svc.Get(ctx, "countries", "99"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	updated, err := svc.Update(ctx, "countries", "2", map[string]any{"nome": "Argentina", "sigla": "AR", "moeda": "ARS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated["moeda"] != "ARS" {
		t.Fatalf("unexpected record %v", updated)
	}

	if err := svc.Delete(ctx, "countries", "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := svc.Count(ctx, "countries"); n != 2 {
		t.Fatalf("expected 2 records left, got %d", n)
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	first, _ := svc.ToggleFavorite(ctx, alice, "brands", "5")
	second, _ := svc.ToggleFavorite(ctx, alice, "brands", "5")
	if !first.Favorite || second.Favorite {
		t.Fatalf("double toggle should restore the original state")
	}
	resp, err := svc.Favorites(ctx, alice, "brands")
	if err != nil || len(resp.IDs) != 0 {
		t.Fatalf("expected no favorites, got %v, %v", resp, err)
	}
}
