package seed

import (
	"context"
	"errors"
	"testing"

	"serveon_backend/internal/grid"
)

type fakeRecords struct {
	counts  map[string]int
	created map[string][]map[string]any
	failOn  string
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{counts: map[string]int{}, created: map[string][]map[string]any{}}
}

func (f *fakeRecords) Count(_ context.Context, entityType string) (int, error) {
	return f.counts[entityType], nil
}

func (f *fakeRecords) Create(_ context.Context, entityType string, data map[string]any) (grid.Map, error) {
	if entityType == f.failOn {
		return nil, errors.New("insert failed")
	}
	f.counts[entityType]++
	f.created[entityType] = append(f.created[entityType], data)
	return grid.Map(data), nil
}

func TestDefaultDataParses(t *testing.T) {
	batches, err := Default()
	if err != nil {
		t.Fatalf("Default() returned error: %v", err)
	}
	if len(batches) == 0 {
		t.Fatal("expected seed batches")
	}
	for _, b := range batches {
		if len(b.Records) == 0 {
			t.Fatalf("batch %s has no records", b.Entity)
		}
	}
}

func TestParseRejectsUnknownEntity(t *testing.T) {
	if _, err := Parse([]byte("- entity: planets\n  records: [{nome: Marte}]\n")); err == nil {
		t.Fatal("expected error for unknown entity")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	batches, err := Parse([]byte(`
- entity: countries
  records:
    - {nome: Brasil, sigla: BR}
    - {nome: Argentina, sigla: AR}
- entity: brands
  records:
    - {nome: Tigre}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	records := newFakeRecords()
	records.counts["brands"] = 5

	created, err := Apply(context.Background(), records, batches)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if created["countries"] != 2 || created["brands"] != 0 {
		t.Fatalf("unexpected created counts: %v", created)
	}

	created, err = Apply(context.Background(), records, batches)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("second run created records: %v", created)
	}
	if got := records.created["countries"][0]["nome"]; got != "Brasil" {
		t.Fatalf("expected Brasil first, got %v", got)
	}
}

func TestApplyStopsOnCreateFailure(t *testing.T) {
	batches := []Batch{{Entity: "brands", Records: []map[string]any{{"nome": "Tigre"}}}}
	records := newFakeRecords()
	records.failOn = "brands"

	if _, err := Apply(context.Background(), records, batches); err == nil {
		t.Fatal("expected error")
	}
}
