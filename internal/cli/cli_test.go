package cli

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"serveon_backend/internal/grid"
	"serveon_backend/internal/navsearch/engine"
	"serveon_backend/internal/records/repository"
	"serveon_backend/platform/apperr"
	"serveon_backend/platform/kvstore"
	"serveon_backend/platform/logger"
)

type memoryRepo struct {
	nextID  int64
	records map[string][]grid.Map
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[string][]grid.Map{}}
}

func (m *memoryRepo) List(_ context.Context, entityType string) ([]grid.Map, error) {
	return append([]grid.Map(nil), m.records[entityType]...), nil
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
	m.nextID++
	rec := grid.Map{"id": m.nextID}
	for k, v := range data {
		rec[k] = v
	}
	m.records[entityType] = append(m.records[entityType], rec)
	return rec, nil
}

func (m *memoryRepo) Update(ctx context.Context, entityType string, id int64, data map[string]any) (grid.Map, error) {
	rec, err := m.Get(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	for k, v := range data {
		rec[k] = v
	}
	return rec, nil
}

func (m *memoryRepo) Delete(_ context.Context, entityType string, id int64) error {
	return errors.New("not supported")
}

func (m *memoryRepo) Count(_ context.Context, entityType string) (int, error) {
	return len(m.records[entityType]), nil
}

var _ repository.Repository = (*memoryRepo)(nil)

type testEnv struct {
	*Env
	repo     *memoryRepo
	store    *kvstore.Memory
	migrated bool
}

func newTestEnv() *testEnv {
	te := &testEnv{repo: newMemoryRepo(), store: kvstore.NewMemory()}
	te.Env = &Env{
		Logger: logger.Discard(),
		Migrate: func(context.Context) error {
			te.migrated = true
			return nil
		},
		Repository: func(context.Context) (repository.Repository, func(), error) {
			return te.repo, func() {}, nil
		},
		KV: func(context.Context) (*kvstore.Safe, func()) {
			return kvstore.NewSafe(te.store, nil), func() {}
		},
	}
	return te
}

func (te *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(te.Env, "test")
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (te *testEnv) add(entityType string, records ...map[string]any) {
	for _, r := range records {
		_, _ = te.repo.Create(context.Background(), entityType, r)
	}
}

func TestRootHasEveryCommand(t *testing.T) {
	root := NewRootCmd(newTestEnv().Env, "test")
	for _, name := range []string{"migrate", "seed", "export", "nav", "browse"} {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing command %q", name)
		}
	}
}

func TestMigrate(t *testing.T) {
	te := newTestEnv()
	out, err := te.run(t, "", "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !te.migrated || !strings.Contains(out, "migrations applied") {
		t.Fatalf("migrate did not run: %q", out)
	}
}

func TestSeedLoadsSampleDataOnce(t *testing.T) {
	te := newTestEnv()

	out, err := te.run(t, "", "seed")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "countries") {
		t.Fatalf("expected countries in output, got %q", out)
	}
	if n, _ := te.repo.Count(context.Background(), "countries"); n == 0 {
		t.Fatal("no countries seeded")
	}

	out, err = te.run(t, "", "seed")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !strings.Contains(out, "nothing to seed") {
		t.Fatalf("expected nothing to seed, got %q", out)
	}
}

func TestSeedNormalizesPhones(t *testing.T) {
	te := newTestEnv()
	if _, err := te.run(t, "", "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	customers, _ := te.repo.List(context.Background(), "customers")
	if got := customers[0]["telefone"]; got != "+5511987654321" {
		t.Fatalf("expected E.164 phone, got %v", got)
	}
}

func TestExportWritesFilteredCSV(t *testing.T) {
	te := newTestEnv()
	te.add("countries",
		map[string]any{"nome": "Brasil", "sigla": "BR"},
		map[string]any{"nome": "Argentina", "sigla": "AR"},
		map[string]any{"nome": "Paraguai", "sigla": "PY"},
	)

	out, err := te.run(t, "", "export", "countries", "--filter", "sigla:equals:AR")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out)
	}
	if !strings.HasPrefix(lines[1], "Argentina,AR") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	te := newTestEnv()
	if _, err := te.run(t, "", "export", "planets"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := te.run(t, "", "export", "countries", "--filter", "nome:like:x"); err == nil {
		t.Fatal("expected error for unknown operator")
	}
	if _, err := te.run(t, "", "export"); err == nil {
		t.Fatal("expected error without entity")
	}
}

func TestNavPrintsRankedDestinations(t *testing.T) {
	out, err := newTestEnv().run(t, "", "nav", "client")
	if err != nil {
		t.Fatalf("nav: %v", err)
	}
	first := strings.SplitN(out, "\n", 2)[0]
	if !strings.Contains(first, "/clientes") {
		t.Fatalf("expected /clientes first, got %q", first)
	}
}

func TestNavRequiresQuery(t *testing.T) {
	if _, err := newTestEnv().run(t, "", "nav"); err == nil {
		t.Fatal("expected error without query")
	}
}

func TestNavInteractiveCommitsAndRemembers(t *testing.T) {
	te := newTestEnv()

	out, err := te.run(t, "client\n:down\n:enter\n:k\n:quit\n", "nav", "-i")
	if err != nil {
		t.Fatalf("nav -i: %v", err)
	}
	if !strings.Contains(out, "-> Clientes /clientes") {
		t.Fatalf("expected navigation to /clientes, got:\n%s", out)
	}
	if !strings.Contains(out, "recent: client") {
		t.Fatalf("expected history after commit, got:\n%s", out)
	}
	if !strings.Contains(out, "popular: Clientes (1)") {
		t.Fatalf("expected popularity after commit, got:\n%s", out)
	}

	// history and visits persist in the store under the CLI scope
	out, err = te.run(t, "", "nav", "client")
	if err != nil {
		t.Fatalf("nav: %v", err)
	}
	if !strings.Contains(out, "/clientes") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, ok, _ := te.store.Get(context.Background(), Scope+"serveon-page-visits"); !ok {
		t.Fatal("visits were not stored under the CLI scope")
	}
}

func TestBrowseSearchFilterAndStar(t *testing.T) {
	te := newTestEnv()
	te.add("countries",
		map[string]any{"nome": "Brasil", "sigla": "BR"},
		map[string]any{"nome": "Argentina", "sigla": "AR"},
		map[string]any{"nome": "Paraguai", "sigla": "PY"},
	)

	script := strings.Join([]string{
		"star 3",
		"gu",
		"filter sigla:notContains:XX",
		"select 1",
		"select 3",
		"view card",
		"zzz",
		"quit",
	}, "\n")
	out, err := te.run(t, script, "browse", "countries")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}

	for _, want := range []string{
		"Países (3 records)",
		"favorite 3: true",
		"* 3      Paraguai | PY",
		"filter 1: sigla:notContains:XX",
		"no such record",
		"selected 3",
		"no records found",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}

	ids, _, _ := te.store.Get(context.Background(), Scope+"favorites-countries")
	if ids != `["`+strconv.Itoa(3)+`"]` {
		t.Fatalf("unexpected stored favorites %q", ids)
	}
}

func TestBrowseUnknownEntity(t *testing.T) {
	if _, err := newTestEnv().run(t, "", "browse", "planets"); err == nil {
		t.Fatal("expected error for unknown entity")
	}
}

type navTuning struct {
	history, results int
}

func (navTuning) GetSearchDebounce() time.Duration { return time.Millisecond }
func (navTuning) GetNavBlurGrace() time.Duration   { return time.Millisecond }
func (n navTuning) GetNavHistoryLimit() int        { return n.history }
func (n navTuning) GetNavResultLimit() int         { return n.results }

func TestNavUsesConfiguredLimits(t *testing.T) {
	te := newTestEnv()
	te.Search = navTuning{history: 2, results: 1}
	_ = te.store.Set(context.Background(), Scope+engine.HistoryKey, `["alpha","beta","gamma"]`)

	out, err := te.run(t, "", "nav", "client")
	if err != nil {
		t.Fatalf("nav: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 1 {
		t.Fatalf("expected one result, got:\n%s", out)
	}

	out, err = te.run(t, ":quit\n", "nav", "-i")
	if err != nil {
		t.Fatalf("nav -i: %v", err)
	}
	if !strings.Contains(out, "recent: alpha, beta\n") {
		t.Fatalf("expected history trimmed to two entries, got:\n%s", out)
	}
}
