package grid

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"strings"
	"testing"
)

func ids[T Record](records []T) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID()
	}
	return out
}

type set map[string]struct{}

func (s set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func newSet(ids ...string) set {
	s := set{}
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func countries() []Map {
	return []Map{
		{"id": 1, "nome": "Brasil", "sigla": "BR", "ddi": "+55"},
		{"id": 2, "nome": "Argentina", "sigla": "AR", "ddi": "+54"},
		{"id": 3, "nome": "Paraguai", "sigla": "PY", "ddi": "+595"},
		{"id": 4, "nome": "Bolívia", "sigla": "BO", "ddi": "+591"},
	}
}

func TestFilterTextSearchScenario(t *testing.T) {
	records := []Map{{"id": 1, "nome": "Brasil"}, {"id": 2, "nome": "Argentina"}}

	got := Filter(records, Query{Text: "bra"}, []string{"nome"}, MapAccessor)
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Fatalf("expected only Brasil, got %v", ids(got))
	}

	got = Filter(records, Query{}, []string{"nome"}, MapAccessor)
	if !reflect.DeepEqual(ids(got), []string{"1", "2"}) {
		t.Fatalf("expected both records in input order, got %v", ids(got))
	}
}

func TestFilterKeepsSpacesInQuery(t *testing.T) {
	records := []Map{{"id": 1, "nome": "Brasil"}, {"id": 2, "nome": "Mato Grosso"}}

	if got := Filter(records, Query{Text: "sil "}, []string{"nome"}, MapAccessor); len(got) != 0 {
		t.Fatalf("trailing space must be part of the needle, got %v", ids(got))
	}
	if got := Filter(records, Query{Text: "o g"}, []string{"nome"}, MapAccessor); !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Fatalf("expected Mato Grosso, got %v", ids(got))
	}
	if got := Filter(records, Query{Text: "   "}, []string{"nome"}, MapAccessor); len(got) != 2 {
		t.Fatalf("blank query should match everything, got %v", ids(got))
	}
}

func TestFilterMatchesAnySearchKey(t *testing.T) {
	got := Filter(countries(), Query{Text: "py"}, []string{"nome", "sigla"}, MapAccessor)
	if !reflect.DeepEqual(ids(got), []string{"3"}) {
		t.Fatalf("expected Paraguai via sigla, got %v", ids(got))
	}
}

func TestFilterMissingSearchFieldIsEmpty(t *testing.T) {
	records := []Map{{"id": 1}, {"id": 2, "nome": "undefined"}}
	got := Filter(records, Query{Text: "undef"}, []string{"nome"}, MapAccessor)
	if !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Fatalf("missing field must compare as empty, got %v", ids(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := countries()
	before := ids(records)
	_ = Filter(records, Query{Text: "a"}, []string{"nome"}, MapAccessor)
	if !reflect.DeepEqual(ids(records), before) {
		t.Fatalf("input reordered: %v", ids(records))
	}
}

func TestOperators(t *testing.T) {
	r := Map{"id": 1, "nome": "Brasil"}
	cases := []struct {
		op    Operator
		value string
		want  bool
	}{
		{OpContains, "ASI", true},
		{OpContains, "xyz", false},
		{OpEquals, "brasil", true},
		{OpEquals, "bras", false},
		{OpStartsWith, "BR", true},
		{OpStartsWith, "sil", false},
		{OpEndsWith, "SIL", true},
		{OpEndsWith, "bra", false},
		{OpNotContains, "arg", true},
		{OpNotContains, "ras", false},
	}
	for _, tc := range cases {
		got := Matches(Condition{Field: "nome", Operator: tc.op, Value: tc.value}, r, MapAccessor)
		if got != tc.want {
			t.Errorf("%s %q: got %v, want %v", tc.op, tc.value, got, tc.want)
		}
	}
}

func TestConditionsAreConjunctive(t *testing.T) {
	q := Query{Conditions: []Condition{
		{Field: "ddi", Operator: OpStartsWith, Value: "+5"},
		{Field: "nome", Operator: OpNotContains, Value: "a"},
	}}
	got := Filter(countries(), q, nil, MapAccessor)
	if len(got) != 0 {
		t.Fatalf("every country name contains an a, got %v", ids(got))
	}

	q.Conditions[1] = Condition{Field: "sigla", Operator: OpEquals, Value: "bo"}
	got = Filter(countries(), q, nil, MapAccessor)
	if !reflect.DeepEqual(ids(got), []string{"4"}) {
		t.Fatalf("expected Bolívia, got %v", ids(got))
	}
}

func TestTextAndConditionsCompose(t *testing.T) {
	keys := []string{"nome", "sigla"}
	conds := []Condition{{Field: "ddi", Operator: OpContains, Value: "59"}}
	for _, text := range []string{"", "a", "par", "br", "zzz"} {
		together := Filter(countries(), Query{Text: text, Conditions: conds}, keys, MapAccessor)
		staged := Filter(Filter(countries(), Query{Text: text}, keys, MapAccessor), Query{Conditions: conds}, keys, MapAccessor)
		if !reflect.DeepEqual(ids(together), ids(staged)) {
			t.Fatalf("text %q: together %v != staged %v", text, ids(together), ids(staged))
		}
	}
}

func TestSortFavoritesFirstIsStable(t *testing.T) {
	records := []Map{{"id": "A"}, {"id": "B"}, {"id": "C"}, {"id": "D"}}
	got := SortFavoritesFirst(records, newSet("A", "C"))
	if !reflect.DeepEqual(ids(got), []string{"A", "C", "B", "D"}) {
		t.Fatalf("expected [A C B D], got %v", ids(got))
	}

	got = SortFavoritesFirst(records, newSet("D", "B"))
	if !reflect.DeepEqual(ids(got), []string{"B", "D", "A", "C"}) {
		t.Fatalf("expected [B D A C], got %v", ids(got))
	}

	if !reflect.DeepEqual(ids(records), []string{"A", "B", "C", "D"}) {
		t.Fatalf("input must not be reordered, got %v", ids(records))
	}
}

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition("site:starts_with:http://x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Field != "site" || c.Operator != OpStartsWith || c.Value != "http://x" {
		t.Fatalf("unexpected condition %+v", c)
	}
	if c.String() != "site:startsWith:http://x" {
		t.Fatalf("unexpected round trip %q", c.String())
	}

	for _, bad := range []string{"nome", ":contains:x", "nome:like:x"} {
		if _, err := ParseCondition(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{42, "42"},
		{int64(7), "7"},
		{1.5, "1.5"},
		{float64(3), "3"},
		{true, "true"},
		{map[string]any{"nome": "SP"}, `{"nome":"SP"}`},
		{[]any{1, "a"}, `[1,"a"]`},
	}
	for _, tc := range cases {
		if got := Stringify(tc.in); got != tc.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func stateDefinition() Definition[Map] {
	return Definition[Map]{
		EntityType: "states",
		Columns: []Column[Map]{
			Field[Map]("nome", "Nome"),
			Field[Map]("uf", "UF"),
			Derived[Map]("Rótulo", func(m Map) any { return Stringify(m["nome"]) + "/" + Stringify(m["uf"]) }),
			Field[Map]("pais", "País"),
			Field[Map]("ativo", "Ativo"),
		},
		SearchKeys: []string{"nome", "uf"},
		Access:     MapAccessor,
	}
}

func states() []Map {
	return []Map{
		{"id": 1, "nome": "São Paulo", "uf": "SP", "pais": map[string]any{"nome": "Brasil"}, "ativo": true},
		{"id": 2, "nome": "Paraná", "uf": "PR", "pais": nil, "ativo": true},
		{"id": 3, "nome": "Bahia", "uf": "BA", "ativo": false},
	}
}

func TestWriteCSVRowCountAndColumns(t *testing.T) {
	def := stateDefinition()
	var buf bytes.Buffer

	n, err := def.WriteCSV(&buf, states(), Query{Text: "pa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 data rows, got %d", n)
	}

	lines, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(lines) != 1+n {
		t.Fatalf("expected header + %d rows, got %d lines", n, len(lines))
	}
	if !reflect.DeepEqual(lines[0], []string{"Nome", "UF", "País", "Ativo"}) {
		t.Fatalf("derived column must be skipped, header = %v", lines[0])
	}
	if !reflect.DeepEqual(lines[1], []string{"São Paulo", "SP", `{"nome":"Brasil"}`, "true"}) {
		t.Fatalf("unexpected first row %v", lines[1])
	}
	if lines[2][2] != "" {
		t.Fatalf("nil field must export empty, got %q", lines[2][2])
	}
}

func TestWriteCSVNoMatches(t *testing.T) {
	var buf bytes.Buffer
	n, err := stateDefinition().WriteCSV(&buf, states(), Query{Text: "zzz"})
	if err != nil || n != 0 {
		t.Fatalf("expected 0 rows and no error, got %d, %v", n, err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected only the header line, got %q", buf.String())
	}
}

func TestExportFilename(t *testing.T) {
	if got := ExportFilename("customers"); got != "customers.csv" {
		t.Fatalf("got %q", got)
	}
	if got := ExportFilename("  "); got != "data.csv" {
		t.Fatalf("got %q", got)
	}
}

func TestCardsAndRowsShareOrder(t *testing.T) {
	def := stateDefinition()
	favs := newSet("3")
	applied := def.Apply(states(), Query{}, favs)

	rows := def.Rows(applied, favs)
	cards := def.Cards(applied, favs)
	if len(rows) != len(cards) {
		t.Fatalf("views disagree on length: %d rows, %d cards", len(rows), len(cards))
	}
	for i := range rows {
		if rows[i].ID != cards[i].ID || rows[i].Favorite != cards[i].Favorite {
			t.Fatalf("views disagree at %d: %+v vs %+v", i, rows[i], cards[i])
		}
	}
	if rows[0].ID != "3" || !rows[0].Favorite {
		t.Fatalf("favorite should lead, got %+v", rows[0])
	}

	c := cards[1]
	if c.Title != "São Paulo" {
		t.Fatalf("unexpected title %q", c.Title)
	}
	if !reflect.DeepEqual(c.Subtitles, []string{"SP", "São Paulo/SP"}) {
		t.Fatalf("unexpected subtitles %v", c.Subtitles)
	}
	if len(c.Details) != 2 || c.Details[0].Header != "País" || c.Details[1].Value != "true" {
		t.Fatalf("unexpected details %+v", c.Details)
	}
}

func TestParseView(t *testing.T) {
	if ParseView("CARD") != ViewCard || ParseView("") != ViewTable || ParseView("grid") != ViewTable {
		t.Fatalf("unexpected view parsing")
	}
}
