package grid

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"serveon_backend/platform/debounce"
)

// FavoriteStore persists the favorite IDs of each entity type.
type FavoriteStore interface {
	IDs(ctx context.Context, entityType string) []string
	Toggle(ctx context.Context, entityType, id string) bool
}

// Callbacks are the host's hooks. OnCreate and OnEdit are optional; when
// nil the corresponding action is not offered.
type Callbacks struct {
	OnSelect func(id string)
	OnCreate func()
	OnEdit   func(id string)
}

// State is what the browser currently has to show.
type State string

const (
	StateClosed  State = "closed"
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateReady   State = "ready"
)

// Snapshot is everything needed to render the browser at one instant.
type Snapshot[T Record] struct {
	State     State
	View      View
	Input     string
	Query     Query
	Items     []T
	Rows      []Row
	Cards     []Card
	CanCreate bool
	CanEdit   bool
}

type idSet map[string]struct{}

func (s idSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Browser is the stateful list dialog: it owns the typed search text, the
// debounced query actually applied, the transient filters, the view mode and
// the favorites of one entity type. Records are supplied by the host and
// replaced whenever they change.
type Browser[T Record] struct {
	mu        sync.Mutex
	def       Definition[T]
	store     FavoriteStore
	debouncer *debounce.Debouncer
	cb        Callbacks

	open      bool
	loading   bool
	records   []T
	input     string
	applied   Query
	view      View
	favorites idSet
}

// NewBrowser wires a browser for def. debouncer delays applying typed text.
func NewBrowser[T Record](def Definition[T], store FavoriteStore, debouncer *debounce.Debouncer, cb Callbacks) *Browser[T] {
	return &Browser[T]{
		def:       def,
		store:     store,
		debouncer: debouncer,
		cb:        cb,
		view:      ViewTable,
		favorites: idSet{},
	}
}

// Open shows the browser and loads the entity type's favorites.
func (b *Browser[T]) Open(ctx context.Context) {
	favs := idSet{}
	if b.store != nil {
		for _, id := range b.store.IDs(ctx, b.def.EntityType) {
			favs[id] = struct{}{}
		}
	}

	b.mu.Lock()
	b.open = true
	b.favorites = favs
	b.mu.Unlock()
}

// Close hides the browser. Search text and filters do not survive a close.
func (b *Browser[T]) Close() {
	b.debouncer.Cancel()

	b.mu.Lock()
	b.open = false
	b.input = ""
	b.applied = Query{}
	b.mu.Unlock()
}

// SetRecords replaces the full record list.
func (b *Browser[T]) SetRecords(records []T, loading bool) {
	b.mu.Lock()
	b.records = slices.Clone(records)
	b.loading = loading
	b.mu.Unlock()
}

// Type records the search input. The text is applied once typing pauses
// for the debouncer's delay; only the last keystroke counts.
func (b *Browser[T]) Type(text string) {
	b.mu.Lock()
	b.input = text
	b.mu.Unlock()

	b.debouncer.Trigger(func() {
		b.mu.Lock()
		b.applied.Text = text
		b.mu.Unlock()
	})
}

// ApplyNow skips the remaining debounce delay.
func (b *Browser[T]) ApplyNow() {
	b.debouncer.Flush()
}

// AddCondition appends a structured filter.
func (b *Browser[T]) AddCondition(c Condition) error {
	if !c.Operator.Valid() {
		return fmt.Errorf("unknown filter operator %q", c.Operator)
	}
	b.mu.Lock()
	b.applied.Conditions = append(b.applied.Conditions, c)
	b.mu.Unlock()
	return nil
}

// RemoveCondition drops the filter at index i.
func (b *Browser[T]) RemoveCondition(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.applied.Conditions) {
		return false
	}
	b.applied.Conditions = slices.Delete(b.applied.Conditions, i, i+1)
	return true
}

// ClearConditions drops every structured filter.
func (b *Browser[T]) ClearConditions() {
	b.mu.Lock()
	b.applied.Conditions = nil
	b.mu.Unlock()
}

// SetView switches between table and card presentation.
func (b *Browser[T]) SetView(v View) {
	b.mu.Lock()
	b.view = v
	b.mu.Unlock()
}

// ToggleFavorite flips the star on id and persists it. It never selects.
func (b *Browser[T]) ToggleFavorite(ctx context.Context, id string) bool {
	now := false
	if b.store != nil {
		now = b.store.Toggle(ctx, b.def.EntityType, id)
	}

	b.mu.Lock()
	if now {
		b.favorites[id] = struct{}{}
	} else {
		delete(b.favorites, id)
	}
	b.mu.Unlock()
	return now
}

// Select reports a click on a row or card. OnSelect fires exactly once when
// id is among the records on display.
func (b *Browser[T]) Select(id string) bool {
	if !b.visible(id) || b.cb.OnSelect == nil {
		return false
	}
	b.cb.OnSelect(id)
	return true
}

// Edit fires OnEdit for id without selecting it.
func (b *Browser[T]) Edit(id string) bool {
	if b.cb.OnEdit == nil || !b.visible(id) {
		return false
	}
	b.cb.OnEdit(id)
	return true
}

// Create fires OnCreate.
func (b *Browser[T]) Create() bool {
	if b.cb.OnCreate == nil {
		return false
	}
	b.cb.OnCreate()
	return true
}

// Export writes the applied query over the full record list as CSV.
func (b *Browser[T]) Export(w io.Writer) (int, error) {
	b.mu.Lock()
	records := b.records
	q := b.cloneQueryLocked()
	b.mu.Unlock()

	return b.def.WriteCSV(w, records, q)
}

// Snapshot evaluates the current state.
func (b *Browser[T]) Snapshot() Snapshot[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot[T]{
		View:      b.view,
		Input:     b.input,
		Query:     b.cloneQueryLocked(),
		CanCreate: b.cb.OnCreate != nil,
		CanEdit:   b.cb.OnEdit != nil,
	}

	switch {
	case !b.open:
		snap.State = StateClosed
		return snap
	case b.loading:
		snap.State = StateLoading
		return snap
	}

	snap.Items = b.def.Apply(b.records, b.applied, b.favorites)
	if len(snap.Items) == 0 {
		snap.State = StateEmpty
		return snap
	}
	snap.State = StateReady
	if b.view == ViewCard {
		snap.Cards = b.def.Cards(snap.Items, b.favorites)
	} else {
		snap.Rows = b.def.Rows(snap.Items, b.favorites)
	}
	return snap
}

func (b *Browser[T]) visible(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open || b.loading {
		return false
	}
	for _, r := range Filter(b.records, b.applied, b.def.SearchKeys, b.def.Access) {
		if r.RecordID() == id {
			return true
		}
	}
	return false
}

func (b *Browser[T]) cloneQueryLocked() Query {
	return Query{Text: b.applied.Text, Conditions: slices.Clone(b.applied.Conditions)}
}
