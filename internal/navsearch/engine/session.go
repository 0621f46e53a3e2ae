package engine

import (
	"context"
	"strings"
	"sync"

	"serveon_backend/platform/debounce"
)

// State is the visible state of the search box.
type State string

const (
	StateIdle         State = "idle"
	StateFocusedEmpty State = "focused-empty"
	StateFocusedQuery State = "focused-query"
	StateClosed       State = "closed"
)

// NoSelection is the selection index when no result is highlighted.
const NoSelection = -1

// Key is a keyboard event the search box reacts to.
type Key string

const (
	KeyDown     Key = "ArrowDown"
	KeyUp       Key = "ArrowUp"
	KeyEnter    Key = "Enter"
	KeyEscape   Key = "Escape"
	KeyShortcut Key = "Mod+K"
)

// View is what the search box shows at one instant.
type View struct {
	State       State     `json:"state"`
	Query       string    `json:"query"`
	Results     []Result  `json:"results"`
	Selected    int       `json:"selected"`
	History     []string  `json:"history,omitempty"`
	Suggestions []Visited `json:"suggestions,omitempty"`
}

// Session drives one search box. Blur waits for the debouncer's delay
// before closing so a click on a result can still land; refocusing in
// that window keeps the box open.
type Session struct {
	mu       sync.Mutex
	catalog  []Item
	history  *History
	visits   *Popularity
	blur     *debounce.Debouncer
	limit    int
	navigate func(Item)

	state    State
	query    string
	results  []Result
	selected int
}

// NewSession creates an idle session. navigate is called with the
// destination whenever a result is committed.
func NewSession(catalog []Item, history *History, visits *Popularity, blur *debounce.Debouncer, limit int, navigate func(Item)) *Session {
	return &Session{
		catalog:  catalog,
		history:  history,
		visits:   visits,
		blur:     blur,
		limit:    limit,
		navigate: navigate,
		state:    StateIdle,
		selected: NoSelection,
	}
}

// Focus opens the box, showing results when text is present and recent
// history otherwise. A pending blur is cancelled.
func (s *Session) Focus(ctx context.Context) {
	s.blur.Cancel()

	s.mu.Lock()
	query := s.query
	s.mu.Unlock()

	s.setQuery(ctx, query)
}

// Type replaces the query text. Typing implies focus.
func (s *Session) Type(ctx context.Context, text string) {
	s.blur.Cancel()
	s.setQuery(ctx, text)
}

// Blur closes the box after the grace delay.
func (s *Session) Blur() {
	s.blur.Trigger(func() {
		s.mu.Lock()
		if s.state == StateFocusedEmpty || s.state == StateFocusedQuery {
			s.state = StateClosed
			s.selected = NoSelection
		}
		s.mu.Unlock()
	})
}

// Escape clears the query and closes the box without waiting.
func (s *Session) Escape() {
	s.blur.Cancel()

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

// MoveDown highlights the next result, wrapping to the first.
func (s *Session) MoveDown() int {
	return s.move(1)
}

// MoveUp highlights the previous result, wrapping to the last.
func (s *Session) MoveUp() int {
	return s.move(-1)
}

// Enter commits the highlighted result, or the first when nothing is
// highlighted. It reports the destination and whether one was committed.
func (s *Session) Enter(ctx context.Context) (Item, bool) {
	s.mu.Lock()
	if s.state != StateFocusedQuery || len(s.results) == 0 {
		s.mu.Unlock()
		return Item{}, false
	}
	idx := s.selected
	if idx == NoSelection {
		idx = 0
	}
	item := s.results[idx].Item
	s.mu.Unlock()

	s.commit(ctx, item)
	return item, true
}

// Pick commits the result with the given path, as a pointer click does.
// It works during the blur grace delay.
func (s *Session) Pick(ctx context.Context, path string) (Item, bool) {
	s.mu.Lock()
	if s.state != StateFocusedQuery {
		s.mu.Unlock()
		return Item{}, false
	}
	var (
		item  Item
		found bool
	)
	for _, r := range s.results {
		if r.Item.Path == path {
			item, found = r.Item, true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return Item{}, false
	}
	s.commit(ctx, item)
	return item, true
}

// Press dispatches a keyboard event.
func (s *Session) Press(ctx context.Context, key Key) {
	switch key {
	case KeyDown:
		s.MoveDown()
	case KeyUp:
		s.MoveUp()
	case KeyEnter:
		s.Enter(ctx)
	case KeyEscape:
		s.Escape()
	case KeyShortcut:
		s.Focus(ctx)
	}
}

// View returns the current state. History and suggestions are filled
// only while the box is focused and empty.
func (s *Session) View(ctx context.Context) View {
	s.mu.Lock()
	v := View{
		State:    s.state,
		Query:    s.query,
		Results:  append([]Result(nil), s.results...),
		Selected: s.selected,
	}
	s.mu.Unlock()

	if v.State == StateFocusedEmpty {
		v.History = s.history.List(ctx)
		v.Suggestions = Top(s.catalog, s.visits.Counts(ctx), s.suggestionCount())
	}
	if v.State != StateFocusedQuery {
		v.Results = nil
	}
	return v
}

func (s *Session) suggestionCount() int {
	if s.limit <= 0 {
		return DefaultLimit
	}
	return s.limit
}

func (s *Session) setQuery(ctx context.Context, text string) {
	var results []Result
	if strings.TrimSpace(text) != "" {
		results = Search(s.catalog, text, s.visits.Counts(ctx), s.limit)
	}

	s.mu.Lock()
	s.query = text
	s.results = results
	s.selected = NoSelection
	if strings.TrimSpace(text) == "" {
		s.state = StateFocusedEmpty
	} else {
		s.state = StateFocusedQuery
	}
	s.mu.Unlock()
}

func (s *Session) move(step int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.results)
	if s.state != StateFocusedQuery || n == 0 {
		return s.selected
	}
	switch {
	case s.selected == NoSelection && step > 0:
		s.selected = 0
	case s.selected == NoSelection:
		s.selected = n - 1
	default:
		s.selected = ((s.selected+step)%n + n) % n
	}
	return s.selected
}

func (s *Session) commit(ctx context.Context, item Item) {
	s.blur.Cancel()

	s.mu.Lock()
	query := s.query
	s.resetLocked()
	s.mu.Unlock()

	RecordCommit(ctx, s.history, s.visits, query, item.Path)
	if s.navigate != nil {
		s.navigate(item)
	}
}

func (s *Session) resetLocked() {
	s.state = StateClosed
	s.query = ""
	s.results = nil
	s.selected = NoSelection
}
