package grid

import (
	"encoding/csv"
	"io"
	"strings"
)

// View selects how a list is presented. Both views carry the same records
// in the same order.
type View string

const (
	ViewTable View = "table"
	ViewCard  View = "card"
)

// ParseView defaults to the table view for anything unrecognised.
func ParseView(s string) View {
	if strings.EqualFold(strings.TrimSpace(s), string(ViewCard)) {
		return ViewCard
	}
	return ViewTable
}

// Definition describes one browsable list: which columns it shows, which
// fields the free-text search looks at, and how fields are read.
type Definition[T Record] struct {
	EntityType string
	Columns    []Column[T]
	SearchKeys []string
	Access     Accessor[T]
}

// Apply filters records with q and floats favorites to the top.
func (d Definition[T]) Apply(records []T, q Query, favorites IDSet) []T {
	return SortFavoritesFirst(Filter(records, q, d.SearchKeys, d.Access), favorites)
}

// Filename is the download name for an export of this list.
func (d Definition[T]) Filename() string {
	return ExportFilename(d.EntityType)
}

// ExportFilename returns "<entityType>.csv", or "data.csv" when the entity
// type is blank.
func ExportFilename(entityType string) string {
	name := strings.TrimSpace(entityType)
	if name == "" {
		name = "data"
	}
	return name + ".csv"
}

// ExportColumns returns the columns that appear in CSV exports: every field
// column, in declaration order. Derived columns have no raw value and are skipped.
func (d Definition[T]) ExportColumns() []Column[T] {
	out := make([]Column[T], 0, len(d.Columns))
	for _, col := range d.Columns {
		if _, ok := col.Key.Field(); ok {
			out = append(out, col)
		}
	}
	return out
}

// WriteCSV re-applies q to the full record list and writes a header row
// plus one row per matching record. It returns the number of data rows.
func (d Definition[T]) WriteCSV(w io.Writer, records []T, q Query) (int, error) {
	cols := d.ExportColumns()
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	rows := 0
	for _, record := range Filter(records, q, d.SearchKeys, d.Access) {
		line := make([]string, len(cols))
		for i, col := range cols {
			line[i] = Stringify(col.Key.Value(record, d.Access))
		}
		if err := cw.Write(line); err != nil {
			return rows, err
		}
		rows++
	}

	cw.Flush()
	return rows, cw.Error()
}

// Cell is one labelled value.
type Cell struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// Row is the table view of a record.
type Row struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
	Cells    []Cell `json:"cells"`
}

// Card is the card view of a record: the first column is the title, the
// next two are subtitles and the fourth and fifth a small detail list.
type Card struct {
	ID        string   `json:"id"`
	Favorite  bool     `json:"favorite"`
	Title     string   `json:"title"`
	Subtitles []string `json:"subtitles"`
	Details   []Cell   `json:"details"`
}

// Rows projects already-applied records into table rows.
func (d Definition[T]) Rows(records []T, favorites IDSet) []Row {
	out := make([]Row, 0, len(records))
	for _, record := range records {
		cells := make([]Cell, len(d.Columns))
		for i, col := range d.Columns {
			cells[i] = Cell{Header: col.Header, Value: Stringify(col.Key.Value(record, d.Access))}
		}
		out = append(out, Row{
			ID:       record.RecordID(),
			Favorite: isFavorite(favorites, record.RecordID()),
			Cells:    cells,
		})
	}
	return out
}

// Cards projects already-applied records into cards.
func (d Definition[T]) Cards(records []T, favorites IDSet) []Card {
	out := make([]Card, 0, len(records))
	for _, record := range records {
		card := Card{
			ID:        record.RecordID(),
			Favorite:  isFavorite(favorites, record.RecordID()),
			Subtitles: []string{},
			Details:   []Cell{},
		}
		for i, col := range d.Columns {
			value := Stringify(col.Key.Value(record, d.Access))
			switch {
			case i == 0:
				card.Title = value
			case i <= 2:
				card.Subtitles = append(card.Subtitles, value)
			case i <= 4:
				card.Details = append(card.Details, Cell{Header: col.Header, Value: value})
			}
		}
		out = append(out, card)
	}
	return out
}

func isFavorite(favorites IDSet, id string) bool {
	return favorites != nil && favorites.Has(id)
}
