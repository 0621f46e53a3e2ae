// Package grid is the engine behind every searchable master-data list:
// free-text search over declared fields, AND-combined field filters,
// favorites floated to the top, table/card projections and CSV export.
// It works on in-memory slices and never fetches data itself.
package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Record is anything the grid can list. IDs must be unique and stable.
type Record interface {
	RecordID() string
}

// Map is a schemaless record as it comes out of the records repository.
type Map map[string]any

// RecordID returns the string form of the "id" field.
func (m Map) RecordID() string {
	return Stringify(m["id"])
}

// Accessor reads a named field from a record. ok is false when the record
// has no such field.
type Accessor[T any] func(record T, field string) (value any, ok bool)

// MapAccessor is the Accessor for Map records.
func MapAccessor(record Map, field string) (any, bool) {
	v, ok := record[field]
	return v, ok
}

// IDSet answers whether a record ID is a favorite.
type IDSet interface {
	Has(id string) bool
}

// Stringify renders a field value the way it is compared and exported:
// nil is empty, scalars use their plain text form, composite values use
// their JSON text.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
