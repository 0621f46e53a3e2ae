package grid

import (
	"fmt"
	"strings"
)

// Operator is a structured filter comparison. All comparisons ignore case.
type Operator string

const (
	OpContains    Operator = "contains"
	OpEquals      Operator = "equals"
	OpStartsWith  Operator = "startsWith"
	OpEndsWith    Operator = "endsWith"
	OpNotContains Operator = "notContains"
)

// Operators lists every supported operator in display order.
var Operators = []Operator{OpContains, OpEquals, OpStartsWith, OpEndsWith, OpNotContains}

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case OpContains, OpEquals, OpStartsWith, OpEndsWith, OpNotContains:
		return true
	}
	return false
}

// ParseOperator accepts the canonical names plus the snake/kebab variants
// clients tend to send ("starts_with", "not-contains").
func ParseOperator(s string) (Operator, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(s)))
	for _, op := range Operators {
		if strings.ToLower(string(op)) == norm {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown filter operator %q", s)
}

// Condition is one (field, operator, value) filter.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// ParseCondition reads the "field:operator:value" form used in query strings.
// The value may itself contain colons.
func ParseCondition(s string) (Condition, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
		return Condition{}, fmt.Errorf("filter %q must look like field:operator:value", s)
	}
	op, err := ParseOperator(parts[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{Field: strings.TrimSpace(parts[0]), Operator: op, Value: parts[2]}, nil
}

// String is the inverse of ParseCondition.
func (c Condition) String() string {
	return c.Field + ":" + string(c.Operator) + ":" + c.Value
}

// Matches evaluates the condition against record. A missing field compares
// as the empty string. Unknown operators impose no constraint.
func Matches[T any](c Condition, record T, access Accessor[T]) bool {
	v, _ := access(record, c.Field)
	field := strings.ToLower(Stringify(v))
	want := strings.ToLower(c.Value)

	switch c.Operator {
	case OpContains:
		return strings.Contains(field, want)
	case OpEquals:
		return field == want
	case OpStartsWith:
		return strings.HasPrefix(field, want)
	case OpEndsWith:
		return strings.HasSuffix(field, want)
	case OpNotContains:
		return !strings.Contains(field, want)
	default:
		return true
	}
}

// Query is the text search plus structured filters currently applied.
// It lives only as long as the list being browsed.
type Query struct {
	Text       string      `json:"text"`
	Conditions []Condition `json:"conditions"`
}

// IsZero reports whether the query constrains nothing.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Text) == "" && len(q.Conditions) == 0
}

// MatchText reports whether any search key of record contains text,
// ignoring case. Surrounding spaces are part of the needle. Blank text
// matches everything.
func MatchText[T any](record T, text string, searchKeys []string, access Accessor[T]) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	needle := strings.ToLower(text)
	for _, key := range searchKeys {
		v, _ := access(record, key)
		if strings.Contains(strings.ToLower(Stringify(v)), needle) {
			return true
		}
	}
	return false
}

// MatchQuery applies the text search and every condition to one record.
func MatchQuery[T any](record T, q Query, searchKeys []string, access Accessor[T]) bool {
	if !MatchText(record, q.Text, searchKeys, access) {
		return false
	}
	for _, c := range q.Conditions {
		if !Matches(c, record, access) {
			return false
		}
	}
	return true
}

// Filter returns the records matching q in their original order. The input
// slice is not modified.
func Filter[T any](records []T, q Query, searchKeys []string, access Accessor[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if MatchQuery(r, q, searchKeys, access) {
			out = append(out, r)
		}
	}
	return out
}
