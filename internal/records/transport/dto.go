package transport

import "serveon_backend/internal/grid"

// ListRequest is the query string of a list or export request. Filters are
// "field:operator:value" triples and may repeat.
type ListRequest struct {
	Query   string   `form:"q" validate:"max=200"`
	Filters []string `form:"filter" validate:"max=20,dive,filterop"`
	View    string   `form:"view" validate:"omitempty,oneof=table card"`
}

type Column struct {
	Header  string `json:"header"`
	Field   string `json:"field,omitempty"`
	Derived bool   `json:"derived"`
}

type ListResponse struct {
	Entity     string           `json:"entity"`
	Label      string           `json:"label"`
	View       grid.View        `json:"view"`
	Columns    []Column         `json:"columns"`
	Conditions []grid.Condition `json:"conditions"`
	Total      int              `json:"total"`
	Count      int              `json:"count"`
	Rows       []grid.Row       `json:"rows,omitempty"`
	Cards      []grid.Card      `json:"cards,omitempty"`
	Filename   string           `json:"filename"`
}

type EntitySummary struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// RecordRequest is the body of create and update requests.
type RecordRequest struct {
	Data map[string]any `json:"data" validate:"required"`
}

type FavoritesResponse struct {
	Entity string   `json:"entity"`
	IDs    []string `json:"ids"`
}

type ToggleFavoriteResponse struct {
	Entity   string `json:"entity"`
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}
