package transport

type SearchRequest struct {
	Query string `form:"q" validate:"max=100"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=10"`
}

type Destination struct {
	Title       string  `json:"title"`
	Path        string  `json:"path"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Score       float64 `json:"score,omitempty"`
	Visits      int     `json:"visits,omitempty"`
}

type SearchResponse struct {
	Items []Destination `json:"items"`
	Total int           `json:"total"`
}

// SuggestionsResponse is shown while the search box is focused and empty.
type SuggestionsResponse struct {
	History []string      `json:"history"`
	Popular []Destination `json:"popular"`
}

type CommitRequest struct {
	Query string `json:"query" validate:"max=100"`
	Path  string `json:"path" validate:"required,startswith=/"`
}

type CommitResponse struct {
	Destination Destination `json:"destination"`
	History     []string    `json:"history"`
}
