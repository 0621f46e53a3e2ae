package engine

import (
	"slices"
	"strings"
)

// DefaultLimit is the maximum number of ranked results.
const DefaultLimit = 10

// Relevance weights. Exact title matches dominate; priority and popularity
// only reorder items that already matched something.
const (
	weightExact           = 100.0
	weightPrefix          = 60.0
	weightContains        = 40.0
	weightFuzzy           = 0.5
	maxFuzzy              = 25.0
	similarityThreshold   = 0.6
	weightSimilarity      = 20.0
	weightWordTitle       = 8.0
	weightWordDescription = 4.0
	weightWordCategory    = 2.0
	minWordLen            = 2
	weightKeywordExact    = 30.0
	weightKeywordContains = 15.0
	weightKeywordFuzzy    = 0.3
	maxKeywordFuzzy       = 10.0
	weightDescription     = 10.0
	weightCategory        = 5.0
	weightPriority        = 0.5
	weightVisit           = 0.5
	maxPopularity         = 5.0
)

// Result is a ranked destination.
type Result struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}

// Score rates item against query. query is normalized here; visits is the
// recorded visit count of item's path.
func Score(item Item, query string, visits int) float64 {
	q := Normalize(query)
	if q == "" {
		return 0
	}

	title := Normalize(item.Title)
	description := Normalize(item.Description)
	category := Normalize(item.Category)

	relevance := 0.0
	switch {
	case title == q:
		relevance += weightExact
	case strings.HasPrefix(title, q):
		relevance += weightPrefix
	}
	if title != q && strings.Contains(title, q) {
		relevance += weightContains
	}
	relevance += min(float64(FuzzyScore(q, title))*weightFuzzy, maxFuzzy)
	if sim := Similarity(q, title); sim > similarityThreshold {
		relevance += sim * weightSimilarity
	}

	for _, word := range strings.Fields(q) {
		if len([]rune(word)) < minWordLen {
			continue
		}
		if strings.Contains(title, word) {
			relevance += weightWordTitle
		}
		if strings.Contains(description, word) {
			relevance += weightWordDescription
		}
		if strings.Contains(category, word) {
			relevance += weightWordCategory
		}
	}

	relevance += keywordScore(item.Keywords, q)

	if strings.Contains(description, q) {
		relevance += weightDescription
	}
	if strings.Contains(category, q) {
		relevance += weightCategory
	}

	if relevance == 0 {
		return 0
	}
	return relevance +
		float64(item.Priority)*weightPriority +
		min(float64(visits)*weightVisit, maxPopularity)
}

// keywordScore is the best bonus any single keyword earns.
func keywordScore(keywords []string, q string) float64 {
	best := 0.0
	for _, kw := range keywords {
		k := Normalize(kw)
		if k == "" {
			continue
		}
		var s float64
		switch {
		case k == q:
			s = weightKeywordExact
		case strings.Contains(k, q) || strings.Contains(q, k):
			s = weightKeywordContains
		default:
			s = min(float64(FuzzyScore(q, k))*weightKeywordFuzzy, maxKeywordFuzzy)
		}
		best = max(best, s)
	}
	return best
}

// Search ranks catalog against query and returns at most limit results
// with a positive score, best first. A blank query yields no results.
// limit is clamped to DefaultLimit.
func Search(catalog []Item, query string, visits map[string]int, limit int) []Result {
	if Normalize(query) == "" {
		return []Result{}
	}
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	results := make([]Result, 0, len(catalog))
	for _, item := range catalog {
		if s := Score(item, query, visits[item.Path]); s > 0 {
			results = append(results, Result{Item: item, Score: s})
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
