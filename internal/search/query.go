package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures one search.
type Params struct {
	Query  string
	BookID string // restrict to one book when set
	Limit  int
	Offset int
}

// Result is one search response.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is one matching page.
type Hit struct {
	BookID    string   `json:"book_id"`
	BookTitle string   `json:"book_title"`
	Page      int      `json:"page"`
	Score     float64  `json:"score"`
	Fragments []string `json:"fragments,omitempty"`
}

// Search runs a full-text query over indexed pages, best matches first.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	match := bleve.NewMatchQuery(params.Query)

	var searchQuery query.Query = match
	if params.BookID != "" {
		bookFilter := bleve.NewTermQuery(params.BookID)
		bookFilter.SetField("book_id")
		searchQuery = bleve.NewConjunctionQuery(match, bookFilter)
	}

	req := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	req.Fields = []string{"book_id", "book_title", "page"}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("text")

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := Hit{
			BookID:    fieldString(hit.Fields, "book_id"),
			BookTitle: fieldString(hit.Fields, "book_title"),
			Page:      fieldInt(hit.Fields, "page"),
			Score:     hit.Score,
		}
		for _, frags := range hit.Fragments {
			h.Fragments = append(h.Fragments, frags...)
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

func fieldString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func fieldInt(fields map[string]interface{}, key string) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}
