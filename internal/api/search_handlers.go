package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tsuji1/hep-reader-sub001/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/search",
		Summary:     "Search pages",
		Description: "Full-text search across all book pages, optionally scoped to one book",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching pages.
type SearchInput struct {
	Query  string `query:"q" validate:"required,min=1,max=200" doc:"Search query"`
	BookID string `query:"book_id" validate:"omitempty,max=100" doc:"Restrict to one book"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset"`
}

// SearchHitResponse contains one page hit.
type SearchHitResponse struct {
	BookID    string   `json:"book_id" doc:"Book ID"`
	BookTitle string   `json:"book_title" doc:"Book title"`
	Page      int      `json:"page" doc:"Matching page number"`
	Score     float64  `json:"score" doc:"Relevance score"`
	Fragments []string `json:"fragments,omitempty" doc:"Highlighted text fragments"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string              `json:"query" doc:"Echoed query"`
	Total  uint64              `json:"total" doc:"Total matching pages"`
	TookMs int64               `json:"took_ms" doc:"Query duration in milliseconds"`
	Hits   []SearchHitResponse `json:"hits" doc:"Best matches first"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	res, err := s.services.Search.Search(ctx, search.Params{
		Query:  input.Query,
		BookID: input.BookID,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHitResponse, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = SearchHitResponse{
			BookID:    h.BookID,
			BookTitle: h.BookTitle,
			Page:      h.Page,
			Score:     h.Score,
			Fragments: h.Fragments,
		}
	}

	return &SearchOutput{Body: SearchResponse{
		Query:  res.Query,
		Total:  res.Total,
		TookMs: res.TookMs,
		Hits:   hits,
	}}, nil
}
