package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tsuji1/hep-reader-sub001/internal/errors"
	"github.com/tsuji1/hep-reader-sub001/internal/search"
)

// SearchService answers full-text queries over indexed pages.
type SearchService struct {
	index  *search.Index
	logger *slog.Logger
}

// NewSearchService creates a search service.
func NewSearchService(index *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{index: index, logger: logger}
}

// Search runs a query, optionally scoped to one book.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, errors.Validation("search query cannot be empty")
	}
	return s.index.Search(ctx, params)
}
