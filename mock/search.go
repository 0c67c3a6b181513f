package mock

import (
	"context"

	"github.com/fwojciec/sift"
)

// Compile-time interface verification.
var (
	_ sift.Searcher      = (*Searcher)(nil)
	_ sift.SearchService = (*SearchService)(nil)
)

// Searcher is a mock implementation of sift.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, limit int) ([]*sift.SearchItem, error)
}

func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]*sift.SearchItem, error) {
	return s.SearchFn(ctx, query, limit)
}

// SearchService is a mock implementation of sift.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts sift.SearchOptions) *sift.SearchResponse
}

func (s *SearchService) Search(ctx context.Context, query string, opts sift.SearchOptions) *sift.SearchResponse {
	return s.SearchFn(ctx, query, opts)
}
