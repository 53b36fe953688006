package service

import (
	"context"

	"github.com/javariai/corpus/internal/telemetry"
)

// DefaultMatchCount is the number of hits returned when the caller does
// not ask for a specific count.
const DefaultMatchCount = 5

// SearchService handles semantic search over stored knowledge records.
type SearchService struct {
	embedder Embedder
	repo     VectorSearcher
}

// NewSearchService creates a new SearchService instance
func NewSearchService(embedder Embedder, repo VectorSearcher) *SearchService {
	return &SearchService{embedder: embedder, repo: repo}
}

// Search embeds the query text and returns the closest records.
func (s *SearchService) Search(ctx context.Context, query string, matchCount int) ([]*SearchMatch, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		Operation: "search",
	})
	defer span.End()

	if matchCount <= 0 {
		matchCount = DefaultMatchCount
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	matches, err := s.repo.SearchByEmbedding(ctx, embedding, matchCount)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return matches, nil
}
