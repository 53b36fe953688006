package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/javariai/corpus/internal/domain"
)

// Embedder defines the interface for embedding generation
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// KnowledgeStore defines the repository interface for knowledge persistence
type KnowledgeStore interface {
	CreateSource(ctx context.Context, s *domain.KnowledgeSource) error
	CreateRecord(ctx context.Context, r *domain.KnowledgeRecord) error
}

// SearchMatch is a single vector search hit.
type SearchMatch struct {
	ID      string
	Title   string
	Body    string
	Locator string
	Score   float64
}

// VectorSearcher defines the repository interface for similarity search
type VectorSearcher interface {
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*SearchMatch, error)
}

// StatsStore defines the repository interface for knowledge statistics
type StatsStore interface {
	Stats(ctx context.Context) (*domain.KnowledgeStats, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}
