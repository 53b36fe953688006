package domain

import (
	"fmt"
	"time"
)

// KnowledgeSource groups all records produced by one ingestion run.
// It is created once per job, before any record is written, and never
// mutated afterwards.
type KnowledgeSource struct {
	ID             string
	Name           string
	OriginLocation string
	IngestMethod   SourceType
	Metadata       map[string]any
	CreatedAt      time.Time
}

// NewKnowledgeSource creates a KnowledgeSource for an import job
func NewKnowledgeSource(id, name, originLocation string, method SourceType, metadata map[string]any, createdAt time.Time) *KnowledgeSource {
	return &KnowledgeSource{
		ID:             id,
		Name:           name,
		OriginLocation: originLocation,
		IngestMethod:   method,
		Metadata:       metadata,
		CreatedAt:      createdAt,
	}
}

// KnowledgeRecord is one normalized, retrievable unit of content.
// A record whose Embedding is nil was stored after the embedding
// service failed; it is retained but unreachable by vector search.
type KnowledgeRecord struct {
	ID                   string
	SourceID             string
	Locator              string
	Title                string
	Body                 string
	Embedding            []float32
	EmbeddingModel       string
	EmbeddingGeneratedAt *time.Time
	Metadata             map[string]any
	CreatedAt            time.Time
}

// HasEmbedding reports whether the record is reachable by vector search.
func (r *KnowledgeRecord) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

// ValidateKnowledgeSource validates a KnowledgeSource instance
func ValidateKnowledgeSource(s *KnowledgeSource) error {
	if s == nil {
		return fmt.Errorf("knowledge source cannot be nil")
	}

	if s.ID == "" {
		return fmt.Errorf("knowledge source ID is required")
	}

	if s.Name == "" {
		return fmt.Errorf("knowledge source Name is required")
	}

	if !IsValidSourceType(s.IngestMethod) {
		return fmt.Errorf("knowledge source IngestMethod is invalid: %s", s.IngestMethod)
	}

	return nil
}

// ValidateKnowledgeRecord validates a KnowledgeRecord instance
func ValidateKnowledgeRecord(r *KnowledgeRecord) error {
	if r == nil {
		return fmt.Errorf("knowledge record cannot be nil")
	}

	if r.ID == "" {
		return fmt.Errorf("knowledge record ID is required")
	}

	if r.SourceID == "" {
		return fmt.Errorf("knowledge record SourceID is required")
	}

	if r.Locator == "" {
		return fmt.Errorf("knowledge record Locator is required")
	}

	if r.Body == "" {
		return fmt.Errorf("knowledge record Body is required")
	}

	return nil
}

// KnowledgeStats summarizes the state of the knowledge store.
type KnowledgeStats struct {
	TotalRecords      int
	WithEmbeddings    int
	Categories        int
	ByCategory        map[string]int
	EmbeddingCoverage int // percentage, 0-100
	LastUpdated       *time.Time
}
