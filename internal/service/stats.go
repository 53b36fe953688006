package service

import (
	"context"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/telemetry"
)

// StatsService reports aggregate state of the knowledge store.
type StatsService struct {
	repo StatsStore
}

// NewStatsService creates a new StatsService instance
func NewStatsService(repo StatsStore) *StatsService {
	return &StatsService{repo: repo}
}

// Stats returns record totals, embedding coverage and the per-category
// breakdown.
func (s *StatsService) Stats(ctx context.Context) (*domain.KnowledgeStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "StatsService.Stats", telemetry.SpanAttributes{
		Operation: "stats",
	})
	defer span.End()

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return stats, nil
}
