package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/javariai/corpus/internal/api"
	"github.com/javariai/corpus/internal/domain"
)

type StatsService interface {
	Stats(ctx context.Context) (*domain.KnowledgeStats, error)
}

type StatsHandler struct {
	svc StatsService
}

func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

type StatsResponse struct {
	TotalRecords      int            `json:"total_records"`
	WithEmbeddings    int            `json:"with_embeddings"`
	Categories        int            `json:"categories"`
	ByCategory        map[string]int `json:"by_category"`
	EmbeddingCoverage int            `json:"embedding_coverage"`
	LastUpdated       *string        `json:"last_updated,omitempty"`
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := StatsResponse{
		TotalRecords:      stats.TotalRecords,
		WithEmbeddings:    stats.WithEmbeddings,
		Categories:        stats.Categories,
		ByCategory:        stats.ByCategory,
		EmbeddingCoverage: stats.EmbeddingCoverage,
	}
	if stats.LastUpdated != nil {
		s := stats.LastUpdated.Format(time.RFC3339)
		resp.LastUpdated = &s
	}

	api.Success(w, http.StatusOK, resp)
}
