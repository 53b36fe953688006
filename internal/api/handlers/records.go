package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/javariai/corpus/internal/api"
	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/pagination"
)

const (
	defaultRecordPageSize = 50
	maxRecordPageSize     = 200
)

// RecordLister reads stored records for inspection.
type RecordLister interface {
	GetSourceByID(ctx context.Context, id string) (*domain.KnowledgeSource, error)
	ListRecordsPage(ctx context.Context, sourceID string, limit int, cursor *pagination.Cursor) ([]*domain.KnowledgeRecord, error)
}

type RecordsHandler struct {
	repo RecordLister
}

func NewRecordsHandler(repo RecordLister) *RecordsHandler {
	return &RecordsHandler{repo: repo}
}

type RecordSummary struct {
	ID           string `json:"id"`
	Locator      string `json:"locator"`
	Title        string `json:"title"`
	HasEmbedding bool   `json:"has_embedding"`
	CreatedAt    string `json:"created_at"`
}

// List returns one page of records for a source, newest first.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	sourceID := r.URL.Query().Get("source_id")
	if sourceID == "" {
		api.Error(w, http.StatusBadRequest, "source_id is required")
		return
	}

	limit := defaultRecordPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			api.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxRecordPageSize {
			n = maxRecordPageSize
		}
		limit = n
	}

	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	if _, err := h.repo.GetSourceByID(r.Context(), sourceID); err != nil {
		api.HandleError(w, err)
		return
	}

	records, err := h.repo.ListRecordsPage(r.Context(), sourceID, limit, cursor)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]RecordSummary, 0, len(records))
	for _, rec := range records {
		items = append(items, RecordSummary{
			ID:           rec.ID,
			Locator:      rec.Locator,
			Title:        rec.Title,
			HasEmbedding: rec.HasEmbedding(),
			CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		})
	}

	next := pagination.CreateNextCursor(records, limit,
		func(rec *domain.KnowledgeRecord) string { return rec.ID },
		func(rec *domain.KnowledgeRecord) time.Time { return rec.CreatedAt },
	)

	api.Success(w, http.StatusOK, pagination.PageResult[RecordSummary]{
		Items:   items,
		Cursor:  next,
		HasMore: next != "",
	})
}
