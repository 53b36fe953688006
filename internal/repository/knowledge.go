package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/pagination"
	"github.com/javariai/corpus/internal/service"
)

type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func NewKnowledgeRepositoryWithTx(tx pgx.Tx) *KnowledgeRepository {
	return &KnowledgeRepository{db: tx}
}

func (r *KnowledgeRepository) CreateSource(ctx context.Context, s *domain.KnowledgeSource) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_sources (id, name, origin_location, ingest_method, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.OriginLocation, string(s.IngestMethod), s.Metadata, s.CreatedAt,
	)
	return err
}

func (r *KnowledgeRepository) GetSourceByID(ctx context.Context, id string) (*domain.KnowledgeSource, error) {
	var s domain.KnowledgeSource
	var method string
	err := r.db.QueryRow(ctx,
		`SELECT id, name, origin_location, ingest_method, metadata, created_at
		 FROM knowledge_sources WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.OriginLocation, &method, &s.Metadata, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeSourceNotFound
		}
		return nil, err
	}
	s.IngestMethod = domain.SourceType(method)
	return &s, nil
}

// ListAutoUpdateSources returns feed sources marked for scheduled
// refresh.
func (r *KnowledgeRepository) ListAutoUpdateSources(ctx context.Context) ([]*domain.KnowledgeSource, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, origin_location, ingest_method, metadata, created_at
		 FROM knowledge_sources
		 WHERE ingest_method = $1 AND metadata->>'auto_update' = 'true'
		 ORDER BY created_at ASC`,
		string(domain.SourceTypeFeed),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.KnowledgeSource
	for rows.Next() {
		var s domain.KnowledgeSource
		var method string
		if err := rows.Scan(&s.ID, &s.Name, &s.OriginLocation, &method, &s.Metadata, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.IngestMethod = domain.SourceType(method)
		results = append(results, &s)
	}
	return results, rows.Err()
}

func (r *KnowledgeRepository) CreateRecord(ctx context.Context, rec *domain.KnowledgeRecord) error {
	var embedding any
	if rec.HasEmbedding() {
		embedding = pgvector.NewVector(rec.Embedding)
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_records
			(id, source_id, locator, title, body, embedding, embedding_model, embedding_generated_at, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.SourceID, rec.Locator, rec.Title, rec.Body,
		embedding, nullableString(rec.EmbeddingModel), rec.EmbeddingGeneratedAt, rec.Metadata, rec.CreatedAt,
	)
	return err
}

func (r *KnowledgeRepository) GetRecordByID(ctx context.Context, id string) (*domain.KnowledgeRecord, error) {
	var rec domain.KnowledgeRecord
	var embedding *pgvector.Vector
	var model *string
	err := r.db.QueryRow(ctx,
		`SELECT id, source_id, locator, title, body, embedding, embedding_model, embedding_generated_at, metadata, created_at
		 FROM knowledge_records WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.SourceID, &rec.Locator, &rec.Title, &rec.Body, &embedding, &model, &rec.EmbeddingGeneratedAt, &rec.Metadata, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeRecordNotFound
		}
		return nil, err
	}
	if embedding != nil {
		rec.Embedding = embedding.Slice()
	}
	if model != nil {
		rec.EmbeddingModel = *model
	}
	return &rec, nil
}

func (r *KnowledgeRepository) ListRecordsBySource(ctx context.Context, sourceID string) ([]*domain.KnowledgeRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, source_id, locator, title, body, embedding, embedding_model, embedding_generated_at, metadata, created_at
		 FROM knowledge_records WHERE source_id = $1 ORDER BY created_at ASC`,
		sourceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.KnowledgeRecord
	for rows.Next() {
		var rec domain.KnowledgeRecord
		var embedding *pgvector.Vector
		var model *string
		if err := rows.Scan(&rec.ID, &rec.SourceID, &rec.Locator, &rec.Title, &rec.Body, &embedding, &model, &rec.EmbeddingGeneratedAt, &rec.Metadata, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if embedding != nil {
			rec.Embedding = embedding.Slice()
		}
		if model != nil {
			rec.EmbeddingModel = *model
		}
		results = append(results, &rec)
	}
	return results, rows.Err()
}

// ListRecordsPage returns one page of records for a source, newest
// first. Pass a nil cursor for the first page.
func (r *KnowledgeRepository) ListRecordsPage(ctx context.Context, sourceID string, limit int, cursor *pagination.Cursor) ([]*domain.KnowledgeRecord, error) {
	query := `SELECT id, source_id, locator, title, body, embedding, embedding_model, embedding_generated_at, metadata, created_at
		 FROM knowledge_records WHERE source_id = $1`
	args := []any{sourceID}

	if cursor != nil {
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, cursor.Timestamp, cursor.LastID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.KnowledgeRecord
	for rows.Next() {
		var rec domain.KnowledgeRecord
		var embedding *pgvector.Vector
		var model *string
		if err := rows.Scan(&rec.ID, &rec.SourceID, &rec.Locator, &rec.Title, &rec.Body, &embedding, &model, &rec.EmbeddingGeneratedAt, &rec.Metadata, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if embedding != nil {
			rec.Embedding = embedding.Slice()
		}
		if model != nil {
			rec.EmbeddingModel = *model
		}
		results = append(results, &rec)
	}
	return results, rows.Err()
}

// SearchByEmbedding returns the records closest to the query vector.
// Records without an embedding are invisible to search.
func (r *KnowledgeRepository) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*service.SearchMatch, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, title, body, locator,
		        1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM knowledge_records
		 WHERE embedding IS NOT NULL
		 ORDER BY score DESC
		 LIMIT $2`,
		pgvector.NewVector(embedding), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*service.SearchMatch, 0)
	for rows.Next() {
		var m service.SearchMatch
		if err := rows.Scan(&m.ID, &m.Title, &m.Body, &m.Locator, &m.Score); err != nil {
			return nil, err
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

// Stats aggregates record totals, embedding coverage and the category
// breakdown derived from record metadata.
func (r *KnowledgeRepository) Stats(ctx context.Context) (*domain.KnowledgeStats, error) {
	stats := &domain.KnowledgeStats{
		ByCategory: make(map[string]int),
	}

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(embedding), MAX(created_at) FROM knowledge_records`,
	).Scan(&stats.TotalRecords, &stats.WithEmbeddings, &stats.LastUpdated)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(metadata->>'category', 'uncategorized'), COUNT(*)
		 FROM knowledge_records
		 GROUP BY 1`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.Categories = len(stats.ByCategory)
	if stats.TotalRecords > 0 {
		stats.EmbeddingCoverage = int(math.Round(100 * float64(stats.WithEmbeddings) / float64(stats.TotalRecords)))
	}
	return stats, nil
}
