package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/normalize"
	"github.com/javariai/corpus/internal/telemetry"
)

// PageReader fetches raw page bytes.
type PageReader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTMLNormalizer converts fetched HTML into a normalized record.
type HTMLNormalizer interface {
	NormalizeHTML(pageURL string, content []byte) (*domain.NormalizedRecord, error)
}

// SnapshotArchiver stores raw fetched page content for later auditing.
// Implementations must tolerate being called concurrently.
type SnapshotArchiver interface {
	Archive(ctx context.Context, sourceID, pageURL string, content []byte) error
}

// IngestService turns enumerated raw records into stored knowledge records.
type IngestService struct {
	store    KnowledgeStore
	embedder Embedder
	fetcher  PageReader
	pages    HTMLNormalizer
	archiver SnapshotArchiver
	uuidGen  UUIDGenerator
}

// NewIngestService creates a new IngestService instance. The archiver is
// optional; pass nil to skip raw page snapshots.
func NewIngestService(store KnowledgeStore, embedder Embedder, fetcher PageReader, pages HTMLNormalizer, archiver SnapshotArchiver) *IngestService {
	return &IngestService{
		store:    store,
		embedder: embedder,
		fetcher:  fetcher,
		pages:    pages,
		archiver: archiver,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewIngestServiceWithUUIDGen creates a new IngestService with custom UUID generator (for testing)
func NewIngestServiceWithUUIDGen(store KnowledgeStore, embedder Embedder, fetcher PageReader, pages HTMLNormalizer, archiver SnapshotArchiver, uuidGen UUIDGenerator) *IngestService {
	s := NewIngestService(store, embedder, fetcher, pages, archiver)
	s.uuidGen = uuidGen
	return s
}

// CreateSource registers the knowledge source backing an import job.
func (s *IngestService) CreateSource(ctx context.Context, job *domain.ImportJob, recordCount int) (*domain.KnowledgeSource, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.CreateSource", telemetry.SpanAttributes{
		JobID:      job.ID,
		SourceType: string(job.SourceType),
		Operation:  "create_source",
	})
	defer span.End()

	metadata := map[string]any{
		"category":      job.Category,
		"import_method": string(job.SourceType),
		"record_count":  recordCount,
	}
	if len(job.Tags) > 0 {
		metadata["tags"] = job.Tags
	}
	// Syndication feeds stay live after the import and are eligible for
	// scheduled refreshes.
	if job.SourceType == domain.SourceTypeFeed {
		metadata["auto_update"] = true
		metadata["update_frequency"] = "daily"
	}

	source := domain.NewKnowledgeSource(
		s.uuidGen.NewString(),
		fmt.Sprintf("%s import", job.Category),
		job.SourceLocation,
		job.SourceType,
		metadata,
		time.Now().UTC(),
	)
	if err := domain.ValidateKnowledgeSource(source); err != nil {
		span.SetError(err)
		return nil, err
	}
	if err := s.store.CreateSource(ctx, source); err != nil {
		span.SetError(err)
		return nil, err
	}
	return source, nil
}

// IngestRecord normalizes, embeds and stores a single raw record. Page
// records are fetched and cleaned; structured records are mapped from
// their fields. A failed embedding is not fatal; the record is stored
// without a vector so a later pass can backfill it.
func (s *IngestService) IngestRecord(ctx context.Context, job *domain.ImportJob, source *domain.KnowledgeSource, raw domain.RawRecord, index int) error {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.IngestRecord", telemetry.SpanAttributes{
		JobID:     job.ID,
		SourceID:  source.ID,
		Operation: "ingest_record",
	})
	defer span.End()

	var nr *domain.NormalizedRecord
	var err error
	if raw.IsPage() {
		nr, err = s.normalizePage(ctx, source, raw.PageURL)
	} else {
		nr, err = normalize.NormalizeFields(raw.Fields, normalize.RecordContext{
			SourceID: source.ID,
			Category: job.Category,
			Scheme:   locatorScheme(job.SourceType),
			Index:    index,
		})
	}
	if err != nil {
		return err
	}

	return s.storeRecord(ctx, job, source, nr)
}

func (s *IngestService) normalizePage(ctx context.Context, source *domain.KnowledgeSource, pageURL string) (*domain.NormalizedRecord, error) {
	content, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, source.ID, pageURL, content); err != nil {
			// Snapshots are best effort; the import proceeds without one.
			log.Printf("ingest: failed to archive snapshot for %s: %v", pageURL, err)
		}
	}

	return s.pages.NormalizeHTML(pageURL, content)
}

func (s *IngestService) storeRecord(ctx context.Context, job *domain.ImportJob, source *domain.KnowledgeSource, nr *domain.NormalizedRecord) error {
	metadata := make(map[string]any, len(nr.Metadata)+2)
	for k, v := range nr.Metadata {
		metadata[k] = v
	}
	metadata["category"] = job.Category
	if len(job.Tags) > 0 {
		metadata["tags"] = job.Tags
	}

	record := &domain.KnowledgeRecord{
		ID:        s.uuidGen.NewString(),
		SourceID:  source.ID,
		Locator:   nr.Locator,
		Title:     nr.Title,
		Body:      nr.Body,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, fmt.Sprintf("%s\n\n%s", nr.Title, nr.Body))
	if err != nil {
		log.Printf("ingest: embedding failed for %s, storing without vector: %v", nr.Locator, err)
	} else {
		now := time.Now().UTC()
		record.Embedding = embedding
		record.EmbeddingModel = s.embedder.ModelName()
		record.EmbeddingGeneratedAt = &now
	}

	if err := domain.ValidateKnowledgeRecord(record); err != nil {
		return err
	}
	return s.store.CreateRecord(ctx, record)
}

// locatorScheme prefixes synthetic locators for records without a URL.
func locatorScheme(t domain.SourceType) string {
	switch t {
	case domain.SourceTypeTabular:
		return "csv"
	case domain.SourceTypeAPIFeed:
		return "api"
	case domain.SourceTypeFeed:
		return "feed"
	default:
		return "record"
	}
}
