package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javariai/corpus/internal/domain"
)

// MockKnowledgeStore is a mock for the KnowledgeStore interface
type MockKnowledgeStore struct {
	mock.Mock
}

func (m *MockKnowledgeStore) CreateSource(ctx context.Context, s *domain.KnowledgeSource) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockKnowledgeStore) CreateRecord(ctx context.Context, r *domain.KnowledgeRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockEmbedder is a mock for the Embedder interface
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbedder) ModelName() string {
	args := m.Called()
	return args.String(0)
}

// MockPageReader is a mock for the PageReader interface
type MockPageReader struct {
	mock.Mock
}

func (m *MockPageReader) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockHTMLNormalizer is a mock for the HTMLNormalizer interface
type MockHTMLNormalizer struct {
	mock.Mock
}

func (m *MockHTMLNormalizer) NormalizeHTML(pageURL string, content []byte) (*domain.NormalizedRecord, error) {
	args := m.Called(pageURL, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizedRecord), args.Error(1)
}

// MockSnapshotArchiver is a mock for the SnapshotArchiver interface
type MockSnapshotArchiver struct {
	mock.Mock
}

func (m *MockSnapshotArchiver) Archive(ctx context.Context, sourceID, pageURL string, content []byte) error {
	args := m.Called(ctx, sourceID, pageURL, content)
	return args.Error(0)
}

// MockUUIDGenerator generates predictable IDs for testing
type MockUUIDGenerator struct {
	counter int
}

func (g *MockUUIDGenerator) NewString() string {
	g.counter++
	return fmt.Sprintf("test-uuid-%d", g.counter)
}

func testJob(sourceType domain.SourceType) *domain.ImportJob {
	return domain.NewImportJob("job-1", sourceType, "https://example.com/data.csv", "grants", []string{"funding"}, time.Now().UTC())
}

func testSource() *domain.KnowledgeSource {
	return &domain.KnowledgeSource{
		ID:             "src-1",
		Name:           "grants import",
		OriginLocation: "https://example.com/data.csv",
		IngestMethod:   domain.SourceTypeTabular,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestIngestService_CreateSource(t *testing.T) {
	store := new(MockKnowledgeStore)
	embedder := new(MockEmbedder)
	svc := NewIngestServiceWithUUIDGen(store, embedder, nil, nil, nil, &MockUUIDGenerator{})

	var created *domain.KnowledgeSource
	store.On("CreateSource", mock.Anything, mock.AnythingOfType("*domain.KnowledgeSource")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.KnowledgeSource)
		}).Return(nil)

	source, err := svc.CreateSource(context.Background(), testJob(domain.SourceTypeTabular), 42)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "test-uuid-1", source.ID)
	assert.Equal(t, "grants import", source.Name)
	assert.Equal(t, "https://example.com/data.csv", source.OriginLocation)
	assert.Equal(t, domain.SourceTypeTabular, source.IngestMethod)
	assert.Equal(t, "grants", source.Metadata["category"])
	assert.Equal(t, "tabular", source.Metadata["import_method"])
	assert.Equal(t, 42, source.Metadata["record_count"])
	assert.Equal(t, []string{"funding"}, source.Metadata["tags"])
	assert.NotContains(t, source.Metadata, "auto_update")
}

func TestIngestService_CreateSource_FeedGetsAutoUpdate(t *testing.T) {
	store := new(MockKnowledgeStore)
	embedder := new(MockEmbedder)
	svc := NewIngestServiceWithUUIDGen(store, embedder, nil, nil, nil, &MockUUIDGenerator{})

	store.On("CreateSource", mock.Anything, mock.Anything).Return(nil)

	source, err := svc.CreateSource(context.Background(), testJob(domain.SourceTypeFeed), 3)
	require.NoError(t, err)

	assert.Equal(t, true, source.Metadata["auto_update"])
	assert.Equal(t, "daily", source.Metadata["update_frequency"])
}

func TestIngestService_CreateSource_StoreError(t *testing.T) {
	store := new(MockKnowledgeStore)
	embedder := new(MockEmbedder)
	svc := NewIngestServiceWithUUIDGen(store, embedder, nil, nil, nil, &MockUUIDGenerator{})

	store.On("CreateSource", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := svc.CreateSource(context.Background(), testJob(domain.SourceTypeTabular), 1)
	assert.Error(t, err)
}

func TestIngestService_IngestRecord_Structured(t *testing.T) {
	store := new(MockKnowledgeStore)
	embedder := new(MockEmbedder)
	svc := NewIngestServiceWithUUIDGen(store, embedder, nil, nil, nil, &MockUUIDGenerator{})

	var stored *domain.KnowledgeRecord
	store.On("CreateRecord", mock.Anything, mock.AnythingOfType("*domain.KnowledgeRecord")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.KnowledgeRecord)
		}).Return(nil)
	embedder.On("GenerateEmbedding", mock.Anything, mock.AnythingOfType("string")).
		Return([]float32{0.1, 0.2}, nil)
	embedder.On("ModelName").Return("text-embedding-3-small")

	raw := domain.RawRecord{Fields: map[string]any{
		"title":       "Grant program",
		"description": "A funding opportunity for small businesses.",
	}}
	err := svc.IngestRecord(context.Background(), testJob(domain.SourceTypeTabular), testSource(), raw, 7)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, "src-1", stored.SourceID)
	assert.Equal(t, "csv://src-1/7", stored.Locator)
	assert.Equal(t, "Grant program", stored.Title)
	assert.Equal(t, []float32{0.1, 0.2}, stored.Embedding)
	assert.Equal(t, "text-embedding-3-small", stored.EmbeddingModel)
	assert.NotNil(t, stored.EmbeddingGeneratedAt)
	assert.Equal(t, "grants", stored.Metadata["category"])
	assert.Equal(t, []string{"funding"}, stored.Metadata["tags"])

	// Embedding input is title and body joined by a blank line
	embedCall := embedder.Calls[0]
	assert.Contains(t, embedCall.Arguments.String(1), "Grant program\n\n")
}

func TestIngestService_IngestRecord_Page(t *testing.T) {
	store := new(MockKnowledgeStore)
	embedder := new(MockEmbedder)
	fetcher := new(MockPageReader)
	pages := new(MockHTMLNormalizer)
	archiver := new(MockSnapshotArchiver)
	svc := NewIngestServiceWithUUIDGen(store, embedder, fetcher, pages, archiver, &MockUUIDGenerator{})

	html := []byte("<html><body>article</body></html>")
	fetcher.On("Fetch", mock.Anything, "https://example.com/page").Return(html, nil)
	archiver.On("Archive", mock.Anything, "src-1", "https://example.com/page", html).Return(nil)
	pages.On("NormalizeHTML", "https://example.com/page", html).Return(&domain.NormalizedRecord{
		Locator: "https://example.com/page",
		Title:   "Page title",
		Body:    "Page body text.",
	}, nil)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.5}, nil)
	embedder.On("ModelName").Return("text-embedding-3-small")
	store.On("CreateRecord", mock.Anything, mock.Anything).Return(nil)

	raw := domain.RawRecord{PageURL: "https://example.com/page"}
	err := svc.IngestRecord(context.Background(), testJob(domain.SourceTypeSingleURL), testSource(), raw, 0)
	require.NoError(t, err)

	fetcher.AssertExpectations(t)
	archiver.AssertExpectations(t)
	pages.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestIngestService_IngestRecord_ArchiveFailureIsNotFatal(t *testing.T) {
	store := new(MockKnowledgeStore)
	embedder := new(MockEmbedder)
	fetcher := new(MockPageReader)
	pages := new(MockHTMLNormalizer)
	archiver := new(MockSnapshotArchiver)
	svc := NewIngestServiceWithUUIDGen(store, embedder, fetcher, pages, archiver, &MockUUIDGenerator{})

	html := []byte("<html></html>")
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(html, nil)
	archiver.On("Archive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("bucket unavailable"))
	pages.On("NormalizeHTML", mock.Anything, mock.Anything).Return(&domain.NormalizedRecord{
		Locator: "https://example.com/page",
		Title:   "Title",
		Body:    "Body.",
	}, nil)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.5}, nil)
	embedder.On("ModelName").Return("text-embedding-3-small")
	store.On("CreateRecord", mock.Anything, mock.Anything).Return(nil)

	raw := domain.RawRecord{PageURL: "https://example.com/page"}
	err := svc.IngestRecord(context.Background(), testJob(domain.SourceTypeSingleURL), testSource(), raw, 0)
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestIngestService_IngestRecord_FetchError(t *testing.T) {
	store := new(MockKnowledgeStore)
	embedder := new(MockEmbedder)
	fetcher := new(MockPageReader)
	pages := new(MockHTMLNormalizer)
	svc := NewIngestServiceWithUUIDGen(store, embedder, fetcher, pages, nil, &MockUUIDGenerator{})

	fetcher.On("Fetch", mock.Anything, mock.Anything).
		Return(nil, domain.NewFetchError("https://example.com/page", errors.New("timeout")))

	raw := domain.RawRecord{PageURL: "https://example.com/page"}
	err := svc.IngestRecord(context.Background(), testJob(domain.SourceTypeSingleURL), testSource(), raw, 0)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeFetch, domainErr.Code)
	store.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
}

func TestIngestService_IngestRecord_EmbeddingFailureStoresWithoutVector(t *testing.T) {
	store := new(MockKnowledgeStore)
	embedder := new(MockEmbedder)
	svc := NewIngestServiceWithUUIDGen(store, embedder, nil, nil, nil, &MockUUIDGenerator{})

	var stored *domain.KnowledgeRecord
	store.On("CreateRecord", mock.Anything, mock.AnythingOfType("*domain.KnowledgeRecord")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.KnowledgeRecord)
		}).Return(nil)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).
		Return(nil, domain.NewEmbeddingError(errors.New("rate limited")))

	raw := domain.RawRecord{Fields: map[string]any{
		"title":       "Grant program",
		"description": "A funding opportunity.",
	}}
	err := svc.IngestRecord(context.Background(), testJob(domain.SourceTypeTabular), testSource(), raw, 0)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Nil(t, stored.Embedding)
	assert.Empty(t, stored.EmbeddingModel)
	assert.Nil(t, stored.EmbeddingGeneratedAt)
}

func TestLocatorScheme(t *testing.T) {
	assert.Equal(t, "csv", locatorScheme(domain.SourceTypeTabular))
	assert.Equal(t, "api", locatorScheme(domain.SourceTypeAPIFeed))
	assert.Equal(t, "feed", locatorScheme(domain.SourceTypeFeed))
	assert.Equal(t, "record", locatorScheme(domain.SourceTypeSingleURL))
}
