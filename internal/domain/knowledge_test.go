package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewKnowledgeSource(t *testing.T) {
	now := time.Now().UTC()
	meta := map[string]any{"category": "legal", "tags": []string{"contracts"}}
	src := NewKnowledgeSource("src-1", "legal", "https://example.com/feed.xml", SourceTypeFeed, meta, now)

	assert.Equal(t, "src-1", src.ID)
	assert.Equal(t, "legal", src.Name)
	assert.Equal(t, "https://example.com/feed.xml", src.OriginLocation)
	assert.Equal(t, SourceTypeFeed, src.IngestMethod)
	assert.Equal(t, meta, src.Metadata)
	assert.Equal(t, now, src.CreatedAt)
}

func TestValidateKnowledgeSource(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid source passes", func(t *testing.T) {
		src := NewKnowledgeSource("src-1", "grants", "https://example.com", SourceTypeSingleURL, nil, now)
		assert.NoError(t, ValidateKnowledgeSource(src))
	})

	t.Run("nil source fails", func(t *testing.T) {
		assert.Error(t, ValidateKnowledgeSource(nil))
	})

	t.Run("missing name fails", func(t *testing.T) {
		src := NewKnowledgeSource("src-1", "", "https://example.com", SourceTypeSingleURL, nil, now)
		assert.Error(t, ValidateKnowledgeSource(src))
	})

	t.Run("invalid ingest method fails", func(t *testing.T) {
		src := NewKnowledgeSource("src-1", "grants", "https://example.com", "ftp", nil, now)
		assert.Error(t, ValidateKnowledgeSource(src))
	})
}

func TestKnowledgeRecord_HasEmbedding(t *testing.T) {
	rec := &KnowledgeRecord{}
	assert.False(t, rec.HasEmbedding())

	rec.Embedding = []float32{0.1, 0.2}
	assert.True(t, rec.HasEmbedding())
}

func TestValidateKnowledgeRecord(t *testing.T) {
	valid := func() *KnowledgeRecord {
		return &KnowledgeRecord{
			ID:       "rec-1",
			SourceID: "src-1",
			Locator:  "https://example.com/page",
			Title:    "A Page",
			Body:     "Some body text",
		}
	}

	t.Run("valid record passes", func(t *testing.T) {
		assert.NoError(t, ValidateKnowledgeRecord(valid()))
	})

	t.Run("record without embedding is still valid", func(t *testing.T) {
		rec := valid()
		rec.Embedding = nil
		assert.NoError(t, ValidateKnowledgeRecord(rec))
	})

	t.Run("missing source ID fails", func(t *testing.T) {
		rec := valid()
		rec.SourceID = ""
		assert.Error(t, ValidateKnowledgeRecord(rec))
	})

	t.Run("missing locator fails", func(t *testing.T) {
		rec := valid()
		rec.Locator = ""
		assert.Error(t, ValidateKnowledgeRecord(rec))
	})

	t.Run("missing body fails", func(t *testing.T) {
		rec := valid()
		rec.Body = ""
		assert.Error(t, ValidateKnowledgeRecord(rec))
	})
}

func TestRawRecord_IsPage(t *testing.T) {
	page := RawRecord{PageURL: "https://example.com/a"}
	assert.True(t, page.IsPage())

	row := RawRecord{Fields: map[string]any{"title": "x"}}
	assert.False(t, row.IsPage())
}

func TestDomainError(t *testing.T) {
	err := NewDomainError(ErrCodeFormat, "bad payload")
	assert.Equal(t, "[FORMAT_ERROR] bad payload", err.Error())
	assert.Nil(t, err.Unwrap())

	wrapped := NewFetchError("https://example.com", assert.AnError)
	assert.Contains(t, wrapped.Error(), "FETCH_ERROR")
	assert.Contains(t, wrapped.Error(), "https://example.com")
	assert.Equal(t, assert.AnError, wrapped.Unwrap())
}
