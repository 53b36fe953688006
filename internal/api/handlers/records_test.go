package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/pagination"
)

// MockRecordLister is a mock for the RecordLister interface
type MockRecordLister struct {
	mock.Mock
}

func (m *MockRecordLister) GetSourceByID(ctx context.Context, id string) (*domain.KnowledgeSource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeSource), args.Error(1)
}

func (m *MockRecordLister) ListRecordsPage(ctx context.Context, sourceID string, limit int, cursor *pagination.Cursor) ([]*domain.KnowledgeRecord, error) {
	args := m.Called(ctx, sourceID, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeRecord), args.Error(1)
}

func testRecords(n int, base time.Time) []*domain.KnowledgeRecord {
	records := make([]*domain.KnowledgeRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, &domain.KnowledgeRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			SourceID:  "src-1",
			Locator:   fmt.Sprintf("csv://src-1/%d", i),
			Title:     fmt.Sprintf("record %d", i),
			Body:      "body",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
	return records
}

func TestRecordsHandler_List(t *testing.T) {
	repo := new(MockRecordLister)
	handler := NewRecordsHandler(repo)

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	repo.On("GetSourceByID", mock.Anything, "src-1").Return(&domain.KnowledgeSource{ID: "src-1"}, nil)
	repo.On("ListRecordsPage", mock.Anything, "src-1", 2, (*pagination.Cursor)(nil)).
		Return(testRecords(2, base), nil)

	req := httptest.NewRequest(http.MethodGet, "/knowledge/records?source_id=src-1&limit=2", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data pagination.PageResult[RecordSummary] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 2)
	assert.Equal(t, "rec-0", resp.Data.Items[0].ID)
	assert.Equal(t, "csv://src-1/0", resp.Data.Items[0].Locator)
	assert.False(t, resp.Data.Items[0].HasEmbedding)

	// A full page carries a cursor pointing at its last record.
	assert.True(t, resp.Data.HasMore)
	cursor, err := pagination.DecodeCursor(resp.Data.Cursor)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", cursor.LastID)
}

func TestRecordsHandler_List_LastPage(t *testing.T) {
	repo := new(MockRecordLister)
	handler := NewRecordsHandler(repo)

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	repo.On("GetSourceByID", mock.Anything, "src-1").Return(&domain.KnowledgeSource{ID: "src-1"}, nil)
	repo.On("ListRecordsPage", mock.Anything, "src-1", 50, (*pagination.Cursor)(nil)).
		Return(testRecords(3, base), nil)

	req := httptest.NewRequest(http.MethodGet, "/knowledge/records?source_id=src-1", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data pagination.PageResult[RecordSummary] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 3)
	assert.False(t, resp.Data.HasMore)
	assert.Empty(t, resp.Data.Cursor)
}

func TestRecordsHandler_List_WithCursor(t *testing.T) {
	repo := new(MockRecordLister)
	handler := NewRecordsHandler(repo)

	ts := time.Date(2026, 3, 14, 11, 58, 0, 0, time.UTC)
	encoded := pagination.EncodeCursor("rec-1", ts)

	repo.On("GetSourceByID", mock.Anything, "src-1").Return(&domain.KnowledgeSource{ID: "src-1"}, nil)
	repo.On("ListRecordsPage", mock.Anything, "src-1", 50, mock.MatchedBy(func(c *pagination.Cursor) bool {
		return c != nil && c.LastID == "rec-1" && c.Timestamp.Equal(ts)
	})).Return([]*domain.KnowledgeRecord{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/knowledge/records?source_id=src-1&cursor="+encoded, nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestRecordsHandler_List_MissingSourceID(t *testing.T) {
	repo := new(MockRecordLister)
	handler := NewRecordsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/knowledge/records", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "ListRecordsPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordsHandler_List_InvalidCursor(t *testing.T) {
	repo := new(MockRecordLister)
	handler := NewRecordsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/knowledge/records?source_id=src-1&cursor=%21%21not-base64", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordsHandler_List_SourceNotFound(t *testing.T) {
	repo := new(MockRecordLister)
	handler := NewRecordsHandler(repo)

	repo.On("GetSourceByID", mock.Anything, "missing").Return(nil, domain.ErrKnowledgeSourceNotFound)

	req := httptest.NewRequest(http.MethodGet, "/knowledge/records?source_id=missing", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
