package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javariai/corpus/internal/adapter"
	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
)

// fakeAdapter serves canned records with a configurable batch policy.
type fakeAdapter struct {
	records    []domain.RawRecord
	err        error
	batchSize  int
	batchPause time.Duration
}

func (a *fakeAdapter) Enumerate(ctx context.Context, location string) ([]domain.RawRecord, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.records, nil
}

func (a *fakeAdapter) BatchSize() int             { return a.batchSize }
func (a *fakeAdapter) BatchPause() time.Duration  { return a.batchPause }

// fakeIngester records calls and can fail selected record indexes.
type fakeIngester struct {
	mu          sync.Mutex
	ingested    []int
	failIndexes map[int]error
	sourceErr   error
}

func (f *fakeIngester) CreateSource(ctx context.Context, job *domain.ImportJob, recordCount int) (*domain.KnowledgeSource, error) {
	if f.sourceErr != nil {
		return nil, f.sourceErr
	}
	return domain.NewKnowledgeSource("src-1", job.Category+" import", job.SourceLocation, job.SourceType, map[string]any{}, time.Now().UTC()), nil
}

func (f *fakeIngester) IngestRecord(ctx context.Context, job *domain.ImportJob, source *domain.KnowledgeSource, raw domain.RawRecord, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failIndexes[index]; ok {
		return err
	}
	f.ingested = append(f.ingested, index)
	return nil
}

func (f *fakeIngester) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ingested)
}

func tabularRecords(n int) []domain.RawRecord {
	records := make([]domain.RawRecord, n)
	for i := range records {
		records[i] = domain.RawRecord{Fields: map[string]any{
			"title":   fmt.Sprintf("Row %d", i),
			"content": fmt.Sprintf("Content for row %d", i),
		}}
	}
	return records
}

func newTestOrchestrator(src adapter.Adapter, ingester Ingester) *Orchestrator {
	o := NewOrchestrator(NewRegistry(), ingester, fetch.NewFetcher(time.Second))
	o.selector = func(t domain.SourceType, fetcher *fetch.Fetcher) (adapter.Adapter, error) {
		return src, nil
	}
	o.sleep = func(time.Duration) {}
	return o
}

func TestOrchestrator_CreateJob_Validation(t *testing.T) {
	o := newTestOrchestrator(&fakeAdapter{batchSize: 1}, &fakeIngester{})

	tests := []struct {
		name  string
		input CreateJobInput
	}{
		{"missing source type", CreateJobInput{SourceLocation: "https://example.com", Category: "grants"}},
		{"missing location", CreateJobInput{SourceType: "tabular", Category: "grants"}},
		{"missing category", CreateJobInput{SourceType: "tabular", SourceLocation: "https://example.com"}},
		{"unknown source type", CreateJobInput{SourceType: "carrier-pigeon", SourceLocation: "https://example.com", Category: "grants"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.CreateJob(context.Background(), tt.input)
			require.Error(t, err)

			var derr *domain.DomainError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, domain.ErrCodeValidation, derr.Code)
		})
	}
}

func TestOrchestrator_CreateJob_ReturnsQueuedImmediately(t *testing.T) {
	o := newTestOrchestrator(&fakeAdapter{records: tabularRecords(3), batchSize: 50}, &fakeIngester{})

	job, err := o.CreateJob(context.Background(), CreateJobInput{
		SourceType:     "tabular",
		SourceLocation: "https://example.com/data.csv",
		Category:       "grants",
		Tags:           []string{"funding"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, domain.JobStatusQueued, job.Status)

	o.Wait()

	done, err := o.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, done.Status)
	assert.Equal(t, 3, done.Total)
	assert.Equal(t, 3, done.Processed)
	require.NotNil(t, done.StartedAt)
	require.NotNil(t, done.CompletedAt)
}

func TestOrchestrator_BatchProgress(t *testing.T) {
	// 120 records in batches of 50 advance progress at 50, 100 and 120.
	src := &fakeAdapter{records: tabularRecords(120), batchSize: 50, batchPause: time.Millisecond}
	ingester := &fakeIngester{}
	o := newTestOrchestrator(src, ingester)

	var progress []int
	o.sleep = func(time.Duration) {
		// Only one job exists, so the listing pins it down.
		jobs := o.ListJobs()
		if len(jobs) == 1 {
			progress = append(progress, jobs[0].Processed)
		}
	}

	job, err := o.CreateJob(context.Background(), CreateJobInput{
		SourceType:     "tabular",
		SourceLocation: "https://example.com/data.csv",
		Category:       "grants",
	})
	require.NoError(t, err)

	o.Wait()

	assert.Equal(t, []int{50, 100}, progress)
	done, err := o.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, done.Status)
	assert.Equal(t, 120, done.Processed)
	assert.Equal(t, 120, done.Total)
	assert.Equal(t, 120, ingester.count())
}

func TestOrchestrator_EnumerateFailure_FailsJob(t *testing.T) {
	src := &fakeAdapter{err: domain.NewFetchError("https://example.com/sitemap.xml", errors.New("connection refused")), batchSize: 10}
	o := newTestOrchestrator(src, &fakeIngester{})

	job, err := o.CreateJob(context.Background(), CreateJobInput{
		SourceType:     "link-list",
		SourceLocation: "https://example.com/sitemap.xml",
		Category:       "real_estate",
	})
	require.NoError(t, err)

	o.Wait()

	done, err := o.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, done.Status)
	assert.Contains(t, done.ErrorDetail, "failed to fetch")
	require.NotNil(t, done.CompletedAt)
}

func TestOrchestrator_RecordFailures_AreSkipped(t *testing.T) {
	src := &fakeAdapter{records: tabularRecords(10), batchSize: 50}
	ingester := &fakeIngester{failIndexes: map[int]error{
		3: errors.New("embedding blew up"),
		7: errors.New("bad row"),
	}}
	o := newTestOrchestrator(src, ingester)

	job, err := o.CreateJob(context.Background(), CreateJobInput{
		SourceType:     "tabular",
		SourceLocation: "https://example.com/data.csv",
		Category:       "grants",
	})
	require.NoError(t, err)

	o.Wait()

	done, err := o.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, done.Status)
	// The counter tracks attempted records, not successes.
	assert.Equal(t, 10, done.Processed)
	assert.Equal(t, 8, ingester.count())
}

func TestOrchestrator_EmptySource_Completes(t *testing.T) {
	src := &fakeAdapter{records: nil, batchSize: 50}
	o := newTestOrchestrator(src, &fakeIngester{})

	job, err := o.CreateJob(context.Background(), CreateJobInput{
		SourceType:     "tabular",
		SourceLocation: "https://example.com/empty.csv",
		Category:       "grants",
	})
	require.NoError(t, err)

	o.Wait()

	done, err := o.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, done.Status)
	assert.Equal(t, 0, done.Total)
	assert.Equal(t, 0, done.Processed)
}

func TestOrchestrator_CreateSourceFailure_FailsJob(t *testing.T) {
	src := &fakeAdapter{records: tabularRecords(5), batchSize: 50}
	o := newTestOrchestrator(src, &fakeIngester{sourceErr: errors.New("insert failed")})

	job, err := o.CreateJob(context.Background(), CreateJobInput{
		SourceType:     "tabular",
		SourceLocation: "https://example.com/data.csv",
		Category:       "grants",
	})
	require.NoError(t, err)

	o.Wait()

	done, err := o.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, done.Status)
}
