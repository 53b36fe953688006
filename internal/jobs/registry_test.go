package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javariai/corpus/internal/domain"
)

func newTestJob(id string, createdAt time.Time) *domain.ImportJob {
	return domain.NewImportJob(id, domain.SourceTypeTabular, "https://example.com/data.csv", "grants", nil, createdAt)
}

func TestRegistry_AddAndGet(t *testing.T) {
	registry := NewRegistry()
	job := newTestJob("job-1", time.Now().UTC())

	registry.Add(job)

	got, err := registry.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", got.ID)
	assert.Equal(t, domain.JobStatusQueued, got.Status)

	// The registry holds its own copy; mutating the original must not
	// leak through.
	job.Status = domain.JobStatusFailed
	got, err = registry.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusQueued, got.Status)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("missing")
	assert.ErrorIs(t, err, domain.ErrImportJobNotFound)
}

func TestRegistry_List_NewestFirst(t *testing.T) {
	registry := NewRegistry()
	base := time.Now().UTC()
	registry.Add(newTestJob("job-old", base.Add(-2*time.Minute)))
	registry.Add(newTestJob("job-mid", base.Add(-time.Minute)))
	registry.Add(newTestJob("job-new", base))

	jobs := registry.List()
	require.Len(t, jobs, 3)
	assert.Equal(t, "job-new", jobs[0].ID)
	assert.Equal(t, "job-mid", jobs[1].ID)
	assert.Equal(t, "job-old", jobs[2].ID)
}

func TestRegistry_Lifecycle(t *testing.T) {
	registry := NewRegistry()
	registry.Add(newTestJob("job-1", time.Now().UTC()))

	require.NoError(t, registry.MarkProcessing("job-1"))
	got, _ := registry.Get("job-1")
	assert.Equal(t, domain.JobStatusProcessing, got.Status)
	require.NotNil(t, got.StartedAt)
	startedAt := *got.StartedAt

	// A second MarkProcessing must not reset the start time.
	require.NoError(t, registry.MarkProcessing("job-1"))
	got, _ = registry.Get("job-1")
	assert.Equal(t, startedAt, *got.StartedAt)

	require.NoError(t, registry.SetTotal("job-1", 120))
	require.NoError(t, registry.AdvanceProcessed("job-1", 50))
	require.NoError(t, registry.AdvanceProcessed("job-1", 50))
	got, _ = registry.Get("job-1")
	assert.Equal(t, 100, got.Processed)
	assert.Equal(t, 120, got.Total)

	require.NoError(t, registry.MarkCompleted("job-1"))
	got, _ = registry.Get("job-1")
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.Terminal())
}

func TestRegistry_MarkFailed(t *testing.T) {
	registry := NewRegistry()
	registry.Add(newTestJob("job-1", time.Now().UTC()))

	require.NoError(t, registry.MarkProcessing("job-1"))
	require.NoError(t, registry.MarkFailed("job-1", "sitemap unreachable"))

	got, _ := registry.Get("job-1")
	assert.Equal(t, domain.JobStatusFailed, got.Status)
	assert.Equal(t, "sitemap unreachable", got.ErrorDetail)
	require.NotNil(t, got.CompletedAt)

	// Terminal states are final.
	require.NoError(t, registry.MarkCompleted("job-1"))
	got, _ = registry.Get("job-1")
	assert.Equal(t, domain.JobStatusFailed, got.Status)
}

func TestRegistry_AdvanceProcessed_IgnoresNonPositive(t *testing.T) {
	registry := NewRegistry()
	registry.Add(newTestJob("job-1", time.Now().UTC()))

	require.NoError(t, registry.AdvanceProcessed("job-1", 10))
	require.NoError(t, registry.AdvanceProcessed("job-1", 0))
	require.NoError(t, registry.AdvanceProcessed("job-1", -5))

	got, _ := registry.Get("job-1")
	assert.Equal(t, 10, got.Processed)
}
