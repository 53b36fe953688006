package jobs

import (
	"sort"
	"sync"
	"time"

	"github.com/javariai/corpus/internal/domain"
)

// Registry tracks import jobs in process memory. All reads return
// clones, so callers never observe a job mid-mutation.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*domain.ImportJob
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*domain.ImportJob)}
}

// Add registers a job. The registry keeps its own copy.
func (r *Registry) Add(job *domain.ImportJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job.Clone()
}

// Get returns a snapshot of the job with the given id.
func (r *Registry) Get(id string) (*domain.ImportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrImportJobNotFound
	}
	return job.Clone(), nil
}

// List returns snapshots of all jobs, newest first.
func (r *Registry) List() []*domain.ImportJob {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.ImportJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		result = append(result, job.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (r *Registry) update(id string, fn func(job *domain.ImportJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrImportJobNotFound
	}
	fn(job)
	return nil
}

// MarkProcessing transitions a queued job to processing and stamps its
// start time.
func (r *Registry) MarkProcessing(id string) error {
	return r.update(id, func(job *domain.ImportJob) {
		if job.Status != domain.JobStatusQueued {
			return
		}
		now := time.Now().UTC()
		job.Status = domain.JobStatusProcessing
		job.StartedAt = &now
	})
}

// SetTotal records the number of records the job will process.
func (r *Registry) SetTotal(id string, total int) error {
	return r.update(id, func(job *domain.ImportJob) {
		job.Total = total
	})
}

// AdvanceProcessed adds n to the job's processed counter. Progress only
// moves forward.
func (r *Registry) AdvanceProcessed(id string, n int) error {
	return r.update(id, func(job *domain.ImportJob) {
		if n > 0 {
			job.Processed += n
		}
	})
}

// MarkCompleted transitions a processing job to completed.
func (r *Registry) MarkCompleted(id string) error {
	return r.update(id, func(job *domain.ImportJob) {
		if job.Terminal() {
			return
		}
		now := time.Now().UTC()
		job.Status = domain.JobStatusCompleted
		job.CompletedAt = &now
	})
}

// MarkFailed transitions a job to failed with a reason.
func (r *Registry) MarkFailed(id string, detail string) error {
	return r.update(id, func(job *domain.ImportJob) {
		if job.Terminal() {
			return
		}
		now := time.Now().UTC()
		job.Status = domain.JobStatusFailed
		job.CompletedAt = &now
		job.ErrorDetail = detail
	})
}
