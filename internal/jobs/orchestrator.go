package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/javariai/corpus/internal/adapter"
	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
	"github.com/javariai/corpus/internal/normalize"
	"github.com/javariai/corpus/internal/service"
	"github.com/javariai/corpus/internal/telemetry"
)

// Ingester is the slice of the ingest service the orchestrator drives.
type Ingester interface {
	CreateSource(ctx context.Context, job *domain.ImportJob, recordCount int) (*domain.KnowledgeSource, error)
	IngestRecord(ctx context.Context, job *domain.ImportJob, source *domain.KnowledgeSource, raw domain.RawRecord, index int) error
}

// AdapterSelector picks the adapter for a source type. Indirection so
// tests can substitute adapters without a network.
type AdapterSelector func(t domain.SourceType, fetcher *fetch.Fetcher) (adapter.Adapter, error)

// CreateJobInput carries the fields of an import job request.
type CreateJobInput struct {
	SourceType     string
	SourceLocation string
	Category       string
	Tags           []string
}

// Orchestrator accepts import jobs and drives them to completion in
// background goroutines. Job state lives in the Registry; the actual
// record work is delegated to the Ingester.
type Orchestrator struct {
	registry *Registry
	ingester Ingester
	fetcher  *fetch.Fetcher
	selector AdapterSelector
	uuidGen  service.UUIDGenerator
	sleep    func(time.Duration)

	wg sync.WaitGroup
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(registry *Registry, ingester Ingester, fetcher *fetch.Fetcher) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		ingester: ingester,
		fetcher:  fetcher,
		selector: adapter.ForSourceType,
		uuidGen:  &service.DefaultUUIDGenerator{},
		sleep:    time.Sleep,
	}
}

// CreateJob validates the request, registers a queued job and starts
// its import in the background. The queued job is returned immediately.
func (o *Orchestrator) CreateJob(ctx context.Context, input CreateJobInput) (*domain.ImportJob, error) {
	if input.SourceType == "" || input.SourceLocation == "" || input.Category == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "sourceType, sourceLocation and category are required")
	}
	sourceType := domain.SourceType(input.SourceType)
	if !domain.IsValidSourceType(sourceType) {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, fmt.Sprintf("unsupported source type: %s", input.SourceType))
	}

	job := domain.NewImportJob(
		o.uuidGen.NewString(),
		sourceType,
		input.SourceLocation,
		input.Category,
		input.Tags,
		time.Now().UTC(),
	)
	if err := domain.ValidateImportJob(job); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid import job", err)
	}

	o.registry.Add(job)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		// The request context ends with the HTTP response; the import
		// keeps running on its own context.
		o.runImport(context.Background(), job.Clone())
	}()

	return job, nil
}

// GetJob returns a snapshot of a job's current state.
func (o *Orchestrator) GetJob(id string) (*domain.ImportJob, error) {
	return o.registry.Get(id)
}

// ListJobs returns snapshots of all jobs, newest first.
func (o *Orchestrator) ListJobs() []*domain.ImportJob {
	return o.registry.List()
}

// Wait blocks until all running imports have finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) runImport(ctx context.Context, job *domain.ImportJob) {
	ctx, span := telemetry.StartSpan(ctx, "Orchestrator.runImport", telemetry.SpanAttributes{
		JobID:      job.ID,
		SourceType: string(job.SourceType),
		Operation:  "import",
	})
	defer span.End()

	if err := o.registry.MarkProcessing(job.ID); err != nil {
		log.Printf("job %s: %v", job.ID, err)
		return
	}

	src, err := o.selector(job.SourceType, o.fetcher)
	if err != nil {
		o.fail(ctx, job.ID, err)
		return
	}

	records, err := src.Enumerate(ctx, job.SourceLocation)
	if err != nil {
		o.fail(ctx, job.ID, err)
		return
	}

	if err := o.registry.SetTotal(job.ID, len(records)); err != nil {
		log.Printf("job %s: %v", job.ID, err)
		return
	}

	source, err := o.ingester.CreateSource(ctx, job, len(records))
	if err != nil {
		o.fail(ctx, job.ID, err)
		return
	}

	batchSize := src.BatchSize()
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(index int, raw domain.RawRecord) {
				defer wg.Done()
				if err := o.ingester.IngestRecord(ctx, job, source, raw, index); err != nil {
					// A bad record never fails the job; it is logged
					// and skipped.
					if errors.Is(err, normalize.ErrContentTooShort) {
						log.Printf("job %s: record %d skipped: content too short", job.ID, index)
					} else {
						log.Printf("job %s: record %d skipped: %v", job.ID, index, err)
					}
				}
			}(i, records[i])
		}
		wg.Wait()

		if err := o.registry.AdvanceProcessed(job.ID, end-start); err != nil {
			log.Printf("job %s: %v", job.ID, err)
			return
		}

		if pause := src.BatchPause(); pause > 0 && end < len(records) {
			o.sleep(pause)
		}
	}

	if err := o.registry.MarkCompleted(job.ID); err != nil {
		log.Printf("job %s: %v", job.ID, err)
	}
	log.Printf("job %s: completed, %d records processed", job.ID, len(records))
}

func (o *Orchestrator) fail(ctx context.Context, jobID string, cause error) {
	telemetry.CaptureError(ctx, cause)
	log.Printf("job %s: failed: %v", jobID, cause)
	if err := o.registry.MarkFailed(jobID, cause.Error()); err != nil {
		log.Printf("job %s: %v", jobID, err)
	}
}
