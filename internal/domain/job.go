package domain

import (
	"fmt"
	"time"
)

// SourceType identifies the shape of an external content source
type SourceType string

const (
	SourceTypeSingleURL SourceType = "single-url"
	SourceTypeLinkList  SourceType = "link-list"
	SourceTypeTabular   SourceType = "tabular"
	SourceTypeAPIFeed   SourceType = "api-feed"
	SourceTypeFeed      SourceType = "syndication-feed"
)

// JobStatus represents the lifecycle state of an import job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ImportJob tracks one ingestion run from a single source into the
// knowledge store. Jobs live only in process memory and are lost on
// restart; that is an accepted limitation of the registry.
type ImportJob struct {
	ID             string
	SourceType     SourceType
	SourceLocation string
	Category       string
	Tags           []string
	Status         JobStatus
	Processed      int
	Total          int
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	ErrorDetail    string
}

// NewImportJob creates a queued ImportJob
func NewImportJob(id string, sourceType SourceType, sourceLocation, category string, tags []string, createdAt time.Time) *ImportJob {
	return &ImportJob{
		ID:             id,
		SourceType:     sourceType,
		SourceLocation: sourceLocation,
		Category:       category,
		Tags:           tags,
		Status:         JobStatusQueued,
		Processed:      0,
		Total:          0,
		CreatedAt:      createdAt,
	}
}

// Clone returns a copy safe to hand to concurrent readers.
func (j *ImportJob) Clone() *ImportJob {
	cp := *j
	if j.Tags != nil {
		cp.Tags = append([]string(nil), j.Tags...)
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		cp.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

// Terminal reports whether the job has reached a final state.
func (j *ImportJob) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// ValidateImportJob validates an ImportJob instance
func ValidateImportJob(j *ImportJob) error {
	if j == nil {
		return fmt.Errorf("import job cannot be nil")
	}

	if j.ID == "" {
		return fmt.Errorf("import job ID is required")
	}

	if j.SourceLocation == "" {
		return fmt.Errorf("import job SourceLocation is required")
	}

	if j.Category == "" {
		return fmt.Errorf("import job Category is required")
	}

	if !IsValidSourceType(j.SourceType) {
		return fmt.Errorf("import job SourceType is invalid: %s", j.SourceType)
	}

	if !isValidJobStatus(j.Status) {
		return fmt.Errorf("import job Status is invalid: %s", j.Status)
	}

	if j.Processed < 0 || j.Total < 0 {
		return fmt.Errorf("import job counters cannot be negative")
	}

	if j.Total > 0 && j.Processed > j.Total {
		return fmt.Errorf("import job Processed (%d) exceeds Total (%d)", j.Processed, j.Total)
	}

	return nil
}

// IsValidSourceType checks if a SourceType is one of the five supported shapes
func IsValidSourceType(t SourceType) bool {
	switch t {
	case SourceTypeSingleURL, SourceTypeLinkList, SourceTypeTabular,
		SourceTypeAPIFeed, SourceTypeFeed:
		return true
	}
	return false
}

// isValidJobStatus checks if a JobStatus is valid
func isValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusQueued, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}
