package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/javariai/corpus/internal/adapter"
	"github.com/javariai/corpus/internal/api"
	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/jobs"
)

type ImportJobService interface {
	CreateJob(ctx context.Context, input jobs.CreateJobInput) (*domain.ImportJob, error)
	GetJob(id string) (*domain.ImportJob, error)
	ListJobs() []*domain.ImportJob
}

type ImportJobHandler struct {
	svc ImportJobService
}

func NewImportJobHandler(svc ImportJobService) *ImportJobHandler {
	return &ImportJobHandler{svc: svc}
}

type CreateImportJobRequest struct {
	SourceType     string   `json:"source_type"`
	SourceLocation string   `json:"source_location"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
}

type CreateImportJobResponse struct {
	JobID             string `json:"job_id"`
	Status            string `json:"status"`
	EstimatedDuration string `json:"estimated_duration"`
}

type ImportJobResponse struct {
	ID             string   `json:"id"`
	SourceType     string   `json:"source_type"`
	SourceLocation string   `json:"source_location"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags,omitempty"`
	Status         string   `json:"status"`
	Processed      int      `json:"processed"`
	Total          int      `json:"total"`
	CreatedAt      string   `json:"created_at"`
	StartedAt      *string  `json:"started_at,omitempty"`
	CompletedAt    *string  `json:"completed_at,omitempty"`
	Error          string   `json:"error,omitempty"`
}

func importJobToResponse(j *domain.ImportJob) *ImportJobResponse {
	resp := &ImportJobResponse{
		ID:             j.ID,
		SourceType:     string(j.SourceType),
		SourceLocation: j.SourceLocation,
		Category:       j.Category,
		Tags:           j.Tags,
		Status:         string(j.Status),
		Processed:      j.Processed,
		Total:          j.Total,
		CreatedAt:      j.CreatedAt.Format(time.RFC3339),
		Error:          j.ErrorDetail,
	}
	if j.StartedAt != nil {
		s := j.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &s
	}
	if j.CompletedAt != nil {
		s := j.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

func (h *ImportJobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateImportJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.svc.CreateJob(r.Context(), jobs.CreateJobInput{
		SourceType:     req.SourceType,
		SourceLocation: req.SourceLocation,
		Category:       req.Category,
		Tags:           req.Tags,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusAccepted, CreateImportJobResponse{
		JobID:             job.ID,
		Status:            string(job.Status),
		EstimatedDuration: adapter.EstimatedDuration(job.SourceType),
	})
}

func (h *ImportJobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.svc.GetJob(id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, importJobToResponse(job))
}

func (h *ImportJobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobList := h.svc.ListJobs()

	responses := make([]*ImportJobResponse, 0, len(jobList))
	for _, j := range jobList {
		responses = append(responses, importJobToResponse(j))
	}

	api.Success(w, http.StatusOK, responses)
}
