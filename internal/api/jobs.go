package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
	"github.com/maiconbalke/MVP-Review-Tools/internal/queue"
)

// handleListJobs returns recent jobs across all states, newest first, capped
// to the configured page size.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.List()
	if err != nil {
		s.logger.Error("failed to list jobs", slog.String("error", err.Error()))
		apiError(w, r, http.StatusInternalServerError, "internal_error", "failed to list jobs")
		return
	}
	if len(jobs) > s.cfg.API.PageSize {
		jobs = jobs[:s.cfg.API.PageSize]
	}
	if jobs == nil {
		jobs = []model.JobSummary{}
	}
	render.JSON(w, r, jobs)
}

type statusResponse struct {
	JobID         string       `json:"jobId"`
	Status        model.Status `json:"status"`
	HasResult     bool         `json:"hasResult"`
	PolicyProfile string       `json:"policyProfile,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
}

// handleStatus reports the lifecycle state of one job. HasResult is checked
// independently of the job record and is authoritative for "is there content
// to fetch".
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	hasResult := s.store.HasResult(jobID)

	job, err := s.store.Get(jobID)
	if errors.Is(err, queue.ErrNotFound) {
		render.JSON(w, r, statusResponse{
			JobID:     jobID,
			Status:    model.StatusNotFound,
			HasResult: hasResult,
		})
		return
	}
	if err != nil {
		s.logger.Error("failed to read job",
			slog.String("jobId", jobID), slog.String("error", err.Error()))
		apiError(w, r, http.StatusInternalServerError, "internal_error", "failed to read job")
		return
	}

	resp := statusResponse{
		JobID:         jobID,
		Status:        job.Status,
		HasResult:     hasResult,
		PolicyProfile: job.PolicyProfile,
	}
	if !job.CreatedAt.IsZero() {
		resp.CreatedAt = &job.CreatedAt
	}
	render.JSON(w, r, resp)
}

// handleResult serves the persisted analysis result, 404 until it exists.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	result, err := s.store.ReadResult(jobID)
	if errors.Is(err, queue.ErrNotFound) {
		apiError(w, r, http.StatusNotFound, "not_found", "no result for this job yet")
		return
	}
	if err != nil {
		s.logger.Error("failed to read result",
			slog.String("jobId", jobID), slog.String("error", err.Error()))
		apiError(w, r, http.StatusInternalServerError, "internal_error", "failed to read result")
		return
	}
	render.JSON(w, r, result)
}
