package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
)

// handleAnalyze accepts a repo-URL analysis request and enqueues a job,
// returning the id immediately.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RepoURL string `json:"repoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apiError(w, r, http.StatusBadRequest, "missing_repoUrl", "send a valid repoUrl in the JSON body")
		return
	}
	if err := validateRepoURL(body.RepoURL); err != nil {
		apiError(w, r, http.StatusBadRequest, "missing_repoUrl", err.Error())
		return
	}

	job := model.Job{
		JobID:         uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Body:          model.JobBody{RepoURL: body.RepoURL},
		Status:        model.StatusQueued,
		PolicyProfile: requestedProfile(r),
	}
	if err := s.store.Enqueue(job); err != nil {
		s.logger.Error("failed to enqueue job", slog.String("error", err.Error()))
		apiError(w, r, http.StatusInternalServerError, "internal_error", "failed to persist job")
		return
	}

	s.logger.Info("job queued",
		slog.String("jobId", job.JobID),
		slog.String("policyProfile", job.PolicyProfile),
		slog.String("type", "repoUrl"))
	render.JSON(w, r, map[string]string{"jobId": job.JobID})
}

// handleUpload accepts a single multipart zip upload, persists it to the
// upload store and enqueues a job referencing it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBytes)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apiError(w, r, http.StatusBadRequest, "file_too_large", "the upload exceeds the size limit")
			return
		}
		apiError(w, r, http.StatusBadRequest, "missing_file", "send a multipart form with one file")
		return
	}
	defer r.MultipartForm.RemoveAll()

	total := 0
	for _, headers := range r.MultipartForm.File {
		total += len(headers)
	}
	if total == 0 {
		apiError(w, r, http.StatusBadRequest, "missing_file", "send a file")
		return
	}
	headers := r.MultipartForm.File["file"]
	if len(headers) != 1 || total != 1 {
		apiError(w, r, http.StatusBadRequest, "invalid_field", `the upload must be a single field named "file"`)
		return
	}

	header := headers[0]
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		apiError(w, r, http.StatusBadRequest, "invalid_file", "send a .zip file")
		return
	}

	file, err := header.Open()
	if err != nil {
		s.logger.Error("failed to open upload", slog.String("error", err.Error()))
		apiError(w, r, http.StatusInternalServerError, "internal_error", "failed to read upload")
		return
	}
	defer file.Close()

	jobID := uuid.NewString()
	uploadPath, err := s.store.SaveUpload(jobID, file)
	if err != nil {
		s.logger.Error("failed to save upload", slog.String("error", err.Error()))
		apiError(w, r, http.StatusInternalServerError, "internal_error", "failed to persist upload")
		return
	}

	job := model.Job{
		JobID:         jobID,
		CreatedAt:     time.Now().UTC(),
		Body:          model.JobBody{UploadPath: uploadPath},
		Status:        model.StatusQueued,
		PolicyProfile: requestedProfile(r),
	}
	if err := s.store.Enqueue(job); err != nil {
		s.logger.Error("failed to enqueue job", slog.String("error", err.Error()))
		apiError(w, r, http.StatusInternalServerError, "internal_error", "failed to persist job")
		return
	}

	s.logger.Info("job queued",
		slog.String("jobId", job.JobID),
		slog.String("policyProfile", job.PolicyProfile),
		slog.String("type", "upload"))
	render.JSON(w, r, map[string]string{"jobId": job.JobID})
}
