// Package queue persists jobs as JSON files in per-state directories. A
// state transition is an atomic rename between directories, so a job is
// always visible in exactly one state and survives a crash between steps.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
)

// ErrNotFound is returned when a job or result does not exist in any
// directory.
var ErrNotFound = errors.New("not found")

const (
	queuedDir     = "queue"
	processingDir = "processing"
	doneDir       = "done"
	resultsDir    = "results"
	uploadsDir    = "uploads"
	workDir       = "work"
)

// Store is the filesystem-backed job queue, result store and upload store,
// all rooted at a single data directory.
type Store struct {
	root   string
	logger *slog.Logger
}

// NewStore creates the data directory layout if missing.
func NewStore(root string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, dir := range []string{queuedDir, processingDir, doneDir, resultsDir, uploadsDir, workDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", dir, err)
		}
	}
	return &Store{root: root, logger: logger}, nil
}

func (s *Store) jobPath(dir, jobID string) string {
	return filepath.Join(s.root, dir, jobID+".json")
}

func (s *Store) writeJob(path string, job model.Job) error {
	raw, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.JobID, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write job %s: %w", job.JobID, err)
	}
	return nil
}

func (s *Store) readJob(path string) (model.Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, err
	}
	var job model.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return model.Job{}, fmt.Errorf("decode job file %s: %w", filepath.Base(path), err)
	}
	return job, nil
}

// Enqueue persists a new job record in the queued directory.
func (s *Store) Enqueue(job model.Job) error {
	job.Status = model.StatusQueued
	return s.writeJob(s.jobPath(queuedDir, job.JobID), job)
}

// NextQueued returns the id of one queued job, or ok=false when the queue is
// empty. Selection is first in directory listing order; no ordering guarantee
// is promised to callers.
func (s *Store) NextQueued() (string, bool, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, queuedDir))
	if err != nil {
		return "", false, fmt.Errorf("list queue dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		return strings.TrimSuffix(entry.Name(), ".json"), true, nil
	}
	return "", false, nil
}

// Claim atomically moves a job from queued to processing and returns the
// record. The status field inside the file is rewritten best-effort; the
// directory remains authoritative. Claiming assumes a single worker process;
// concurrent workers could race on the rename.
func (s *Store) Claim(jobID string) (model.Job, error) {
	src := s.jobPath(queuedDir, jobID)
	dst := s.jobPath(processingDir, jobID)
	if err := os.Rename(src, dst); err != nil {
		return model.Job{}, fmt.Errorf("claim job %s: %w", jobID, err)
	}

	job, err := s.readJob(dst)
	if err != nil {
		s.logger.Warn("claimed job file unreadable",
			slog.String("jobId", jobID), slog.String("error", err.Error()))
		return model.Job{JobID: jobID, Status: model.StatusProcessing}, nil
	}
	job.Status = model.StatusProcessing
	if err := s.writeJob(dst, job); err != nil {
		s.logger.Warn("failed to rewrite claimed job status",
			slog.String("jobId", jobID), slog.String("error", err.Error()))
	}
	return job, nil
}

// Release moves a job back from processing to queued after a failed
// processing attempt, resetting the status field so it is retried later.
func (s *Store) Release(jobID string) error {
	src := s.jobPath(processingDir, jobID)
	if job, err := s.readJob(src); err == nil {
		job.Status = model.StatusQueued
		if werr := s.writeJob(src, job); werr != nil {
			s.logger.Warn("failed to reset job status before release",
				slog.String("jobId", jobID), slog.String("error", werr.Error()))
		}
	}
	if err := os.Rename(src, s.jobPath(queuedDir, jobID)); err != nil {
		return fmt.Errorf("release job %s: %w", jobID, err)
	}
	return nil
}

// Complete marks the job done and moves it from processing to done. Done is
// terminal; the file is never touched again.
func (s *Store) Complete(job model.Job) error {
	src := s.jobPath(processingDir, job.JobID)
	job.Status = model.StatusDone
	if err := s.writeJob(src, job); err != nil {
		return err
	}
	if err := os.Rename(src, s.jobPath(doneDir, job.JobID)); err != nil {
		return fmt.Errorf("complete job %s: %w", job.JobID, err)
	}
	return nil
}

// Get inspects one job by id, checking processing, then queued, then done.
// The returned status reflects the directory the file was found in, which is
// authoritative over the embedded status field. A record that exists but
// fails to parse still reports its directory status.
func (s *Store) Get(jobID string) (model.Job, error) {
	for _, loc := range []struct {
		dir    string
		status model.Status
	}{
		{processingDir, model.StatusProcessing},
		{queuedDir, model.StatusQueued},
		{doneDir, model.StatusDone},
	} {
		path := s.jobPath(loc.dir, jobID)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		job, err := s.readJob(path)
		if err != nil {
			s.logger.Warn("job file unreadable",
				slog.String("jobId", jobID), slog.String("error", err.Error()))
			return model.Job{JobID: jobID, Status: loc.status}, nil
		}
		job.Status = loc.status
		return job, nil
	}
	return model.Job{}, ErrNotFound
}

// List aggregates job summaries across all three state directories, newest
// first. Corrupt records are skipped. The caller applies any page cap.
func (s *Store) List() ([]model.JobSummary, error) {
	var jobs []model.JobSummary
	for _, loc := range []struct {
		dir    string
		status model.Status
	}{
		{queuedDir, model.StatusQueued},
		{processingDir, model.StatusProcessing},
		{doneDir, model.StatusDone},
	} {
		entries, err := os.ReadDir(filepath.Join(s.root, loc.dir))
		if err != nil {
			return nil, fmt.Errorf("list %s dir: %w", loc.dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			job, err := s.readJob(filepath.Join(s.root, loc.dir, entry.Name()))
			if err != nil {
				s.logger.Warn("skipping corrupt job file",
					slog.String("file", entry.Name()), slog.String("error", err.Error()))
				continue
			}
			if job.JobID == "" {
				job.JobID = strings.TrimSuffix(entry.Name(), ".json")
			}
			jobs = append(jobs, model.JobSummary{
				JobID:         job.JobID,
				Status:        loc.status,
				CreatedAt:     job.CreatedAt,
				PolicyProfile: job.PolicyProfile,
				HasResult:     s.HasResult(job.JobID),
			})
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

func (s *Store) resultPath(jobID string) string {
	return filepath.Join(s.root, resultsDir, jobID+".json")
}

// HasResult reports whether a result file exists for the job, independent of
// the job record's state.
func (s *Store) HasResult(jobID string) bool {
	_, err := os.Stat(s.resultPath(jobID))
	return err == nil
}

// WriteResult persists an analysis result keyed by job id. Written once per
// job; never mutated afterwards.
func (s *Store) WriteResult(res model.AnalysisResult) error {
	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result %s: %w", res.JobID, err)
	}
	if err := os.WriteFile(s.resultPath(res.JobID), raw, 0o644); err != nil {
		return fmt.Errorf("write result %s: %w", res.JobID, err)
	}
	return nil
}

// ReadResult loads the persisted result for a job, ErrNotFound if none
// exists yet.
func (s *Store) ReadResult(jobID string) (model.AnalysisResult, error) {
	raw, err := os.ReadFile(s.resultPath(jobID))
	if err != nil {
		if os.IsNotExist(err) {
			return model.AnalysisResult{}, ErrNotFound
		}
		return model.AnalysisResult{}, fmt.Errorf("read result %s: %w", jobID, err)
	}
	var res model.AnalysisResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("decode result %s: %w", jobID, err)
	}
	return res, nil
}

// SaveUpload streams an uploaded archive to the uploads directory and
// returns its path. Size limits are enforced at the API boundary.
func (s *Store) SaveUpload(jobID string, r io.Reader) (string, error) {
	path := filepath.Join(s.root, uploadsDir, jobID+".zip")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}

// WorkDir returns the per-job extraction directory for uploaded archives.
func (s *Store) WorkDir(jobID string) string {
	return filepath.Join(s.root, workDir, jobID, "repo")
}
