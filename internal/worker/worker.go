// Package worker runs the single-consumer polling loop that turns queued
// jobs into analysis results.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maiconbalke/MVP-Review-Tools/internal/archive"
	"github.com/maiconbalke/MVP-Review-Tools/internal/metrics"
	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
	"github.com/maiconbalke/MVP-Review-Tools/internal/policy"
	"github.com/maiconbalke/MVP-Review-Tools/internal/queue"
	"github.com/maiconbalke/MVP-Review-Tools/internal/rules"
)

// Config holds the worker's tunables.
type Config struct {
	// PoliciesDir is where policy profile JSON files live.
	PoliciesDir string
	// PollInterval bounds the latency between queue polls.
	PollInterval time.Duration
}

// Worker claims one queued job at a time, evaluates the rule registry
// against the job's repository tree and persists a scored result.
type Worker struct {
	store    *queue.Store
	registry []rules.Rule
	cfg      Config
	logger   *slog.Logger
}

func New(store *queue.Store, registry []rules.Rule, cfg Config, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Worker{store: store, registry: registry, cfg: cfg, logger: logger}
}

// Run polls the queue until ctx is cancelled. A failed processing attempt
// returns the job to the queue; there is no retry cap, so a job that fails
// systematically is retried on every pass. Only one worker process may run
// against a data directory.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", slog.Duration("pollInterval", w.cfg.PollInterval))

	for {
		jobID, ok, err := w.store.NextQueued()
		if err != nil {
			w.logger.Error("failed to list queue", slog.String("error", err.Error()))
			if !w.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}
		if !ok {
			if !w.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		job, err := w.store.Claim(jobID)
		if err != nil {
			w.logger.Warn("failed to claim job",
				slog.String("jobId", jobID), slog.String("error", err.Error()))
			continue
		}

		if err := w.Process(job); err != nil {
			metrics.JobFailures.Inc()
			w.logger.Error("job processing failed, returning to queue",
				slog.String("jobId", job.JobID), slog.String("error", err.Error()))
			if rerr := w.store.Release(job.JobID); rerr != nil {
				w.logger.Error("failed to release job",
					slog.String("jobId", job.JobID), slog.String("error", rerr.Error()))
			}
		}

		if !w.sleep(ctx) {
			return ctx.Err()
		}
	}
}

// sleep waits one poll interval, returning false when ctx is done.
func (w *Worker) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.cfg.PollInterval):
		return true
	}
}

// Process runs the full pipeline for one claimed job: resolve policy,
// extract any uploaded archive, evaluate rules, score, grade, persist the
// result and mark the job done.
func (w *Worker) Process(job model.Job) error {
	start := time.Now()
	pol := policy.Load(w.logger, w.cfg.PoliciesDir, job.PolicyProfile)

	w.logger.Info("processing job",
		slog.String("jobId", job.JobID), slog.String("policyProfile", job.PolicyProfile))

	repoDir := w.store.WorkDir(job.JobID)
	if job.Body.UploadPath != "" {
		if err := archive.ExtractZip(job.Body.UploadPath, repoDir); err != nil {
			return fmt.Errorf("extract archive: %w", err)
		}
		root, err := archive.EffectiveRoot(repoDir)
		if err != nil {
			return fmt.Errorf("resolve analysis root: %w", err)
		}
		repoDir = root
	}

	findings := w.evaluate(pol, rules.Context{
		RepoPath: repoDir,
		JobID:    job.JobID,
		Input:    job.Body,
	})

	// Severity overrides apply after collection, by originating rule id.
	for i := range findings {
		if sev, ok := pol.RuleOverrides.SeverityByRuleID[findings[i].RuleID]; ok && sev.Valid() {
			findings[i].Severity = sev
		}
	}

	var summary model.Summary
	penaltySum := 0
	for _, f := range findings {
		summary.Add(f.Severity)
		penaltySum += pol.SeverityPenalties.For(f.Severity)
		metrics.Findings.WithLabelValues(string(f.Severity)).Inc()
	}

	score := 100 - penaltySum
	if score < 0 {
		score = 0
	}
	grade := pol.GradeFor(score)

	result := model.AnalysisResult{
		JobID:         job.JobID,
		ProcessedAt:   time.Now().UTC(),
		PolicyProfile: job.PolicyProfile,
		Input:         job.Body,
		RepoPath:      repoDir,
		Score:         score,
		Grade:         grade,
		Summary:       summary,
		Findings:      findings,
	}
	if err := w.store.WriteResult(result); err != nil {
		return err
	}
	if err := w.store.Complete(job); err != nil {
		return err
	}

	metrics.JobsProcessed.Inc()
	metrics.JobDuration.Observe(time.Since(start).Seconds())
	w.logger.Info("job done",
		slog.String("jobId", job.JobID),
		slog.Int("score", score),
		slog.String("grade", string(grade)),
		slog.Int("findings", summary.Total))
	return nil
}

// evaluate runs every enabled rule in registry order. A rule that errors or
// panics yields a single synthetic engine finding and evaluation continues.
func (w *Worker) evaluate(pol policy.Policy, ctx rules.Context) []model.Finding {
	findings := make([]model.Finding, 0)
	for _, rule := range w.registry {
		if pol.Disabled(rule.ID()) {
			w.logger.Debug("skipping disabled rule", slog.String("rule", rule.ID()))
			continue
		}

		ruleFindings, err := safeEvaluate(rule, ctx)
		if err != nil {
			w.logger.Error("rule execution failed",
				slog.String("rule", rule.ID()), slog.String("error", err.Error()))
			findings = append(findings, model.Finding{
				RuleID:         "R000",
				Severity:       model.SeverityMedium,
				Message:        fmt.Sprintf("Rule execution failed: %s", rule.ID()),
				Recommendation: "Check worker logs / fix rule",
				Category:       "engine",
			})
			continue
		}
		findings = append(findings, ruleFindings...)
	}
	return findings
}

func safeEvaluate(rule rules.Rule, ctx rules.Context) (findings []model.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule panicked: %v", r)
		}
	}()
	return rule.Evaluate(ctx)
}
