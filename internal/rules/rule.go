// Package rules holds the pluggable repository checks and their registry.
package rules

import (
	"os"
	"path/filepath"

	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
)

// Context carries everything a rule may inspect: the resolved analysis root,
// the job id and the original request body.
type Context struct {
	RepoPath string
	JobID    string
	Input    model.JobBody
}

// Rule is one independent repository check. Evaluate returns zero or more
// findings; an error (or panic) is converted by the worker into a synthetic
// engine finding and never aborts the job.
type Rule interface {
	ID() string
	Category() string
	Describe() string
	Evaluate(ctx Context) ([]model.Finding, error)
}

// fileMissingRule reports a finding when a path relative to the repo root
// does not exist. Most built-in checks are this shape.
type fileMissingRule struct {
	id             string
	category       string
	description    string
	relPath        string
	severity       model.Severity
	message        string
	recommendation string
}

func (r fileMissingRule) ID() string       { return r.id }
func (r fileMissingRule) Category() string { return r.category }
func (r fileMissingRule) Describe() string { return r.description }

func (r fileMissingRule) Evaluate(ctx Context) ([]model.Finding, error) {
	if _, err := os.Stat(filepath.Join(ctx.RepoPath, r.relPath)); err == nil {
		return nil, nil
	}
	return []model.Finding{{
		RuleID:         r.id,
		Severity:       r.severity,
		Message:        r.message,
		Recommendation: r.recommendation,
		Category:       r.category,
	}}, nil
}

// filePresentRule is the inverse: a finding when the path exists (committed
// files that should not be in the repository).
type filePresentRule struct {
	id             string
	category       string
	description    string
	relPath        string
	severity       model.Severity
	message        string
	recommendation string
}

func (r filePresentRule) ID() string       { return r.id }
func (r filePresentRule) Category() string { return r.category }
func (r filePresentRule) Describe() string { return r.description }

func (r filePresentRule) Evaluate(ctx Context) ([]model.Finding, error) {
	if _, err := os.Stat(filepath.Join(ctx.RepoPath, r.relPath)); err != nil {
		return nil, nil
	}
	return []model.Finding{{
		RuleID:         r.id,
		Severity:       r.severity,
		Message:        r.message,
		Recommendation: r.recommendation,
		Category:       r.category,
	}}, nil
}
