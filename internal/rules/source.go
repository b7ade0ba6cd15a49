package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
)

// localhostHardcodedRule (R023) scans top-level .ts/.js files for hardcoded
// localhost references. One finding at most, regardless of how many files
// match.
type localhostHardcodedRule struct{}

func (localhostHardcodedRule) ID() string       { return "R023" }
func (localhostHardcodedRule) Category() string { return "security" }
func (localhostHardcodedRule) Describe() string {
	return "Checks for localhost references in source code"
}

func (r localhostHardcodedRule) Evaluate(ctx Context) ([]model.Finding, error) {
	entries, err := os.ReadDir(ctx.RepoPath)
	if err != nil {
		return nil, nil
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".ts" && ext != ".js" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(ctx.RepoPath, entry.Name()))
		if err != nil {
			continue
		}
		if strings.Contains(string(content), "localhost") {
			return []model.Finding{{
				RuleID:         r.ID(),
				Severity:       model.SeverityMedium,
				Category:       r.Category(),
				Message:        "localhost reference found in source code.",
				Recommendation: "Avoid hardcoding local endpoints; use environment variables.",
			}}, nil
		}
	}
	return nil, nil
}
