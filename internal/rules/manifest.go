package rules

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
)

// packageManifest is the subset of package.json the dependency rules inspect.
type packageManifest struct {
	Private         bool              `json:"private"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// readManifest loads package.json from the repo root. A missing or
// unparseable manifest yields (nil, false); the dependency rules then stay
// silent, matching the file-presence rule that already flags the gap.
func readManifest(repoPath string) (*packageManifest, bool) {
	raw, err := os.ReadFile(filepath.Join(repoPath, "package.json"))
	if err != nil {
		return nil, false
	}
	var pkg packageManifest
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, false
	}
	return &pkg, true
}

// dependenciesMissingRule (R020) flags manifests that declare no dependencies.
type dependenciesMissingRule struct{}

func (dependenciesMissingRule) ID() string       { return "R020" }
func (dependenciesMissingRule) Category() string { return "dependencies" }
func (dependenciesMissingRule) Describe() string {
	return "Checks that package.json declares dependencies"
}

func (r dependenciesMissingRule) Evaluate(ctx Context) ([]model.Finding, error) {
	pkg, ok := readManifest(ctx.RepoPath)
	if !ok || pkg.Dependencies != nil {
		return nil, nil
	}
	return []model.Finding{{
		RuleID:         r.ID(),
		Severity:       model.SeverityLow,
		Category:       r.Category(),
		Message:        "Project declares no dependencies in package.json.",
		Recommendation: "Make sure production dependencies are declared correctly.",
	}}, nil
}

// devDependenciesOnlyRule (R021) flags manifests with devDependencies but no
// production dependencies.
type devDependenciesOnlyRule struct{}

func (devDependenciesOnlyRule) ID() string       { return "R021" }
func (devDependenciesOnlyRule) Category() string { return "dependencies" }
func (devDependenciesOnlyRule) Describe() string {
	return "Checks whether the project only has devDependencies"
}

func (r devDependenciesOnlyRule) Evaluate(ctx Context) ([]model.Finding, error) {
	pkg, ok := readManifest(ctx.RepoPath)
	if !ok {
		return nil, nil
	}
	if len(pkg.DevDependencies) == 0 || len(pkg.Dependencies) > 0 {
		return nil, nil
	}
	return []model.Finding{{
		RuleID:         r.ID(),
		Severity:       model.SeverityInfo,
		Category:       r.Category(),
		Message:        "Project only has devDependencies.",
		Recommendation: "Check whether production dependencies are declared correctly.",
	}}, nil
}

// privateFlagMissingRule (R022) flags manifests without "private": true.
type privateFlagMissingRule struct{}

func (privateFlagMissingRule) ID() string       { return "R022" }
func (privateFlagMissingRule) Category() string { return "governance" }
func (privateFlagMissingRule) Describe() string {
	return "Checks that the private flag is set in package.json"
}

func (r privateFlagMissingRule) Evaluate(ctx Context) ([]model.Finding, error) {
	pkg, ok := readManifest(ctx.RepoPath)
	if !ok || pkg.Private {
		return nil, nil
	}
	return []model.Finding{{
		RuleID:         r.ID(),
		Severity:       model.SeverityLow,
		Category:       r.Category(),
		Message:        "The 'private' field is not set in package.json.",
		Recommendation: "Consider adding \"private\": true to prevent accidental npm publishing.",
	}}, nil
}
