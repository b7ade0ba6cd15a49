package policy

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Load resolves the effective policy for a profile. Candidate files are tried
// in order: the profile's own file, standard.json, default.json. The first
// file that exists and parses wins, merged over the profile's built-in
// defaults. A file that exists but fails to parse is skipped with a warning.
// When nothing usable is found the built-in defaults are returned.
func Load(logger *slog.Logger, policiesDir, profile string) Policy {
	if logger == nil {
		logger = slog.Default()
	}
	profile = Normalize(profile)

	candidates := []string{profile + ".json", "standard.json", "default.json"}
	for _, name := range candidates {
		path := filepath.Join(policiesDir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		// Unmarshal over the defaults so partial policy files only override
		// the keys they carry. Map entries merge, absent fields keep their
		// default values.
		p := Default(profile)
		if err := json.Unmarshal(raw, &p); err != nil {
			logger.Warn("invalid policy file, skipping",
				slog.String("path", path), slog.String("error", err.Error()))
			continue
		}

		if name != profile+".json" {
			logger.Info("policy fallback used",
				slog.String("requested", profile), slog.String("path", path))
		} else {
			logger.Debug("loaded policy file", slog.String("path", path))
		}
		return p
	}

	logger.Warn("no policy file found, using built-in defaults",
		slog.String("profile", profile))
	return Default(profile)
}
