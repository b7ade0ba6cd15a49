// Package config provides configuration loading for reviewd.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete reviewd configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// DataDir is the root of the job queue, results, uploads and work trees.
	DataDir string `yaml:"data_dir"`
	// PoliciesDir holds the policy profile JSON files.
	PoliciesDir string `yaml:"policies_dir"`

	Worker WorkerConfig `yaml:"worker"`
	Upload UploadConfig `yaml:"upload"`
	API    APIConfig    `yaml:"api"`
}

type WorkerConfig struct {
	// PollInterval is how long the worker sleeps between queue polls.
	PollInterval Duration `yaml:"poll_interval"`
}

// Duration wraps time.Duration so YAML configs can use "1s"-style strings.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		dur, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(dur)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

type UploadConfig struct {
	// MaxBytes caps the size of one uploaded archive.
	MaxBytes int64 `yaml:"max_bytes"`
}

type APIConfig struct {
	// PageSize caps the job listing endpoint.
	PageSize int `yaml:"page_size"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:3001",
		DataDir:     "data",
		PoliciesDir: "policies",
		Worker: WorkerConfig{
			PollInterval: Duration(time.Second),
		},
		Upload: UploadConfig{
			MaxBytes: 50 * 1024 * 1024,
		},
		API: APIConfig{
			PageSize: 20,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Worker.PollInterval <= 0 {
		return fmt.Errorf("worker.poll_interval must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive")
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("api.page_size must be positive")
	}
	return nil
}
