package testsupport

import (
	"path/filepath"
	"testing"

	"mkvlang/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ScanDirs = []string{filepath.Join(base, "media")}
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSubtitles enables subtitle processing on the test config.
func WithSubtitles() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Subtitles.Enabled = true
		cfg.Subtitles.AnalyzeForced = true
	}
}

// WithDryRun enables dry-run mode on the test config.
func WithDryRun() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Processing.DryRun = true
	}
}
