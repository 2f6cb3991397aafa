package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains scan roots and state directories.
type Paths struct {
	ScanDirs []string `toml:"scan_dirs"`
	StateDir string   `toml:"state_dir"`
	WorkDir  string   `toml:"work_dir"`
	LogDir   string   `toml:"log_dir"`
}

// Whisper contains transcription engine settings.
type Whisper struct {
	Model                string  `toml:"model"`
	Device               string  `toml:"device"`
	ComputeType          string  `toml:"compute_type"`
	VADFilter            bool    `toml:"vad_filter"`
	VADSupported         bool    `toml:"vad_supported"`
	VADMinSpeechMillis   int     `toml:"vad_min_speech_duration_ms"`
	VADMaxSpeechSeconds  int     `toml:"vad_max_speech_duration_s"`
	ConfidenceThreshold  float64 `toml:"confidence_threshold"`
	MaxRetries           int     `toml:"max_retries"`
	OperationTimeoutSecs int     `toml:"operation_timeout_seconds"`
}

// Subtitles contains subtitle classification settings.
type Subtitles struct {
	Enabled             bool    `toml:"enabled"`
	AnalyzeForced       bool    `toml:"analyze_forced"`
	DetectSDH           bool    `toml:"detect_sdh"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`

	// Multi-factor forced detection thresholds. Density is subtitles per
	// minute, coverage is percent of container duration.
	LowDensityThreshold   float64 `toml:"low_density_threshold"`
	HighDensityThreshold  float64 `toml:"high_density_threshold"`
	LowCoverageThreshold  float64 `toml:"low_coverage_threshold"`
	HighCoverageThreshold float64 `toml:"high_coverage_threshold"`
	MinCountThreshold     int     `toml:"min_count_threshold"`
	MaxCountThreshold     int     `toml:"max_count_threshold"`
}

// Processing contains run-mode options.
type Processing struct {
	DryRun                bool `toml:"dry_run"`
	RemuxToMKV            bool `toml:"remux_to_mkv"`
	UseTracking           bool `toml:"use_tracking"`
	ForceReprocess        bool `toml:"force_reprocess"`
	ReprocessAll          bool `toml:"reprocess_all"`
	ReprocessAllSubtitles bool `toml:"reprocess_all_subtitles"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mkvlang.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Whisper    Whisper    `toml:"whisper"`
	Subtitles  Subtitles  `toml:"subtitles"`
	Processing Processing `toml:"processing"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mkvlang/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually found (defaults are used otherwise).
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("mkvlang.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the state, work, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TrackerDBPath returns the path to the processing tracker database.
func (c *Config) TrackerDBPath() string {
	return filepath.Join(c.Paths.StateDir, "processed.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
