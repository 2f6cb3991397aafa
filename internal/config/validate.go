package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig wraps all validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks value ranges. Called after normalize.
func (c *Config) Validate() error {
	var problems []string

	if c.Whisper.ConfidenceThreshold < 0 || c.Whisper.ConfidenceThreshold > 1 {
		problems = append(problems, "whisper.confidence_threshold must be within [0, 1]")
	}
	if c.Subtitles.ConfidenceThreshold < 0 || c.Subtitles.ConfidenceThreshold > 1 {
		problems = append(problems, "subtitles.confidence_threshold must be within [0, 1]")
	}
	if c.Whisper.MaxRetries < 1 {
		problems = append(problems, "whisper.max_retries must be at least 1")
	}
	if c.Whisper.OperationTimeoutSecs < 1 {
		problems = append(problems, "whisper.operation_timeout_seconds must be positive")
	}
	if c.Whisper.VADMinSpeechMillis < 0 {
		problems = append(problems, "whisper.vad_min_speech_duration_ms must not be negative")
	}
	if c.Whisper.VADMaxSpeechSeconds < 1 {
		problems = append(problems, "whisper.vad_max_speech_duration_s must be positive")
	}
	if c.Subtitles.LowDensityThreshold >= c.Subtitles.HighDensityThreshold {
		problems = append(problems, "subtitles.low_density_threshold must be below high_density_threshold")
	}
	if c.Subtitles.LowCoverageThreshold >= c.Subtitles.HighCoverageThreshold {
		problems = append(problems, "subtitles.low_coverage_threshold must be below high_coverage_threshold")
	}
	if c.Subtitles.MinCountThreshold >= c.Subtitles.MaxCountThreshold {
		problems = append(problems, "subtitles.min_count_threshold must be below max_count_threshold")
	}
	if len(c.Paths.ScanDirs) == 0 {
		problems = append(problems, "paths.scan_dirs must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
