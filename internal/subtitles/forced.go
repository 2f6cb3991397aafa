package subtitles

import (
	"context"
	"fmt"
	"log/slog"

	"mkvlang/internal/logging"
)

// Confidence tiers for a forced/full decision, ordered by evidential
// strength. Low confidence triggers the audio-overlap escalation.
const (
	ConfidenceHigh   = 3
	ConfidenceMedium = 2
	ConfidenceLow    = 1
)

// Verdict is a forced/full classification with its supporting reason and
// confidence tier.
type Verdict struct {
	Forced     bool
	Reason     string
	Confidence int
}

// Thresholds parameterize the statistical decision. Density is entries per
// minute, coverage is percent of container duration.
type Thresholds struct {
	LowDensity   float64
	HighDensity  float64
	LowCoverage  float64
	HighCoverage float64
	MinCount     int
	MaxCount     int
}

// DefaultThresholds returns the tuned values the tool ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowDensity:   3.0,
		HighDensity:  8.0,
		LowCoverage:  25.0,
		HighCoverage: 50.0,
		MinCount:     50,
		MaxCount:     300,
	}
}

// SpeechDetector yields voice-activity speech spans for the audio track
// paired with the subtitle track under analysis. Implementations extract and
// transcribe the full track, so calls are expensive.
type SpeechDetector interface {
	SpeechSpans(ctx context.Context) ([]Span, error)
}

// ForcedClassifier decides whether a subtitle track is forced.
type ForcedClassifier struct {
	thresholds Thresholds
	logger     *slog.Logger
}

// NewForcedClassifier creates a classifier. A nil logger disables logging.
func NewForcedClassifier(thresholds Thresholds, logger *slog.Logger) *ForcedClassifier {
	return &ForcedClassifier{
		thresholds: thresholds,
		logger:     logging.NewComponentLogger(logger, "forced"),
	}
}

// Classify runs the tiered decision. speech is consulted only for ambiguous
// (low-confidence) statistics; passing nil disables audio analysis and falls
// back to the midpoint heuristic instead.
func (c *ForcedClassifier) Classify(ctx context.Context, stats Statistics, durationSeconds float64, speech SpeechDetector) Verdict {
	verdict, decided := c.decideFromStatistics(stats, durationSeconds/60, speech == nil)
	if decided {
		return verdict
	}

	c.logger.Info("subtitle statistics ambiguous, analyzing audio speech overlap",
		logging.Float64("density", stats.Density),
		logging.Float64("coverage", stats.CoveragePercent),
		logging.Int("count", stats.Count),
	)

	spans, err := speech.SpeechSpans(ctx)
	if err != nil {
		c.logger.Debug("speech detection failed, using heuristic fallback", logging.Error(err))
		return c.midpointHeuristic(stats)
	}
	return c.classifyFromSpeech(stats, durationSeconds, spans)
}

// decideFromStatistics covers tiers 1 and 2. The boolean reports whether a
// decision was reached; when false the caller escalates (or, with audio
// analysis disabled, the midpoint heuristic already decided and true is
// returned).
func (c *ForcedClassifier) decideFromStatistics(stats Statistics, durationMinutes float64, audioDisabled bool) (Verdict, bool) {
	t := c.thresholds
	density := stats.Density
	coverage := stats.CoveragePercent
	count := stats.Count

	// Tier 1: high confidence, no further analysis needed.
	switch {
	case density < t.LowDensity && coverage < t.LowCoverage:
		return Verdict{true, fmt.Sprintf("very low density (%.1f subs/min) and coverage (%.1f%%)", density, coverage), ConfidenceHigh}, true
	case count < t.MinCount:
		return Verdict{true, fmt.Sprintf("very low subtitle count (%d subtitles)", count), ConfidenceHigh}, true
	case density < 2.0:
		return Verdict{true, fmt.Sprintf("extremely low density (%.1f subs/min)", density), ConfidenceHigh}, true
	case density > t.HighDensity && coverage > 30.0:
		return Verdict{false, fmt.Sprintf("high density (%.1f subs/min) and coverage (%.1f%%)", density, coverage), ConfidenceHigh}, true
	case count > t.MaxCount && durationMinutes > 30:
		return Verdict{false, fmt.Sprintf("high subtitle count (%d subtitles for %.0f min video)", count, durationMinutes), ConfidenceHigh}, true
	case density > 10.0:
		return Verdict{false, fmt.Sprintf("very high density (%.1f subs/min)", density), ConfidenceHigh}, true
	}

	// Tier 2: score independent indicators for each side.
	forcedIndicators := 0
	fullIndicators := 0
	if density < 5.0 {
		forcedIndicators++
	}
	if density > 6.0 {
		fullIndicators++
	}
	if coverage < 30.0 {
		forcedIndicators++
	}
	if coverage > 40.0 {
		fullIndicators++
	}
	if count < 150 {
		forcedIndicators++
	}
	if count > 250 {
		fullIndicators++
	}
	if stats.GapVariance > 100.0 {
		forcedIndicators++
	}
	if stats.GapVariance < 50.0 {
		fullIndicators++
	}

	if forcedIndicators >= 2 && fullIndicators == 0 {
		return Verdict{true, fmt.Sprintf("multiple forced indicators: density=%.1f, coverage=%.1f%%, count=%d", density, coverage, count), ConfidenceMedium}, true
	}
	if fullIndicators >= 2 && forcedIndicators == 0 {
		return Verdict{false, fmt.Sprintf("multiple full indicators: density=%.1f, coverage=%.1f%%, count=%d", density, coverage, count), ConfidenceMedium}, true
	}

	// Tier 3: ambiguous.
	if audioDisabled {
		verdict := c.midpointHeuristic(stats)
		verdict.Reason += " (audio analysis disabled)"
		return verdict, true
	}
	return Verdict{}, false
}

// midpointHeuristic is the best guess when audio analysis is unavailable.
func (c *ForcedClassifier) midpointHeuristic(stats Statistics) Verdict {
	forced := stats.Density < 5.5 || stats.CoveragePercent < 37.5
	return Verdict{
		Forced:     forced,
		Reason:     fmt.Sprintf("ambiguous metrics: density=%.1f subs/min, coverage=%.1f%%, count=%d", stats.Density, stats.CoveragePercent, stats.Count),
		Confidence: ConfidenceLow,
	}
}

// classifyFromSpeech decides from the overlap between detected speech and
// subtitle display time. Forced tracks cover only a small slice of speech.
func (c *ForcedClassifier) classifyFromSpeech(stats Statistics, durationSeconds float64, spans []Span) Verdict {
	if len(spans) == 0 {
		return Verdict{true, "no speech detected in audio", ConfidenceLow}
	}

	totalSpeech := 0.0
	for _, span := range spans {
		totalSpeech += span.End - span.Start
	}
	speechCoverage := totalSpeech / durationSeconds * 100

	overlap := 0.0
	for _, sub := range stats.Timings {
		for _, span := range spans {
			start := sub.Start
			if span.Start > start {
				start = span.Start
			}
			end := sub.End
			if span.End < end {
				end = span.End
			}
			if start < end {
				overlap += end - start
			}
		}
	}

	speechWithSubtitles := 0.0
	if totalSpeech > 0 {
		speechWithSubtitles = overlap / totalSpeech * 100
	}
	coverageRatio := 0.0
	if speechCoverage > 0 {
		coverageRatio = stats.CoveragePercent / speechCoverage
	}

	c.logger.Info("audio overlap analysis",
		logging.Float64("speech_coverage", speechCoverage),
		logging.Float64("speech_with_subtitles", speechWithSubtitles),
		logging.Float64("coverage_ratio", coverageRatio),
	)

	forced := false
	reason := fmt.Sprintf("%.1f%% of speech has subtitles", speechWithSubtitles)
	if speechWithSubtitles < 50 {
		forced = true
		reason = fmt.Sprintf("only %.1f%% of speech has subtitles", speechWithSubtitles)
	}
	if coverageRatio < 0.4 {
		forced = true
		reason = fmt.Sprintf("subtitle coverage far below speech coverage (ratio %.2f)", coverageRatio)
	}
	if stats.CoveragePercent < 25 && stats.Density < 5 {
		forced = true
		reason = "low coverage and density against detected speech"
	}
	if speechWithSubtitles > 80 {
		forced = false
		reason = fmt.Sprintf("most speech has subtitles (%.1f%%)", speechWithSubtitles)
	}

	return Verdict{Forced: forced, Reason: reason, Confidence: ConfidenceLow}
}
