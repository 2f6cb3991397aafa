package subtitles

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeSpeech struct {
	spans []Span
	err   error
	calls int
}

func (f *fakeSpeech) SpeechSpans(context.Context) ([]Span, error) {
	f.calls++
	return f.spans, f.err
}

func newTestClassifier() *ForcedClassifier {
	return NewForcedClassifier(DefaultThresholds(), nil)
}

func TestClassifyTier1(t *testing.T) {
	tests := []struct {
		name       string
		stats      Statistics
		duration   float64
		wantForced bool
	}{
		{
			name:       "very low density and coverage",
			stats:      Statistics{Density: 1.0, CoveragePercent: 10.0, Count: 60},
			duration:   3600,
			wantForced: true,
		},
		{
			name:       "very low count",
			stats:      Statistics{Density: 4.0, CoveragePercent: 30.0, Count: 30},
			duration:   3600,
			wantForced: true,
		},
		{
			name:       "extremely low density despite coverage",
			stats:      Statistics{Density: 1.5, CoveragePercent: 40.0, Count: 100},
			duration:   3600,
			wantForced: true,
		},
		{
			name:       "high density and coverage",
			stats:      Statistics{Density: 12.0, CoveragePercent: 60.0, Count: 200},
			duration:   3600,
			wantForced: false,
		},
		{
			name:       "high count for long video",
			stats:      Statistics{Density: 7.0, CoveragePercent: 45.0, Count: 310},
			duration:   2700,
			wantForced: false,
		},
		{
			name:       "very high density with modest coverage",
			stats:      Statistics{Density: 11.0, CoveragePercent: 25.5, Count: 200},
			duration:   1800,
			wantForced: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speech := &fakeSpeech{}
			verdict := newTestClassifier().Classify(context.Background(), tt.stats, tt.duration, speech)
			if verdict.Forced != tt.wantForced {
				t.Errorf("Forced = %v (%s), want %v", verdict.Forced, verdict.Reason, tt.wantForced)
			}
			if verdict.Confidence != ConfidenceHigh {
				t.Errorf("Confidence = %d, want high", verdict.Confidence)
			}
			if speech.calls != 0 {
				t.Error("tier 1 decision should not touch audio")
			}
		})
	}
}

func TestClassifyTier2Indicators(t *testing.T) {
	speech := &fakeSpeech{}

	forcedStats := Statistics{Density: 4.5, CoveragePercent: 28.0, Count: 120, GapVariance: 60.0}
	verdict := newTestClassifier().Classify(context.Background(), forcedStats, 3600, speech)
	if !verdict.Forced || verdict.Confidence != ConfidenceMedium {
		t.Errorf("forced indicators: %+v", verdict)
	}

	fullStats := Statistics{Density: 6.5, CoveragePercent: 45.0, Count: 260, GapVariance: 20.0}
	verdict = newTestClassifier().Classify(context.Background(), fullStats, 1500, speech)
	if verdict.Forced || verdict.Confidence != ConfidenceMedium {
		t.Errorf("full indicators: %+v", verdict)
	}

	if speech.calls != 0 {
		t.Error("tier 2 decision should not touch audio")
	}
}

// Stays out of every tier 1 and tier 2 bucket.
func ambiguousStats() Statistics {
	return Statistics{Density: 5.5, CoveragePercent: 35.0, Count: 200, GapVariance: 75.0}
}

func TestClassifyAmbiguousWithoutAudio(t *testing.T) {
	verdict := newTestClassifier().Classify(context.Background(), ambiguousStats(), 3600, nil)

	if !verdict.Forced {
		t.Errorf("midpoint heuristic on coverage 35%%: %+v", verdict)
	}
	if verdict.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %d, want low", verdict.Confidence)
	}
	if !strings.Contains(verdict.Reason, "audio analysis disabled") {
		t.Errorf("Reason = %q", verdict.Reason)
	}
}

func TestClassifySpeechOverlap(t *testing.T) {
	t.Run("most speech subtitled", func(t *testing.T) {
		stats := ambiguousStats()
		stats.Timings = []Span{{Start: 50, End: 950}}
		speech := &fakeSpeech{spans: []Span{{Start: 0, End: 1000}}}

		verdict := newTestClassifier().Classify(context.Background(), stats, 3600, speech)
		if verdict.Forced {
			t.Errorf("90%% overlap should read as full: %+v", verdict)
		}
		if speech.calls != 1 {
			t.Errorf("speech calls = %d, want 1", speech.calls)
		}
	})

	t.Run("sparse overlap", func(t *testing.T) {
		stats := ambiguousStats()
		stats.Timings = []Span{{Start: 100, End: 250}, {Start: 1000, End: 1150}}
		speech := &fakeSpeech{spans: []Span{{Start: 0, End: 900}, {Start: 1000, End: 1900}}}

		verdict := newTestClassifier().Classify(context.Background(), stats, 3600, speech)
		if !verdict.Forced {
			t.Errorf("sparse overlap should read as forced: %+v", verdict)
		}
	})

	t.Run("no speech", func(t *testing.T) {
		speech := &fakeSpeech{}
		verdict := newTestClassifier().Classify(context.Background(), ambiguousStats(), 3600, speech)
		if !verdict.Forced {
			t.Errorf("silent audio should read as forced: %+v", verdict)
		}
	})

	t.Run("speech detection failure falls back to heuristic", func(t *testing.T) {
		speech := &fakeSpeech{err: errors.New("transcription failed")}
		verdict := newTestClassifier().Classify(context.Background(), ambiguousStats(), 3600, speech)
		if !verdict.Forced || verdict.Confidence != ConfidenceLow {
			t.Errorf("heuristic fallback: %+v", verdict)
		}
		if strings.Contains(verdict.Reason, "audio analysis disabled") {
			t.Errorf("Reason = %q", verdict.Reason)
		}
	})
}
