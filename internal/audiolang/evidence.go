package audiolang

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Variant names which attempt flavor produced a piece of evidence.
type Variant string

const (
	// VariantFiltered is a transcription with voice-activity filtering.
	VariantFiltered Variant = "with_vad"
	// VariantUnfiltered is the retry without voice-activity filtering.
	VariantUnfiltered Variant = "without_vad"
)

// Decoding temperatures per attempt flavor. The unfiltered retry runs
// slightly warmer to break repetitive hallucination loops.
const (
	filteredTemperature   = 0.0
	unfilteredTemperature = 0.2
)

// Evidence is the structured record of one transcription attempt.
type Evidence struct {
	Language         string
	Confidence       float64
	Text             string
	TextLength       int
	WordCount        int
	SegmentsDetected int
	// VADRemovedAll is true when voice-activity filtering was requested and
	// produced zero segments. Any text the unfiltered retry then produces is
	// a strong hallucination risk.
	VADRemovedAll bool
	Variant       Variant
}

// Attempt runs one transcription and converts the raw engine output into an
// Evidence record. Engine failure returns (nil, err); callers treat that as
// "attempt inconclusive", not fatal.
func Attempt(ctx context.Context, engine Engine, audioPath string, useVAD bool) (*Evidence, error) {
	temperature := unfilteredTemperature
	variant := VariantUnfiltered
	if useVAD {
		temperature = filteredTemperature
		variant = VariantFiltered
	}

	result, err := engine.Transcribe(ctx, audioPath, Options{VADFilter: useVAD, Temperature: temperature})
	if err != nil {
		return nil, err
	}

	parts := make([]string, 0, len(result.Segments))
	for _, seg := range result.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	text := strings.Join(parts, " ")

	// Confidence starts from the model's language probability, raised to the
	// mean per-segment confidence when that mean is higher. Segment
	// confidence is avg_logprob shifted by one and clamped to [0, 1].
	confidence := result.LanguageProbability
	if len(result.Segments) > 0 {
		sum := 0.0
		for _, seg := range result.Segments {
			segConf := seg.AvgLogProb + 1.0
			if segConf > 1 {
				segConf = 1
			}
			if segConf < 0 {
				segConf = 0
			}
			sum += segConf
		}
		if mean := sum / float64(len(result.Segments)); mean > confidence {
			confidence = mean
		}
	}

	wordCount := 0
	if text != "" {
		wordCount = len(strings.Fields(text))
	}

	return &Evidence{
		Language:         result.Language,
		Confidence:       confidence,
		Text:             text,
		TextLength:       utf8.RuneCountInString(text),
		WordCount:        wordCount,
		SegmentsDetected: len(result.Segments),
		VADRemovedAll:    useVAD && len(result.Segments) == 0,
		Variant:          variant,
	}, nil
}
