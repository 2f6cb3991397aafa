package subtitles

import (
	"log/slog"
	"strings"

	"github.com/pemistahl/lingua-go"

	"mkvlang/internal/language"
	"mkvlang/internal/logging"
)

const textSampleMaxChars = 5000

// TextLanguage is a language identification for a text subtitle track.
type TextLanguage struct {
	Code       string
	Confidence float64
}

// TextDetector identifies the language of text subtitle tracks from a sampled
// slice of their cue text.
type TextDetector struct {
	detector lingua.LanguageDetector
	logger   *slog.Logger
}

// NewTextDetector builds a detector over all supported languages. Model
// loading is deferred until first use, so construction is cheap.
func NewTextDetector(logger *slog.Logger) *TextDetector {
	return &TextDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build(),
		logger: logging.NewComponentLogger(logger, "textlang"),
	}
}

// Detect identifies the track language. Statistical detection runs first;
// when it cannot commit to a language the character-script analysis decides.
func (d *TextDetector) Detect(entries []Entry) TextLanguage {
	sample := SampleText(entries, textSampleMaxChars)
	if len(strings.TrimSpace(sample)) < 50 {
		d.logger.Debug("insufficient subtitle text for language detection",
			logging.Int("sample_chars", len(sample)),
		)
		return TextLanguage{Code: language.Undetermined, Confidence: 0}
	}

	if detected, ok := d.detector.DetectLanguageOf(sample); ok {
		code := strings.ToLower(detected.IsoCode639_1().String())
		confidence := d.detector.ComputeLanguageConfidence(sample, detected)
		d.logger.Debug("statistical language detection",
			logging.String("code", code),
			logging.Float64("confidence", confidence),
		)
		return TextLanguage{Code: language.Normalize(code), Confidence: confidence}
	}

	d.logger.Debug("statistical detection inconclusive, using character analysis")
	return detectByCharacters(sample)
}

// detectByCharacters is the fallback when statistical detection fails. Script
// ratios pick out unambiguous writing systems; Latin text defaults to English
// at reduced confidence since the script covers many languages.
func detectByCharacters(text string) TextLanguage {
	if len(strings.TrimSpace(text)) < 10 {
		return TextLanguage{Code: language.Undetermined, Confidence: 0}
	}

	var latin, cyrillic, arabic, cjk, total int
	for _, r := range text {
		if r == ' ' || r == '\n' {
			continue
		}
		total++
		switch {
		case r < 0x0250:
			latin++
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic++
		case r >= 0x0600 && r <= 0x06FF:
			arabic++
		case r >= 0x4E00 && r <= 0x9FFF:
			cjk++
		}
	}
	if total == 0 {
		return TextLanguage{Code: language.Undetermined, Confidence: 0}
	}

	cyrillicRatio := float64(cyrillic) / float64(total)
	arabicRatio := float64(arabic) / float64(total)
	cjkRatio := float64(cjk) / float64(total)
	latinRatio := float64(latin) / float64(total)

	switch {
	case cyrillicRatio > 0.3:
		return TextLanguage{Code: language.Normalize("rus"), Confidence: min(0.9, 0.5+cyrillicRatio*0.5)}
	case arabicRatio > 0.3:
		return TextLanguage{Code: language.Normalize("ara"), Confidence: min(0.9, 0.5+arabicRatio*0.5)}
	case cjkRatio > 0.3:
		return TextLanguage{Code: language.Normalize("chi"), Confidence: min(0.85, 0.45+cjkRatio*0.5)}
	case latinRatio > 0.7:
		confidence := 0.3 + (latinRatio-0.7)*0.3 + min(0.2, float64(len(text))/5000)
		return TextLanguage{Code: language.Normalize("eng"), Confidence: min(0.65, confidence)}
	}
	return TextLanguage{Code: language.Undetermined, Confidence: 0.1}
}
