package audiolang

import "mkvlang/internal/language"

// Classify turns one piece of transcription evidence into a language code,
// or "zxx" when the evidence does not support real speech.
//
// Very high confidence with substantial text bypasses the hallucination
// check entirely. After that, the bar for "has speech" depends on whether
// the filtered attempt had removed all audio: text appearing only once VAD
// is off is held to much stricter confidence and volume requirements.
func Classify(ev *Evidence) string {
	if ev.Confidence > 0.95 && ev.TextLength > 50 {
		return language.FromWhisperName(ev.Language)
	}

	if ev.Text != "" && LooksHallucinated(ev.Text) {
		return language.NoLinguisticContent
	}

	var hasSpeech bool
	if ev.Variant == VariantUnfiltered && ev.VADRemovedAll {
		hasSpeech = (ev.Confidence > 0.7 && ev.TextLength > 30 && ev.WordCount > 5) ||
			(ev.Confidence > 0.5 && ev.TextLength > 100 && ev.WordCount > 20)
	} else {
		hasSpeech = (ev.Confidence > 0.6 && ev.TextLength > 0) ||
			(ev.Confidence > 0.3 && ev.TextLength > 15 && ev.WordCount > 2) ||
			(ev.Confidence > 0.2 && ev.TextLength > 50 && ev.WordCount > 8) ||
			(ev.TextLength > 100 && ev.WordCount > 15)
	}

	if !hasSpeech {
		return language.NoLinguisticContent
	}
	return language.FromWhisperName(ev.Language)
}
