package audiolang

import (
	"bytes"
	"compress/zlib"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Whisper reliably fabricates these phrases on silent or noise-only audio.
var stockHallucinations = []string{
	"okay up here we go",
	"i'm going to go get some water",
	"let's go",
	"here we go",
	"okay let's go",
	"alright let's go",
	"come on let's go",
	"okay here we go",
	"let me get some water",
	"i'm going to get some water",
	"i need to get some water",
	"hold on let me",
	"wait let me",
	"okay wait",
	"hold on",
	"one second",
	"just a second",
	"give me a second",
	"let me just",
}

var (
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)

	// Generic filler shapes that show up on short hallucinated outputs.
	genericPhrasePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(okay|ok|alright|let's|here we go|come on)\b.*\b(go|water|get|just|wait)\b`),
		regexp.MustCompile(`\bi'm (going to|gonna) (go|get)`),
		regexp.MustCompile(`\b(hold on|wait|give me|let me) (a |just |)?(second|minute|moment)\b`),
	}
)

// LooksHallucinated classifies transcript text as a probable ASR artifact.
// It is a deterministic, total heuristic tuned for precision: rejecting a
// real short utterance is an accepted tradeoff, because a false "zxx" is
// cheaper than tagging a silent track with a fabricated language.
func LooksHallucinated(text string) bool {
	text = strings.TrimSpace(text)
	length := utf8.RuneCountInString(text)
	if length < 3 {
		return true
	}

	if distinctChars(text, " ") <= 3 && length > 10 {
		return true
	}
	if distinctChars(text, " \n") <= 2 && length > 20 {
		return true
	}

	if hasRepeatedRun(text, 5) {
		return true
	}
	if hasRepeatedBlock(text) {
		return true
	}

	if hallucinationScriptRatio(text) > 0.7 {
		return true
	}

	words := strings.Fields(text)
	if len(words) > 3 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		if float64(len(unique))/float64(len(words)) < 0.2 {
			return true
		}
		if length > 20 && len(words) > 5 && len(unique) <= 2 {
			return true
		}
	}

	if compressionRatio(text) < 0.3 {
		return true
	}

	clean := punctuationPattern.ReplaceAllString(strings.ToLower(text), "")
	for _, phrase := range stockHallucinations {
		if strings.Contains(clean, phrase) {
			return true
		}
	}
	if length < 50 {
		for _, pattern := range genericPhrasePatterns {
			if pattern.MatchString(clean) {
				return true
			}
		}
	}

	return false
}

// hasRepeatedRun reports a run of min or more identical consecutive runes.
func hasRepeatedRun(text string, min int) bool {
	var prev rune
	count := 0
	for _, r := range text {
		if r == prev {
			count++
			if count >= min {
				return true
			}
			continue
		}
		prev = r
		count = 1
	}
	return false
}

// hasRepeatedBlock reports a block of one to three runes repeated four or
// more times back to back, like "hahahaha" or "abcabcabcabc".
func hasRepeatedBlock(text string) bool {
	runes := []rune(text)
	for size := 1; size <= 3; size++ {
		for start := 0; start+size*4 <= len(runes); start++ {
			if blockRepeats(runes, start, size, 4) {
				return true
			}
		}
	}
	return false
}

func blockRepeats(runes []rune, start, size, times int) bool {
	for rep := 1; rep < times; rep++ {
		for i := 0; i < size; i++ {
			if runes[start+i] != runes[start+rep*size+i] {
				return false
			}
		}
	}
	return true
}

func distinctChars(text, strip string) int {
	seen := make(map[rune]struct{}, len(text))
	for _, r := range text {
		if strings.ContainsRune(strip, r) {
			continue
		}
		seen[r] = struct{}{}
	}
	return len(seen)
}

// hallucinationScriptRatio returns the fraction of runes in Unicode ranges
// the ASR model empirically over-produces on silence: Khmer, Thai, Myanmar,
// Bengali, and Georgian.
func hallucinationScriptRatio(text string) float64 {
	total := 0
	matched := 0
	for _, r := range text {
		total++
		switch {
		case r >= 0x1780 && r <= 0x17FF: // Khmer
			matched++
		case r >= 0x0E00 && r <= 0x0E7F: // Thai
			matched++
		case r >= 0x1000 && r <= 0x109F: // Myanmar
			matched++
		case r >= 0x0980 && r <= 0x09FF: // Bengali
			matched++
		case r >= 0x10A0 && r <= 0x10FF: // Georgian
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// compressionRatio returns compressed size over original size for the UTF-8
// bytes of text. Highly repetitive hallucinations compress far below 0.3.
func compressionRatio(text string) float64 {
	raw := []byte(text)
	if len(raw) == 0 {
		return 1
	}
	var buf bytes.Buffer
	writer := zlib.NewWriter(&buf)
	if _, err := writer.Write(raw); err != nil {
		_ = writer.Close()
		return 1
	}
	if err := writer.Close(); err != nil {
		return 1
	}
	return float64(buf.Len()) / float64(len(raw))
}
