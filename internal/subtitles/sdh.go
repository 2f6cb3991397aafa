package subtitles

import (
	"regexp"
	"strings"
)

// Bracketed spans only count as SDH cues when the enclosed text contains one
// of these sound or speaker words. This keeps styling tags and in-dialogue
// parentheticals from triggering.
var sdhKeywords = []string{
	"narrator", "narrating", "speaking", "whispering", "shouting", "yelling", "screaming",
	"music", "playing", "door", "closes", "opens", "phone", "ringing", "rings",
	"footsteps", "sighs", "sigh", "laughs", "laugh", "cries", "cry", "crying",
	"knocking", "knock", "barking", "bark", "meowing", "beeping", "beep",
	"gunshot", "explosion", "thunder", "applause", "cheering", "clapping",
	"breathing", "coughing", "snoring", "groaning", "grunting",
	"chatter", "chattering", "murmuring", "rustling", "creaking",
	"dramatic music", "tense music", "suspenseful music", "upbeat music",
	"in distance", "muffled", "echoing", "faintly",
}

// Spans must hold at least three letters so formatting artifacts like "[i]"
// do not match.
var sdhSpanPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[[A-Za-z\s]{3,}\]`),
	regexp.MustCompile(`(?i)\([A-Za-z\s]{3,}\)`),
	regexp.MustCompile(`[^♪]+♪`),
	regexp.MustCompile(`(?i)\*[A-Za-z\s]{3,}\*`),
}

var sdhPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bnarrator\b`),
	regexp.MustCompile(`\bspeaking\b`),
	regexp.MustCompile(`\bwhispering\b`),
	regexp.MustCompile(`\bshouting\b`),
	regexp.MustCompile(`\bmusic playing\b`),
	regexp.MustCompile(`\bdoor closes\b`),
	regexp.MustCompile(`\bphone ringing\b`),
	regexp.MustCompile(`\bfootsteps\b`),
	regexp.MustCompile(`\bsighs\b`),
	regexp.MustCompile(`\blaughs\b`),
	regexp.MustCompile(`\bcries\b`),
	regexp.MustCompile(`\bin the distance\b`),
	regexp.MustCompile(`\bmuffled\b`),
	regexp.MustCompile(`\bechoing\b`),
	regexp.MustCompile(`\bdramatic music\b`),
	regexp.MustCompile(`\btense music\b`),
}

var sdhSpanStripper = strings.NewReplacer("[", "", "]", "", "(", "", ")", "", "*", "", "♪", "")

// IsSDH reports whether a track reads like subtitles for the deaf and hard of
// hearing. A track qualifies when more than 10% of entries carry a bracketed
// sound cue, or when at least three distinct SDH phrase patterns appear
// anywhere in the text.
func IsSDH(entries []Entry) bool {
	if len(entries) == 0 {
		return false
	}

	indicatorCount := 0
	for _, entry := range entries {
		if entryHasSDHIndicator(entry.Text) {
			indicatorCount++
		}
	}
	isSDH := float64(indicatorCount)/float64(len(entries)) > 0.10

	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString(strings.ToLower(entry.Text))
		builder.WriteByte(' ')
	}
	fullText := builder.String()

	phraseCount := 0
	for _, pattern := range sdhPhrasePatterns {
		if pattern.MatchString(fullText) {
			phraseCount++
		}
	}
	if phraseCount >= 3 {
		isSDH = true
	}

	return isSDH
}

func entryHasSDHIndicator(text string) bool {
	for _, pattern := range sdhSpanPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			content := strings.ToLower(strings.TrimSpace(sdhSpanStripper.Replace(match)))
			for _, keyword := range sdhKeywords {
				if strings.Contains(content, keyword) {
					return true
				}
			}
		}
	}
	return false
}
