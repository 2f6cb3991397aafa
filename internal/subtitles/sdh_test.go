package subtitles

import "testing"

func dialogueEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Text: "We have to leave before sunrise."}
	}
	return entries
}

func TestIsSDHBracketedCues(t *testing.T) {
	entries := dialogueEntries(10)
	entries[1].Text = "[door closes]"
	entries[4].Text = "(PHONE RINGING)"

	if !IsSDH(entries) {
		t.Error("20% sound cues should classify as SDH")
	}
}

func TestIsSDHBelowRatio(t *testing.T) {
	entries := dialogueEntries(20)
	entries[3].Text = "[door closes]"

	if IsSDH(entries) {
		t.Error("5% sound cues should not classify as SDH")
	}
}

func TestIsSDHIgnoresNonKeywordSpans(t *testing.T) {
	entries := dialogueEntries(10)
	entries[0].Text = "(angry) You did what?"
	entries[2].Text = "My brother [the older one] called."
	entries[5].Text = "*waves* Over here!"

	if IsSDH(entries) {
		t.Error("bracketed spans without sound keywords should not count")
	}
}

func TestIsSDHPhrasePatterns(t *testing.T) {
	entries := dialogueEntries(30)
	entries[2].Text = "narrator: It was a dark night."
	entries[10].Text = "dramatic music swells"
	entries[20].Text = "footsteps approach the door"

	if !IsSDH(entries) {
		t.Error("three distinct SDH phrases should classify as SDH")
	}
}

func TestIsSDHMusicNotes(t *testing.T) {
	entries := dialogueEntries(10)
	entries[0].Text = "♪ soft music playing ♪"
	entries[5].Text = "♪ upbeat music ♪"

	if !IsSDH(entries) {
		t.Error("music note cues with sound keywords should classify as SDH")
	}
}

func TestIsSDHEmpty(t *testing.T) {
	if IsSDH(nil) {
		t.Error("empty track classified as SDH")
	}
}
