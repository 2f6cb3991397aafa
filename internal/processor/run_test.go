package processor

import (
	"errors"
	"testing"
)

func TestSummaryCounting(t *testing.T) {
	summary := Summary{
		Files: []FileResult{
			{
				Path: "/media/a.mkv",
				Tracks: []TrackResult{
					{Kind: KindAudio, Language: "en"},
					{Kind: KindAudio, Language: "fr"},
					{Kind: KindSubtitle, Language: "en", Forced: true},
					{Kind: KindSubtitle, Language: "en", SDH: true},
				},
			},
			{
				Path: "/media/b.mkv",
				Tracks: []TrackResult{
					{Kind: KindAudio, Skipped: true, SkipReason: "already tagged"},
					{Kind: KindSubtitle, Err: errors.New("extraction failed")},
				},
			},
			{
				Path: "/media/c.mkv",
				Err:  errors.New("ffprobe failed"),
			},
		},
	}

	if got := summary.AudioTagged(); got != 2 {
		t.Errorf("AudioTagged = %d, want 2", got)
	}
	if got := summary.SubtitlesTagged(); got != 2 {
		t.Errorf("SubtitlesTagged = %d, want 2", got)
	}
	if got := summary.Failures(); got != 2 {
		t.Errorf("Failures = %d, want 2", got)
	}
	if got := summary.ForcedFound(); got != 1 {
		t.Errorf("ForcedFound = %d, want 1", got)
	}
	if got := summary.SDHFound(); got != 1 {
		t.Errorf("SDHFound = %d, want 1", got)
	}
}

func TestKindSucceeded(t *testing.T) {
	tests := []struct {
		name   string
		tracks []TrackResult
		kind   TrackKind
		want   bool
	}{
		{"no tracks counts as success", nil, KindAudio, true},
		{"all tagged", []TrackResult{
			{Kind: KindAudio, Language: "en"},
			{Kind: KindAudio, Language: "fr"},
		}, KindAudio, true},
		{"one tagged one failed", []TrackResult{
			{Kind: KindAudio, Language: "en"},
			{Kind: KindAudio, Err: errors.New("no language verdict")},
		}, KindAudio, false},
		{"audio failure does not taint subtitles", []TrackResult{
			{Kind: KindAudio, Err: errors.New("no language verdict")},
			{Kind: KindSubtitle, Language: "en"},
		}, KindSubtitle, true},
		{"deliberate skip is not a failure", []TrackResult{
			{Kind: KindSubtitle, Skipped: true, SkipReason: "confidence 0.40 below threshold 0.85"},
		}, KindSubtitle, true},
		{"subtitle failure", []TrackResult{
			{Kind: KindSubtitle, Err: errors.New("extraction failed")},
		}, KindSubtitle, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kindSucceeded(tt.tracks, tt.kind); got != tt.want {
				t.Errorf("kindSucceeded = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummaryEmpty(t *testing.T) {
	var summary Summary
	if summary.AudioTagged() != 0 || summary.SubtitlesTagged() != 0 || summary.Failures() != 0 {
		t.Error("empty summary should count zero everywhere")
	}
}
