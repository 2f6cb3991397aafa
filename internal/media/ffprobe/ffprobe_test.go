package ffprobe

import (
	"encoding/json"
	"testing"
)

const probeJSON = `{
	"streams": [
		{"index": 0, "codec_name": "h264", "codec_type": "video"},
		{"index": 1, "codec_name": "ac3", "codec_type": "audio", "channels": 6,
			"tags": {"language": "eng", "title": "Surround"}},
		{"index": 2, "codec_name": "aac", "codec_type": "audio", "channels": 2,
			"tags": {"LANGUAGE": "fre"}},
		{"index": 3, "codec_name": "subrip", "codec_type": "subtitle",
			"disposition": {"default": 1, "forced": 0, "hearing_impaired": 1}},
		{"index": 4, "codec_name": "hdmv_pgs_subtitle", "codec_type": "subtitle",
			"disposition": {"forced": 1}}
	],
	"format": {
		"filename": "movie.mkv",
		"nb_streams": 5,
		"duration": "5400.250000",
		"format_name": "matroska,webm"
	}
}`

func parseResult(t *testing.T) Result {
	t.Helper()
	var result Result
	if err := json.Unmarshal([]byte(probeJSON), &result); err != nil {
		t.Fatalf("unmarshal probe output: %v", err)
	}
	return result
}

func TestStreamSelection(t *testing.T) {
	result := parseResult(t)

	audio := result.AudioStreams()
	if len(audio) != 2 {
		t.Fatalf("got %d audio streams, want 2", len(audio))
	}
	if audio[0].Index != 1 || audio[1].Index != 2 {
		t.Errorf("audio indexes = %d, %d", audio[0].Index, audio[1].Index)
	}
	if audio[0].Channels != 6 {
		t.Errorf("Channels = %d, want 6", audio[0].Channels)
	}

	subs := result.SubtitleStreams()
	if len(subs) != 2 {
		t.Fatalf("got %d subtitle streams, want 2", len(subs))
	}
	if subs[1].CodecName != "hdmv_pgs_subtitle" {
		t.Errorf("second subtitle codec = %q", subs[1].CodecName)
	}
	if subs[0].Disposition.HearingImpaired != 1 {
		t.Errorf("disposition = %+v", subs[0].Disposition)
	}
	if subs[1].Disposition.Forced != 1 {
		t.Errorf("disposition = %+v", subs[1].Disposition)
	}
}

func TestDurationSeconds(t *testing.T) {
	result := parseResult(t)
	if got := result.DurationSeconds(); got != 5400.25 {
		t.Errorf("DurationSeconds = %f, want 5400.25", got)
	}

	tests := []struct {
		duration string
		want     float64
	}{
		{"", 0},
		{"N/A", 0},
		{"-5", 0},
		{"120.5", 120.5},
	}
	for _, tt := range tests {
		r := Result{Format: Format{Duration: tt.duration}}
		if got := r.DurationSeconds(); got != tt.want {
			t.Errorf("DurationSeconds(%q) = %f, want %f", tt.duration, got, tt.want)
		}
	}
}

func TestStreamTag(t *testing.T) {
	result := parseResult(t)
	audio := result.AudioStreams()

	if got := audio[0].Tag("language"); got != "eng" {
		t.Errorf("Tag(language) = %q, want eng", got)
	}
	if got := audio[1].Tag("language"); got != "fre" {
		t.Errorf("case-variant Tag(language) = %q, want fre", got)
	}
	if got := audio[0].Tag("title"); got != "Surround" {
		t.Errorf("Tag(title) = %q", got)
	}
	if got := audio[0].Tag("missing"); got != "" {
		t.Errorf("Tag(missing) = %q, want empty", got)
	}

	var bare Stream
	if got := bare.Tag("language"); got != "" {
		t.Errorf("nil tags Tag = %q, want empty", got)
	}
}
