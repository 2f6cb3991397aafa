package subtitles

import "testing"

func TestIsImageBased(t *testing.T) {
	tests := []struct {
		codec string
		want  bool
	}{
		{"hdmv_pgs_subtitle", true},
		{"dvd_subtitle", true},
		{"dvdsub", true},
		{"subrip", false},
		{"ass", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsImageBased(tt.codec); got != tt.want {
			t.Errorf("IsImageBased(%q) = %v, want %v", tt.codec, got, tt.want)
		}
	}
}

func TestClassifyImageBased(t *testing.T) {
	tests := []struct {
		name           string
		frames         int
		duration       float64
		wantForced     bool
		wantConfidence int
	}{
		{"very few frames", 50, 3600, true, ConfidenceHigh},
		{"low density long feature", 150, 3600, true, ConfidenceHigh},
		{"dense short clip", 200, 300, false, ConfidenceHigh},
		{"sparse frames", 600, 3600, true, ConfidenceMedium},
		{"moderate density", 1200, 3600, false, ConfidenceMedium},
		{"no duration", 500, 0, true, ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := ClassifyImageBased(tt.frames, tt.duration)
			if verdict.Forced != tt.wantForced {
				t.Errorf("Forced = %v (%s), want %v", verdict.Forced, verdict.Reason, tt.wantForced)
			}
			if verdict.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %d, want %d", verdict.Confidence, tt.wantConfidence)
			}
		})
	}
}
