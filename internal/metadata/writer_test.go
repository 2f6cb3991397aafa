package metadata

import "testing"

func TestTrackName(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		forced bool
		sdh    bool
		want   string
	}{
		{"plain language", "fr", false, false, "French"},
		{"forced", "fr", true, false, "French [Forced]"},
		{"sdh", "en", false, true, "English [SDH]"},
		{"forced and sdh", "fr", true, true, "French [Forced] [SDH]"},
		{"bibliographic code resolves", "fre", false, false, "French"},
		{"no linguistic content", "zxx", false, false, "No Linguistic Content"},
		{"unknown short code stays uppercased", "xy", false, false, "XY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrackName(tt.code, tt.forced, tt.sdh); got != tt.want {
				t.Errorf("TrackName(%q, %v, %v) = %q, want %q", tt.code, tt.forced, tt.sdh, got, tt.want)
			}
		})
	}
}
