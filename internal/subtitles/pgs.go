package subtitles

import "fmt"

// Image-based subtitle codecs as ffprobe reports them. These tracks have no
// parseable cue text, so classification falls back to frame counting.
var imageBasedCodecs = map[string]bool{
	"hdmv_pgs_subtitle": true,
	"pgs":               true,
	"dvdsub":            true,
	"dvbsub":            true,
	"dvd_subtitle":      true,
	"s_hdmv/pgs":        true,
}

// IsImageBased reports whether a subtitle codec stores images rather than
// text.
func IsImageBased(codec string) bool {
	return imageBasedCodecs[codec]
}

// ClassifyImageBased decides forced/full for an image-based track from its
// packet count. Forced tracks put up a handful of frames across a feature;
// full transcripts show a frame for nearly every line of dialogue.
func ClassifyImageBased(frameCount int, durationSeconds float64) Verdict {
	if durationSeconds <= 0 {
		return Verdict{true, "no duration available for frame density", ConfidenceLow}
	}
	framesPerMinute := float64(frameCount) / (durationSeconds / 60)

	switch {
	case frameCount < 100:
		return Verdict{true, fmt.Sprintf("very low frame count (%d frames)", frameCount), ConfidenceHigh}
	case framesPerMinute < 5:
		return Verdict{true, fmt.Sprintf("very low frame density (%.1f frames/min)", framesPerMinute), ConfidenceHigh}
	case framesPerMinute > 30:
		return Verdict{false, fmt.Sprintf("high frame density (%.1f frames/min)", framesPerMinute), ConfidenceHigh}
	case framesPerMinute < 15:
		return Verdict{true, fmt.Sprintf("low frame density (%.1f frames/min)", framesPerMinute), ConfidenceMedium}
	default:
		return Verdict{false, fmt.Sprintf("moderate frame density (%.1f frames/min)", framesPerMinute), ConfidenceMedium}
	}
}
