package processor

import (
	"context"

	"mkvlang/internal/audiolang"
	"mkvlang/internal/media/extract"
	"mkvlang/internal/subtitles"
)

// trackSampler adapts one audio track of one container to the detector's
// sample interface.
type trackSampler struct {
	extractor   *extract.Extractor
	trackIndex  int
	streamIndex int
}

var _ audiolang.SampleSource = (*trackSampler)(nil)

func (s *trackSampler) Sample(ctx context.Context, attempt int) (string, func(), error) {
	return s.extractor.AudioSample(ctx, s.trackIndex, s.streamIndex, attempt)
}

func (s *trackSampler) FullTrack(ctx context.Context) (string, func(), error) {
	return s.extractor.FullAudioTrack(ctx, s.trackIndex, s.streamIndex)
}

// speechDetector adapts full-track VAD transcription to the forced
// classifier's overlap analysis.
type speechDetector struct {
	extractor   *extract.Extractor
	engine      audiolang.Engine
	trackIndex  int
	streamIndex int
}

var _ subtitles.SpeechDetector = (*speechDetector)(nil)

func (d *speechDetector) SpeechSpans(ctx context.Context) ([]subtitles.Span, error) {
	path, cleanup, err := d.extractor.FullAudioTrack(ctx, d.trackIndex, d.streamIndex)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := d.engine.Transcribe(ctx, path, audiolang.Options{VADFilter: true})
	if err != nil {
		return nil, err
	}

	spans := make([]subtitles.Span, 0, len(result.Segments))
	for _, seg := range result.Segments {
		spans = append(spans, subtitles.Span{Start: seg.Start, End: seg.End})
	}
	return spans, nil
}
