package audiolang

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mkvlang/internal/language"
	"mkvlang/internal/logging"
)

// Method records which fallback tier produced a verdict.
type Method string

const (
	// MethodSampled means a sampled-segment attempt cleared the threshold.
	MethodSampled Method = "sampled"
	// MethodFullTrack means the full-track escalation decided.
	MethodFullTrack Method = "full_track"
	// MethodMajority means the majority vote over sampled attempts decided.
	MethodMajority Method = "majority"
)

// Verdict is the final language decision for one audio track.
type Verdict struct {
	Code       string
	Confidence float64
	Method     Method
}

// ErrNoVerdict is returned when every retry and fallback tier failed to
// produce any language decision. The track's tag is left unchanged.
var ErrNoVerdict = errors.New("no language verdict")

// Config bounds the retry/escalation search.
type Config struct {
	// ConfidenceThreshold is the confidence a non-zxx verdict needs to be
	// committed without further escalation.
	ConfidenceThreshold float64
	// MaxRetries is the number of sampled-segment attempts.
	MaxRetries int
	// VADEnabled runs the voice-activity-filtered attempt first. Disabled
	// when the installed engine does not support VAD parameters.
	VADEnabled bool
	// FullTrackTimeout bounds the full-track extraction and transcription.
	FullTrackTimeout time.Duration
}

// Detector drives the bounded-retry, confidence-escalating language search
// for audio tracks.
type Detector struct {
	engine Engine
	cfg    Config
	logger *slog.Logger
}

// NewDetector creates a detector. A nil logger disables logging.
func NewDetector(engine Engine, cfg Config, logger *slog.Logger) *Detector {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	return &Detector{
		engine: engine,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "audiolang"),
	}
}

// Detect returns a language verdict for the audio track behind src.
//
// Each retry analyzes a different sampled-segment set. A non-zxx verdict at
// or above the threshold returns immediately. When the samples stay
// inconclusive the whole track is analyzed once; zxx from that clean pass is
// trusted regardless of confidence. The last resort is a majority vote over
// everything the samples produced.
func (d *Detector) Detect(ctx context.Context, src SampleSource) (Verdict, error) {
	var detections []string
	bestConfidence := 0.0
	bestCode := ""

	for attempt := 0; attempt < d.cfg.MaxRetries; attempt++ {
		code, confidence, ok := d.analyzeSample(ctx, src, attempt)
		if !ok {
			continue
		}
		detections = append(detections, code)
		if confidence > bestConfidence {
			bestConfidence = confidence
			bestCode = code
		}
		if code != language.NoLinguisticContent && confidence >= d.cfg.ConfidenceThreshold {
			d.logger.Info("language detected from sample",
				logging.String("code", code),
				logging.Float64("confidence", confidence),
				logging.Int("attempt", attempt+1),
			)
			return Verdict{Code: code, Confidence: confidence, Method: MethodSampled}, nil
		}
	}

	if bestCode != "" && bestCode != language.NoLinguisticContent && bestConfidence >= d.cfg.ConfidenceThreshold {
		return Verdict{Code: bestCode, Confidence: bestConfidence, Method: MethodSampled}, nil
	}

	d.logger.Info("sample confidence below threshold, analyzing full track",
		logging.Float64("best_confidence", bestConfidence),
		logging.Float64("threshold", d.cfg.ConfidenceThreshold),
	)

	if verdict, ok := d.analyzeFullTrack(ctx, src); ok {
		return verdict, nil
	}

	return d.majorityVote(detections)
}

// analyzeSample extracts one sampled-segment set and classifies it.
func (d *Detector) analyzeSample(ctx context.Context, src SampleSource, attempt int) (string, float64, bool) {
	path, cleanup, err := src.Sample(ctx, attempt)
	if err != nil {
		d.logger.Debug("sample extraction failed",
			logging.Int("attempt", attempt+1),
			logging.Error(err),
		)
		return "", 0, false
	}
	defer cleanup()

	return d.classifyAudio(ctx, path)
}

// analyzeFullTrack runs the full-track escalation. The boolean reports
// whether it reached a committed verdict.
func (d *Detector) analyzeFullTrack(ctx context.Context, src SampleSource) (Verdict, bool) {
	if d.cfg.FullTrackTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.FullTrackTimeout)
		defer cancel()
	}

	path, cleanup, err := src.FullTrack(ctx)
	if err != nil {
		d.logger.Debug("full track extraction failed", logging.Error(err))
		return Verdict{}, false
	}
	defer cleanup()

	code, confidence, ok := d.classifyAudio(ctx, path)
	if !ok {
		return Verdict{}, false
	}

	d.logger.Info("full track analysis result",
		logging.String("code", code),
		logging.Float64("confidence", confidence),
	)

	// A clean-audio analysis saying "no speech" is trusted regardless of
	// confidence.
	if code == language.NoLinguisticContent {
		return Verdict{Code: code, Confidence: confidence, Method: MethodFullTrack}, true
	}
	if confidence >= d.cfg.ConfidenceThreshold {
		return Verdict{Code: code, Confidence: confidence, Method: MethodFullTrack}, true
	}
	return Verdict{}, false
}

// classifyAudio runs the two-flavor attempt ladder on one WAV file: the
// voice-activity-filtered pass first, then the unfiltered retry carrying the
// "VAD removed everything" signal forward.
func (d *Detector) classifyAudio(ctx context.Context, audioPath string) (string, float64, bool) {
	vadRemovedAll := false

	if d.cfg.VADEnabled {
		ev, err := Attempt(ctx, d.engine, audioPath, true)
		switch {
		case err != nil:
			d.logger.Debug("filtered transcription failed", logging.Error(err))
		case ev.SegmentsDetected > 0:
			return Classify(ev), ev.Confidence, true
		default:
			vadRemovedAll = true
			d.logger.Debug("voice activity filtering removed all audio, retrying unfiltered")
		}
	}

	ev, err := Attempt(ctx, d.engine, audioPath, false)
	if err != nil {
		d.logger.Debug("unfiltered transcription failed", logging.Error(err))
		return "", 0, false
	}
	ev.VADRemovedAll = vadRemovedAll
	return Classify(ev), ev.Confidence, true
}

// majorityVote is the final fallback over everything the sampled attempts
// produced. Any real language beats zxx; unanimous zxx is accepted; an empty
// record means total failure.
func (d *Detector) majorityVote(detections []string) (Verdict, error) {
	if len(detections) == 0 {
		return Verdict{}, ErrNoVerdict
	}

	counts := make(map[string]int, len(detections))
	zxxCount := 0
	for _, code := range detections {
		if code == language.NoLinguisticContent {
			zxxCount++
			continue
		}
		counts[code]++
	}

	if len(counts) > 0 {
		best := ""
		bestCount := 0
		// Walk the detections in order so ties resolve to the first-seen code.
		for _, code := range detections {
			if code == language.NoLinguisticContent {
				continue
			}
			if counts[code] > bestCount {
				best = code
				bestCount = counts[code]
			}
		}
		d.logger.Info("using most frequent sampled language",
			logging.String("code", best),
			logging.Int("votes", bestCount),
		)
		return Verdict{Code: best, Method: MethodMajority}, nil
	}

	if zxxCount == len(detections) {
		d.logger.Info("all attempts detected no linguistic content",
			logging.Int("attempts", zxxCount),
		)
		return Verdict{Code: language.NoLinguisticContent, Method: MethodMajority}, nil
	}

	return Verdict{}, ErrNoVerdict
}
