package processor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"mkvlang/internal/audiolang"
	"mkvlang/internal/config"
	"mkvlang/internal/language"
	"mkvlang/internal/logging"
	"mkvlang/internal/media/extract"
	"mkvlang/internal/media/ffprobe"
	"mkvlang/internal/media/remux"
	"mkvlang/internal/metadata"
	"mkvlang/internal/services/tesseract"
	"mkvlang/internal/subtitles"
	"mkvlang/internal/tracker"
)

// TrackKind distinguishes track results in the summary.
type TrackKind string

const (
	KindAudio    TrackKind = "audio"
	KindSubtitle TrackKind = "subtitle"
)

// TrackResult is one track's outcome.
type TrackResult struct {
	Kind       TrackKind
	Index      int
	Previous   string
	Language   string
	Confidence float64
	Method     string
	Forced     bool
	SDH        bool
	Skipped    bool
	SkipReason string
	Err        error
}

// FileResult is one file's outcome.
type FileResult struct {
	Path       string
	Remuxed    bool
	Skipped    bool
	SkipReason string
	Tracks     []TrackResult
	Err        error
}

// Processor runs the per-file classification pipeline.
type Processor struct {
	cfg          *config.Config
	store        *tracker.Store
	engine       audiolang.Engine
	writer       *metadata.Writer
	remuxer      *remux.Remuxer
	ocr          *tesseract.Service
	textDetector *subtitles.TextDetector
	logger       *slog.Logger
}

// Options wires the processor's collaborators. Store and OCR may be nil;
// tracking and image-subtitle language detection degrade gracefully.
type Options struct {
	Config       *config.Config
	Store        *tracker.Store
	Engine       audiolang.Engine
	Writer       *metadata.Writer
	Remuxer      *remux.Remuxer
	OCR          *tesseract.Service
	TextDetector *subtitles.TextDetector
	Logger       *slog.Logger
}

// New creates a processor.
func New(opts Options) *Processor {
	return &Processor{
		cfg:          opts.Config,
		store:        opts.Store,
		engine:       opts.Engine,
		writer:       opts.Writer,
		remuxer:      opts.Remuxer,
		ocr:          opts.OCR,
		textDetector: opts.TextDetector,
		logger:       logging.NewComponentLogger(opts.Logger, "processor"),
	}
}

// ProcessFile classifies and tags every eligible track in one file.
func (p *Processor) ProcessFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}
	log := p.logger.With(logging.String(logging.FieldFile, path))

	skipAudio, skipSubtitles := false, false
	if p.store != nil && p.cfg.Processing.UseTracking {
		if p.cfg.Processing.ForceReprocess {
			if err := p.store.Clear(ctx, path); err != nil {
				log.Warn("could not clear tracking entry", logging.Error(err))
			}
		} else {
			status, err := p.store.Check(ctx, path)
			if err != nil {
				log.Warn("tracking lookup failed", logging.Error(err))
			} else {
				skipAudio = status.SkipAudio
				skipSubtitles = status.SkipSubtitles
			}
		}
	}
	subtitlesEnabled := p.cfg.Subtitles.Enabled
	if skipAudio && (skipSubtitles || !subtitlesEnabled) {
		result.Skipped = true
		result.SkipReason = "already processed"
		log.Info("skipping previously processed file")
		return result
	}

	if p.cfg.Processing.RemuxToMKV && p.remuxer != nil {
		remuxed, err := p.remuxer.ToMKV(ctx, path)
		if err != nil {
			result.Err = err
			return result
		}
		if remuxed != path {
			result.Remuxed = true
			path = remuxed
			result.Path = remuxed
			log = p.logger.With(logging.String(logging.FieldFile, path))
		}
	}
	if !strings.EqualFold(filepath.Ext(path), ".mkv") {
		result.Skipped = true
		result.SkipReason = "not a matroska container"
		return result
	}

	probe, err := ffprobe.Inspect(ctx, "", path)
	if err != nil {
		result.Err = fmt.Errorf("inspect container: %w", err)
		return result
	}
	duration := probe.DurationSeconds()

	extractor := &extract.Extractor{
		Path:            path,
		DurationSeconds: duration,
		Logger:          p.logger,
	}

	audioOK := false
	if !skipAudio {
		audioOK = p.processAudioTracks(ctx, log, path, probe, extractor, &result)
	}

	subtitleOK := false
	if subtitlesEnabled && !skipSubtitles {
		subtitleOK = p.processSubtitleTracks(ctx, log, path, probe, duration, extractor, &result)
	}

	if p.store != nil && p.cfg.Processing.UseTracking && !p.cfg.Processing.DryRun {
		if err := p.store.MarkProcessed(ctx, path, audioOK || skipAudio, subtitleOK || skipSubtitles); err != nil {
			log.Warn("could not record processed file", logging.Error(err))
		}
	}
	return result
}

// processAudioTracks classifies untagged audio tracks. Returns true when no
// audio track failed; a file with nothing left to tag counts as success so
// the tracker can record it.
func (p *Processor) processAudioTracks(ctx context.Context, log *slog.Logger, path string, probe ffprobe.Result, extractor *extract.Extractor, result *FileResult) bool {
	detector := audiolang.NewDetector(p.engine, audiolang.Config{
		ConfidenceThreshold: p.cfg.Whisper.ConfidenceThreshold,
		MaxRetries:          p.cfg.Whisper.MaxRetries,
		VADEnabled:          p.cfg.Whisper.VADFilter && p.cfg.Whisper.VADSupported,
		FullTrackTimeout:    time.Duration(p.cfg.Whisper.OperationTimeoutSecs) * time.Second,
	}, p.logger)

	for trackIndex, stream := range probe.AudioStreams() {
		current := language.Normalize(language.ExtractFromTags(stream.Tags))
		if !p.cfg.Processing.ReprocessAll && language.IsTagged(language.ExtractFromTags(stream.Tags)) {
			continue
		}

		track := TrackResult{Kind: KindAudio, Index: trackIndex, Previous: current}
		log.Info("analyzing audio track", logging.Int(logging.FieldTrack, trackIndex))

		sampler := &trackSampler{extractor: extractor, trackIndex: trackIndex, streamIndex: stream.Index}
		verdict, err := detector.Detect(ctx, sampler)
		if err != nil {
			track.Err = fmt.Errorf("audio track %d: %w", trackIndex, err)
			result.Tracks = append(result.Tracks, track)
			continue
		}

		track.Language = verdict.Code
		track.Confidence = verdict.Confidence
		track.Method = string(verdict.Method)

		if err := p.writer.SetAudioLanguage(ctx, path, trackIndex, verdict.Code); err != nil {
			track.Err = err
		}
		result.Tracks = append(result.Tracks, track)
	}
	return kindSucceeded(result.Tracks, KindAudio)
}

// kindSucceeded reports whether no track of the given kind failed. Zero
// tracks of the kind is success: the file is done as far as that kind is
// concerned and should not be re-probed on the next run.
func kindSucceeded(tracks []TrackResult, kind TrackKind) bool {
	for _, track := range tracks {
		if track.Kind == kind && track.Err != nil {
			return false
		}
	}
	return true
}

// processSubtitleTracks classifies subtitle tracks: language, forced flag,
// and SDH. Returns true when no subtitle track failed; deliberate skips and
// files with nothing left to tag count as success.
func (p *Processor) processSubtitleTracks(ctx context.Context, log *slog.Logger, path string, probe ffprobe.Result, duration float64, extractor *extract.Extractor, result *FileResult) bool {
	classifier := subtitles.NewForcedClassifier(subtitles.Thresholds{
		LowDensity:   p.cfg.Subtitles.LowDensityThreshold,
		HighDensity:  p.cfg.Subtitles.HighDensityThreshold,
		LowCoverage:  p.cfg.Subtitles.LowCoverageThreshold,
		HighCoverage: p.cfg.Subtitles.HighCoverageThreshold,
		MinCount:     p.cfg.Subtitles.MinCountThreshold,
		MaxCount:     p.cfg.Subtitles.MaxCountThreshold,
	}, p.logger)

	audioStreams := probe.AudioStreams()

	for trackIndex, stream := range probe.SubtitleStreams() {
		current := language.ExtractFromTags(stream.Tags)
		if !p.cfg.Processing.ReprocessAllSubtitles && language.IsTagged(current) {
			continue
		}

		track := TrackResult{Kind: KindSubtitle, Index: trackIndex, Previous: language.Normalize(current)}
		log.Info("analyzing subtitle track",
			logging.Int(logging.FieldTrack, trackIndex),
			logging.String("codec", stream.CodecName),
		)

		if subtitles.IsImageBased(strings.ToLower(stream.CodecName)) {
			p.processImageSubtitle(ctx, log, path, duration, trackIndex, stream, &track)
		} else {
			p.processTextSubtitle(ctx, log, path, duration, trackIndex, stream, extractor, classifier, audioStreams, &track)
		}

		result.Tracks = append(result.Tracks, track)
	}
	return kindSucceeded(result.Tracks, KindSubtitle)
}

func (p *Processor) processTextSubtitle(ctx context.Context, log *slog.Logger, path string, duration float64, trackIndex int, stream ffprobe.Stream, extractor *extract.Extractor, classifier *subtitles.ForcedClassifier, audioStreams []ffprobe.Stream, track *TrackResult) {
	subPath, cleanup, err := extractor.SubtitleTrack(ctx, trackIndex, stream.Index, false)
	if err != nil {
		track.Err = err
		return
	}
	defer cleanup()

	entries, err := subtitles.ParseSRTFile(subPath)
	if err != nil {
		track.Err = err
		return
	}
	if len(entries) == 0 {
		track.Skipped = true
		track.SkipReason = "no subtitle entries"
		return
	}

	detected := p.textDetector.Detect(entries)
	track.Language = detected.Code
	track.Confidence = detected.Confidence

	if detected.Confidence < p.cfg.Subtitles.ConfidenceThreshold {
		track.Skipped = true
		track.SkipReason = fmt.Sprintf("confidence %.2f below threshold %.2f", detected.Confidence, p.cfg.Subtitles.ConfidenceThreshold)
		log.Warn("subtitle language confidence below threshold, skipping",
			logging.Int(logging.FieldTrack, trackIndex),
			logging.String("language", detected.Code),
			logging.Float64("confidence", detected.Confidence),
		)
		return
	}

	if p.cfg.Subtitles.AnalyzeForced {
		stats := subtitles.ComputeStatistics(entries, duration)
		var speech subtitles.SpeechDetector
		if len(audioStreams) > 0 && p.engine != nil {
			speech = &speechDetector{
				extractor:   extractor,
				engine:      p.engine,
				trackIndex:  0,
				streamIndex: audioStreams[0].Index,
			}
		}
		verdict := classifier.Classify(ctx, stats, duration, speech)
		track.Forced = verdict.Forced
		log.Info("forced subtitle decision",
			logging.Int(logging.FieldTrack, trackIndex),
			logging.Bool("forced", verdict.Forced),
			logging.String("reason", verdict.Reason),
			logging.Int("tier_confidence", verdict.Confidence),
		)
	}

	if p.cfg.Subtitles.DetectSDH {
		track.SDH = subtitles.IsSDH(entries)
	}

	if err := p.writer.SetSubtitleMetadata(ctx, path, trackIndex, track.Language, track.Forced, track.SDH); err != nil {
		track.Err = err
	}
}

func (p *Processor) processImageSubtitle(ctx context.Context, log *slog.Logger, path string, duration float64, trackIndex int, stream ffprobe.Stream, track *TrackResult) {
	if p.ocr == nil {
		track.Skipped = true
		track.SkipReason = "image-based subtitle, ocr unavailable"
		return
	}

	texts, err := p.ocr.RecognizeTrack(ctx, path, trackIndex)
	if err != nil {
		track.Err = fmt.Errorf("subtitle track %d: %w", trackIndex, err)
		return
	}

	entries := make([]subtitles.Entry, 0, len(texts))
	for i, text := range texts {
		entries = append(entries, subtitles.Entry{Index: i + 1, Text: text})
	}
	detected := p.textDetector.Detect(entries)
	track.Language = detected.Code
	track.Confidence = detected.Confidence

	if detected.Confidence < p.cfg.Subtitles.ConfidenceThreshold {
		track.Skipped = true
		track.SkipReason = fmt.Sprintf("ocr confidence %.2f below threshold %.2f", detected.Confidence, p.cfg.Subtitles.ConfidenceThreshold)
		return
	}

	if p.cfg.Subtitles.AnalyzeForced {
		frames, countErr := ffprobe.PacketCount(ctx, "", path, stream.Index)
		if countErr != nil {
			log.Debug("could not count subtitle packets", logging.Error(countErr))
		} else {
			verdict := subtitles.ClassifyImageBased(frames, duration)
			track.Forced = verdict.Forced
			log.Info("forced subtitle decision",
				logging.Int(logging.FieldTrack, trackIndex),
				logging.Bool("forced", verdict.Forced),
				logging.String("reason", verdict.Reason),
			)
		}
	}

	if err := p.writer.SetSubtitleMetadata(ctx, path, trackIndex, track.Language, track.Forced, track.SDH); err != nil {
		track.Err = err
	}
}
