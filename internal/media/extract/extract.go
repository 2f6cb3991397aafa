package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"mkvlang/internal/logging"
)

// audioFilterChain boosts and band-limits speech before transcription.
// The dynaudnorm pass evens out quiet dialogue against loud effects.
const audioFilterChain = "volume=2.0,highpass=f=80,lowpass=f=8000,dynaudnorm=f=200:g=3"

// minAudioBytes rejects extractions that produced a header and nothing else.
const minAudioBytes = 10000

// minSubtitleBytes rejects empty subtitle extractions.
const minSubtitleBytes = 100

// Extractor runs ffmpeg extractions against one container file.
type Extractor struct {
	FFmpeg  string
	FFprobe string
	Path    string
	// DurationSeconds is the container duration; zero falls back to a
	// two-hour assumption for sample positioning.
	DurationSeconds float64
	Logger          *slog.Logger
}

func (e *Extractor) logger() *slog.Logger {
	return logging.NewComponentLogger(e.Logger, "extract")
}

// sampleWindows returns the start offsets and per-sample length for one retry
// attempt. Longer features get more, longer samples; retries shift the
// positions so a failed attempt does not re-analyze the same audio. The first
// and last 5% are skipped to avoid studio logos and credits.
func sampleWindows(duration float64, attempt int) (starts []int, sampleSeconds int) {
	if duration <= 0 {
		duration = 7200
	}

	var percentageSets [][]float64
	switch {
	case duration > 3600:
		sampleSeconds = 90
		percentageSets = [][]float64{
			{0.15, 0.25, 0.35, 0.50, 0.65},
			{0.08, 0.20, 0.45, 0.75, 0.88},
			{0.12, 0.40, 0.60, 0.80, 0.90},
		}
	case duration > 1800:
		sampleSeconds = 75
		percentageSets = [][]float64{
			{0.15, 0.30, 0.50, 0.70},
			{0.08, 0.40, 0.65, 0.85},
			{0.25, 0.45, 0.75, 0.90},
		}
	default:
		sampleSeconds = 60
		percentageSets = [][]float64{
			{0.20, 0.50, 0.80},
			{0.10, 0.35, 0.75},
			{0.30, 0.60, 0.90},
		}
	}

	if attempt >= len(percentageSets) {
		attempt = len(percentageSets) - 1
	}
	minStart := duration * 0.05
	if minStart < 60 {
		minStart = 60
	}
	maxStart := duration * 0.85

	for _, pct := range percentageSets[attempt] {
		start := duration * pct
		if start < minStart {
			start = minStart
		}
		if start > maxStart {
			start = maxStart
		}
		starts = append(starts, int(start))
	}
	return starts, sampleSeconds
}

// audioMappings are the -map specifiers tried in order. Containers with odd
// stream layouts sometimes reject the type-relative form but accept the
// absolute stream index.
func audioMappings(trackIndex, streamIndex int) []string {
	return []string{
		fmt.Sprintf("0:a:%d", trackIndex),
		fmt.Sprintf("0:%d", streamIndex),
		fmt.Sprintf("a:%d", trackIndex),
	}
}

// AudioSample extracts one normalized mono 16kHz WAV sample from the audio
// track, trying successive window positions and mapping strategies until one
// yields audible audio. The caller owns the returned file and must call
// cleanup.
func (e *Extractor) AudioSample(ctx context.Context, trackIndex, streamIndex, attempt int) (string, func(), error) {
	starts, sampleSeconds := sampleWindows(e.DurationSeconds, attempt)
	log := e.logger()

	for _, start := range starts {
		for _, mapping := range audioMappings(trackIndex, streamIndex) {
			path, err := e.tempFile("mkvlang-sample-*.wav")
			if err != nil {
				return "", nil, err
			}

			args := []string{
				"-y", "-v", "error",
				"-ss", strconv.Itoa(start),
				"-i", e.Path,
				"-t", strconv.Itoa(sampleSeconds),
				"-map", mapping,
				"-ar", "16000",
				"-ac", "1",
				"-af", audioFilterChain,
				"-f", "wav",
				path,
			}
			if err := e.runFFmpeg(ctx, args); err != nil {
				os.Remove(path)
				log.Debug("sample extraction attempt failed",
					logging.Int("start_seconds", start),
					logging.String("mapping", mapping),
					logging.Error(err),
				)
				continue
			}
			if !fileAtLeast(path, minAudioBytes) {
				os.Remove(path)
				continue
			}
			if !e.hasReasonableVolume(ctx, path) {
				log.Debug("sample has very low volume, trying next window",
					logging.Int("start_seconds", start),
				)
				os.Remove(path)
				break
			}
			return path, func() { os.Remove(path) }, nil
		}
	}
	return "", nil, fmt.Errorf("extract audio sample: no usable window in %s", e.Path)
}

// FullAudioTrack extracts the entire audio track as a normalized WAV. The
// caller bounds the operation through ctx.
func (e *Extractor) FullAudioTrack(ctx context.Context, trackIndex, streamIndex int) (string, func(), error) {
	for _, mapping := range audioMappings(trackIndex, streamIndex) {
		path, err := e.tempFile("mkvlang-full-*.wav")
		if err != nil {
			return "", nil, err
		}

		args := []string{
			"-y", "-v", "error",
			"-i", e.Path,
			"-map", mapping,
			"-ar", "16000",
			"-ac", "1",
			"-af", audioFilterChain,
			"-f", "wav",
			path,
		}
		if err := e.runFFmpeg(ctx, args); err != nil {
			os.Remove(path)
			if ctx.Err() != nil {
				return "", nil, fmt.Errorf("extract full audio track: %w", ctx.Err())
			}
			e.logger().Debug("full track extraction attempt failed",
				logging.String("mapping", mapping),
				logging.Error(err),
			)
			continue
		}
		if !fileAtLeast(path, minAudioBytes) {
			os.Remove(path)
			continue
		}
		return path, func() { os.Remove(path) }, nil
	}
	return "", nil, fmt.Errorf("extract full audio track: all mappings failed for %s", e.Path)
}

// SubtitleTrack extracts a subtitle track for analysis. Text-based tracks are
// converted to SRT; image-based tracks are copied as SUP since they cannot be
// converted to text.
func (e *Extractor) SubtitleTrack(ctx context.Context, trackIndex, streamIndex int, imageBased bool) (string, func(), error) {
	pattern := "mkvlang-sub-*.srt"
	codec := "srt"
	if imageBased {
		pattern = "mkvlang-sub-*.sup"
		codec = "copy"
	}

	mappings := []string{
		fmt.Sprintf("0:s:%d", trackIndex),
		fmt.Sprintf("0:%d", streamIndex),
		fmt.Sprintf("s:%d", trackIndex),
	}
	for _, mapping := range mappings {
		path, err := e.tempFile(pattern)
		if err != nil {
			return "", nil, err
		}

		args := []string{
			"-y", "-v", "warning",
			"-i", e.Path,
			"-map", mapping,
			"-c:s", codec,
			path,
		}
		if err := e.runFFmpeg(ctx, args); err != nil {
			os.Remove(path)
			e.logger().Debug("subtitle extraction attempt failed",
				logging.String("mapping", mapping),
				logging.Error(err),
			)
			continue
		}
		if !fileAtLeast(path, minSubtitleBytes) {
			os.Remove(path)
			continue
		}
		return path, func() { os.Remove(path) }, nil
	}
	return "", nil, fmt.Errorf("extract subtitle track %d: all mappings failed for %s", trackIndex, e.Path)
}

// hasReasonableVolume rejects samples that are effectively silence. An
// unreadable probe counts as acceptable rather than discarding a usable
// sample.
func (e *Extractor) hasReasonableVolume(ctx context.Context, audioPath string) bool {
	cmd := exec.CommandContext(ctx, e.ffmpegBinary(),
		"-i", audioPath,
		"-af", "volumedetect",
		"-f", "null", "-",
		"-v", "quiet", "-stats",
	)
	output, _ := cmd.CombinedOutput()

	for _, line := range strings.Split(string(output), "\n") {
		idx := strings.Index(line, "mean_volume:")
		if idx < 0 {
			continue
		}
		value := line[idx+len("mean_volume:"):]
		if dbIdx := strings.Index(value, "dB"); dbIdx >= 0 {
			value = value[:dbIdx]
		}
		db, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		return db > -60.0
	}
	return true
}

func (e *Extractor) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, e.ffmpegBinary(), args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (e *Extractor) ffmpegBinary() string {
	if strings.TrimSpace(e.FFmpeg) == "" {
		return "ffmpeg"
	}
	return e.FFmpeg
}

func (e *Extractor) tempFile(pattern string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func fileAtLeast(path string, size int64) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() >= size
}
