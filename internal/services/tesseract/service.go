package tesseract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"mkvlang/internal/logging"
)

// maxExtractedFrames bounds how many subtitle frames ffmpeg renders.
const maxExtractedFrames = 50

// maxOCRFrames bounds how many of the rendered frames get OCRed.
const maxOCRFrames = 30

// Service extracts frames from image-based subtitle tracks and OCRs them.
type Service struct {
	FFmpeg    string
	Tesseract string
	Logger    *slog.Logger
}

// Available reports whether the tesseract binary responds.
func (s *Service) Available(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, s.tesseractBinary(), "--version")
	return cmd.Run() == nil
}

// RecognizeTrack renders frames from one image-based subtitle track and
// returns the recognized text lines. Frame rendering strategies run in order;
// the subtitle-filter form works for most PGS tracks, the video overlay is
// the fallback for containers that reject it.
func (s *Service) RecognizeTrack(ctx context.Context, videoPath string, subtitleTrackIndex int) ([]string, error) {
	log := logging.NewComponentLogger(s.Logger, "tesseract")

	tempDir, err := os.MkdirTemp("", "mkvlang-ocr-")
	if err != nil {
		return nil, fmt.Errorf("create ocr workdir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	framePattern := filepath.Join(tempDir, "sub_%04d.png")
	strategies := [][]string{
		{
			"-y", "-v", "warning",
			"-i", videoPath,
			"-filter_complex", fmt.Sprintf("[0:s:%d]scale=iw:ih[sub]", subtitleTrackIndex),
			"-map", "[sub]",
			"-frames:v", fmt.Sprint(maxExtractedFrames),
			"-vsync", "0",
			framePattern,
		},
		{
			"-y", "-v", "warning",
			"-i", videoPath,
			"-filter_complex", fmt.Sprintf("[0:v][0:s:%d]overlay[v]", subtitleTrackIndex),
			"-map", "[v]",
			"-frames:v", fmt.Sprint(maxExtractedFrames),
			"-vsync", "0",
			"-q:v", "2",
			framePattern,
		},
	}

	var frames []string
	for _, args := range strategies {
		cmd := exec.CommandContext(ctx, s.ffmpegBinary(), args...)
		if output, runErr := cmd.CombinedOutput(); runErr != nil {
			log.Debug("frame extraction strategy failed",
				logging.Error(fmt.Errorf("%w: %s", runErr, strings.TrimSpace(string(output)))),
			)
		}
		frames, _ = filepath.Glob(filepath.Join(tempDir, "sub_*.png"))
		if len(frames) > 0 {
			break
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("ocr track %d: no subtitle frames extracted from %s", subtitleTrackIndex, videoPath)
	}
	sort.Strings(frames)
	if len(frames) > maxOCRFrames {
		frames = frames[:maxOCRFrames]
	}

	log.Debug("extracted subtitle frames for ocr", logging.Int("frames", len(frames)))

	var texts []string
	for _, frame := range frames {
		text, ocrErr := s.recognizeImage(ctx, frame)
		if ocrErr != nil {
			log.Debug("ocr failed for frame",
				logging.String("frame", filepath.Base(frame)),
				logging.Error(ocrErr),
			)
			continue
		}
		text = strings.TrimSpace(text)
		if len(text) > 2 {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("ocr track %d: no text recognized in %d frames", subtitleTrackIndex, len(frames))
	}
	return texts, nil
}

// recognizeImage OCRs one frame. PSM 6 assumes a uniform block of text,
// which matches rendered subtitle lines.
func (s *Service) recognizeImage(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, s.tesseractBinary(), imagePath, "stdout", "--psm", "6")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(output), nil
}

func (s *Service) ffmpegBinary() string {
	if strings.TrimSpace(s.FFmpeg) == "" {
		return "ffmpeg"
	}
	return s.FFmpeg
}

func (s *Service) tesseractBinary() string {
	if strings.TrimSpace(s.Tesseract) == "" {
		return "tesseract"
	}
	return s.Tesseract
}
