package whisper

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"mkvlang/internal/audiolang"
)

//go:embed transcribe.py
var driverScript string

// Command names for external tools.
const (
	UVCommand = "uv"

	// DefaultModel balances accuracy against CPU cost for language
	// identification, which does not need a transcription-grade model.
	DefaultModel = "base"

	fasterWhisperPackage = "faster-whisper"
)

// Config captures runtime settings for transcription runs.
type Config struct {
	// Model is the faster-whisper model name (e.g. "base", "small").
	Model string
	// Device is the inference device ("cpu", "cuda", "auto").
	Device string
	// ComputeType is the ctranslate2 compute type ("int8", "float16", ...).
	ComputeType string
	// VADSupported reports whether the installed backend accepts VAD
	// parameters. Resolved once at startup.
	VADSupported bool
	// VADMinSpeechMillis and VADMaxSpeechSeconds tune the VAD segmenter.
	VADMinSpeechMillis  int
	VADMaxSpeechSeconds int
}

// Service implements audiolang.Engine on top of the faster-whisper CLI
// driver.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

	scriptOnce sync.Once
	scriptPath string
	scriptErr  error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Device == "" {
		cfg.Device = "cpu"
	}
	if cfg.ComputeType == "" {
		cfg.ComputeType = "int8"
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// SupportsVAD reports whether VAD-filtered attempts can run.
func (s *Service) SupportsVAD() bool {
	return s.cfg.VADSupported
}

// payload mirrors the driver script's JSON output.
type payload struct {
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Segments            []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogProb float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// Transcribe runs one recognition pass over a mono 16 kHz WAV file.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts audiolang.Options) (audiolang.Result, error) {
	script, err := s.ensureScript()
	if err != nil {
		return audiolang.Result{}, err
	}

	args := []string{
		"run", "--quiet", "--with", fasterWhisperPackage, script,
		audioPath,
		"--model", s.cfg.Model,
		"--device", s.cfg.Device,
		"--compute-type", s.cfg.ComputeType,
		"--temperature", strconv.FormatFloat(opts.Temperature, 'f', -1, 64),
	}
	if opts.VADFilter && s.cfg.VADSupported {
		args = append(args, "--vad-filter")
		if s.cfg.VADMinSpeechMillis > 0 {
			args = append(args, "--vad-min-speech-ms", strconv.Itoa(s.cfg.VADMinSpeechMillis))
		}
		if s.cfg.VADMaxSpeechSeconds > 0 {
			args = append(args, "--vad-max-speech-s", strconv.Itoa(s.cfg.VADMaxSpeechSeconds))
		}
	}

	output, err := s.run(ctx, UVCommand, args...)
	if err != nil {
		return audiolang.Result{}, fmt.Errorf("faster-whisper: %w", err)
	}

	var parsed payload
	if err := json.Unmarshal(output, &parsed); err != nil {
		return audiolang.Result{}, fmt.Errorf("parse faster-whisper output: %w", err)
	}

	result := audiolang.Result{
		Language:            parsed.Language,
		LanguageProbability: parsed.LanguageProbability,
	}
	for _, seg := range parsed.Segments {
		result.Segments = append(result.Segments, audiolang.Segment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			AvgLogProb: seg.AvgLogProb,
		})
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// ensureScript materializes the embedded driver once per process.
func (s *Service) ensureScript() (string, error) {
	s.scriptOnce.Do(func() {
		file, err := os.CreateTemp("", "mkvlang-whisper-*.py")
		if err != nil {
			s.scriptErr = fmt.Errorf("write driver script: %w", err)
			return
		}
		if _, err := file.WriteString(driverScript); err != nil {
			file.Close()
			os.Remove(file.Name())
			s.scriptErr = fmt.Errorf("write driver script: %w", err)
			return
		}
		if err := file.Close(); err != nil {
			os.Remove(file.Name())
			s.scriptErr = fmt.Errorf("write driver script: %w", err)
			return
		}
		s.scriptPath = file.Name()
	})
	return s.scriptPath, s.scriptErr
}
