package whisper

import (
	"context"
	"errors"
	"slices"
	"testing"

	"mkvlang/internal/audiolang"
)

const driverOutput = `{
	"language": "fr",
	"language_probability": 0.93,
	"segments": [
		{"start": 0.0, "end": 4.2, "text": " Bonjour tout le monde.", "avg_logprob": -0.21},
		{"start": 4.2, "end": 7.9, "text": " Comment allez-vous?", "avg_logprob": -0.35}
	]
}`

func TestTranscribe(t *testing.T) {
	service := NewService(Config{
		Model:               "small",
		VADSupported:        true,
		VADMinSpeechMillis:  250,
		VADMaxSpeechSeconds: 30,
	})

	var gotName string
	var gotArgs []string
	service.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte(driverOutput), nil
	})

	result, err := service.Transcribe(context.Background(), "/tmp/sample.wav", audiolang.Options{
		VADFilter:   true,
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}

	if gotName != "uv" {
		t.Errorf("command = %q, want uv", gotName)
	}
	for _, want := range [][]string{
		{"run", "--quiet", "--with", "faster-whisper"},
		{"--model", "small"},
		{"--device", "cpu"},
		{"--compute-type", "int8"},
		{"--temperature", "0.2"},
		{"--vad-min-speech-ms", "250"},
		{"--vad-max-speech-s", "30"},
	} {
		if !containsSequence(gotArgs, want) {
			t.Errorf("args %v missing %v", gotArgs, want)
		}
	}
	if !slices.Contains(gotArgs, "--vad-filter") {
		t.Errorf("args %v missing --vad-filter", gotArgs)
	}
	if !slices.Contains(gotArgs, "/tmp/sample.wav") {
		t.Errorf("args %v missing audio path", gotArgs)
	}

	if result.Language != "fr" || result.LanguageProbability != 0.93 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(result.Segments))
	}
	if result.Segments[0].AvgLogProb != -0.21 {
		t.Errorf("AvgLogProb = %f", result.Segments[0].AvgLogProb)
	}
	if result.Segments[1].Text != " Comment allez-vous?" {
		t.Errorf("segment text = %q", result.Segments[1].Text)
	}
}

func TestTranscribeVADNotSupported(t *testing.T) {
	service := NewService(Config{VADSupported: false})

	var gotArgs []string
	service.WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(`{"language": "en", "language_probability": 0.5, "segments": []}`), nil
	})

	if _, err := service.Transcribe(context.Background(), "/tmp/sample.wav", audiolang.Options{VADFilter: true}); err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if slices.Contains(gotArgs, "--vad-filter") {
		t.Errorf("VAD flag passed despite unsupported backend: %v", gotArgs)
	}
	if service.SupportsVAD() {
		t.Error("SupportsVAD = true, want false")
	}
}

func TestTranscribeDefaults(t *testing.T) {
	service := NewService(Config{})
	if service.Model() != "base" {
		t.Errorf("Model = %q, want base", service.Model())
	}
}

func TestTranscribeCommandFailure(t *testing.T) {
	service := NewService(Config{})
	service.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("uv not found")
	})

	if _, err := service.Transcribe(context.Background(), "/tmp/sample.wav", audiolang.Options{}); err == nil {
		t.Fatal("expected error from failed command")
	}
}

func TestTranscribeBadJSON(t *testing.T) {
	service := NewService(Config{})
	service.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("Traceback (most recent call last):"), nil
	})

	if _, err := service.Transcribe(context.Background(), "/tmp/sample.wav", audiolang.Options{}); err == nil {
		t.Fatal("expected error for unparseable output")
	}
}

func containsSequence(haystack, needle []string) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if slices.Equal(haystack[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}
