package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	component := NewComponentLogger(logger, "audiolang")
	component.Info("language detected",
		String("code", "fr"),
		Float64("confidence", 0.92),
		Int("attempt", 1),
	)

	line := strings.TrimSuffix(buf.String(), "\n")
	if strings.Contains(line, "\n") {
		t.Fatalf("expected a single line, got %q", buf.String())
	}
	if !strings.Contains(line, " INFO audiolang: language detected") {
		t.Errorf("line = %q", line)
	}
	if !strings.Contains(line, "code=fr") || !strings.Contains(line, "confidence=0.92") || !strings.Contains(line, "attempt=1") {
		t.Errorf("line missing attrs: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component attr should be folded into the prefix: %q", line)
	}
}

func TestConsoleHandlerQuoting(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("event",
		String("path", "/media/two words.mkv"),
		String("empty", ""),
		Error(errors.New("exit status 1")),
	)

	line := buf.String()
	if !strings.Contains(line, `path="/media/two words.mkv"`) {
		t.Errorf("spaced value not quoted: %q", line)
	}
	if !strings.Contains(line, `empty=""`) {
		t.Errorf("empty value not quoted: %q", line)
	}
	if !strings.Contains(line, `error="exit status 1"`) {
		t.Errorf("error attr: %q", line)
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("suppressed")
	logger.Debug("suppressed")
	logger.Warn("kept")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Errorf("filtered levels leaked: %q", output)
	}
	if !strings.Contains(output, "WARN kept") {
		t.Errorf("warn line missing: %q", output)
	}
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("processed", String(FieldFile, "movie.mkv"))

	line := buf.String()
	for _, want := range []string{`"level":"info"`, `"msg":"processed"`, `"file":"movie.mkv"`, `"ts":"`} {
		if !strings.Contains(line, want) {
			t.Errorf("json line %q missing %s", line, want)
		}
	}
}

func TestMaybeQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{"plain", "plain"},
		{"two words", `"two words"`},
		{"key=value", `"key=value"`},
		{`has"quote`, `"has\"quote"`},
		{"/media/file.mkv", "/media/file.mkv"},
	}
	for _, tt := range tests {
		if got := maybeQuote(tt.input); got != tt.want {
			t.Errorf("maybeQuote(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(nil, 0) {
		t.Error("nop logger should report disabled")
	}
	// Must not panic.
	NewComponentLogger(nil, "test").Info("dropped", String("k", "v"))
}
