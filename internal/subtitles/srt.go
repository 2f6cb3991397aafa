package subtitles

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one parsed subtitle cue. Start and End are seconds from container
// start.
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// ParseSRTFile reads and parses an SRT file.
func ParseSRTFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	return ParseSRT(string(data)), nil
}

// ParseSRT parses SRT content. Malformed blocks are skipped rather than
// failing the track; extracted subtitles are frequently sloppy.
func ParseSRT(content string) []Entry {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(content), "\n\n")

	var entries []Entry
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}

		timing := lines[1]
		parts := strings.Split(timing, "-->")
		if len(parts) != 2 {
			continue
		}
		start, err := parseSRTTimestamp(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		end, err := parseSRTTimestamp(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}

		text := ""
		if len(lines) > 2 {
			text = strings.TrimSpace(strings.Join(lines[2:], "\n"))
		}

		entries = append(entries, Entry{Index: index, Start: start, End: end, Text: text})
	}
	return entries
}

// parseSRTTimestamp converts "HH:MM:SS,mmm" to seconds.
func parseSRTTimestamp(value string) (float64, error) {
	value = strings.ReplaceAll(value, ",", ".")
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("srt timestamp %q: expected HH:MM:SS,mmm", value)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("srt timestamp %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("srt timestamp %q: %w", value, err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return 0, fmt.Errorf("srt timestamp %q: %w", value, err)
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

var (
	htmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	assOverridePattern = regexp.MustCompile(`\{[^}]+\}`)
)

// SampleText builds a text sample for language detection from chunks around
// the beginning, middle, and end of the track, with formatting tags stripped.
// Sampling three regions guards against foreign-language cold opens skewing
// the result.
func SampleText(entries []Entry, maxChars int) string {
	if len(entries) == 0 {
		return ""
	}

	indices := []int{0}
	if len(entries) > 10 {
		indices = append(indices, len(entries)/2)
	}
	if len(entries) > 20 {
		indices = append(indices, len(entries)-1)
	}

	var builder strings.Builder
	for _, idx := range indices {
		start := idx - 5
		if start < 0 {
			start = 0
		}
		end := idx + 5
		if end > len(entries) {
			end = len(entries)
		}
		for _, entry := range entries[start:end] {
			text := htmlTagPattern.ReplaceAllString(entry.Text, "")
			text = assOverridePattern.ReplaceAllString(text, "")
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			builder.WriteString(text)
			if builder.Len() >= maxChars {
				return builder.String()[:maxChars]
			}
		}
	}
	return builder.String()
}
