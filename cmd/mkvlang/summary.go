package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"mkvlang/internal/language"
	"mkvlang/internal/processor"
)

func renderSummary(out io.Writer, summary processor.Summary) {
	headers := []string{"File", "Track", "Language", "Confidence", "Flags", "Status"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}

	var rows [][]string
	for _, file := range summary.Files {
		name := filepath.Base(file.Path)
		if file.Err != nil {
			rows = append(rows, []string{name, "", "", "", "", "error: " + file.Err.Error()})
			continue
		}
		if file.Skipped {
			rows = append(rows, []string{name, "", "", "", "", "skipped: " + file.SkipReason})
			continue
		}
		for _, track := range file.Tracks {
			rows = append(rows, summaryRow(name, track))
		}
	}

	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
	}

	fmt.Fprintf(out, "Files processed: %d\n", len(summary.Files))
	fmt.Fprintf(out, "Audio tracks tagged: %d\n", summary.AudioTagged())
	fmt.Fprintf(out, "Subtitle tracks tagged: %d\n", summary.SubtitlesTagged())
	if forced := summary.ForcedFound(); forced > 0 {
		fmt.Fprintf(out, "Forced subtitles detected: %d\n", forced)
	}
	if sdh := summary.SDHFound(); sdh > 0 {
		fmt.Fprintf(out, "SDH subtitles detected: %d\n", sdh)
	}
	if failures := summary.Failures(); failures > 0 {
		fmt.Fprintf(out, "Failures: %d\n", failures)
	}
}

func summaryRow(file string, track processor.TrackResult) []string {
	trackLabel := fmt.Sprintf("%s %d", track.Kind, track.Index)

	lang := ""
	if track.Language != "" {
		lang = fmt.Sprintf("%s (%s)", language.DisplayName(track.Language), track.Language)
	}

	confidence := ""
	if track.Confidence > 0 {
		confidence = fmt.Sprintf("%.2f", track.Confidence)
	}

	var flags []string
	if track.Forced {
		flags = append(flags, "forced")
	}
	if track.SDH {
		flags = append(flags, "sdh")
	}

	status := "tagged"
	switch {
	case track.Err != nil:
		status = "error: " + track.Err.Error()
	case track.Skipped:
		status = "skipped: " + track.SkipReason
	}

	return []string{file, trackLabel, lang, confidence, strings.Join(flags, ","), status}
}
