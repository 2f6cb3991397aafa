package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/text/cases"
	textlanguage "golang.org/x/text/language"

	"mkvlang/internal/language"
	"mkvlang/internal/logging"
)

// Writer applies track edits through mkvpropedit.
type Writer struct {
	MKVPropedit string
	DryRun      bool
	Logger      *slog.Logger
}

var titleCaser = cases.Title(textlanguage.English)

// TrackName builds the display name written alongside the language tag, for
// example "French [Forced] [SDH]".
func TrackName(code string, forced, sdh bool) string {
	name := language.DisplayName(code)
	if name == strings.ToUpper(name) && len(name) > 3 {
		// Unrecognized code fell through as an uppercased tag; soften it.
		name = titleCaser.String(strings.ToLower(name))
	}

	parts := []string{name}
	if forced {
		parts = append(parts, "[Forced]")
	}
	if sdh {
		parts = append(parts, "[SDH]")
	}
	return strings.Join(parts, " ")
}

// SetAudioLanguage tags one audio track. trackIndex is zero-based within the
// audio tracks; mkvpropedit selectors are one-based.
func (w *Writer) SetAudioLanguage(ctx context.Context, path string, trackIndex int, code string) error {
	log := logging.NewComponentLogger(w.Logger, "metadata")

	if w.DryRun {
		log.Info("dry run: would set audio track language",
			logging.String(logging.FieldFile, path),
			logging.Int(logging.FieldTrack, trackIndex),
			logging.String("language", code),
		)
		return nil
	}

	args := []string{
		path,
		"--edit", fmt.Sprintf("track:a%d", trackIndex+1),
		"--set", "language=" + code,
	}
	if err := w.run(ctx, args); err != nil {
		return fmt.Errorf("set audio language: %w", err)
	}

	log.Info("audio track language written",
		logging.String(logging.FieldFile, path),
		logging.Int(logging.FieldTrack, trackIndex),
		logging.String("language", code),
	)
	return nil
}

// SetSubtitleMetadata tags one subtitle track with language, display name,
// and the forced flag. The forced flag is always written explicitly so stale
// container flags get cleared.
func (w *Writer) SetSubtitleMetadata(ctx context.Context, path string, trackIndex int, code string, forced, sdh bool) error {
	log := logging.NewComponentLogger(w.Logger, "metadata")
	name := TrackName(code, forced, sdh)

	if w.DryRun {
		log.Info("dry run: would set subtitle track metadata",
			logging.String(logging.FieldFile, path),
			logging.Int(logging.FieldTrack, trackIndex),
			logging.String("language", code),
			logging.String("name", name),
			logging.Bool("forced", forced),
			logging.Bool("sdh", sdh),
		)
		return nil
	}

	forcedValue := "0"
	if forced {
		forcedValue = "1"
	}
	args := []string{
		path,
		"--edit", fmt.Sprintf("track:s%d", trackIndex+1),
		"--set", "language=" + code,
		"--set", "name=" + name,
		"--set", "flag-forced=" + forcedValue,
	}
	if err := w.run(ctx, args); err != nil {
		return fmt.Errorf("set subtitle metadata: %w", err)
	}

	log.Info("subtitle track metadata written",
		logging.String(logging.FieldFile, path),
		logging.Int(logging.FieldTrack, trackIndex),
		logging.String("language", code),
		logging.String("name", name),
		logging.Bool("forced", forced),
		logging.Bool("sdh", sdh),
	)
	return nil
}

func (w *Writer) run(ctx context.Context, args []string) error {
	binary := w.MKVPropedit
	if strings.TrimSpace(binary) == "" {
		binary = "mkvpropedit"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mkvpropedit: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
