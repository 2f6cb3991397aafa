package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mkvlang/internal/logging"
)

// Summary aggregates the outcome of one run.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Files    []FileResult
}

// AudioTagged counts successfully tagged audio tracks.
func (s Summary) AudioTagged() int { return s.countTracks(KindAudio, false) }

// SubtitlesTagged counts successfully tagged subtitle tracks.
func (s Summary) SubtitlesTagged() int { return s.countTracks(KindSubtitle, false) }

// Failures counts tracks that ended in an error.
func (s Summary) Failures() int {
	count := 0
	for _, file := range s.Files {
		if file.Err != nil {
			count++
		}
		for _, track := range file.Tracks {
			if track.Err != nil {
				count++
			}
		}
	}
	return count
}

// ForcedFound counts subtitle tracks flagged forced.
func (s Summary) ForcedFound() int {
	count := 0
	for _, file := range s.Files {
		for _, track := range file.Tracks {
			if track.Kind == KindSubtitle && track.Err == nil && !track.Skipped && track.Forced {
				count++
			}
		}
	}
	return count
}

// SDHFound counts subtitle tracks flagged SDH.
func (s Summary) SDHFound() int {
	count := 0
	for _, file := range s.Files {
		for _, track := range file.Tracks {
			if track.Kind == KindSubtitle && track.Err == nil && !track.Skipped && track.SDH {
				count++
			}
		}
	}
	return count
}

func (s Summary) countTracks(kind TrackKind, skipped bool) int {
	count := 0
	for _, file := range s.Files {
		for _, track := range file.Tracks {
			if track.Kind == kind && track.Err == nil && track.Skipped == skipped {
				count++
			}
		}
	}
	return count
}

// Run processes every file sequentially under the state-directory lock. A
// second concurrent invocation fails fast instead of corrupting tracking
// state.
func (p *Processor) Run(ctx context.Context, files []string) (Summary, error) {
	summary := Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	log := p.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	if p.store != nil {
		lockPath := filepath.Join(p.cfg.Paths.StateDir, "mkvlang.lock")
		lock := flock.New(lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return summary, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return summary, fmt.Errorf("another mkvlang run holds %s", lockPath)
		}
		defer func() { _ = lock.Unlock() }()
	}

	log.Info("run started", logging.Int("files", len(files)))

	for _, file := range files {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		result := p.ProcessFile(ctx, file)
		if result.Err != nil {
			log.Error("file processing failed",
				logging.String(logging.FieldFile, file),
				logging.Error(result.Err),
			)
		}
		summary.Files = append(summary.Files, result)
	}

	summary.Finished = time.Now()
	log.Info("run finished",
		logging.Int("audio_tagged", summary.AudioTagged()),
		logging.Int("subtitles_tagged", summary.SubtitlesTagged()),
		logging.Int("failures", summary.Failures()),
		logging.Duration("elapsed", summary.Finished.Sub(summary.Started)),
	)
	return summary, nil
}
