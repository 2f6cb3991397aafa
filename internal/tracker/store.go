package tracker

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then clear the tracking database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// mtimeTolerance absorbs filesystem timestamp granularity differences when
// comparing recorded and current modification times.
const mtimeTolerance = time.Second

// Store persists processing state backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is one tracked file.
type Entry struct {
	Path               string
	Size               int64
	ModTime            time.Time
	AudioProcessed     bool
	SubtitlesProcessed bool
	ProcessedAt        time.Time
}

// Status reports which parts of a file still need work.
type Status struct {
	// SkipAudio is true when the audio tracks were already tagged and the
	// file is unchanged on disk.
	SkipAudio bool
	// SkipSubtitles is the same for subtitle tracks.
	SkipSubtitles bool
}

// Stats summarizes the tracking database.
type Stats struct {
	Total        int
	AudioOnly    int
	SubtitleOnly int
	Both         int
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the tracking database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'mkvlang cache clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Check looks up the file's processing status. An entry whose recorded size
// or modification time no longer matches the file on disk is dropped and the
// file reported as fully unprocessed; a deleted file is dropped too.
func (s *Store) Check(ctx context.Context, path string) (Status, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Status{}, fmt.Errorf("resolve path: %w", err)
	}

	var (
		size       int64
		mtimeNanos int64
		audio      int
		subtitles  int
	)
	row := s.db.QueryRowContext(ctx,
		"SELECT size, mtime_unix_nanos, audio_processed, subtitles_processed FROM processed_files WHERE path = ?", abs)
	if err := row.Scan(&size, &mtimeNanos, &audio, &subtitles); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("query processed entry: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if clearErr := s.Clear(ctx, abs); clearErr != nil {
			return Status{}, clearErr
		}
		return Status{}, nil
	}

	drift := info.ModTime().UnixNano() - mtimeNanos
	if drift < 0 {
		drift = -drift
	}
	if info.Size() != size || drift > int64(mtimeTolerance) {
		if clearErr := s.Clear(ctx, abs); clearErr != nil {
			return Status{}, clearErr
		}
		return Status{}, nil
	}

	return Status{SkipAudio: audio != 0, SkipSubtitles: subtitles != 0}, nil
}

// MarkProcessed records a completed file. Calls where neither audio nor
// subtitle processing succeeded are ignored so failures stay retryable.
func (s *Store) MarkProcessed(ctx context.Context, path string, audioSuccess, subtitleSuccess bool) error {
	if !audioSuccess && !subtitleSuccess {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat for tracking: %w", err)
	}

	return s.execWithRetry(ctx, `
		INSERT INTO processed_files (path, size, mtime_unix_nanos, audio_processed, subtitles_processed, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mtime_unix_nanos = excluded.mtime_unix_nanos,
			audio_processed = MAX(processed_files.audio_processed, excluded.audio_processed),
			subtitles_processed = MAX(processed_files.subtitles_processed, excluded.subtitles_processed),
			processed_at = excluded.processed_at`,
		abs, info.Size(), info.ModTime().UnixNano(), boolToInt(audioSuccess), boolToInt(subtitleSuccess),
		time.Now().UTC().Format(time.RFC3339),
	)
}

// Clear removes one file from tracking, forcing reprocessing on next scan.
func (s *Store) Clear(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	return s.execWithRetry(ctx, "DELETE FROM processed_files WHERE path = ?", abs)
}

// ClearAll removes every tracked entry.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.execWithRetry(ctx, "DELETE FROM processed_files")
}

// Stats summarizes the tracked files by which track types were tagged.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(1),
			COALESCE(SUM(CASE WHEN audio_processed = 1 AND subtitles_processed = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN subtitles_processed = 1 AND audio_processed = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN audio_processed = 1 AND subtitles_processed = 1 THEN 1 ELSE 0 END), 0)
		FROM processed_files`)

	var stats Stats
	if err := row.Scan(&stats.Total, &stats.AudioOnly, &stats.SubtitleOnly, &stats.Both); err != nil {
		return Stats{}, fmt.Errorf("query tracking stats: %w", err)
	}
	return stats, nil
}

// Entries returns all tracked files ordered by path.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, size, mtime_unix_nanos, audio_processed, subtitles_processed, processed_at
		FROM processed_files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("query tracked entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			mtimeNanos  int64
			audio       int
			subtitles   int
			processedAt string
		)
		if err := rows.Scan(&entry.Path, &entry.Size, &mtimeNanos, &audio, &subtitles, &processedAt); err != nil {
			return nil, fmt.Errorf("scan tracked entry: %w", err)
		}
		entry.ModTime = time.Unix(0, mtimeNanos)
		entry.AudioProcessed = audio != 0
		entry.SubtitlesProcessed = subtitles != 0
		if parsed, parseErr := time.Parse(time.RFC3339, processedAt); parseErr == nil {
			entry.ProcessedAt = parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
