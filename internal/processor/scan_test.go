package processor

import (
	"path/filepath"
	"testing"

	"mkvlang/internal/testsupport"
)

func TestScanFiles(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{
		"movies/alpha.mkv",
		"movies/beta.MKV",
		"movies/nested/gamma.mkv",
		"movies/delta.mp4",
		"movies/notes.txt",
		"movies/cover.jpg",
	} {
		testsupport.WriteFile(t, filepath.Join(base, name), 64)
	}

	files, err := ScanFiles([]string{filepath.Join(base, "movies")}, false)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3 mkv: %v", len(files), files)
	}
	for _, file := range files {
		if ext := filepath.Ext(file); ext != ".mkv" && ext != ".MKV" {
			t.Errorf("unexpected file %s", file)
		}
	}

	// Sorted output.
	for i := 1; i < len(files); i++ {
		if files[i-1] > files[i] {
			t.Errorf("files not sorted: %s before %s", files[i-1], files[i])
		}
	}
}

func TestScanFilesIncludesRemuxable(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"a.mkv", "b.mp4", "c.avi", "d.srt"} {
		testsupport.WriteFile(t, filepath.Join(base, name), 64)
	}

	files, err := ScanFiles([]string{base}, true)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("got %d files, want mkv+mp4+avi: %v", len(files), files)
	}
}

func TestScanFilesExplicitArguments(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "show.mp4")
	testsupport.WriteFile(t, path, 64)

	// Explicit file arguments bypass the extension filter.
	files, err := ScanFiles([]string{path, path}, false)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1 deduplicated: %v", len(files), files)
	}
	if files[0] != path {
		t.Errorf("files[0] = %s, want %s", files[0], path)
	}
}

func TestScanFilesMissingPath(t *testing.T) {
	if _, err := ScanFiles([]string{filepath.Join(t.TempDir(), "absent")}, false); err == nil {
		t.Fatal("expected error for missing path")
	}
}
