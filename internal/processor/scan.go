package processor

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// remuxableExtensions are containers the remux preflight can convert.
// Without remuxing enabled only Matroska files are eligible, since
// mkvpropedit writes nothing else.
var remuxableExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".wmv": true, ".flv": true,
	".webm": true, ".m4v": true, ".m2ts": true, ".mts": true, ".ts": true,
	".vob": true,
}

// ScanFiles expands the given paths into the sorted list of video files to
// process. Directories are walked recursively; explicit file arguments are
// taken as-is.
func ScanFiles(paths []string, includeRemuxable bool) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, abs)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		walkErr := filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(entry))
			if ext == ".mkv" || (includeRemuxable && remuxableExtensions[ext]) {
				add(entry)
			}
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	sort.Strings(files)
	return files, nil
}
