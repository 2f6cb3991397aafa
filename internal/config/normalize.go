package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// normalize expands user paths and fills derived defaults after decoding.
func (c *Config) normalize() error {
	if len(c.Paths.ScanDirs) == 0 {
		c.Paths.ScanDirs = []string{"."}
	}
	for i, dir := range c.Paths.ScanDirs {
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("scan dir: %w", err)
		}
		c.Paths.ScanDirs[i] = expanded
	}

	for _, field := range []*string{&c.Paths.StateDir, &c.Paths.WorkDir, &c.Paths.LogDir} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = filepath.Join(os.TempDir(), "mkvlang")
	}
	return nil
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "mkvlang")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mkvlang")
	}
	return filepath.Join(home, ".local", "state", "mkvlang")
}
