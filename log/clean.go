package log

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxAge of a log file before it is removed.
const maxAge = 72 * time.Hour

func cleanStaleLogs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), filePrefix) || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}

	return nil
}
