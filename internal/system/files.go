package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// VideoExtensions are the recording containers the editor can open.
var VideoExtensions = []string{".webm", ".mp4", ".mov", ".mkv"}

// newest returns the path under dir that stat reports as most recently
// modified. stat returns ok=false for entries that do not qualify.
func newest(dir string, stat func(os.DirEntry) (string, time.Time, bool)) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var best string
	var bestTime time.Time
	for _, e := range entries {
		path, mod, ok := stat(e)
		if ok && mod.After(bestTime) {
			best, bestTime = path, mod
		}
	}
	return best, nil
}

// FindLatestFile returns the most recently modified file in dir whose name
// ends in one of exts, ignoring case.
func FindLatestFile(dir string, exts ...string) (string, error) {
	path, err := newest(dir, func(e os.DirEntry) (string, time.Time, bool) {
		if e.IsDir() || !hasExt(e.Name(), exts) {
			return "", time.Time{}, false
		}
		info, err := e.Info()
		if err != nil {
			return "", time.Time{}, false
		}
		return filepath.Join(dir, e.Name()), info.ModTime(), true
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("no %s files found in %s", strings.Join(exts, "/"), dir)
	}
	return path, nil
}

// FindLatestVideo returns the newest recording in dir.
func FindLatestVideo(dir string) (string, error) {
	return FindLatestFile(dir, VideoExtensions...)
}

// FindLatestProject returns the subdirectory of root whose file called
// name was modified last.
func FindLatestProject(root, name string) (string, error) {
	path, err := newest(root, func(e os.DirEntry) (string, time.Time, bool) {
		if !e.IsDir() {
			return "", time.Time{}, false
		}
		dir := filepath.Join(root, e.Name())
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return "", time.Time{}, false
		}
		return dir, info.ModTime(), true
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("no %s found under %s", name, root)
	}
	return path, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
