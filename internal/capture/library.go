package capture

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Summary describes one recording directory in a library.
type Summary struct {
	Path       string
	Name       string
	Duration   float64 // ms, from the event log
	RecordedAt time.Time
	FileSize   int64
	Settings   Settings
}

// DefaultLibrary is where recordings are stored unless configured.
func DefaultLibrary() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "recordings"
	}
	return filepath.Join(home, "Videos", "CamReel")
}

// List returns the recordings under root, newest first. Directories
// without valid metadata are skipped. A missing root is created.
func List(root string, log zerolog.Logger) ([]Summary, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var out []Summary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		meta, err := ReadMeta(dir)
		if err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("skipping directory")
			continue
		}
		out = append(out, Summary{
			Path:       dir,
			Name:       entry.Name(),
			Duration:   meta.Duration(),
			RecordedAt: meta.RecordedTime(),
			FileSize:   recordingSize(dir),
			Settings:   meta.RecordingSettings,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}

// recordingSize is the combined size of both recordings, or zero when
// either is missing.
func recordingSize(dir string) int64 {
	screen, err := os.Stat(filepath.Join(dir, ScreenFileName))
	if err != nil {
		return 0
	}
	cam, err := os.Stat(filepath.Join(dir, CamFileName))
	if err != nil {
		return 0
	}
	return screen.Size() + cam.Size()
}
