package system

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ProbeDuration returns the container duration of a media file in ms.
func ProbeDuration(ctx context.Context, ffprobe, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}

	var seconds float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &seconds); err != nil {
		return 0, fmt.Errorf("ffprobe %s: unexpected duration %q", path, strings.TrimSpace(string(out)))
	}

	return seconds * 1000, nil
}

// ProbeSize returns the dimensions of the first video stream.
func ProbeSize(ctx context.Context, ffprobe, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "error", "-select_streams", "v:0", "-show_entries", "stream=width,height", "-of", "csv=s=x:p=0", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	return parseSize(string(out))
}

func parseSize(s string) (int, int, error) {
	var w, h int
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(s), "\n", 2)[0])
	if _, err := fmt.Sscanf(line, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("unexpected stream size %q", line)
	}
	return w, h, nil
}
