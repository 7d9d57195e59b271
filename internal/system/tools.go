package system

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrToolMissing is returned when ffmpeg or ffprobe cannot be found.
var ErrToolMissing = errors.New("required tool not found in PATH")

// Tools holds resolved paths of the external media binaries.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// LookupTools resolves ffmpeg and ffprobe. Empty names select the
// defaults.
func LookupTools(ffmpeg, ffprobe string) (Tools, error) {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}

	var t Tools
	var err error
	if t.FFmpeg, err = exec.LookPath(ffmpeg); err != nil {
		return Tools{}, fmt.Errorf("%w: %s", ErrToolMissing, ffmpeg)
	}
	if t.FFprobe, err = exec.LookPath(ffprobe); err != nil {
		return Tools{}, fmt.Errorf("%w: %s", ErrToolMissing, ffprobe)
	}
	return t, nil
}
