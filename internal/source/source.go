// Package source decodes frames out of recordings for the renderer.
package source

import (
	"context"
	"fmt"
	"image"
	"math"
	"os/exec"
	"strconv"
	"sync"

	"github.com/ivlev/camreel/internal/system"
)

// Source yields the picture a recording shows at a position.
type Source interface {
	Size() (width, height int)
	FrameAt(ctx context.Context, ms float64) (image.Image, error)
	Close() error
}

// VideoSource extracts single frames from a video file with ffmpeg.
type VideoSource struct {
	ffmpeg string
	path   string
	width  int
	height int

	mu      sync.Mutex
	lastKey int64
	last    *image.RGBA
}

// NewVideoSource probes path once for its dimensions.
func NewVideoSource(ctx context.Context, tools system.Tools, path string) (*VideoSource, error) {
	w, h, err := system.ProbeSize(ctx, tools.FFprobe, path)
	if err != nil {
		return nil, err
	}
	return &VideoSource{ffmpeg: tools.FFmpeg, path: path, width: w, height: h, lastKey: -1}, nil
}

func (s *VideoSource) Size() (int, int) {
	return s.width, s.height
}

// FrameAt returns the frame at ms. Consecutive requests for the same
// millisecond reuse the previous decode.
func (s *VideoSource) FrameAt(ctx context.Context, ms float64) (image.Image, error) {
	if ms < 0 {
		ms = 0
	}
	key := int64(math.Round(ms))

	s.mu.Lock()
	defer s.mu.Unlock()
	if key == s.lastKey && s.last != nil {
		return s.last, nil
	}

	cmd := exec.CommandContext(ctx, s.ffmpeg,
		"-v", "error",
		"-ss", strconv.FormatFloat(float64(key)/1000, 'f', 3, 64),
		"-i", s.path,
		"-frames:v", "1",
		"-f", "rawvideo", "-pix_fmt", "rgba",
		"-",
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("extract frame at %dms from %s: %w", key, s.path, err)
	}

	img, err := rawRGBA(out, s.width, s.height)
	if err != nil {
		return nil, fmt.Errorf("extract frame at %dms from %s: %w", key, s.path, err)
	}
	s.lastKey, s.last = key, img
	return img, nil
}

func (s *VideoSource) Close() error {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
	return nil
}

// rawRGBA wraps packed RGBA bytes without copying.
func rawRGBA(data []byte, w, h int) (*image.RGBA, error) {
	need := w * h * 4
	if len(data) < need {
		return nil, fmt.Errorf("short frame: got %d bytes, want %d", len(data), need)
	}
	return &image.RGBA{Pix: data[:need], Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, nil
}
