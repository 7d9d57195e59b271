// Package export turns a project into a video file, either frame by frame
// through the compositor or by concatenating trimmed source segments.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/ivlev/camreel/internal/compositor"
	"github.com/ivlev/camreel/internal/keyframe"
)

// ErrCanceled is reported when an export is stopped through its context.
var ErrCanceled = errors.New("export canceled")

// Settings describe the output file.
type Settings struct {
	Format  string // mp4 | webm
	Width   int
	Height  int
	FPS     int
	Codec   string // h264 | h265 | vp9, or a concrete ffmpeg encoder name
	Bitrate string // e.g. "8M"; empty leaves rate control to CRF
	CRF     int
}

func (s Settings) validate() error {
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid output size %dx%d", s.Width, s.Height))
	}
	if s.FPS <= 0 {
		errs = append(errs, fmt.Errorf("invalid fps %d", s.FPS))
	}
	return errors.Join(errs...)
}

// FrameSink accepts raw frames in order. WriteFrame returning is the
// acknowledgement that the frame was consumed.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
	// Close flushes and finalizes the output.
	Close() error
	// Abort stops encoding and discards the output.
	Abort()
}

// FrameEncoder opens a raw frame stream to out.
type FrameEncoder interface {
	OpenStream(ctx context.Context, settings Settings, out string) (FrameSink, error)
}

// Capturer rasterizes an evaluated frame into dst. It must not return
// until every source the frame references has been positioned.
type Capturer interface {
	Capture(ctx context.Context, frame compositor.Frame, dst *image.RGBA) error
}

// Segment is one clip's range of a source recording.
type Segment struct {
	ClipID   string
	Source   string
	Start    float64 // source in-point, ms
	Duration float64 // ms
	FadeIn   float64 // ms
	FadeOut  float64 // ms
	// Volume is the audio gain; zero mutes the segment.
	Volume float64
	// Zoom holds segment-local zoom keyframes. Empty means no zoom.
	Zoom []keyframe.Zoom
}

// SegmentEncoder trims and concatenates segments into out.
type SegmentEncoder interface {
	EncodeSegments(ctx context.Context, segments []Segment, settings Settings, out string, progress func(float64)) error
}

// Result is the terminal outcome of an export.
type Result struct {
	Success bool
	Error   error
}

func failed(err error) Result {
	return Result{Error: err}
}

// progressReporter forwards progress clamped to [0, 100] and never lets it
// go backwards. It is safe for concurrent use.
type progressReporter struct {
	mu   sync.Mutex
	last float64
	fn   func(float64)
}

func newProgress(fn func(float64)) *progressReporter {
	return &progressReporter{last: -1, fn: fn}
}

func (p *progressReporter) report(percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if percent <= p.last {
		return
	}
	p.last = percent
	if p.fn != nil {
		p.fn(percent)
	}
}
