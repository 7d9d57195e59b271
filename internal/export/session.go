package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"

	"github.com/rs/zerolog"

	"github.com/ivlev/camreel/internal/compositor"
	"github.com/ivlev/camreel/internal/project"
	"github.com/ivlev/camreel/internal/system"
)

// Options configures a frame export Session.
type Options struct {
	// Encoder is required.
	Encoder FrameEncoder
	// Capturer is required.
	Capturer Capturer
	Settings Settings
	// Progress receives monotonic percentages ending at 100 on success.
	Progress func(percent float64)
	Logger   zerolog.Logger
}

func (o *Options) validate() {
	if o.Encoder == nil {
		panic("export: Encoder is required")
	}
	if o.Capturer == nil {
		panic("export: Capturer is required")
	}
}

// Session renders a project frame by frame. Frame f is evaluated at
// f*1000/fps, captured, and acknowledged by the sink before frame f+1 is
// evaluated. A session never skips or reorders frames.
type Session struct {
	opts Options
	log  zerolog.Logger
}

func NewSession(opts Options) *Session {
	opts.validate()
	return &Session{opts: opts, log: opts.Logger}
}

// FrameCount is the number of frames needed to cover duration ms.
func FrameCount(duration float64, fps int) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(duration * float64(fps) / 1000))
}

// Run exports p to out. On failure or cancellation the partial output is
// removed.
func (s *Session) Run(ctx context.Context, p *project.Project, out string) Result {
	settings := s.opts.Settings
	if err := settings.validate(); err != nil {
		return failed(err)
	}
	total := FrameCount(p.End(), settings.FPS)
	if total == 0 {
		return failed(errors.New("project is empty"))
	}

	progress := newProgress(s.opts.Progress)
	progress.report(0)

	sink, err := s.opts.Encoder.OpenStream(ctx, settings, out)
	if err != nil {
		return failed(fmt.Errorf("failed to open encoder: %w", err))
	}

	buf := system.GetImage(image.Rect(0, 0, settings.Width, settings.Height))
	defer system.PutImage(buf)

	s.log.Info().Int("frames", total).Int("fps", settings.FPS).Str("output", out).Msg("export started")

	for f := 0; f < total; f++ {
		if err := ctx.Err(); err != nil {
			return s.abort(sink, out, fmt.Errorf("%w at frame %d", ErrCanceled, f))
		}

		t := float64(f) * 1000 / float64(settings.FPS)
		frame := compositor.Evaluate(p, t)

		if err := s.opts.Capturer.Capture(ctx, frame, buf); err != nil {
			if ctx.Err() != nil {
				return s.abort(sink, out, fmt.Errorf("%w at frame %d", ErrCanceled, f))
			}
			return s.abort(sink, out, fmt.Errorf("capture frame %d: %w", f, err))
		}
		if err := sink.WriteFrame(buf); err != nil {
			return s.abort(sink, out, fmt.Errorf("write frame %d: %w", f, err))
		}

		progress.report(float64(f+1) * 99 / float64(total))
	}

	if err := sink.Close(); err != nil {
		os.Remove(out)
		return failed(fmt.Errorf("failed to finalize output: %w", err))
	}

	progress.report(100)
	s.log.Info().Str("output", out).Msg("export finished")
	return Result{Success: true}
}

func (s *Session) abort(sink FrameSink, out string, err error) Result {
	sink.Abort()
	if rmErr := os.Remove(out); rmErr != nil && !os.IsNotExist(rmErr) {
		s.log.Warn().Err(rmErr).Str("output", out).Msg("failed to remove partial output")
	}
	s.log.Error().Err(err).Msg("export aborted")
	return failed(err)
}
