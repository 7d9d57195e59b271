package export

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ivlev/camreel/internal/interp"
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/project"
	"github.com/ivlev/camreel/internal/timeline"
)

// transitionSamples is how many intermediate points approximate an eased
// zoom transition with linear pieces.
const transitionSamples = 8

// SegmentOptions configures a SegmentExport.
type SegmentOptions struct {
	// Encoder is required.
	Encoder  SegmentEncoder
	Settings Settings
	Progress func(percent float64)
	Logger   zerolog.Logger
}

// SegmentExport renders the screen track by trimming every enabled clip
// from its recording and joining the pieces in start-time order. Gaps
// between clips are dropped and the webcam overlay is not composited.
type SegmentExport struct {
	opts SegmentOptions
	log  zerolog.Logger
}

func NewSegmentExport(opts SegmentOptions) *SegmentExport {
	if opts.Encoder == nil {
		panic("export: Encoder is required")
	}
	return &SegmentExport{opts: opts, log: opts.Logger}
}

// Segments lists the enabled screen clips of p as source ranges.
func Segments(p *project.Project) []Segment {
	var out []Segment
	for _, c := range p.Clips.Enabled() {
		if c.Track != timeline.TrackScreen {
			continue
		}
		fadeIn, fadeOut := timeline.ClampFades(c.FadeIn, c.FadeOut, c.Duration)
		seg := Segment{
			ClipID:   c.ID,
			Source:   p.SourcePath(timeline.TrackScreen),
			Start:    c.SourceStart,
			Duration: c.Duration,
			FadeIn:   fadeIn,
			FadeOut:  fadeOut,
		}
		if c.AudioEnabled {
			seg.Volume = c.Volume
		}
		if p.Zoom != nil && p.Zoom.Len() > 0 {
			seg.Zoom = segmentZoom(p.Zoom, c.StartTime, c.Duration)
		}
		out = append(out, seg)
	}
	return out
}

// segmentZoom samples the zoom track over [start, start+duration] and
// returns linear keyframes relative to the segment start.
func segmentZoom(track *keyframe.Track[keyframe.Zoom], start, duration float64) []keyframe.Zoom {
	end := start + duration
	times := []float64{start}
	all := track.All()
	for i, kf := range all {
		if kf.Time > start && kf.Time < end {
			times = append(times, kf.Time)
		}
		if i+1 < len(all) && kf.Curve() != interp.Linear {
			next := all[i+1]
			for s := 1; s < transitionSamples; s++ {
				t := interp.Lerp(kf.Time, next.Time, float64(s)/transitionSamples)
				if t > start && t < end {
					times = append(times, t)
				}
			}
		}
	}
	times = append(times, end)

	local := keyframe.NewZoomTrack()
	flat := true
	for _, t := range times {
		z := track.Query(t)
		z.Time = t - start
		z.Easing = interp.Linear
		if z.Scale != 1 {
			flat = false
		}
		local.Add(z)
	}
	if flat {
		return nil
	}
	return local.All()
}

// Run exports p to out.
func (e *SegmentExport) Run(ctx context.Context, p *project.Project, out string) Result {
	if err := e.opts.Settings.validate(); err != nil {
		return failed(err)
	}
	segments := Segments(p)
	if len(segments) == 0 {
		return failed(errors.New("no enabled screen clips to export"))
	}
	if segments[0].Source == "" {
		return failed(errors.New("project has no screen recording"))
	}
	if _, err := os.Stat(segments[0].Source); err != nil {
		return failed(fmt.Errorf("screen recording not found: %w", err))
	}

	progress := newProgress(e.opts.Progress)
	progress.report(0)

	e.log.Info().Int("segments", len(segments)).Str("output", out).Msg("segment export started")

	err := e.opts.Encoder.EncodeSegments(ctx, segments, e.opts.Settings, out, progress.report)
	if err != nil {
		if rmErr := os.Remove(out); rmErr != nil && !os.IsNotExist(rmErr) {
			e.log.Warn().Err(rmErr).Msg("failed to remove partial output")
		}
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ErrCanceled, err)
		}
		e.log.Error().Err(err).Msg("segment export failed")
		return failed(err)
	}

	progress.report(100)
	e.log.Info().Str("output", out).Msg("segment export finished")
	return Result{Success: true}
}
