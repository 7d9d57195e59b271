// Package engine wires the external tools, frame sources, renderer and
// exporters together for the command line.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ivlev/camreel/internal/analyzer"
	"github.com/ivlev/camreel/internal/capture"
	"github.com/ivlev/camreel/internal/compositor"
	"github.com/ivlev/camreel/internal/config"
	"github.com/ivlev/camreel/internal/director"
	"github.com/ivlev/camreel/internal/effects"
	"github.com/ivlev/camreel/internal/export"
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/project"
	"github.com/ivlev/camreel/internal/renderer"
	"github.com/ivlev/camreel/internal/source"
	"github.com/ivlev/camreel/internal/system"
	"github.com/ivlev/camreel/internal/timeline"
	"github.com/ivlev/camreel/internal/video"
)

// Mode selects the export pipeline.
type Mode string

const (
	// ModeFrames composites every frame and pipes it to the encoder.
	ModeFrames Mode = "frames"
	// ModeSegments trims and joins the screen recording without compositing.
	ModeSegments Mode = "segments"
)

// segmentWorkerBytes is the memory budget of one parallel ffmpeg trim.
const segmentWorkerBytes = 512 << 20

// ErrNoEvents is returned by PlanZoom when the recording has no clicks.
var ErrNoEvents = errors.New("recording has no click events")

type Engine struct {
	Config *config.Config
	Tools  system.Tools
	Log    zerolog.Logger

	hwEncoder string
}

// New resolves ffmpeg and ffprobe and prepares the process for parallel
// encoding. It fails with system.ErrToolMissing when either is absent.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Engine, error) {
	tools, err := system.LookupTools(cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath)
	if err != nil {
		return nil, err
	}
	system.InitResourceLimits(log)

	e := &Engine{Config: cfg, Tools: tools, Log: log}
	if cfg.Export.Hardware {
		e.hwEncoder = system.BestH264Encoder(ctx, tools.FFmpeg)
		log.Info().Str("encoder", e.hwEncoder).Msg("hardware encoder selected")
	}
	return e, nil
}

// Settings converts the export config into encoder settings.
func (e *Engine) Settings() export.Settings {
	c := e.Config.Export
	return export.Settings{
		Format:  c.Format,
		Width:   c.Width,
		Height:  c.Height,
		FPS:     c.FPS,
		Codec:   c.Codec,
		Bitrate: c.Bitrate,
		CRF:     c.CRF,
	}
}

// CreateProject writes a project for the recording in dir and returns it.
// The duration comes from the screen recording, falling back to the
// recorded event log and then to project.DefaultDuration.
func (e *Engine) CreateProject(ctx context.Context, dir string) (*project.Project, error) {
	screen := filepath.Join(dir, capture.ScreenFileName)
	if _, err := os.Stat(screen); err != nil {
		// Imported recordings keep their own names.
		if screen, err = system.FindLatestVideo(dir); err != nil {
			return nil, fmt.Errorf("no screen recording in %s: %w", dir, err)
		}
	}

	probed, err := system.ProbeDuration(ctx, e.Tools.FFprobe, screen)
	if err != nil {
		e.Log.Warn().Err(err).Msg("could not probe recording duration")
	}
	var fromEvents float64
	if meta, err := capture.ReadMeta(dir); err == nil {
		fromEvents = meta.Duration()
	}

	p := project.New(projectDuration(probed, fromEvents))
	p.Path = filepath.Join(dir, project.FileName)
	p.Sources.Screen = filepath.Base(screen)
	if _, err := os.Stat(filepath.Join(dir, capture.CamFileName)); err == nil && p.Sources.Screen != capture.CamFileName {
		p.Sources.Cam = capture.CamFileName
	} else {
		p.Clips = p.Clips.Update("cam-1", func(c *timeline.Clip) { c.Enabled = false })
	}

	if err := project.Save(p, p.Path); err != nil {
		return nil, err
	}
	e.Log.Info().Str("project", p.Path).Float64("duration", p.Duration).Msg("project created")
	return p, nil
}

// projectDuration picks the first positive candidate.
func projectDuration(candidates ...float64) float64 {
	for _, d := range candidates {
		if d > 0 {
			return d
		}
	}
	return project.DefaultDuration
}

// Sources holds the opened recordings of a project. Cam is nil when the
// project has no webcam recording.
type Sources struct {
	Screen source.Source
	Cam    source.Source
}

func (s Sources) Close() {
	if s.Screen != nil {
		s.Screen.Close()
	}
	if s.Cam != nil {
		s.Cam.Close()
	}
}

// OpenSources opens the recordings p refers to.
func (e *Engine) OpenSources(ctx context.Context, p *project.Project) (Sources, error) {
	var s Sources
	if path := p.SourcePath(timeline.TrackScreen); path != "" {
		screen, err := source.NewVideoSource(ctx, e.Tools, path)
		if err != nil {
			return Sources{}, fmt.Errorf("open screen recording: %w", err)
		}
		s.Screen = screen
	}
	if path := p.SourcePath(timeline.TrackCam); path != "" {
		cam, err := source.NewVideoSource(ctx, e.Tools, path)
		if err != nil {
			e.Log.Warn().Err(err).Str("path", path).Msg("webcam recording unavailable")
		} else {
			s.Cam = cam
		}
	}
	if s.Screen == nil && s.Cam == nil {
		return Sources{}, errors.New("project has no readable recordings")
	}
	return s, nil
}

// RenderFrame composites the project at time at.
func (e *Engine) RenderFrame(ctx context.Context, p *project.Project, at float64) (*image.RGBA, error) {
	srcs, err := e.OpenSources(ctx, p)
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	settings := e.Settings()
	dst := image.NewRGBA(image.Rect(0, 0, settings.Width, settings.Height))
	r := renderer.New(srcs.Screen, srcs.Cam, e.Log)
	if err := r.Capture(ctx, compositor.Evaluate(p, at), dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// Export renders p to out with the selected pipeline.
func (e *Engine) Export(ctx context.Context, p *project.Project, out string, mode Mode, progress func(float64)) export.Result {
	log := e.Log.With().Str("mode", string(mode)).Logger()

	switch mode {
	case ModeSegments:
		enc := &video.SegmentEncoder{
			FFmpeg:    e.Tools.FFmpeg,
			HWEncoder: e.hwEncoder,
			Workers:   system.WorkerCount(e.Config.Export.Workers, segmentWorkerBytes),
			Effect:    effects.DefaultEffect{},
			Log:       log,
		}
		return export.NewSegmentExport(export.SegmentOptions{
			Encoder:  enc,
			Settings: e.Settings(),
			Progress: progress,
			Logger:   log,
		}).Run(ctx, p, out)

	case ModeFrames, "":
		srcs, err := e.OpenSources(ctx, p)
		if err != nil {
			return export.Result{Error: err}
		}
		defer srcs.Close()

		return export.NewSession(export.Options{
			Encoder:  &video.FrameEncoder{FFmpeg: e.Tools.FFmpeg, HWEncoder: e.hwEncoder, Log: log},
			Capturer: renderer.New(srcs.Screen, srcs.Cam, log),
			Settings: e.Settings(),
			Progress: progress,
			Logger:   log,
		}).Run(ctx, p, out)

	default:
		return export.Result{Error: fmt.Errorf("unknown export mode %q", mode)}
	}
}

// PlanZoom builds zoom keyframes from the clicks recorded next to p. The
// result is not applied; see editor.Controller.ReplaceZoomKeyframes.
func (e *Engine) PlanZoom(ctx context.Context, p *project.Project) ([]keyframe.Zoom, error) {
	meta, err := capture.ReadMeta(p.Dir())
	if err != nil {
		return nil, fmt.Errorf("read recording events: %w", err)
	}

	var screen source.Source
	if path := p.SourcePath(timeline.TrackScreen); path != "" {
		vs, err := source.NewVideoSource(ctx, e.Tools, path)
		if err != nil {
			e.Log.Warn().Err(err).Msg("screen recording unavailable, zooming on click positions only")
		} else {
			defer vs.Close()
			screen = vs
		}
	}

	det, err := analyzer.NewDetector(e.Config.AutoZoom.Detector)
	if err != nil {
		return nil, err
	}
	return planZoom(ctx, p, meta.Events, screen, det, e.Config.AutoZoom, e.Log)
}

// planZoom maps events onto the timeline and plans a zoom for them. When
// screen is set its frames are analyzed to size each zoom.
func planZoom(ctx context.Context, p *project.Project, events []capture.Event, screen source.Source, det analyzer.Detector, cfg config.AutoZoomConfig, log zerolog.Logger) ([]keyframe.Zoom, error) {
	onTimeline := director.ToTimeline(events, p.Clips)

	w, h := 1920, 1080
	if screen != nil {
		w, h = screen.Size()
	}
	dir := director.NewDirector(w, h)
	if cfg.DefaultZoom > 0 {
		dir.DefaultZoom = cfg.DefaultZoom
	}
	if cfg.MaxZoom > 0 {
		dir.MaxZoom = cfg.MaxZoom
	}
	if cfg.Hold > 0 {
		dir.Hold = cfg.Hold
	}
	if cfg.MergeGap > 0 {
		dir.MergeGap = cfg.MergeGap
	}

	var focus director.FocusFunc
	if screen != nil && det != nil {
		focus = func(t float64, pt image.Point) (image.Rectangle, bool) {
			f := compositor.Evaluate(p, t)
			if f.Screen == nil {
				return image.Rectangle{}, false
			}
			img, err := screen.FrameAt(ctx, f.Screen.SourceTime)
			if err != nil {
				log.Debug().Err(err).Float64("time", t).Msg("no frame for focus analysis")
				return image.Rectangle{}, false
			}
			blocks, err := det.Detect(img)
			if err != nil {
				log.Debug().Err(err).Float64("time", t).Msg("focus analysis failed")
				return image.Rectangle{}, false
			}
			b, ok := analyzer.FocusAt(blocks, pt)
			return b.Rect, ok
		}
	}

	kfs := dir.Plan(onTimeline, p.End(), focus)
	if len(kfs) == 0 {
		return nil, ErrNoEvents
	}
	log.Info().Int("keyframes", len(kfs)).Int("events", len(events)).Msg("zoom planned")
	return kfs, nil
}
