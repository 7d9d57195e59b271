// Package editor is the exclusive writer of a project. It turns user
// intents into clip, keyframe and text mutations and records them in the
// undo history.
package editor

import (
	"github.com/rs/zerolog"

	"github.com/ivlev/camreel/internal/config"
	"github.com/ivlev/camreel/internal/history"
	"github.com/ivlev/camreel/internal/project"
	"github.com/ivlev/camreel/internal/timeline"
)

// Options configures the Controller.
type Options struct {
	// SnapThreshold is the drag snapping distance in ms.
	// Default: timeline.SnapThreshold.
	SnapThreshold float64

	// HistoryCapacity bounds the undo history.
	// Default: history.DefaultCapacity.
	HistoryCapacity int

	// PasteStagger offsets the n-th pasted clip by n*PasteStagger ms.
	// Default: 100.
	PasteStagger float64

	// DuplicateGap separates a duplicate from its source clip.
	// Default: 100.
	DuplicateGap float64

	// Ripple makes DeleteSelected close the gap left by each clip.
	Ripple bool

	// RippleScope is config.RippleAllTracks or config.RippleTrack.
	// Default: config.RippleAllTracks.
	RippleScope string

	// Notifier receives command feedback. Default: LogNotifier on Logger.
	Notifier Notifier

	Logger zerolog.Logger
}

// DefaultOptions returns options with ripple delete enabled.
func DefaultOptions() Options {
	opts := Options{Ripple: true, Logger: zerolog.Nop()}
	opts.setDefaults()
	return opts
}

// OptionsFromConfig maps the editor section of the application config.
func OptionsFromConfig(cfg config.EditorConfig, log zerolog.Logger) Options {
	opts := Options{
		SnapThreshold:   cfg.SnapThreshold,
		HistoryCapacity: cfg.HistoryCapacity,
		PasteStagger:    cfg.PasteStagger,
		DuplicateGap:    cfg.DuplicateGap,
		Ripple:          cfg.Ripple,
		RippleScope:     cfg.RippleScope,
		Logger:          log,
	}
	opts.setDefaults()
	return opts
}

func (o *Options) setDefaults() {
	if o.SnapThreshold == 0 {
		o.SnapThreshold = timeline.SnapThreshold
	}
	if o.HistoryCapacity == 0 {
		o.HistoryCapacity = history.DefaultCapacity
	}
	if o.PasteStagger == 0 {
		o.PasteStagger = 100
	}
	if o.DuplicateGap == 0 {
		o.DuplicateGap = 100
	}
	if o.RippleScope == "" {
		o.RippleScope = config.RippleAllTracks
	}
	if o.Notifier == nil {
		o.Notifier = LogNotifier{Log: o.Logger}
	}
}

// Controller edits a single project. It is not safe for concurrent use;
// readers such as the compositor must run on the same goroutine or work
// on a snapshot.
type Controller struct {
	opts Options
	p    *project.Project
	hist *history.Manager[project.EditState]
	log  zerolog.Logger

	// synced is true while the live state equals the history entry at the
	// cursor, which is the case right after an undo or redo.
	synced bool

	clipboard []timeline.Clip
	drag      *dragState
	snapAt    float64
	snapped   bool
}

// New creates a controller owning p.
func New(p *project.Project, opts Options) *Controller {
	if p == nil {
		panic("editor: project is required")
	}
	opts.setDefaults()

	return &Controller{
		opts: opts,
		p:    p,
		hist: history.New[project.EditState](opts.HistoryCapacity),
		log:  opts.Logger,
	}
}

// Project gives read access to the edited project. Callers must not
// mutate it.
func (c *Controller) Project() *project.Project {
	return c.p
}

// History exposes the recorded entries for inspection.
func (c *Controller) History() []history.Entry[project.EditState] {
	return c.hist.Entries()
}

// record captures the pre-mutation state. It must be called right before
// the mutation it describes.
func (c *Controller) record(action string) {
	if c.synced {
		c.hist.DropRedo()
	} else {
		c.hist.Push(c.p.Snapshot(), action)
	}
	c.synced = false
	c.log.Debug().Str("action", action).Int("history", c.hist.Len()).Msg("recorded")
}

// Undo restores the state before the most recent command.
func (c *Controller) Undo() bool {
	if !c.CanUndo() {
		return false
	}
	if !c.synced {
		c.hist.Push(c.p.Snapshot(), "current")
		c.synced = true
	}
	state, ok := c.hist.Undo()
	if !ok {
		return false
	}
	c.p.Restore(state)
	c.endDrag()
	return true
}

// Redo re-applies the most recently undone command.
func (c *Controller) Redo() bool {
	if !c.CanRedo() {
		return false
	}
	state, ok := c.hist.Redo()
	if !ok {
		return false
	}
	c.p.Restore(state)
	c.endDrag()
	return true
}

func (c *Controller) CanUndo() bool {
	if c.synced {
		return c.hist.CanUndo()
	}
	return c.hist.Len() > 0
}

func (c *Controller) CanRedo() bool {
	return c.synced && c.hist.CanRedo()
}

// Seek moves the playhead, clamped to the end of the project. Clips
// placed past the recorded duration extend it.
func (c *Controller) Seek(t float64) {
	if t < 0 {
		t = 0
	}
	if end := c.p.End(); t > end {
		t = end
	}
	c.p.CurrentTime = t
}

func (c *Controller) SetPlaying(playing bool) {
	c.p.Playing = playing
}

// SetRipple toggles between magnetic and normal delete.
func (c *Controller) SetRipple(on bool) {
	c.opts.Ripple = on
	if on {
		c.opts.Notifier.Info("Magnetic delete mode")
	} else {
		c.opts.Notifier.Info("Normal delete mode")
	}
}

func (c *Controller) Ripple() bool { return c.opts.Ripple }
