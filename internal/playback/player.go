// Package playback advances the playhead in real time and renders the
// compositor output for preview.
package playback

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/camreel/internal/compositor"
	"github.com/ivlev/camreel/internal/editor"
)

// DefaultTick is one frame at 60 Hz, in ms.
const DefaultTick = 1000.0 / 60

// FrameFunc receives every evaluated preview frame.
type FrameFunc func(compositor.Frame)

// Player drives a controller's playhead from a ticker. While Run is active
// it is the only goroutine allowed to touch the controller.
type Player struct {
	ctrl    *editor.Controller
	tick    time.Duration
	onFrame FrameFunc
	log     zerolog.Logger
}

// New creates a player ticking every tickMs milliseconds.
func New(ctrl *editor.Controller, tickMs float64, onFrame FrameFunc, log zerolog.Logger) *Player {
	if tickMs <= 0 {
		tickMs = DefaultTick
	}
	if onFrame == nil {
		onFrame = func(compositor.Frame) {}
	}
	return &Player{
		ctrl:    ctrl,
		tick:    time.Duration(tickMs * float64(time.Millisecond)),
		onFrame: onFrame,
		log:     log,
	}
}

// Play starts playback from the playhead, rewinding first when it sits at
// the end.
func (pl *Player) Play() {
	p := pl.ctrl.Project()
	if p.CurrentTime >= p.End() {
		pl.ctrl.Seek(0)
	}
	pl.ctrl.SetPlaying(true)
}

func (pl *Player) Pause() {
	pl.ctrl.SetPlaying(false)
}

// Step advances the playhead by elapsed ms and emits the frame there.
// Reaching the end stops playback. It reports whether playback continues.
func (pl *Player) Step(elapsed float64) bool {
	p := pl.ctrl.Project()
	if !p.Playing {
		return false
	}

	next := p.CurrentTime + elapsed
	if end := p.End(); next >= end {
		pl.ctrl.Seek(end)
		pl.ctrl.SetPlaying(false)
		pl.onFrame(compositor.Evaluate(p, p.CurrentTime))
		pl.log.Debug().Float64("time", p.CurrentTime).Msg("playback reached end")
		return false
	}

	pl.ctrl.Seek(next)
	pl.onFrame(compositor.Evaluate(p, p.CurrentTime))
	return true
}

// Run plays until the end of the project or until ctx is done.
func (pl *Player) Run(ctx context.Context) error {
	pl.Play()

	ticker := time.NewTicker(pl.tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			pl.Pause()
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			if !pl.Step(elapsed) {
				return nil
			}
		}
	}
}
