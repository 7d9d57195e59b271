// Package director plans automatic zoom keyframes from the clicks recorded
// during a capture.
package director

import (
	"image"
	"math"
	"sort"

	"github.com/ivlev/camreel/internal/capture"
	"github.com/ivlev/camreel/internal/interp"
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/timeline"
)

// FocusFunc returns the region of interest around a click at timeline time
// t, in event coordinates.
type FocusFunc func(t float64, pt image.Point) (image.Rectangle, bool)

// Director generates zoom paths from click events. Event coordinates are
// pixels of a ViewportWidth x ViewportHeight screen.
type Director struct {
	ViewportWidth  int
	ViewportHeight int
	Lead           float64 // ms the zoom-in starts before the first click
	Hold           float64 // ms the zoom is held after the last click
	Transition     float64 // ms of the zoom-out
	MergeGap       float64 // clicks closer than this share one zoom
	DefaultZoom    float64 // used when no focus region is known
	MaxZoom        float64
}

// NewDirector creates a new Director with default settings
func NewDirector(viewportWidth, viewportHeight int) *Director {
	return &Director{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		Lead:           600,
		Hold:           1500,
		Transition:     600,
		MergeGap:       2500,
		DefaultZoom:    2,
		MaxZoom:        3,
	}
}

// shot is one zoomed stretch of the timeline.
type shot struct {
	in, holdStart, holdEnd, out float64
	lastClick                   float64
	rect                        image.Rectangle
}

// Plan returns zoom keyframes for the clicks in events, whose timestamps
// must already be on the timeline (see ToTimeline). focus may be nil.
func (d *Director) Plan(events []capture.Event, duration float64, focus FocusFunc) []keyframe.Zoom {
	clicks := d.clicks(events, duration)
	if len(clicks) == 0 || d.ViewportWidth <= 0 || d.ViewportHeight <= 0 {
		return nil
	}

	var shots []shot
	for _, c := range clicks {
		pt := image.Pt(int(math.Round(c.X)), int(math.Round(c.Y)))
		rect := d.clickRect(c.Timestamp, pt, focus)

		if n := len(shots); n > 0 {
			last := &shots[n-1]
			if c.Timestamp-last.lastClick <= d.MergeGap || c.Timestamp-d.Lead <= last.holdEnd {
				last.rect = last.rect.Union(rect)
				last.lastClick = c.Timestamp
				last.holdEnd = math.Min(duration, c.Timestamp+d.Hold)
				last.out = math.Min(duration, last.holdEnd+d.Transition)
				continue
			}
		}

		holdEnd := math.Min(duration, c.Timestamp+d.Hold)
		shots = append(shots, shot{
			in:        math.Max(0, c.Timestamp-d.Lead),
			holdStart: c.Timestamp,
			holdEnd:   holdEnd,
			out:       math.Min(duration, holdEnd+d.Transition),
			lastClick: c.Timestamp,
			rect:      rect,
		})
	}

	return d.keyframes(shots)
}

func (d *Director) keyframes(shots []shot) []keyframe.Zoom {
	var out []keyframe.Zoom
	for i, s := range shots {
		target := d.target(s.rect)

		// Pan straight from the previous shot when there is no room to
		// zoom out and back in.
		chained := i > 0 && s.in < shots[i-1].out
		if !chained {
			out = append(out, keyframe.Zoom{
				Time: s.in, Scale: 1, CenterX: target.CenterX, CenterY: target.CenterY, Easing: interp.EaseInOut,
			})
		}

		hold := target
		hold.Time, hold.Easing = s.holdStart, interp.Linear
		out = append(out, hold)

		release := target
		release.Time, release.Easing = s.holdEnd, interp.EaseInOut
		if s.holdEnd > s.holdStart {
			out = append(out, release)
		} else {
			out[len(out)-1].Easing = interp.EaseInOut
		}

		next := i+1 < len(shots) && shots[i+1].in < s.out
		if !next && s.out > s.holdEnd {
			out = append(out, keyframe.Zoom{
				Time: s.out, Scale: 1, CenterX: target.CenterX, CenterY: target.CenterY, Easing: interp.Linear,
			})
		}
	}
	for i := range out {
		out[i] = out[i].Clamped()
	}
	return out
}

func (d *Director) clicks(events []capture.Event, duration float64) []capture.Event {
	var clicks []capture.Event
	for _, e := range events {
		if e.Type == capture.EventClick && e.Timestamp >= 0 && e.Timestamp <= duration {
			clicks = append(clicks, e)
		}
	}
	sort.SliceStable(clicks, func(i, j int) bool {
		return clicks[i].Timestamp < clicks[j].Timestamp
	})
	return clicks
}

// clickRect is the focus region around pt, or a DefaultZoom sized viewport
// centered on it.
func (d *Director) clickRect(t float64, pt image.Point, focus FocusFunc) image.Rectangle {
	viewport := image.Rect(0, 0, d.ViewportWidth, d.ViewportHeight)
	if focus != nil {
		if r, ok := focus(t, pt); ok && !r.Empty() {
			return r.Intersect(viewport)
		}
	}

	zoom := math.Max(1, d.DefaultZoom)
	w := int(float64(d.ViewportWidth) / zoom)
	h := int(float64(d.ViewportHeight) / zoom)
	return image.Rect(pt.X-w/2, pt.Y-h/2, pt.X-w/2+w, pt.Y-h/2+h)
}

// target is the zoom that frames rect.
func (d *Director) target(rect image.Rectangle) keyframe.Zoom {
	center := d.calculateCenter(rect)
	return keyframe.Zoom{
		Scale:   d.calculateZoom(rect),
		CenterX: float64(center.X) / float64(d.ViewportWidth),
		CenterY: float64(center.Y) / float64(d.ViewportHeight),
	}
}

// calculateZoom determines zoom level to fit block in viewport
func (d *Director) calculateZoom(block image.Rectangle) float64 {
	padding := 0.9 // Use 90% of viewport

	viewportW := float64(d.ViewportWidth) * padding
	viewportH := float64(d.ViewportHeight) * padding

	blockW := float64(block.Dx())
	blockH := float64(block.Dy())

	if blockW == 0 || blockH == 0 {
		return 1.0
	}

	zoom := math.Min(viewportW/blockW, viewportH/blockH)
	return interp.Clamp(zoom, 1.0, math.Min(d.MaxZoom, keyframe.MaxZoom))
}

// calculateCenter finds the center point of a rectangle
func (d *Director) calculateCenter(rect image.Rectangle) image.Point {
	return image.Point{
		X: rect.Min.X + rect.Dx()/2,
		Y: rect.Min.Y + rect.Dy()/2,
	}
}

// ToTimeline moves recording-relative events onto the timeline through the
// enabled screen clips that show them. Events no clip shows are dropped; an
// event shown by several clips appears once per clip.
func ToTimeline(events []capture.Event, clips timeline.Clips) []capture.Event {
	var out []capture.Event
	for _, c := range clips.Enabled() {
		if c.Track != timeline.TrackScreen {
			continue
		}
		for _, e := range events {
			if e.Timestamp < c.SourceStart || e.Timestamp >= c.SourceEnd {
				continue
			}
			e.Timestamp = c.StartTime + e.Timestamp - c.SourceStart
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
