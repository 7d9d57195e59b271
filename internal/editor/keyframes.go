package editor

import (
	"github.com/ivlev/camreel/internal/keyframe"
)

// SetWebcamKeyframe stores kf at the playhead, replacing any keyframe
// already there.
func (c *Controller) SetWebcamKeyframe(kf keyframe.Webcam) {
	c.record("webcam keyframe")
	kf.Time = c.p.CurrentTime
	c.p.Webcam.Add(kf)
}

func (c *Controller) UpdateWebcamKeyframe(time float64, fn func(keyframe.Webcam) keyframe.Webcam) bool {
	if _, ok := c.p.Webcam.At(time); !ok {
		return false
	}
	c.record("webcam keyframe")
	return c.p.Webcam.Update(time, fn)
}

func (c *Controller) DeleteWebcamKeyframe(time float64) bool {
	if _, ok := c.p.Webcam.At(time); !ok {
		return false
	}
	c.record("delete webcam keyframe")
	return c.p.Webcam.Delete(time)
}

// SetZoomKeyframe stores kf at the playhead with scale and center clamped
// to their legal ranges.
func (c *Controller) SetZoomKeyframe(kf keyframe.Zoom) {
	c.record("zoom keyframe")
	kf.Time = c.p.CurrentTime
	c.p.Zoom.Add(kf.Clamped())
}

func (c *Controller) UpdateZoomKeyframe(time float64, fn func(keyframe.Zoom) keyframe.Zoom) bool {
	if _, ok := c.p.Zoom.At(time); !ok {
		return false
	}
	c.record("zoom keyframe")
	return c.p.Zoom.Update(time, func(z keyframe.Zoom) keyframe.Zoom {
		return fn(z).Clamped()
	})
}

func (c *Controller) DeleteZoomKeyframe(time float64) bool {
	if _, ok := c.p.Zoom.At(time); !ok {
		return false
	}
	c.record("delete zoom keyframe")
	return c.p.Zoom.Delete(time)
}

// ReplaceZoomKeyframes swaps the whole zoom track for kfs as one undoable
// action, e.g. after planning an automatic zoom.
func (c *Controller) ReplaceZoomKeyframes(kfs []keyframe.Zoom) {
	c.record("auto zoom")
	clamped := make([]keyframe.Zoom, len(kfs))
	for i, kf := range kfs {
		clamped[i] = kf.Clamped()
	}
	c.p.Zoom.Replace(clamped)
}

func (c *Controller) UpdateLayoutKeyframe(index int, fn func(*keyframe.Layout)) bool {
	if index < 0 || index >= len(c.p.Layouts) {
		return false
	}
	c.record("layout")
	c.p.Layouts = c.p.Layouts.Update(index, fn)
	return true
}

func (c *Controller) DeleteLayoutKeyframe(index int) bool {
	if index < 0 || index >= len(c.p.Layouts) {
		return false
	}
	c.record("delete layout")
	c.p.Layouts = c.p.Layouts.Delete(index)
	return true
}
