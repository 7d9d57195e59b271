package editor

import (
	"math"
	"slices"

	"github.com/ivlev/camreel/internal/timeline"
)

// DragMode is the edge or body of a clip being dragged.
type DragMode string

const (
	DragMove      DragMode = "move"
	DragTrimStart DragMode = "trim-start"
	DragTrimEnd   DragMode = "trim-end"
)

type dragState struct {
	clipID   string
	mode     DragMode
	recorded bool
}

// BeginDrag starts an interactive edit of one clip. The pre-drag state is
// recorded on the first change so the whole gesture undoes as a unit and a
// drag that changes nothing leaves no history.
func (c *Controller) BeginDrag(id string, mode DragMode) bool {
	if _, ok := c.p.Clips.Find(id); !ok {
		return false
	}
	switch mode {
	case DragMove, DragTrimStart, DragTrimEnd:
	default:
		c.opts.Notifier.Warn("Unknown drag mode")
		return false
	}

	c.drag = &dragState{clipID: id, mode: mode}
	c.snapped = false
	return true
}

// DragTo applies the current drag value: the new start time for a move,
// the new source in-point or out-point for trims.
func (c *Controller) DragTo(value float64) {
	if c.drag == nil {
		return
	}
	clip, ok := c.p.Clips.Find(c.drag.clipID)
	if !ok {
		c.endDrag()
		return
	}

	var next timeline.Clips
	switch c.drag.mode {
	case DragMove:
		start := math.Max(0, value)
		start, c.snapped = timeline.Snap(c.p.Clips, clip.ID, start, c.opts.SnapThreshold)
		if c.snapped {
			c.snapAt = start
		}
		next = c.p.Clips.Move(clip.ID, start)
	case DragTrimStart:
		next = c.p.Clips.TrimStart(clip.ID, value)
	case DragTrimEnd:
		next = c.p.Clips.TrimEnd(clip.ID, value)
	}
	if slices.Equal(next, c.p.Clips) {
		return
	}
	if !c.drag.recorded {
		c.record(string(c.drag.mode))
		c.drag.recorded = true
	}
	c.p.Clips = next
}

// EndDrag finishes the gesture and hides the snap indicator.
func (c *Controller) EndDrag() {
	c.endDrag()
}

func (c *Controller) endDrag() {
	c.drag = nil
	c.snapped = false
}

// SnapIndicator reports the edge the dragged clip is snapped to, if any.
func (c *Controller) SnapIndicator() (float64, bool) {
	return c.snapAt, c.snapped
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}
