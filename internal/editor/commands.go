package editor

import (
	"fmt"
	"strings"

	"github.com/ivlev/camreel/internal/config"
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/timeline"
)

// SplitAtPlayhead splits the single selected clip at the playhead.
func (c *Controller) SplitAtPlayhead() bool {
	if len(c.p.Selection.ClipIDs) != 1 {
		c.opts.Notifier.Warn("Please select a single clip to split")
		return false
	}
	clip, ok := c.p.Clips.Find(c.p.Selection.ClipIDs[0])
	if !ok {
		c.opts.Notifier.Warn("Selected clip no longer exists")
		return false
	}
	t := c.p.CurrentTime
	if t <= clip.StartTime || t >= clip.End() {
		c.opts.Notifier.Warn("Playhead is not over the selected clip")
		return false
	}

	c.record("split")
	c.p.Clips, _ = c.p.Clips.Split(clip.ID, t)
	c.p.Selection.ClipIDs = nil
	c.opts.Notifier.Info("Clip split successfully")
	return true
}

// DeleteSelected removes the selected clips, closing gaps when ripple
// delete is on.
func (c *Controller) DeleteSelected() bool {
	ids := c.p.Selection.ClipIDs
	if len(ids) == 0 {
		c.opts.Notifier.Warn("No clips selected")
		return false
	}

	c.record("delete")
	clips := c.p.Clips
	for _, id := range ids {
		switch {
		case !c.opts.Ripple:
			clips = clips.Delete(id)
		case c.opts.RippleScope == config.RippleTrack:
			clips = clips.DeleteRippleTrack(id)
		default:
			clips = clips.DeleteRipple(id)
		}
	}
	c.p.Clips = clips
	c.p.Selection.ClipIDs = nil

	if c.opts.Ripple {
		c.opts.Notifier.Info(fmt.Sprintf("Deleted %d clip(s) and closed gaps", len(ids)))
	} else {
		c.opts.Notifier.Info(fmt.Sprintf("Deleted %d clip(s)", len(ids)))
	}
	return true
}

// Copy places the selected clips on the clipboard.
func (c *Controller) Copy() bool {
	selected := c.selectedClips()
	if len(selected) == 0 {
		c.opts.Notifier.Warn("No clips selected")
		return false
	}
	c.clipboard = selected
	c.opts.Notifier.Info(fmt.Sprintf("Copied %d clip(s)", len(selected)))
	return true
}

// Paste inserts clipboard clips at the playhead, each one staggered after
// the previous. Pasted clips get fresh IDs.
func (c *Controller) Paste() bool {
	if len(c.clipboard) == 0 {
		c.opts.Notifier.Warn("Clipboard is empty")
		return false
	}

	c.record("paste")
	for i, clip := range c.clipboard {
		clip.ID = timeline.NewID()
		clip.StartTime = c.p.CurrentTime + float64(i)*c.opts.PasteStagger
		c.p.Clips = c.p.Clips.Add(clip)
	}
	c.opts.Notifier.Info(fmt.Sprintf("Pasted %d clip(s)", len(c.clipboard)))
	return true
}

// Duplicate places a copy of each selected clip right after its source.
func (c *Controller) Duplicate() bool {
	selected := c.selectedClips()
	if len(selected) == 0 {
		c.opts.Notifier.Warn("No clips selected")
		return false
	}

	c.record("duplicate")
	for _, clip := range selected {
		clip.ID = timeline.NewID()
		clip.StartTime = clip.End() + c.opts.DuplicateGap
		c.p.Clips = c.p.Clips.Add(clip)
	}
	c.opts.Notifier.Info(fmt.Sprintf("Duplicated %d clip(s)", len(selected)))
	return true
}

// AddLayoutKeyframe drops a layout marker at the playhead. Its properties
// come from the marker active at the playhead, else the first marker,
// else the default layout.
func (c *Controller) AddLayoutKeyframe(kind keyframe.LayoutType) bool {
	if !kind.Valid() {
		c.opts.Notifier.Warn(fmt.Sprintf("Unknown layout %q", kind))
		return false
	}

	props := keyframe.DefaultLayoutProperties()
	if active, ok := c.p.Layouts.ActiveAt(c.p.CurrentTime); ok {
		props = active.Properties
	} else if len(c.p.Layouts) > 0 {
		props = c.p.Layouts[0].Properties
	}

	c.record("layout")
	c.p.Layouts = c.p.Layouts.Add(keyframe.Layout{
		Time:       c.p.CurrentTime,
		Type:       kind,
		Properties: props,
	})
	c.opts.Notifier.Info(fmt.Sprintf("Added %s layout keyframe", strings.ReplaceAll(string(kind), "_", " ")))
	return true
}

// SetClipFades writes fade durations, clamped to the clip duration.
func (c *Controller) SetClipFades(id string, fadeIn, fadeOut float64) bool {
	return c.updateClip(id, "fades", func(cs timeline.Clips) timeline.Clips {
		return cs.SetFades(id, fadeIn, fadeOut)
	})
}

func (c *Controller) SetClipVolume(id string, volume float64) bool {
	return c.updateClip(id, "volume", func(cs timeline.Clips) timeline.Clips {
		return cs.SetVolume(id, volume)
	})
}

func (c *Controller) SetClipOpacity(id string, opacity float64) bool {
	return c.updateClip(id, "opacity", func(cs timeline.Clips) timeline.Clips {
		return cs.SetOpacity(id, opacity)
	})
}

func (c *Controller) ToggleClipAudio(id string) bool {
	return c.updateClip(id, "audio", func(cs timeline.Clips) timeline.Clips {
		return cs.Update(id, func(clip *timeline.Clip) { clip.AudioEnabled = !clip.AudioEnabled })
	})
}

func (c *Controller) ToggleClipEnabled(id string) bool {
	return c.updateClip(id, "enabled", func(cs timeline.Clips) timeline.Clips {
		return cs.Update(id, func(clip *timeline.Clip) { clip.Enabled = !clip.Enabled })
	})
}

func (c *Controller) updateClip(id, action string, fn func(timeline.Clips) timeline.Clips) bool {
	if _, ok := c.p.Clips.Find(id); !ok {
		return false
	}
	c.record(action)
	c.p.Clips = fn(c.p.Clips)
	return true
}

func (c *Controller) selectedClips() []timeline.Clip {
	var out []timeline.Clip
	for _, clip := range c.p.Clips {
		if c.p.Selection.Has(clip.ID) {
			out = append(out, clip)
		}
	}
	return out
}
