package timeline

import (
	"math"
	"sort"
)

// Clips is an immutable-by-convention clip set. Every operation returns a
// new slice and leaves the receiver untouched.
type Clips []Clip

// Clone returns an independent copy of the set.
func (cs Clips) Clone() Clips {
	if cs == nil {
		return nil
	}
	out := make(Clips, len(cs))
	copy(out, cs)
	return out
}

// Find returns the clip with the given id.
func (cs Clips) Find(id string) (Clip, bool) {
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return Clip{}, false
}

// Sorted returns the clips ordered by start time. Equal start times keep
// their relative order.
func (cs Clips) Sorted() Clips {
	out := cs.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// OnTrack returns the clips of one track in start-time order.
func (cs Clips) OnTrack(track Track) Clips {
	var out Clips
	for _, c := range cs.Sorted() {
		if c.Track == track {
			out = append(out, c)
		}
	}
	return out
}

// Enabled returns the enabled clips in start-time order.
func (cs Clips) Enabled() Clips {
	var out Clips
	for _, c := range cs.Sorted() {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// ActiveAt returns the enabled clip on track whose range contains t. When
// clips overlap the one starting earliest wins.
func (cs Clips) ActiveAt(track Track, t float64) (Clip, bool) {
	for _, c := range cs.Sorted() {
		if c.Track == track && c.Enabled && c.Contains(t) {
			return c, true
		}
	}
	return Clip{}, false
}

// End returns the latest clip end across all tracks.
func (cs Clips) End() float64 {
	end := 0.0
	for _, c := range cs {
		end = math.Max(end, c.End())
	}
	return end
}

// Add inserts a clip, keeping the set sorted by start time.
func (cs Clips) Add(c Clip) Clips {
	if c.ID == "" {
		c.ID = NewID()
	}
	c.StartTime = math.Max(0, c.StartTime)
	out := append(cs.Clone(), c)
	return out.Sorted()
}

// Update applies fn to the clip with the given id. Unknown ids are ignored.
func (cs Clips) Update(id string, fn func(*Clip)) Clips {
	out := cs.Clone()
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

// TrimStart moves the source in-point, clamped to [0, SourceEnd-MinDuration].
func (cs Clips) TrimStart(id string, newSourceStart float64) Clips {
	return cs.Update(id, func(c *Clip) {
		hi := math.Max(0, c.SourceEnd-MinDuration)
		c.SourceStart = clamp(newSourceStart, 0, hi)
		c.Duration = c.SourceEnd - c.SourceStart
	})
}

// TrimEnd moves the source out-point, clamped to at least
// SourceStart+MinDuration.
func (cs Clips) TrimEnd(id string, newSourceEnd float64) Clips {
	return cs.Update(id, func(c *Clip) {
		c.SourceEnd = math.Max(newSourceEnd, c.SourceStart+MinDuration)
		c.Duration = c.SourceEnd - c.SourceStart
	})
}

// Move places a clip at newStart (never negative). Overlaps are allowed.
func (cs Clips) Move(id string, newStart float64) Clips {
	return cs.Update(id, func(c *Clip) {
		c.StartTime = math.Max(0, newStart)
	})
}

// Split cuts a clip at timeline time t. It is a no-op unless t falls
// strictly inside the clip. Both halves inherit every other field,
// fades included, verbatim.
func (cs Clips) Split(id string, t float64) (Clips, bool) {
	clip, ok := cs.Find(id)
	if !ok || t <= clip.StartTime || t >= clip.End() {
		return cs, false
	}

	offset := t - clip.StartTime

	first := clip
	first.ID = clip.ID + "-split-1"
	first.Duration = offset
	first.SourceEnd = clip.SourceStart + offset

	second := clip
	second.ID = clip.ID + "-split-2"
	second.StartTime = t
	second.Duration = clip.Duration - offset
	second.SourceStart = clip.SourceStart + offset

	out := make(Clips, 0, len(cs)+1)
	for _, c := range cs {
		if c.ID != id {
			out = append(out, c)
		}
	}
	out = append(out, first, second)
	return out.Sorted(), true
}

// Delete removes a clip without closing the gap.
func (cs Clips) Delete(id string) Clips {
	out := make(Clips, 0, len(cs))
	for _, c := range cs {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// DeleteRipple removes a clip and shifts every clip starting after it left
// by its duration, on every track.
func (cs Clips) DeleteRipple(id string) Clips {
	return cs.deleteRipple(id, false)
}

// DeleteRippleTrack is DeleteRipple restricted to the deleted clip's track.
func (cs Clips) DeleteRippleTrack(id string) Clips {
	return cs.deleteRipple(id, true)
}

func (cs Clips) deleteRipple(id string, sameTrack bool) Clips {
	gone, ok := cs.Find(id)
	if !ok {
		return cs.Clone()
	}

	out := make(Clips, 0, len(cs))
	for _, c := range cs {
		if c.ID == id {
			continue
		}
		if c.StartTime > gone.StartTime && (!sameTrack || c.Track == gone.Track) {
			c.StartTime -= gone.Duration
		}
		out = append(out, c)
	}
	return out
}

// SetFades writes fade durations, scaling them down proportionally when
// their sum exceeds the clip duration.
func (cs Clips) SetFades(id string, fadeIn, fadeOut float64) Clips {
	return cs.Update(id, func(c *Clip) {
		c.FadeIn, c.FadeOut = ClampFades(fadeIn, fadeOut, c.Duration)
	})
}

// SetVolume writes a gain clamped to [0, 2].
func (cs Clips) SetVolume(id string, volume float64) Clips {
	return cs.Update(id, func(c *Clip) {
		c.Volume = clamp(volume, 0, 2)
	})
}

// SetOpacity writes an opacity clamped to [0, 1].
func (cs Clips) SetOpacity(id string, opacity float64) Clips {
	return cs.Update(id, func(c *Clip) {
		c.Opacity = clamp(opacity, 0, 1)
	})
}

// ClampFades keeps fadeIn+fadeOut within duration.
func ClampFades(fadeIn, fadeOut, duration float64) (float64, float64) {
	fadeIn = math.Max(0, fadeIn)
	fadeOut = math.Max(0, fadeOut)
	duration = math.Max(0, duration)
	if sum := fadeIn + fadeOut; sum > duration && sum > 0 {
		scale := duration / sum
		fadeIn *= scale
		fadeOut *= scale
	}
	return fadeIn, fadeOut
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
