// Package compositor evaluates what a project shows and plays at a single
// timeline instant. Evaluation is pure: the same project and time always
// produce the same Frame, which is what makes frame-exact export possible.
package compositor

import (
	"github.com/ivlev/camreel/internal/interp"
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/project"
	"github.com/ivlev/camreel/internal/timeline"
)

// ClipState is the active clip of one track at the evaluated time.
type ClipState struct {
	Clip timeline.Clip
	// Opacity is the clip opacity scaled by its fade envelope.
	Opacity float64
	// Volume is zero when the clip's audio is disabled.
	Volume float64
	// SourceTime is the position inside the source recording (ms).
	SourceTime float64
}

// TextState is a visible text layer with its fade applied.
type TextState struct {
	Layer   timeline.TextLayer
	Opacity float64
}

// Frame is everything a renderer needs to draw one output frame.
type Frame struct {
	Time   float64
	Screen *ClipState
	Cam    *ClipState
	Webcam keyframe.Webcam
	Zoom   keyframe.Zoom
	Text   []TextState

	// Layout is the active marker. It is informational and does not
	// change the webcam or zoom values above.
	Layout    keyframe.Layout
	HasLayout bool
}

// Evaluate computes the frame at time t.
func Evaluate(p *project.Project, t float64) Frame {
	f := Frame{
		Time:   t,
		Screen: activeClip(p.Clips, timeline.TrackScreen, t),
		Cam:    activeClip(p.Clips, timeline.TrackCam, t),
		Webcam: keyframe.DefaultWebcam(),
		Zoom:   keyframe.DefaultZoom(),
	}
	if p.Webcam != nil {
		f.Webcam = p.Webcam.Query(t)
	}
	if p.Zoom != nil {
		f.Zoom = p.Zoom.Query(t)
	}

	for _, l := range p.TextLayers.VisibleAt(t) {
		f.Text = append(f.Text, TextState{
			Layer:   l,
			Opacity: FadeOpacity(l.Opacity, t-l.StartTime, l.Duration, l.FadeIn, l.FadeOut),
		})
	}

	f.Layout, f.HasLayout = p.Layouts.ActiveAt(t)
	return f
}

func activeClip(clips timeline.Clips, track timeline.Track, t float64) *ClipState {
	clip, ok := clips.ActiveAt(track, t)
	if !ok {
		return nil
	}

	volume := 0.0
	if clip.AudioEnabled {
		volume = clip.Volume
	}
	local := t - clip.StartTime
	return &ClipState{
		Clip:       clip,
		Opacity:    FadeOpacity(clip.Opacity, local, clip.Duration, clip.FadeIn, clip.FadeOut),
		Volume:     volume,
		SourceTime: clip.SourceStart + local,
	}
}

// FadeOpacity scales base by the fade envelope at local time within an
// item of the given duration. Fades are clamped so they fit the duration;
// where they overlap both factors apply. Outside [0, duration] the result
// is 0.
func FadeOpacity(base, local, duration, fadeIn, fadeOut float64) float64 {
	if local < 0 || local > duration {
		return 0
	}
	fadeIn, fadeOut = timeline.ClampFades(fadeIn, fadeOut, duration)

	opacity := base
	if fadeIn > 0 && local < fadeIn {
		opacity *= local / fadeIn
	}
	if fadeOut > 0 && local > duration-fadeOut {
		opacity *= (duration - local) / fadeOut
	}
	return interp.Clamp(opacity, 0, 1)
}
