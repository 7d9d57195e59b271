// Package project holds the editable aggregate: clips on both tracks,
// keyframe tracks, layout markers, text layers and the playhead.
package project

import (
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/timeline"
)

// DefaultDuration is used when a project has no recorded duration (ms).
const DefaultDuration = 10000.0

// Sources locates the recordings clips refer to. Paths are relative to the
// project directory unless absolute.
type Sources struct {
	Screen string `yaml:"screen,omitempty" json:"screen,omitempty"`
	Cam    string `yaml:"cam,omitempty" json:"cam,omitempty"`
}

// Selection is the set of selected clips and at most one text layer. The
// two are mutually exclusive.
type Selection struct {
	ClipIDs     []string
	TextLayerID string
}

func (s Selection) Has(id string) bool {
	for _, c := range s.ClipIDs {
		if c == id {
			return true
		}
	}
	return false
}

// EditState is the part of a project recorded in undo history.
type EditState struct {
	Clips      timeline.Clips
	Webcam     *keyframe.Track[keyframe.Webcam]
	Zoom       *keyframe.Track[keyframe.Zoom]
	Layouts    keyframe.Layouts
	TextLayers timeline.TextLayers
}

// Clone deep-copies the state.
func (s EditState) Clone() EditState {
	out := EditState{
		Clips:      s.Clips.Clone(),
		Layouts:    s.Layouts.Clone(),
		TextLayers: s.TextLayers.Clone(),
	}
	if s.Webcam != nil {
		out.Webcam = s.Webcam.Clone()
	}
	if s.Zoom != nil {
		out.Zoom = s.Zoom.Clone()
	}
	return out
}

// Project is the document being edited.
type Project struct {
	EditState

	CurrentTime float64
	Duration    float64
	Playing     bool
	Selection   Selection
	Sources     Sources

	// Path is the file the project was loaded from or last saved to.
	Path string
}

// New creates a project with one full-length clip per track and the
// default picture-in-picture layout.
func New(duration float64) *Project {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Project{
		EditState: EditState{
			Clips: timeline.Clips{
				timeline.NewClip("screen-1", timeline.TrackScreen, 0, 0, duration),
				timeline.NewClip("cam-1", timeline.TrackCam, 0, 0, duration),
			},
			Webcam:  keyframe.NewWebcamTrack(),
			Zoom:    keyframe.NewZoomTrack(),
			Layouts: keyframe.Layouts{keyframe.DefaultLayout()},
		},
		Duration: duration,
	}
}

// Snapshot returns a deep copy of the undoable state.
func (p *Project) Snapshot() EditState {
	return p.EditState.Clone()
}

// Restore replaces the undoable state with a copy of s. Selections that no
// longer resolve are dropped.
func (p *Project) Restore(s EditState) {
	p.EditState = s.Clone()
	if p.Webcam == nil {
		p.Webcam = keyframe.NewWebcamTrack()
	}
	if p.Zoom == nil {
		p.Zoom = keyframe.NewZoomTrack()
	}

	var kept []string
	for _, id := range p.Selection.ClipIDs {
		if _, ok := p.Clips.Find(id); ok {
			kept = append(kept, id)
		}
	}
	p.Selection.ClipIDs = kept
	if _, ok := p.TextLayers.Find(p.Selection.TextLayerID); !ok {
		p.Selection.TextLayerID = ""
	}
}

// End is the later of the project duration and the last clip end.
func (p *Project) End() float64 {
	if end := p.Clips.End(); end > p.Duration {
		return end
	}
	return p.Duration
}
