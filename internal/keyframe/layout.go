package keyframe

import "sort"

// LayoutType names an arrangement of the screen and camera sources.
type LayoutType string

const (
	LayoutSplit      LayoutType = "split"
	LayoutPiP        LayoutType = "pip"
	LayoutFullScreen LayoutType = "full_screen"
	LayoutFullCam    LayoutType = "full_cam"
)

func (t LayoutType) Valid() bool {
	switch t {
	case LayoutSplit, LayoutPiP, LayoutFullScreen, LayoutFullCam:
		return true
	}
	return false
}

type FocusPoint struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

type LayoutProperties struct {
	CamScale       float64    `yaml:"camScale" json:"camScale"`
	CamX           float64    `yaml:"camX" json:"camX"`
	CamY           float64    `yaml:"camY" json:"camY"`
	CamWidth       float64    `yaml:"camWidth" json:"camWidth"`
	CamHeight      float64    `yaml:"camHeight" json:"camHeight"`
	CamShape       Shape      `yaml:"camShape" json:"camShape"`
	CamBorderColor string     `yaml:"camBorderColor" json:"camBorderColor"`
	CamBorderWidth float64    `yaml:"camBorderWidth" json:"camBorderWidth"`
	CamVisible     bool       `yaml:"camVisible" json:"camVisible"`
	ScreenZoom     float64    `yaml:"screenZoom" json:"screenZoom"`
	FocusPoint     FocusPoint `yaml:"focusPoint" json:"focusPoint"`
}

// Layout is a timeline marker recording the intended arrangement from Time
// onward. Layouts are never interpolated.
type Layout struct {
	Time       float64          `yaml:"time" json:"time"`
	Type       LayoutType       `yaml:"type" json:"type"`
	Properties LayoutProperties `yaml:"properties" json:"properties"`
}

func DefaultLayoutProperties() LayoutProperties {
	return LayoutProperties{
		CamScale:       1,
		CamX:           0.85,
		CamY:           0.85,
		CamWidth:       240,
		CamHeight:      180,
		CamShape:       ShapeRounded,
		CamBorderColor: "#ffffff",
		CamBorderWidth: 2,
		CamVisible:     true,
		ScreenZoom:     1,
		FocusPoint:     FocusPoint{X: 0.5, Y: 0.5},
	}
}

// DefaultLayout is the picture-in-picture marker every project starts with.
func DefaultLayout() Layout {
	return Layout{Time: 0, Type: LayoutPiP, Properties: DefaultLayoutProperties()}
}

// Layouts is a time-sorted marker list. Times need not be unique.
type Layouts []Layout

func (ls Layouts) Clone() Layouts {
	if ls == nil {
		return nil
	}
	out := make(Layouts, len(ls))
	copy(out, ls)
	return out
}

// Add inserts l after any markers with the same time.
func (ls Layouts) Add(l Layout) Layouts {
	out := append(ls.Clone(), l)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Update applies fn to the marker at index and re-sorts. Out of range
// indexes are ignored.
func (ls Layouts) Update(index int, fn func(*Layout)) Layouts {
	out := ls.Clone()
	if index < 0 || index >= len(out) {
		return out
	}
	fn(&out[index])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func (ls Layouts) Delete(index int) Layouts {
	if index < 0 || index >= len(ls) {
		return ls.Clone()
	}
	out := make(Layouts, 0, len(ls)-1)
	out = append(out, ls[:index]...)
	return append(out, ls[index+1:]...)
}

// ActiveAt returns the last marker whose time is at or before t.
func (ls Layouts) ActiveAt(t float64) (Layout, bool) {
	var (
		found  Layout
		active bool
	)
	for _, l := range ls {
		if l.Time > t {
			break
		}
		found, active = l, true
	}
	return found, active
}
