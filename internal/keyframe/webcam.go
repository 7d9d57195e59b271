package keyframe

import (
	"github.com/ivlev/camreel/internal/interp"
)

// Shape is the mask applied to the webcam overlay.
type Shape string

const (
	ShapeCircle  Shape = "circle"
	ShapeSquare  Shape = "square"
	ShapeRounded Shape = "rounded"
)

// Webcam describes the webcam overlay at one instant.
type Webcam struct {
	Time        float64       `yaml:"time" json:"time"`
	X           float64       `yaml:"x" json:"x"` // 0-1 normalized center
	Y           float64       `yaml:"y" json:"y"` // 0-1 normalized center
	Width       float64       `yaml:"width" json:"width"`
	Height      float64       `yaml:"height" json:"height"`
	Scale       float64       `yaml:"scale" json:"scale"`
	Shape       Shape         `yaml:"shape" json:"shape"`
	BorderColor string        `yaml:"borderColor" json:"borderColor"`
	BorderWidth float64       `yaml:"borderWidth" json:"borderWidth"`
	Shadow      bool          `yaml:"shadow" json:"shadow"`
	Visible     bool          `yaml:"visible" json:"visible"`
	Easing      interp.Easing `yaml:"easing,omitempty" json:"easing,omitempty"`
}

// DefaultWebcam is the overlay used when no webcam keyframes exist.
func DefaultWebcam() Webcam {
	return Webcam{
		X:           0.85,
		Y:           0.85,
		Width:       240,
		Height:      180,
		Scale:       1,
		Shape:       ShapeRounded,
		BorderColor: "#ffffff",
		BorderWidth: 2,
		Shadow:      true,
		Visible:     true,
	}
}

func (w Webcam) At() float64 { return w.Time }

// Curve defaults to ease-in-out when no easing was recorded.
func (w Webcam) Curve() interp.Easing {
	if w.Easing == "" {
		return interp.EaseInOut
	}
	return w.Easing
}

func (w Webcam) Blend(next Webcam, raw, eased, t float64) Webcam {
	out := Webcam{
		Time:        t,
		X:           interp.Lerp(w.X, next.X, eased),
		Y:           interp.Lerp(w.Y, next.Y, eased),
		Width:       interp.Lerp(w.Width, next.Width, eased),
		Height:      interp.Lerp(w.Height, next.Height, eased),
		Scale:       interp.Lerp(w.Scale, next.Scale, eased),
		BorderWidth: interp.Lerp(w.BorderWidth, next.BorderWidth, eased),
		Visible:     w.Visible && next.Visible,
		Easing:      w.Easing,
	}
	if raw < 0.5 {
		out.Shape, out.BorderColor, out.Shadow = w.Shape, w.BorderColor, w.Shadow
	} else {
		out.Shape, out.BorderColor, out.Shadow = next.Shape, next.BorderColor, next.Shadow
	}
	return out
}

// NewWebcamTrack returns an empty webcam track.
func NewWebcamTrack() *Track[Webcam] {
	return NewTrack(DefaultWebcam())
}
