package keyframe

import (
	"github.com/ivlev/camreel/internal/interp"
)

const (
	MinZoom = 1.0
	MaxZoom = 4.0
)

// Zoom is a screen zoom target at one instant.
type Zoom struct {
	Time    float64       `yaml:"time" json:"time"`
	Scale   float64       `yaml:"scale" json:"scale"`     // 1-4
	CenterX float64       `yaml:"centerX" json:"centerX"` // 0-1
	CenterY float64       `yaml:"centerY" json:"centerY"` // 0-1
	Easing  interp.Easing `yaml:"easing" json:"easing"`
}

func DefaultZoom() Zoom {
	return Zoom{Scale: 1, CenterX: 0.5, CenterY: 0.5, Easing: interp.Linear}
}

func (z Zoom) At() float64          { return z.Time }
func (z Zoom) Curve() interp.Easing { return z.Easing }

func (z Zoom) Blend(next Zoom, _, eased, t float64) Zoom {
	return Zoom{
		Time:    t,
		Scale:   interp.Lerp(z.Scale, next.Scale, eased),
		CenterX: interp.Lerp(z.CenterX, next.CenterX, eased),
		CenterY: interp.Lerp(z.CenterY, next.CenterY, eased),
		Easing:  z.Easing,
	}
}

// Clamped limits scale and center to their legal ranges.
func (z Zoom) Clamped() Zoom {
	z.Scale = interp.Clamp(z.Scale, MinZoom, MaxZoom)
	z.CenterX = interp.Clamp(z.CenterX, 0, 1)
	z.CenterY = interp.Clamp(z.CenterY, 0, 1)
	if !z.Easing.Valid() {
		z.Easing = interp.Linear
	}
	return z
}

func NewZoomTrack() *Track[Zoom] {
	return NewTrack(DefaultZoom())
}
