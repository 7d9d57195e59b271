package interp

import (
	"math"
	"testing"
)

type scalarKF struct {
	time   float64
	value  float64
	label  string
	easing Easing
}

func (k scalarKF) At() float64   { return k.time }
func (k scalarKF) Curve() Easing { return k.easing }
func (k scalarKF) Blend(next scalarKF, raw, eased, t float64) scalarKF {
	label := k.label
	if raw >= 0.5 {
		label = next.label
	}
	return scalarKF{time: t, value: Lerp(k.value, next.value, eased), label: label, easing: k.easing}
}

func TestInterpolateDegenerateCases(t *testing.T) {
	def := scalarKF{time: 0, value: 42}

	if got := Interpolate(nil, 100, def); got != def {
		t.Errorf("empty sequence: expected default, got %+v", got)
	}

	single := []scalarKF{{time: 300, value: 7}}
	if got := Interpolate(single, 1000, def); got != single[0] {
		t.Errorf("single keyframe: expected it unchanged, got %+v", got)
	}
}

func TestInterpolateBoundaries(t *testing.T) {
	kfs := []scalarKF{
		{time: 1000, value: 1, label: "a", easing: Linear},
		{time: 2000, value: 3, label: "b", easing: Linear},
		{time: 3000, value: 9, label: "c", easing: Linear},
	}

	tests := []struct {
		time float64
		want float64
	}{
		{0, 1},
		{1000, 1},
		{1500, 2},
		{2000, 3},
		{3000, 9},
		{5000, 9},
	}

	for _, tt := range tests {
		got := Interpolate(kfs, tt.time, scalarKF{})
		if math.Abs(got.value-tt.want) > 1e-9 {
			t.Errorf("At time %.0f: expected %.2f, got %.2f", tt.time, tt.want, got.value)
		}
	}

	head := Interpolate(kfs, 10, scalarKF{})
	if head.time != 1000 {
		t.Errorf("head clamp should keep keyframe time, got %.0f", head.time)
	}
	mid := Interpolate(kfs, 1500, scalarKF{})
	if mid.time != 1500 {
		t.Errorf("blended keyframe should carry query time, got %.0f", mid.time)
	}
}

func TestInterpolateDiscreteSnapUsesRawProgress(t *testing.T) {
	kfs := []scalarKF{
		{time: 0, label: "before", easing: EaseIn},
		{time: 1000, label: "after"},
	}

	if got := Interpolate(kfs, 499, scalarKF{}); got.label != "before" {
		t.Errorf("expected before label below midpoint, got %s", got.label)
	}
	if got := Interpolate(kfs, 500, scalarKF{}); got.label != "after" {
		t.Errorf("expected after label at midpoint, got %s", got.label)
	}
}

func TestEase(t *testing.T) {
	tests := []struct {
		name   string
		easing Easing
		p      float64
		want   float64
	}{
		{"linear", Linear, 0.25, 0.25},
		{"ease-in", EaseIn, 0.5, 0.25},
		{"ease-out", EaseOut, 0.5, 0.75},
		{"ease-in-out low", EaseInOut, 0.25, 0.0625},
		{"ease-in-out mid", EaseInOut, 0.5, 0.5},
		{"ease-in-out high", EaseInOut, 0.75, 0.9375},
		{"unknown", Easing("bounce"), 0.3, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ease(tt.easing, tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ease(%s, %.2f) = %.4f, want %.4f", tt.easing, tt.p, got, tt.want)
			}
		})
	}
}

func TestEasingEndpoints(t *testing.T) {
	curves := map[string]func(float64) float64{
		"cubic": EaseInOutCubic,
		"quad":  EaseInOutQuad,
		"back":  EaseOutBack,
	}
	for name, fn := range curves {
		if math.Abs(fn(0)) > 1e-9 || math.Abs(fn(1)-1) > 1e-9 {
			t.Errorf("%s: expected endpoints 0 and 1, got %f and %f", name, fn(0), fn(1))
		}
	}
}

func TestProgressZeroSpan(t *testing.T) {
	if got := Progress(100, 100, 100); got != 1 {
		t.Errorf("zero span progress should be 1, got %f", got)
	}
	if got := Progress(0, 100, 150); got != 1 {
		t.Errorf("progress should clamp to 1, got %f", got)
	}
}
