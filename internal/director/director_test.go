package director

import (
	"image"
	"math"
	"testing"

	"github.com/ivlev/camreel/internal/capture"
	"github.com/ivlev/camreel/internal/interp"
	"github.com/ivlev/camreel/internal/timeline"
)

func click(ts, x, y float64) capture.Event {
	return capture.Event{Type: capture.EventClick, Timestamp: ts, X: x, Y: y, Button: capture.ButtonLeft}
}

func TestPlanSingleClick(t *testing.T) {
	d := NewDirector(1920, 1080)
	kfs := d.Plan([]capture.Event{
		{Type: capture.EventMove, Timestamp: 100, X: 1, Y: 1},
		click(5000, 960, 540),
	}, 10000, nil)

	if len(kfs) != 4 {
		t.Fatalf("expected in/hold/release/out keyframes, got %+v", kfs)
	}
	wantTimes := []float64{4400, 5000, 6500, 7100}
	wantScale := []float64{1, 1.8, 1.8, 1}
	for i, kf := range kfs {
		if kf.Time != wantTimes[i] {
			t.Errorf("keyframe %d at %.0f, want %.0f", i, kf.Time, wantTimes[i])
		}
		if math.Abs(kf.Scale-wantScale[i]) > 1e-9 {
			t.Errorf("keyframe %d scale %.3f, want %.3f", i, kf.Scale, wantScale[i])
		}
		if kf.CenterX != 0.5 || kf.CenterY != 0.5 {
			t.Errorf("keyframe %d should be centered on the click, got %.3f,%.3f", i, kf.CenterX, kf.CenterY)
		}
	}
	if kfs[0].Easing != interp.EaseInOut || kfs[1].Easing != interp.Linear {
		t.Errorf("zoom-in should ease and the hold should be linear, got %s/%s", kfs[0].Easing, kfs[1].Easing)
	}
}

func TestPlanMergesNearbyClicks(t *testing.T) {
	d := NewDirector(1920, 1080)
	kfs := d.Plan([]capture.Event{click(5000, 400, 300), click(6000, 500, 300)}, 20000, nil)

	if len(kfs) != 4 {
		t.Fatalf("nearby clicks should share one zoom, got %d keyframes", len(kfs))
	}
	if kfs[2].Time != 7500 {
		t.Errorf("hold should last until after the last click, got %.0f", kfs[2].Time)
	}
}

func TestPlanSeparateShots(t *testing.T) {
	d := NewDirector(1920, 1080)
	kfs := d.Plan([]capture.Event{click(20000, 100, 100), click(5000, 1800, 1000)}, 30000, nil)

	if len(kfs) != 8 {
		t.Fatalf("expected two full shots, got %d keyframes", len(kfs))
	}
	for i := 1; i < len(kfs); i++ {
		if kfs[i].Time <= kfs[i-1].Time {
			t.Fatalf("keyframe times must increase: %+v", kfs)
		}
	}
	if kfs[4].Scale != 1 || kfs[5].Time != 20000 {
		t.Errorf("second shot should zoom in again at its click, got %+v", kfs[4:6])
	}
}

func TestPlanUsesFocusRegion(t *testing.T) {
	d := NewDirector(1920, 1080)
	focus := func(at float64, pt image.Point) (image.Rectangle, bool) {
		if pt != image.Pt(300, 200) || at != 3000 {
			t.Errorf("unexpected focus query %.0f %v", at, pt)
		}
		return image.Rect(100, 100, 420, 280), true
	}
	kfs := d.Plan([]capture.Event{click(3000, 300, 200)}, 10000, focus)

	hold := kfs[1]
	if hold.Scale != 3 {
		t.Errorf("zoom should be capped at MaxZoom, got %.2f", hold.Scale)
	}
	if math.Abs(hold.CenterX-260.0/1920) > 1e-9 || math.Abs(hold.CenterY-190.0/1080) > 1e-9 {
		t.Errorf("zoom should center the focus region, got %.4f,%.4f", hold.CenterX, hold.CenterY)
	}
}

func TestPlanClickAtEnd(t *testing.T) {
	d := NewDirector(1920, 1080)
	kfs := d.Plan([]capture.Event{click(10000, 960, 540)}, 10000, nil)
	if len(kfs) != 2 || kfs[1].Time != 10000 {
		t.Errorf("a click at the end should only zoom in, got %+v", kfs)
	}
}

func TestPlanWithoutClicks(t *testing.T) {
	d := NewDirector(1920, 1080)
	if kfs := d.Plan([]capture.Event{{Type: capture.EventKeypress, Key: "A"}}, 5000, nil); kfs != nil {
		t.Errorf("expected no keyframes, got %+v", kfs)
	}
}

func TestToTimeline(t *testing.T) {
	moved := timeline.NewClip("b", timeline.TrackScreen, 1000, 2000, 4000)
	off := timeline.NewClip("off", timeline.TrackScreen, 0, 0, 10000)
	off.Enabled = false
	clips := timeline.Clips{
		moved,
		off,
		timeline.NewClip("cam", timeline.TrackCam, 0, 0, 10000),
	}

	out := ToTimeline([]capture.Event{click(2500, 0, 0), click(5000, 0, 0), click(100, 0, 0)}, clips)
	if len(out) != 1 {
		t.Fatalf("only the event inside the clip should survive, got %+v", out)
	}
	if out[0].Timestamp != 1500 {
		t.Errorf("expected timeline time 1500, got %.0f", out[0].Timestamp)
	}
}
