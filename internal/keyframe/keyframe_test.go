package keyframe

import (
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/camreel/internal/interp"
)

func TestWebcamMidpoint(t *testing.T) {
	tr := NewWebcamTrack()
	a := DefaultWebcam()
	a.Time, a.X, a.Scale, a.Easing = 0, 0, 1, interp.Linear
	b := DefaultWebcam()
	b.Time, b.X, b.Scale = 1000, 1, 2
	tr.Add(a)
	tr.Add(b)

	got := tr.Query(500)
	if math.Abs(got.X-0.5) > 1e-9 || math.Abs(got.Scale-1.5) > 1e-9 {
		t.Errorf("expected x=0.5 scale=1.5, got x=%.3f scale=%.3f", got.X, got.Scale)
	}
	if got.Time != 500 {
		t.Errorf("blended keyframe should carry query time, got %.0f", got.Time)
	}
}

func TestWebcamDefaultEasingIsEaseInOut(t *testing.T) {
	tr := NewWebcamTrack()
	a := DefaultWebcam()
	a.X = 0
	b := DefaultWebcam()
	b.Time, b.X = 1000, 1
	tr.Add(a)
	tr.Add(b)

	if got := tr.Query(250); math.Abs(got.X-0.0625) > 1e-9 {
		t.Errorf("expected cubic ease-in-out 0.0625, got %.4f", got.X)
	}
}

func TestWebcamDiscreteAndVisible(t *testing.T) {
	tr := NewWebcamTrack()
	a := DefaultWebcam()
	a.Shape, a.Shadow = ShapeCircle, false
	b := DefaultWebcam()
	b.Time, b.Shape, b.Shadow, b.Visible = 1000, ShapeSquare, true, false
	tr.Add(a)
	tr.Add(b)

	before := tr.Query(400)
	if before.Shape != ShapeCircle || before.Shadow {
		t.Errorf("below midpoint expected before's discrete fields, got %s/%v", before.Shape, before.Shadow)
	}
	after := tr.Query(600)
	if after.Shape != ShapeSquare || !after.Shadow {
		t.Errorf("above midpoint expected after's discrete fields, got %s/%v", after.Shape, after.Shadow)
	}
	if before.Visible || after.Visible {
		t.Error("visible must be the conjunction of both keyframes")
	}
}

func TestEmptyTrackReturnsDefault(t *testing.T) {
	if got := NewZoomTrack().Query(1234); got != DefaultZoom() {
		t.Errorf("expected default zoom, got %+v", got)
	}
	if got := NewWebcamTrack().Query(0); got != DefaultWebcam() {
		t.Errorf("expected default webcam, got %+v", got)
	}
}

func TestZoomBoundaries(t *testing.T) {
	tr := NewZoomTrack()
	tr.Add(Zoom{Time: 1000, Scale: 1, CenterX: 0.5, CenterY: 0.5, Easing: interp.Linear})
	tr.Add(Zoom{Time: 2000, Scale: 3, CenterX: 0.2, CenterY: 0.8, Easing: interp.Linear})

	if got := tr.Query(0); got.Scale != 1 || got.Time != 1000 {
		t.Errorf("head clamp: got %+v", got)
	}
	if got := tr.Query(1000); got.Scale != 1 {
		t.Errorf("at first keyframe: got scale %.2f", got.Scale)
	}
	if got := tr.Query(2000); got.Scale != 3 {
		t.Errorf("at last keyframe: got scale %.2f", got.Scale)
	}
	if got := tr.Query(9000); got.Scale != 3 || got.Time != 2000 {
		t.Errorf("tail clamp: got %+v", got)
	}
}

func TestTrackAddIsUpsert(t *testing.T) {
	tr := NewZoomTrack()
	tr.Add(Zoom{Time: 500, Scale: 2})
	tr.Add(Zoom{Time: 500.0000001, Scale: 3})
	tr.Add(Zoom{Time: 100, Scale: 1.5})

	if tr.Len() != 2 {
		t.Fatalf("expected 2 keyframes, got %d", tr.Len())
	}
	all := tr.All()
	if all[0].Time != 100 || all[1].Scale != 3 {
		t.Errorf("unexpected order or value: %+v", all)
	}
}

func TestTrackUpdateReKeys(t *testing.T) {
	tr := NewZoomTrack()
	tr.Add(Zoom{Time: 100, Scale: 2})
	tr.Add(Zoom{Time: 900, Scale: 4})

	ok := tr.Update(100, func(z Zoom) Zoom {
		z.Time = 1500
		return z
	})
	if !ok {
		t.Fatal("update of existing keyframe should succeed")
	}
	if _, found := tr.At(100); found {
		t.Error("old key should be gone after re-key")
	}
	all := tr.All()
	if len(all) != 2 || all[1].Time != 1500 || all[1].Scale != 2 {
		t.Errorf("unexpected track after re-key: %+v", all)
	}

	if tr.Update(42, func(z Zoom) Zoom { return z }) {
		t.Error("update of missing keyframe should report false")
	}
	if tr.Delete(42) {
		t.Error("delete of missing keyframe should report false")
	}
	if !tr.Delete(900) || tr.Len() != 1 {
		t.Error("delete should remove the keyframe")
	}
}

func TestTrackCloneIsIndependent(t *testing.T) {
	tr := NewWebcamTrack()
	tr.Add(DefaultWebcam())
	c := tr.Clone()
	c.Add(Webcam{Time: 200})
	c.Delete(0)

	if tr.Len() != 1 {
		t.Errorf("original track changed, len=%d", tr.Len())
	}
	if _, ok := tr.At(0); !ok {
		t.Error("original keyframe missing after clone mutation")
	}
}

func TestTrackYAMLSequence(t *testing.T) {
	tr := NewZoomTrack()
	tr.Add(Zoom{Time: 2000, Scale: 2, CenterX: 0.5, CenterY: 0.5, Easing: interp.EaseOut})
	tr.Add(Zoom{Time: 0, Scale: 1, CenterX: 0.5, CenterY: 0.5, Easing: interp.Linear})

	data, err := yaml.Marshal(tr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.HasPrefix(string(data), "- time: 0") {
		t.Errorf("expected a time-ordered sequence, got:\n%s", data)
	}

	loaded := NewZoomTrack()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded.Len() != 2 || loaded.Default() != DefaultZoom() {
		t.Errorf("unexpected loaded track: len=%d", loaded.Len())
	}
}

func TestLayoutsActiveAtAndStableSort(t *testing.T) {
	var ls Layouts
	ls = ls.Add(DefaultLayout())
	ls = ls.Add(Layout{Time: 2000, Type: LayoutSplit})
	ls = ls.Add(Layout{Time: 1000, Type: LayoutFullCam})
	ls = ls.Add(Layout{Time: 1000, Type: LayoutFullScreen})

	if ls[1].Type != LayoutFullCam || ls[2].Type != LayoutFullScreen {
		t.Errorf("equal times should keep insertion order: %v, %v", ls[1].Type, ls[2].Type)
	}

	tests := []struct {
		at   float64
		want LayoutType
	}{
		{0, LayoutPiP},
		{999, LayoutPiP},
		{1000, LayoutFullScreen},
		{5000, LayoutSplit},
	}
	for _, tt := range tests {
		if got, _ := ls.ActiveAt(tt.at); got.Type != tt.want {
			t.Errorf("at %.0f expected %s, got %s", tt.at, tt.want, got.Type)
		}
	}

	if _, ok := (Layouts{{Time: 500}}).ActiveAt(100); ok {
		t.Error("no marker should be active before the first one")
	}

	moved := ls.Update(0, func(l *Layout) { l.Time = 3000 })
	if moved[len(moved)-1].Type != LayoutPiP {
		t.Error("update should re-sort markers")
	}
	if len(ls.Delete(7)) != len(ls) {
		t.Error("out of range delete should be a no-op")
	}
}
