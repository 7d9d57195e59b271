package editor

import (
	"testing"

	"github.com/ivlev/camreel/internal/config"
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/project"
	"github.com/ivlev/camreel/internal/timeline"
)

type stubNotifier struct {
	infos []string
	warns []string
}

func (n *stubNotifier) Info(msg string) { n.infos = append(n.infos, msg) }
func (n *stubNotifier) Warn(msg string) { n.warns = append(n.warns, msg) }

func newTestController(t *testing.T) (*Controller, *stubNotifier) {
	t.Helper()
	n := &stubNotifier{}
	opts := DefaultOptions()
	opts.Notifier = n
	return New(project.New(10000), opts), n
}

func clipStart(t *testing.T, c *Controller, id string) float64 {
	t.Helper()
	clip, ok := c.Project().Clips.Find(id)
	if !ok {
		t.Fatalf("clip %s not found", id)
	}
	return clip.StartTime
}

func TestSplitAtPlayheadPreconditions(t *testing.T) {
	c, n := newTestController(t)

	if c.SplitAtPlayhead() {
		t.Error("split without selection should fail")
	}
	if len(n.warns) != 1 {
		t.Errorf("expected a warning, got %v", n.warns)
	}

	c.Select("screen-1", false)
	c.Seek(0)
	if c.SplitAtPlayhead() {
		t.Error("split at clip start should fail")
	}
	if len(c.Project().Clips) != 2 {
		t.Error("failed split must not change clips")
	}

	c.Project().Selection.ClipIDs = []string{"gone"}
	n.warns = nil
	if c.SplitAtPlayhead() {
		t.Error("split of a missing clip should fail")
	}
	if len(n.warns) != 1 {
		t.Errorf("expected a warning for the missing clip, got %v", n.warns)
	}

	c.Select("screen-1", false)
	c.Seek(4000)
	if !c.SplitAtPlayhead() {
		t.Fatal("split inside the clip should succeed")
	}
	if len(c.Project().Clips) != 3 {
		t.Errorf("expected 3 clips after split, got %d", len(c.Project().Clips))
	}
}

func TestFirstCommandIsUndoable(t *testing.T) {
	c, _ := newTestController(t)
	c.Select("screen-1", false)
	c.Seek(5000)
	c.SplitAtPlayhead()

	if !c.CanUndo() {
		t.Fatal("expected undo to be available after the first command")
	}
	c.Undo()
	if _, ok := c.Project().Clips.Find("screen-1"); !ok {
		t.Error("undo should restore the unsplit clip")
	}
	if !c.CanRedo() {
		t.Fatal("expected redo to be available")
	}
	c.Redo()
	if _, ok := c.Project().Clips.Find("screen-1-split-2"); !ok {
		t.Error("redo should restore the split")
	}
	if c.CanRedo() {
		t.Error("no redo expected at the tail")
	}
}

func TestUndoRedoSymmetry(t *testing.T) {
	c, _ := newTestController(t)
	for i := 0; i < 5; i++ {
		c.Select("cam-1", false)
		c.BeginDrag("cam-1", DragMove)
		c.DragTo(float64(i+1) * 1000)
		c.EndDrag()
	}
	final := clipStart(t, c, "cam-1")

	for k := 1; k <= 5; k++ {
		for i := 0; i < k; i++ {
			if !c.Undo() {
				t.Fatalf("k=%d: undo %d failed", k, i+1)
			}
		}
		if k == 5 && clipStart(t, c, "cam-1") != 0 {
			t.Errorf("undoing everything should restore start 0, got %.0f", clipStart(t, c, "cam-1"))
		}
		for i := 0; i < k; i++ {
			if !c.Redo() {
				t.Fatalf("k=%d: redo %d failed", k, i+1)
			}
		}
		if got := clipStart(t, c, "cam-1"); got != final {
			t.Errorf("k=%d: expected start %.0f after redo, got %.0f", k, final, got)
		}
	}
}

func TestCommandAfterUndoDropsRedo(t *testing.T) {
	c, _ := newTestController(t)
	c.SetClipVolume("screen-1", 0.5)
	c.SetClipVolume("screen-1", 0.25)
	c.Undo()

	c.SetClipOpacity("screen-1", 0.3)
	if c.CanRedo() {
		t.Error("a new command should discard the redo branch")
	}

	c.Undo()
	clip, _ := c.Project().Clips.Find("screen-1")
	if clip.Volume != 0.5 || clip.Opacity != 1 {
		t.Errorf("expected volume 0.5 and opacity 1, got %.2f / %.2f", clip.Volume, clip.Opacity)
	}
	c.Undo()
	clip, _ = c.Project().Clips.Find("screen-1")
	if clip.Volume != 1 {
		t.Errorf("expected original volume, got %.2f", clip.Volume)
	}
	if c.CanUndo() {
		t.Error("nothing left to undo")
	}
}

func TestDeleteSelectedRippleModes(t *testing.T) {
	tests := []struct {
		name     string
		ripple   bool
		scope    string
		wantCam2 float64
		wantScr2 float64
	}{
		{"ripple all tracks", true, config.RippleAllTracks, 1000, 1000},
		{"ripple per track", true, config.RippleTrack, 3000, 1000},
		{"no ripple", false, config.RippleAllTracks, 3000, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := project.New(2000)
			p.Clips = timeline.Clips{
				timeline.NewClip("s1", timeline.TrackScreen, 0, 0, 2000),
				timeline.NewClip("s2", timeline.TrackScreen, 3000, 0, 1000),
				timeline.NewClip("c2", timeline.TrackCam, 3000, 0, 1000),
			}
			opts := DefaultOptions()
			opts.Ripple = tt.ripple
			opts.RippleScope = tt.scope
			opts.Notifier = &stubNotifier{}
			c := New(p, opts)

			c.Select("s1", false)
			if !c.DeleteSelected() {
				t.Fatal("delete should succeed")
			}
			if got := clipStart(t, c, "c2"); got != tt.wantCam2 {
				t.Errorf("c2: expected %.0f, got %.0f", tt.wantCam2, got)
			}
			if got := clipStart(t, c, "s2"); got != tt.wantScr2 {
				t.Errorf("s2: expected %.0f, got %.0f", tt.wantScr2, got)
			}
			if len(c.SelectedClipIDs()) != 0 {
				t.Error("selection should be cleared")
			}
		})
	}
}

func TestCopyPasteDuplicate(t *testing.T) {
	c, n := newTestController(t)

	if c.Paste() {
		t.Error("paste with an empty clipboard should fail")
	}
	if len(n.warns) == 0 {
		t.Error("expected a warning for the empty clipboard")
	}

	c.Select("screen-1", false)
	c.Select("cam-1", true)
	c.Copy()
	c.Seek(2000)
	c.Paste()

	clips := c.Project().Clips
	if len(clips) != 4 {
		t.Fatalf("expected 4 clips after paste, got %d", len(clips))
	}
	var starts []float64
	for _, clip := range clips {
		if clip.ID != "screen-1" && clip.ID != "cam-1" {
			starts = append(starts, clip.StartTime)
		}
	}
	if len(starts) != 2 || starts[0] != 2000 || starts[1] != 2100 {
		t.Errorf("expected pasted starts [2000 2100], got %v", starts)
	}

	c.Select("screen-1", false)
	c.Duplicate()
	var dup timeline.Clip
	for _, clip := range c.Project().Clips {
		if clip.Track == timeline.TrackScreen && clip.StartTime == 10100 {
			dup = clip
		}
	}
	if dup.ID == "" || dup.ID == "screen-1" {
		t.Errorf("expected a duplicate with a fresh ID at 10100, got %+v", dup)
	}
}

func TestDragMoveSnapsAndRecordsOnce(t *testing.T) {
	p := project.New(1000)
	p.Clips = timeline.Clips{
		timeline.NewClip("a", timeline.TrackScreen, 0, 0, 500),
		timeline.NewClip("b", timeline.TrackScreen, 1000, 0, 1000),
	}
	opts := DefaultOptions()
	opts.Notifier = &stubNotifier{}
	c := New(p, opts)

	c.BeginDrag("a", DragMove)
	c.DragTo(800)
	if _, ok := c.SnapIndicator(); ok {
		t.Error("800 is outside the threshold and must not snap")
	}
	c.DragTo(950)
	at, ok := c.SnapIndicator()
	if !ok || at != 1000 {
		t.Errorf("expected snap to 1000, got %.0f (%v)", at, ok)
	}
	if got := clipStart(t, c, "a"); got != 1000 {
		t.Errorf("expected clip start 1000, got %.0f", got)
	}
	c.DragTo(-300)
	if got := clipStart(t, c, "a"); got != 0 {
		t.Errorf("move should clamp at 0, got %.0f", got)
	}
	c.DragTo(2400)
	c.EndDrag()
	if _, ok := c.SnapIndicator(); ok {
		t.Error("snap indicator should clear on drag end")
	}

	if len(c.History()) != 1 {
		t.Errorf("a drag should record one snapshot, got %d", len(c.History()))
	}
	c.Undo()
	if got := clipStart(t, c, "a"); got != 0 {
		t.Errorf("undo should restore the pre-drag start, got %.0f", got)
	}
}

func TestDragWithoutChangeLeavesNoHistory(t *testing.T) {
	c, _ := newTestController(t)

	c.BeginDrag("screen-1", DragMove)
	c.EndDrag()
	if c.CanUndo() || len(c.History()) != 0 {
		t.Errorf("an untouched drag should not be undoable, history %d", len(c.History()))
	}

	c.BeginDrag("screen-1", DragMove)
	c.DragTo(0)
	c.EndDrag()
	if c.CanUndo() {
		t.Error("dragging a clip onto its own start should not be undoable")
	}

	c.BeginDrag("screen-1", DragMove)
	c.DragTo(500)
	c.DragTo(700)
	c.EndDrag()
	if len(c.History()) != 1 {
		t.Errorf("a real drag should record one snapshot, got %d", len(c.History()))
	}
}

func TestDragTrimClamps(t *testing.T) {
	c, _ := newTestController(t)
	c.BeginDrag("cam-1", DragTrimStart)
	c.DragTo(20000)
	c.EndDrag()

	clip, _ := c.Project().Clips.Find("cam-1")
	if clip.SourceStart != 9900 || clip.Duration != 100 {
		t.Errorf("trim start should clamp to leave 100ms, got start %.0f duration %.0f", clip.SourceStart, clip.Duration)
	}

	c.BeginDrag("cam-1", DragTrimEnd)
	c.DragTo(0)
	c.EndDrag()
	clip, _ = c.Project().Clips.Find("cam-1")
	if clip.SourceEnd != 10000 {
		t.Errorf("trim end should clamp to start+100, got %.0f", clip.SourceEnd)
	}
}

func TestSelectionExclusivity(t *testing.T) {
	c, _ := newTestController(t)
	c.Select("screen-1", false)
	id := c.AddTextLayer(timeline.NewTextLayer("Title", 0))

	sel := c.Project().Selection
	if sel.TextLayerID != id || len(sel.ClipIDs) != 0 {
		t.Errorf("adding a text layer should select it exclusively: %+v", sel)
	}

	c.Select("cam-1", false)
	if c.Project().Selection.TextLayerID != "" {
		t.Error("selecting a clip should clear the text selection")
	}

	c.SelectTextLayer(id)
	c.DeleteTextLayer(id)
	if c.Project().Selection.TextLayerID != "" {
		t.Error("deleting the selected text layer should clear the selection")
	}

	c.Select("screen-1", false)
	c.Select("cam-1", true)
	c.Select("screen-1", true)
	if ids := c.SelectedClipIDs(); len(ids) != 1 || ids[0] != "cam-1" {
		t.Errorf("multi select should toggle, got %v", ids)
	}
}

func TestAddLayoutKeyframeInheritsActiveProperties(t *testing.T) {
	c, _ := newTestController(t)
	c.UpdateLayoutKeyframe(0, func(l *keyframe.Layout) { l.Properties.CamScale = 2 })
	c.Seek(3000)

	if !c.AddLayoutKeyframe(keyframe.LayoutSplit) {
		t.Fatal("add layout should succeed")
	}
	layouts := c.Project().Layouts
	if len(layouts) != 2 || layouts[1].Time != 3000 || layouts[1].Properties.CamScale != 2 {
		t.Errorf("unexpected layouts %+v", layouts)
	}
	if c.AddLayoutKeyframe("diagonal") {
		t.Error("unknown layout type should be rejected")
	}
}

func TestSeekClamps(t *testing.T) {
	c, _ := newTestController(t)
	c.Seek(-5)
	if c.Project().CurrentTime != 0 {
		t.Errorf("expected 0, got %.0f", c.Project().CurrentTime)
	}
	c.Seek(99999)
	if c.Project().CurrentTime != 10000 {
		t.Errorf("expected 10000, got %.0f", c.Project().CurrentTime)
	}
}

func TestSeekReachesClipsPastDuration(t *testing.T) {
	c, _ := newTestController(t)
	c.Select("screen-1", false)
	c.Duplicate()

	c.Seek(15000)
	if got := c.Project().CurrentTime; got != 15000 {
		t.Errorf("expected the playhead inside the duplicate at 15000, got %.0f", got)
	}
	c.Seek(99999)
	if got, end := c.Project().CurrentTime, c.Project().End(); got != end || end <= 10000 {
		t.Errorf("expected clamp to the last clip end, got %.0f (end %.0f)", got, end)
	}
}

func TestKeyframeCommands(t *testing.T) {
	c, _ := newTestController(t)
	c.Seek(1000)
	c.SetZoomKeyframe(keyframe.Zoom{Scale: 9, CenterX: 0.5, CenterY: 0.5})
	c.SetZoomKeyframe(keyframe.Zoom{Scale: 2, CenterX: 0.5, CenterY: 0.5})

	zooms := c.Project().Zoom.All()
	if len(zooms) != 1 || zooms[0].Scale != 2 {
		t.Errorf("setting a keyframe at the same time should replace it, got %+v", zooms)
	}

	c.UpdateZoomKeyframe(1000, func(z keyframe.Zoom) keyframe.Zoom {
		z.Scale = 10
		return z
	})
	if z, _ := c.Project().Zoom.At(1000); z.Scale != keyframe.MaxZoom {
		t.Errorf("zoom scale should clamp to %.0f, got %.2f", keyframe.MaxZoom, z.Scale)
	}

	c.SetWebcamKeyframe(keyframe.DefaultWebcam())
	if c.DeleteWebcamKeyframe(42) {
		t.Error("deleting a missing keyframe should be a no-op")
	}
	if !c.DeleteWebcamKeyframe(1000) || c.Project().Webcam.Len() != 0 {
		t.Error("delete should remove the webcam keyframe")
	}

	c.Undo()
	if c.Project().Webcam.Len() != 1 {
		t.Error("undo should bring back the webcam keyframe")
	}
}

func TestReplaceZoomKeyframesIsOneUndo(t *testing.T) {
	c, _ := newTestController(t)
	c.Seek(500)
	c.SetZoomKeyframe(keyframe.Zoom{Scale: 1.5, CenterX: 0.5, CenterY: 0.5})

	c.ReplaceZoomKeyframes([]keyframe.Zoom{
		{Time: 100, Scale: 1, CenterX: 0.5, CenterY: 0.5},
		{Time: 700, Scale: 99, CenterX: 0.2, CenterY: 0.3},
	})
	zooms := c.Project().Zoom.All()
	if len(zooms) != 2 || zooms[1].Scale != keyframe.MaxZoom {
		t.Fatalf("expected two clamped keyframes, got %+v", zooms)
	}

	if !c.Undo() {
		t.Fatal("replace should be undoable")
	}
	zooms = c.Project().Zoom.All()
	if len(zooms) != 1 || zooms[0].Time != 500 || zooms[0].Scale != 1.5 {
		t.Errorf("undo should restore the previous zoom track, got %+v", zooms)
	}
}
