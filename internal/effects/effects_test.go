package effects

import (
	"strings"
	"testing"

	"github.com/ivlev/camreel/internal/export"
	"github.com/ivlev/camreel/internal/interp"
	"github.com/ivlev/camreel/internal/keyframe"
)

var settings = export.Settings{Format: "mp4", Width: 1280, Height: 720, FPS: 30}

func TestVideoFilterPlain(t *testing.T) {
	got := DefaultEffect{}.VideoFilter(export.Segment{Duration: 2000, Volume: 1}, settings)
	want := "scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2,setsar=1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestVideoFilterZoomAndFades(t *testing.T) {
	seg := export.Segment{
		Duration: 4000,
		FadeIn:   500,
		FadeOut:  1000,
		Zoom: []keyframe.Zoom{
			{Time: 0, Scale: 1, CenterX: 0.5, CenterY: 0.5, Easing: interp.Linear},
			{Time: 4000, Scale: 2, CenterX: 0.5, CenterY: 0.5, Easing: interp.Linear},
		},
	}
	got := DefaultEffect{}.VideoFilter(seg, settings)

	parts := []string{"pad=1280:720", "zoompan=", "fade=t=in:st=0:d=0.500", "fade=t=out:st=3.000:d=1.000"}
	last := -1
	for _, p := range parts {
		i := strings.Index(got, p)
		if i < 0 {
			t.Fatalf("filter should contain %q: %s", p, got)
		}
		if i < last {
			t.Errorf("%q is out of order in %s", p, got)
		}
		last = i
	}
}

func TestAudioFilter(t *testing.T) {
	tests := []struct {
		name string
		seg  export.Segment
		want string
	}{
		{"unity", export.Segment{Duration: 1000, Volume: 1}, ""},
		{"muted", export.Segment{Duration: 1000, Volume: 0, FadeIn: 200}, "volume=0.000"},
		{"boost with fade", export.Segment{Duration: 1000, Volume: 1.5, FadeOut: 250}, "volume=1.500,afade=t=out:st=0.750:d=0.250"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (DefaultEffect{}).AudioFilter(tt.seg); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
