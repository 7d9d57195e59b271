// Package effects builds the ffmpeg filter chains applied to a trimmed
// segment: framing, zoom, fades and audio gain.
package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/camreel/internal/export"
	"github.com/ivlev/camreel/internal/renderer"
)

type Effect interface {
	VideoFilter(seg export.Segment, s export.Settings) string
	// AudioFilter returns an empty string when the audio passes unchanged.
	AudioFilter(seg export.Segment) string
}

// DefaultEffect letterboxes the segment into the output size, applies its
// zoom keyframes and fades, and scales its audio.
type DefaultEffect struct{}

func (DefaultEffect) VideoFilter(seg export.Segment, s export.Settings) string {
	chain := []string{fitFilter(s.Width, s.Height)}
	if zp := renderer.ZoomPanFilter(seg.Zoom, s.FPS, s.Width, s.Height); zp != "" {
		chain = append(chain, zp)
	}
	chain = append(chain, fades("fade", seg)...)
	return strings.Join(chain, ",")
}

func (DefaultEffect) AudioFilter(seg export.Segment) string {
	var chain []string
	if seg.Volume != 1 {
		chain = append(chain, fmt.Sprintf("volume=%.3f", seg.Volume))
	}
	if seg.Volume > 0 {
		chain = append(chain, fades("afade", seg)...)
	}
	return strings.Join(chain, ",")
}

func fitFilter(w, h int) string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1", w, h, w, h)
}

// fades returns in and out fade filters named name, in seconds relative to
// the segment start.
func fades(name string, seg export.Segment) []string {
	var out []string
	if seg.FadeIn > 0 {
		out = append(out, fmt.Sprintf("%s=t=in:st=0:d=%.3f", name, seg.FadeIn/1000))
	}
	if seg.FadeOut > 0 {
		start := (seg.Duration - seg.FadeOut) / 1000
		if start < 0 {
			start = 0
		}
		out = append(out, fmt.Sprintf("%s=t=out:st=%.3f:d=%.3f", name, start, seg.FadeOut/1000))
	}
	return out
}
