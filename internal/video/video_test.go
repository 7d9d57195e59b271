package video

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ivlev/camreel/internal/effects"
	"github.com/ivlev/camreel/internal/export"
	"github.com/ivlev/camreel/internal/interp"
	"github.com/ivlev/camreel/internal/keyframe"
)

func settings() export.Settings {
	return export.Settings{Format: "mp4", Width: 64, Height: 36, FPS: 30, Codec: "h264", CRF: 23}
}

func TestEncoderSelection(t *testing.T) {
	tests := []struct {
		name   string
		format string
		codec  string
		hw     string
		want   string
	}{
		{"default h264", "mp4", "h264", "", "libx264"},
		{"hardware h264", "mp4", "h264", "h264_videotoolbox", "h264_videotoolbox"},
		{"empty codec", "mp4", "", "", "libx264"},
		{"hevc", "mp4", "h265", "h264_nvenc", "libx265"},
		{"webm forces vp9", "webm", "h264", "h264_nvenc", "libvpx-vp9"},
		{"explicit vp9", "webm", "vp9", "", "libvpx-vp9"},
		{"raw encoder name", "mp4", "libaom-av1", "", "libaom-av1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings()
			s.Format, s.Codec = tt.format, tt.codec
			if got := Encoder(s, tt.hw); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestQualityArgs(t *testing.T) {
	s := settings()
	if got := qualityArgs("libx264", s); !slices.Equal(got, []string{"-crf", "23", "-preset", "fast"}) {
		t.Errorf("libx264: %v", got)
	}
	if got := qualityArgs("libvpx-vp9", s); !slices.Contains(got, "-b:v") || !slices.Contains(got, "0") {
		t.Errorf("vp9 constant quality needs -b:v 0: %v", got)
	}
	if got := qualityArgs("h264_videotoolbox", s); !slices.Equal(got, []string{"-b:v", "7000k"}) {
		t.Errorf("videotoolbox: %v", got)
	}

	s.Bitrate = "8M"
	if got := qualityArgs("h264_nvenc", s); !slices.Equal(got, []string{"-cq", "23", "-b:v", "8M"}) {
		t.Errorf("nvenc with bitrate: %v", got)
	}
}

func TestStreamArgs(t *testing.T) {
	e := &FrameEncoder{}
	args := e.buildArgs(settings(), "out.mp4")
	joined := strings.Join(args, " ")

	for _, part := range []string{"-f rawvideo", "-pixel_format rgba", "-video_size 64x36", "-framerate 30", "-i -", "-movflags +faststart"} {
		if !strings.Contains(joined, part) {
			t.Errorf("args should contain %q: %s", part, joined)
		}
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output should be last, got %s", args[len(args)-1])
	}
}

func TestTrimArgs(t *testing.T) {
	seg := export.Segment{ClipID: "a", Source: "in.webm", Start: 1500, Duration: 2000, Volume: 1}
	args := trimArgs(seg, settings(), effects.DefaultEffect{}, "seg.mp4")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-ss 1.500 -t 2.000 -i in.webm") {
		t.Errorf("unexpected trim range: %s", joined)
	}
	if !strings.Contains(joined, "pad=64:36") || strings.Contains(joined, "zoompan") {
		t.Errorf("unzoomed segment should be scaled and padded: %s", joined)
	}
	if strings.Contains(joined, "-af") {
		t.Errorf("unity gain needs no audio filter: %s", joined)
	}

	seg.Zoom = []keyframe.Zoom{
		{Time: 0, Scale: 1, CenterX: 0.5, CenterY: 0.5, Easing: interp.Linear},
		{Time: 2000, Scale: 2, CenterX: 0.5, CenterY: 0.5, Easing: interp.Linear},
	}
	seg.Volume = 0
	joined = strings.Join(trimArgs(seg, settings(), effects.DefaultEffect{}, "seg.mp4"), " ")
	if !strings.Contains(joined, "zoompan=") {
		t.Errorf("zoomed segment should use zoompan: %s", joined)
	}
	if !strings.Contains(joined, "-af volume=0.000") {
		t.Errorf("muted segment should zero its gain: %s", joined)
	}
}

func TestReadProgress(t *testing.T) {
	input := strings.Join([]string{
		"frame=10",
		"out_time_us=500000",
		"out_time_ms=1000000",
		"bogus",
		"out_time_us=N/A",
		"out_time_us=9000000",
		"progress=end",
	}, "\n")

	var got []float64
	readProgress(strings.NewReader(input), 2000, func(p float64) { got = append(got, p) })

	want := []float64{25, 50, 100, 100}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestWriteRawRGBARepacksSubImages(t *testing.T) {
	parent := image.NewRGBA(image.Rect(0, 0, 4, 4))
	parent.SetRGBA(1, 1, color.RGBA{1, 2, 3, 4})
	sub := parent.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, sub); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2*2*4 {
		t.Fatalf("expected 16 packed bytes, got %d", buf.Len())
	}
	if !bytes.Equal(buf.Bytes()[:4], []byte{1, 2, 3, 4}) {
		t.Errorf("first pixel should be the sub image origin, got %v", buf.Bytes()[:4])
	}
}

func TestFrameEncoderWithFFmpeg(t *testing.T) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not found")
	}

	out := filepath.Join(t.TempDir(), "out.mp4")
	e := &FrameEncoder{FFmpeg: ffmpeg, Log: zerolog.Nop()}
	sink, err := e.OpenStream(context.Background(), settings(), out)
	if err != nil {
		t.Fatal(err)
	}

	frame := image.NewRGBA(image.Rect(0, 0, 64, 36))
	for i := 0; i < 10; i++ {
		if err := sink.WriteFrame(frame); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Errorf("expected a non-empty output, err=%v", err)
	}
}

func TestFrameSinkRejectsWrongSize(t *testing.T) {
	s := &frameSink{bounds: image.Rect(0, 0, 8, 8)}
	if err := s.WriteFrame(image.NewRGBA(image.Rect(0, 0, 4, 4))); err == nil {
		t.Error("expected size mismatch error")
	}
}
