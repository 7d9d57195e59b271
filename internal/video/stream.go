package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivlev/camreel/internal/export"
)

// FrameEncoder feeds raw RGBA frames to ffmpeg over stdin.
type FrameEncoder struct {
	FFmpeg string
	// HWEncoder is the preferred H.264 encoder, see system.BestH264Encoder.
	HWEncoder string
	Log       zerolog.Logger
}

var _ export.FrameEncoder = (*FrameEncoder)(nil)

// OpenStream starts ffmpeg writing to out.
func (e *FrameEncoder) OpenStream(ctx context.Context, s export.Settings, out string) (export.FrameSink, error) {
	args := e.buildArgs(s, out)
	cmd := exec.CommandContext(ctx, e.binary(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	e.Log.Debug().Str("cmd", e.binary()+" "+strings.Join(args, " ")).Msg("ffmpeg started")
	return &frameSink{
		cmd:    cmd,
		stdin:  stdin,
		stderr: &stderr,
		out:    out,
		bounds: image.Rect(0, 0, s.Width, s.Height),
	}, nil
}

func (e *FrameEncoder) binary() string {
	if e.FFmpeg == "" {
		return "ffmpeg"
	}
	return e.FFmpeg
}

func (e *FrameEncoder) buildArgs(s export.Settings, out string) []string {
	encoder := Encoder(s, e.HWEncoder)
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", s.Width, s.Height),
		"-framerate", fmt.Sprintf("%d", s.FPS),
		"-i", "-",
		"-an",
		"-pix_fmt", "yuv420p",
		"-c:v", encoder,
	}
	args = append(args, qualityArgs(encoder, s)...)
	args = append(args, containerArgs(s)...)
	return append(args, out)
}

type frameSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	out    string
	bounds image.Rectangle
	done   bool
}

func (s *frameSink) WriteFrame(img *image.RGBA) error {
	if s.done {
		return fmt.Errorf("write after close")
	}
	if img.Bounds().Size() != s.bounds.Size() {
		return fmt.Errorf("frame size %v does not match stream size %v", img.Bounds().Size(), s.bounds.Size())
	}
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	return nil
}

func (s *frameSink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w: %s", err, tail(s.stderr))
	}
	return nil
}

func (s *frameSink) Abort() {
	if s.done {
		return
	}
	s.done = true
	s.stdin.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	os.Remove(s.out)
}

// writeRawRGBA writes tightly packed pixels, repacking when the image has
// padding or a non-zero origin.
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
		img = packed
	}
	_, err := w.Write(img.Pix)
	return err
}

// tail returns the last lines of ffmpeg's stderr for error messages.
func tail(buf *bytes.Buffer) string {
	const max = 1024
	s := strings.TrimSpace(buf.String())
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}
