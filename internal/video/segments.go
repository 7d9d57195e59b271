package video

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/camreel/internal/effects"
	"github.com/ivlev/camreel/internal/export"
)

// SegmentEncoder trims segments in parallel and joins them with the concat
// demuxer.
type SegmentEncoder struct {
	FFmpeg    string
	HWEncoder string
	// Workers bounds concurrent trims. Values below 1 mean one.
	Workers int
	// TempDir hosts intermediate files. Empty uses the system default.
	TempDir string
	// Effect builds per-segment filters. Nil uses effects.DefaultEffect.
	Effect effects.Effect
	Log    zerolog.Logger
}

var _ export.SegmentEncoder = (*SegmentEncoder)(nil)

// EncodeSegments reports the first half of progress while trimming and
// the second half while concatenating.
func (e *SegmentEncoder) EncodeSegments(ctx context.Context, segments []export.Segment, s export.Settings, out string, progress func(float64)) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to encode")
	}
	if progress == nil {
		progress = func(float64) {}
	}

	tmpDir, err := os.MkdirTemp(e.TempDir, "camreel-segments-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	parts := make([]string, len(segments))
	for i := range segments {
		parts[i] = filepath.Join(tmpDir, fmt.Sprintf("seg_%04d.mp4", i))
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seg := range segments {
		g.Go(func() error {
			if err := e.trim(gctx, seg, s, parts[i]); err != nil {
				return fmt.Errorf("segment %s: %w", seg.ClipID, err)
			}
			mu.Lock()
			done++
			progress(float64(done) / float64(len(segments)) * 50)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := 0.0
	for _, seg := range segments {
		total += seg.Duration
	}
	return e.concat(ctx, parts, tmpDir, s, out, total, func(p float64) {
		progress(50 + p/2)
	})
}

func (e *SegmentEncoder) binary() string {
	if e.FFmpeg == "" {
		return "ffmpeg"
	}
	return e.FFmpeg
}

// trim re-encodes one source range to a uniform intermediate so the
// concat demuxer can join the parts without timestamp drift.
func (e *SegmentEncoder) trim(ctx context.Context, seg export.Segment, s export.Settings, out string) error {
	eff := e.Effect
	if eff == nil {
		eff = effects.DefaultEffect{}
	}
	cmd := exec.CommandContext(ctx, e.binary(), trimArgs(seg, s, eff, out)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg trim error: %w, output: %s", err, lastLines(string(out)))
	}
	e.Log.Debug().Str("clip", seg.ClipID).Float64("start", seg.Start).Float64("duration", seg.Duration).Msg("segment trimmed")
	return nil
}

func trimArgs(seg export.Segment, s export.Settings, eff effects.Effect, out string) []string {
	args := []string{
		"-y",
		"-ss", seconds(seg.Start),
		"-t", seconds(seg.Duration),
		"-i", seg.Source,
		"-vf", eff.VideoFilter(seg, s),
	}
	if af := eff.AudioFilter(seg); af != "" {
		args = append(args, "-af", af)
	}
	return append(args,
		"-r", strconv.Itoa(s.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", "libx264", "-preset", "ultrafast", "-crf", "18",
		"-c:a", "aac", "-ar", "48000", "-ac", "2",
		out,
	)
}

func (e *SegmentEncoder) concat(ctx context.Context, parts []string, tmpDir string, s export.Settings, out string, totalMs float64, progress func(float64)) error {
	listPath := filepath.Join(tmpDir, "inputs.txt")
	f, err := os.Create(listPath)
	if err != nil {
		return err
	}
	for _, p := range parts {
		absPath, _ := filepath.Abs(p)
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	if err := f.Close(); err != nil {
		return err
	}

	encoder := Encoder(s, e.HWEncoder)
	args := []string{"-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-progress", "pipe:1", "-nostats",
		"-c:v", encoder, "-pix_fmt", "yuv420p",
	}
	args = append(args, qualityArgs(encoder, s)...)
	args = append(args, "-c:a", audioCodec(s))
	args = append(args, containerArgs(s)...)
	args = append(args, out)

	cmd := exec.CommandContext(ctx, e.binary(), args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	readProgress(stdout, totalMs, progress)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, lastLines(stderr.String()))
	}
	return nil
}

// readProgress parses ffmpeg "-progress" key=value output and reports the
// percentage of totalMs encoded so far.
func readProgress(r io.Reader, totalMs float64, progress func(float64)) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			// Both keys carry microseconds.
			us, err := strconv.ParseFloat(value, 64)
			if err != nil || totalMs <= 0 {
				continue
			}
			pct := us / 1000 / totalMs * 100
			if pct > 100 {
				pct = 100
			}
			progress(pct)
		case "progress":
			if value == "end" {
				progress(100)
			}
		}
	}
}

func seconds(ms float64) string {
	return strconv.FormatFloat(ms/1000, 'f', 3, 64)
}

func lastLines(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	return strings.Join(lines, "\n")
}
