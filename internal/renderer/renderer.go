// Package renderer rasterizes evaluated frames into RGBA buffers and builds
// the ffmpeg filters used when compositing is left to ffmpeg.
package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/ivlev/camreel/internal/compositor"
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/source"
)

// ReferenceWidth is the output width webcam pixel sizes are expressed in.
const ReferenceWidth = 1920

// Renderer draws the screen recording, the webcam overlay and text layers.
// Either source may be nil, in which case that layer is skipped.
type Renderer struct {
	Screen     source.Source
	Cam        source.Source
	Background color.RGBA
	Log        zerolog.Logger
}

func New(screen, cam source.Source, log zerolog.Logger) *Renderer {
	return &Renderer{
		Screen:     screen,
		Cam:        cam,
		Background: color.RGBA{A: 255},
		Log:        log,
	}
}

// Capture implements the export capturer. It returns once every source the
// frame references has been decoded and drawn.
func (r *Renderer) Capture(ctx context.Context, f compositor.Frame, dst *image.RGBA) error {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.NewUniform(r.Background), image.Point{}, draw.Src)

	if f.Screen != nil && r.Screen != nil && f.Screen.Opacity > 0 {
		img, err := r.Screen.FrameAt(ctx, f.Screen.SourceTime)
		if err != nil {
			return fmt.Errorf("screen frame: %w", err)
		}
		crop := ZoomRect(img.Bounds(), f.Zoom)
		blend(dst, fit(bounds, crop.Dx(), crop.Dy()), img, crop, nil, f.Screen.Opacity)
	}

	if f.Cam != nil && r.Cam != nil && f.Webcam.Visible && f.Cam.Opacity > 0 {
		img, err := r.Cam.FrameAt(ctx, f.Cam.SourceTime)
		if err != nil {
			return fmt.Errorf("webcam frame: %w", err)
		}
		rect := WebcamRect(bounds, f.Webcam)
		if !rect.Empty() {
			drawWebcam(dst, rect, img, f.Webcam, f.Cam.Opacity)
		}
	}

	for _, t := range f.Text {
		drawText(dst, t.Layer, t.Opacity)
	}
	return nil
}

// ZoomRect is the region of src that is visible at zoom z. The region is
// centered on the zoom target and kept inside src.
func ZoomRect(src image.Rectangle, z keyframe.Zoom) image.Rectangle {
	scale := z.Scale
	if scale <= 1 {
		return src
	}
	w := float64(src.Dx()) / scale
	h := float64(src.Dy()) / scale
	x := clampf(z.CenterX*float64(src.Dx())-w/2, 0, float64(src.Dx())-w)
	y := clampf(z.CenterY*float64(src.Dy())-h/2, 0, float64(src.Dy())-h)

	origin := src.Min.Add(image.Pt(int(math.Round(x)), int(math.Round(y))))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(int(math.Round(w)), int(math.Round(h))))}.Intersect(src)
}

// WebcamRect places the overlay in dst. Width and height are pixels at
// ReferenceWidth and scale with the output.
func WebcamRect(dst image.Rectangle, w keyframe.Webcam) image.Rectangle {
	k := float64(dst.Dx()) / ReferenceWidth * w.Scale
	ow := int(math.Round(w.Width * k))
	oh := int(math.Round(w.Height * k))
	if ow <= 0 || oh <= 0 {
		return image.Rectangle{}
	}
	cx := dst.Min.X + int(math.Round(w.X*float64(dst.Dx())))
	cy := dst.Min.Y + int(math.Round(w.Y*float64(dst.Dy())))
	r := image.Rect(cx-ow/2, cy-oh/2, cx-ow/2+ow, cy-oh/2+oh)

	// Keep the overlay on screen.
	if r.Min.X < dst.Min.X {
		r = r.Add(image.Pt(dst.Min.X-r.Min.X, 0))
	}
	if r.Max.X > dst.Max.X {
		r = r.Sub(image.Pt(r.Max.X-dst.Max.X, 0))
	}
	if r.Min.Y < dst.Min.Y {
		r = r.Add(image.Pt(0, dst.Min.Y-r.Min.Y))
	}
	if r.Max.Y > dst.Max.Y {
		r = r.Sub(image.Pt(0, r.Max.Y-dst.Max.Y))
	}
	return r.Intersect(dst)
}

// fit letterboxes a w x h picture into dst.
func fit(dst image.Rectangle, w, h int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return dst
	}
	k := math.Min(float64(dst.Dx())/float64(w), float64(dst.Dy())/float64(h))
	fw := int(math.Round(float64(w) * k))
	fh := int(math.Round(float64(h) * k))
	origin := dst.Min.Add(image.Pt((dst.Dx()-fw)/2, (dst.Dy()-fh)/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(fw, fh))}
}

// blend scales sr of src into dr of dst and composites it over dst through
// mask (nil means opaque) and opacity.
func blend(dst *image.RGBA, dr image.Rectangle, src image.Image, sr image.Rectangle, mask *image.Alpha, opacity float64) {
	if dr.Empty() || sr.Empty() {
		return
	}
	if mask == nil && opacity >= 1 {
		draw.ApproxBiLinear.Scale(dst, dr, src, sr, draw.Src, nil)
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, sr, draw.Src, nil)

	if mask == nil {
		mask = image.NewAlpha(scaled.Bounds())
		draw.Draw(mask, mask.Bounds(), image.Opaque, image.Point{}, draw.Src)
	}
	if opacity < 1 {
		scaleAlpha(mask, opacity)
	}
	draw.DrawMask(dst, dr, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}

func scaleAlpha(m *image.Alpha, k float64) {
	k = clampf(k, 0, 1)
	for i, a := range m.Pix {
		m.Pix[i] = uint8(math.Round(float64(a) * k))
	}
}

func clampf(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
