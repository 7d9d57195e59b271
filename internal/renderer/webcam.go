package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/camreel/internal/keyframe"
)

const (
	shadowOffset = 4
	shadowAlpha  = 0.35
)

// drawWebcam composites the camera picture into rect with its shape mask,
// drop shadow and border.
func drawWebcam(dst *image.RGBA, rect image.Rectangle, img image.Image, w keyframe.Webcam, opacity float64) {
	k := float64(dst.Bounds().Dx()) / ReferenceWidth
	border := int(math.Round(w.BorderWidth * k))
	if w.BorderWidth > 0 && border < 1 {
		border = 1
	}

	if w.Shadow {
		sr := rect.Add(image.Pt(shadowOffset, shadowOffset)).Intersect(dst.Bounds())
		mask := ShapeMask(rect.Dx(), rect.Dy(), w.Shape)
		scaleAlpha(mask, shadowAlpha*opacity)
		draw.DrawMask(dst, sr, image.NewUniform(color.Black), image.Point{}, mask, image.Point{}, draw.Over)
	}

	inner := rect
	if border > 0 && rect.Dx() > 2*border && rect.Dy() > 2*border {
		mask := ShapeMask(rect.Dx(), rect.Dy(), w.Shape)
		scaleAlpha(mask, opacity)
		draw.DrawMask(dst, rect, image.NewUniform(ParseColor(w.BorderColor, color.RGBA{255, 255, 255, 255})), image.Point{}, mask, image.Point{}, draw.Over)
		inner = rect.Inset(border)
	}

	// Fill the shape, cropping the camera to its aspect ratio.
	sr := cover(img.Bounds(), inner.Dx(), inner.Dy())
	blend(dst, inner, img, sr, ShapeMask(inner.Dx(), inner.Dy(), w.Shape), opacity)
}

// cover returns the centered region of src with the aspect ratio w:h.
func cover(src image.Rectangle, w, h int) image.Rectangle {
	if w <= 0 || h <= 0 || src.Empty() {
		return src
	}
	target := float64(w) / float64(h)
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw/sh > target {
		cw := int(math.Round(sh * target))
		x := src.Min.X + (src.Dx()-cw)/2
		return image.Rect(x, src.Min.Y, x+cw, src.Max.Y)
	}
	ch := int(math.Round(sw / target))
	y := src.Min.Y + (src.Dy()-ch)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+ch)
}

// ShapeMask returns an anti-aliased w x h coverage mask for shape.
func ShapeMask(w, h int, shape keyframe.Shape) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	hw, hh := float64(w)/2, float64(h)/2

	var radius float64
	switch shape {
	case keyframe.ShapeRounded:
		radius = math.Min(hw, hh) * 0.25
	case keyframe.ShapeCircle:
	default:
		draw.Draw(m, m.Bounds(), image.Opaque, image.Point{}, draw.Src)
		return m
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := float64(x) + 0.5 - hw
			py := float64(y) + 0.5 - hh

			var d float64
			if shape == keyframe.ShapeCircle {
				d = (math.Hypot(px/hw, py/hh) - 1) * math.Min(hw, hh)
			} else {
				d = roundedRectDistance(px, py, hw, hh, radius)
			}
			m.Pix[y*m.Stride+x] = uint8(math.Round(clampf(0.5-d, 0, 1) * 255))
		}
	}
	return m
}

// roundedRectDistance is the signed distance from (px, py) to a rounded
// rectangle centered at the origin. Negative values are inside.
func roundedRectDistance(px, py, hw, hh, r float64) float64 {
	qx := math.Abs(px) - (hw - r)
	qy := math.Abs(py) - (hh - r)
	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)
	return outside + inside - r
}
