package renderer

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/camreel/internal/timeline"
)

const (
	textPadding = 4
	italicShear = 0.2
)

// drawText rasterizes a text layer with the built-in bitmap face and maps
// it onto dst with one affine transform covering size, slant and rotation.
// FontSize is in pixels at ReferenceWidth; FontFamily is not honoured.
func drawText(dst *image.RGBA, l timeline.TextLayer, opacity float64) {
	if strings.TrimSpace(l.Text) == "" || opacity <= 0 || l.FontSize <= 0 {
		return
	}

	glyphs, lineHeight := rasterizeText(l)
	scaleAlpha8(glyphs, opacity)

	k := l.FontSize / float64(lineHeight) * float64(dst.Bounds().Dx()) / ReferenceWidth
	shear := 0.0
	if l.Italic {
		shear = italicShear
	}

	gw, gh := float64(glyphs.Bounds().Dx()), float64(glyphs.Bounds().Dy())
	ox, oy := gw/2, gh/2
	switch l.Align {
	case timeline.AlignLeft:
		ox = 0
	case timeline.AlignRight:
		ox = gw
	}
	ax := float64(dst.Bounds().Min.X) + l.X*float64(dst.Bounds().Dx())
	ay := float64(dst.Bounds().Min.Y) + l.Y*float64(dst.Bounds().Dy())

	m := textTransform(k, shear, l.Rotation, ox, oy, ax, ay)
	draw.ApproxBiLinear.Transform(dst, m, glyphs, glyphs.Bounds(), draw.Over, nil)
}

// textTransform maps glyph space onto dst: the glyph origin (ox, oy) lands
// on (ax, ay) after scaling by k, shearing and rotating clockwise by deg.
func textTransform(k, shear, deg, ox, oy, ax, ay float64) f64.Aff3 {
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)

	m00 := c * k
	m01 := -c*shear*k - s*k
	m10 := s * k
	m11 := -s*shear*k + c*k

	return f64.Aff3{
		m00, m01, ax - m00*ox - m01*oy,
		m10, m11, ay - m10*ox - m11*oy,
	}
}

// rasterizeText draws every line of l at the face's native size and
// returns the image with the line height in pixels.
func rasterizeText(l timeline.TextLayer) (*image.RGBA, int) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	lines := strings.Split(l.Text, "\n")
	widths := make([]int, len(lines))
	maxWidth := 0
	for i, line := range lines {
		widths[i] = font.MeasureString(face, line).Ceil()
		if widths[i] > maxWidth {
			maxWidth = widths[i]
		}
	}

	// One extra column leaves room for the bold offset.
	img := image.NewRGBA(image.Rect(0, 0, maxWidth+2*textPadding+1, lineHeight*len(lines)+2*textPadding))
	if l.BackgroundColor != "" {
		bg := ParseColor(l.BackgroundColor, color.RGBA{})
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	fg := image.NewUniform(ParseColor(l.Color, color.RGBA{255, 255, 255, 255}))
	d := &font.Drawer{Dst: img, Src: fg, Face: face}
	for i, line := range lines {
		x := textPadding
		switch l.Align {
		case timeline.AlignRight:
			x += maxWidth - widths[i]
		case timeline.AlignLeft:
		default:
			x += (maxWidth - widths[i]) / 2
		}
		baseline := textPadding + i*lineHeight + ascent

		d.Dot = fixed.P(x, baseline)
		d.DrawString(line)
		if l.Bold {
			d.Dot = fixed.P(x+1, baseline)
			d.DrawString(line)
		}
		if l.Underline {
			draw.Draw(img, image.Rect(x, baseline+1, x+widths[i], baseline+2), fg, image.Point{}, draw.Over)
		}
	}
	return img, lineHeight
}

// scaleAlpha8 fades a premultiplied image.
func scaleAlpha8(img *image.RGBA, k float64) {
	if k >= 1 {
		return
	}
	k = clampf(k, 0, 1)
	for i, v := range img.Pix {
		img.Pix[i] = uint8(math.Round(float64(v) * k))
	}
}
