package analyzer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ContrastDetector finds regions bounded by strong edges: Sobel gradient,
// dilation to merge nearby edges, then connected components.
type ContrastDetector struct {
	MinBlockArea  int     // in source pixels²
	EdgeThreshold float64 // gradient magnitude
	// MaxWidth bounds the working resolution. Larger frames are
	// downscaled before analysis.
	MaxWidth int
	// Dilation is the merge radius in working pixels.
	Dilation int
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,
		EdgeThreshold: 30.0,
		MaxWidth:      480,
		Dilation:      4,
	}
}

func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	src := img.Bounds()
	if src.Empty() {
		return nil, nil
	}

	gray, scale := d.workingImage(img)
	edges := sobel(gray, d.EdgeThreshold)
	edges = dilate(edges, gray.Bounds().Dx(), gray.Bounds().Dy(), d.Dilation)
	rects := components(edges, gray.Bounds().Dx(), gray.Bounds().Dy())

	var blocks []Block
	for _, r := range rects {
		// Map back to source coordinates.
		mapped := image.Rect(
			src.Min.X+int(math.Floor(float64(r.Min.X)*scale)),
			src.Min.Y+int(math.Floor(float64(r.Min.Y)*scale)),
			src.Min.X+int(math.Ceil(float64(r.Max.X)*scale)),
			src.Min.Y+int(math.Ceil(float64(r.Max.Y)*scale)),
		).Intersect(src)
		if area(mapped) < d.MinBlockArea || mapped.Eq(src) {
			continue
		}
		blocks = append(blocks, Block{Rect: mapped, Confidence: 0.7})
	}
	return blocks, nil
}

// workingImage converts img to grayscale at most MaxWidth wide and returns
// the factor from working to source pixels.
func (d *ContrastDetector) workingImage(img image.Image) (*image.Gray, float64) {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	scale := 1.0
	if d.MaxWidth > 0 && w > d.MaxWidth {
		scale = float64(w) / float64(d.MaxWidth)
		w = d.MaxWidth
		h = int(math.Max(1, math.Round(float64(h)/scale)))
	}

	gray := image.NewGray(image.Rect(0, 0, w, h))
	if scale == 1 {
		draw.Draw(gray, gray.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, src, draw.Src, nil)
	}
	return gray, scale
}

// sobel returns a w*h edge mask for the gradient magnitude above threshold.
func sobel(g *image.Gray, threshold float64) []bool {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	edges := make([]bool, w*h)
	px := func(x, y int) float64 { return float64(g.Pix[y*g.Stride+x]) }

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -px(x-1, y-1) + px(x+1, y-1) +
				-2*px(x-1, y) + 2*px(x+1, y) +
				-px(x-1, y+1) + px(x+1, y+1)
			gy := -px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1) +
				px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)
			edges[y*w+x] = math.Hypot(gx, gy) > threshold
		}
	}
	return edges
}

// dilate grows the mask by r in both axes with two separable passes.
func dilate(mask []bool, w, h, r int) []bool {
	if r <= 0 {
		return mask
	}
	tmp := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y*w+x] {
				continue
			}
			for k := max(0, x-r); k <= min(w-1, x+r); k++ {
				tmp[y*w+k] = true
			}
		}
	}
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !tmp[y*w+x] {
				continue
			}
			for k := max(0, y-r); k <= min(h-1, y+r); k++ {
				out[k*w+x] = true
			}
		}
	}
	return out
}

// components returns the bounding box of every 4-connected set region.
func components(mask []bool, w, h int) []image.Rectangle {
	visited := make([]bool, len(mask))
	var rects []image.Rectangle
	var stack []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		minX, minY := start%w, start/w
		maxX, maxY := minX, minY

		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				if n < 0 || n >= len(mask) || visited[n] || !mask[n] {
					continue
				}
				// Horizontal neighbours must stay on the same row.
				if (n == i-1 || n == i+1) && n/w != y {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
		rects = append(rects, image.Rect(minX, minY, maxX+1, maxY+1))
	}
	return rects
}
