// Package analyzer finds regions of interest in screen frames, such as
// the window or panel around a click.
package analyzer

import "image"

// Block is a detected region of interest.
type Block struct {
	Rect       image.Rectangle
	Confidence float64 // 0.0-1.0
}

// Detector is the interface for image analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// FocusAt returns the smallest block containing pt.
func FocusAt(blocks []Block, pt image.Point) (Block, bool) {
	var best Block
	found := false
	for _, b := range blocks {
		if !pt.In(b.Rect) {
			continue
		}
		if !found || area(b.Rect) < area(best.Rect) {
			best, found = b, true
		}
	}
	return best, found
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
