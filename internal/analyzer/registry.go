package analyzer

import (
	"fmt"
	"image"
)

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "contrast", "":
		return NewContrastDetector(), nil
	case "none":
		return noDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}

// noDetector never finds anything, leaving focus to the click position.
type noDetector struct{}

func (noDetector) Detect(image.Image) ([]Block, error) { return nil, nil }
