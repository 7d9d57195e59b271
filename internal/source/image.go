package source

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// ImageSource shows one still image at every position. It stands in for a
// recording when only a poster frame is available.
type ImageSource struct {
	img image.Image
}

func NewImageSource(path string) (*ImageSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return &ImageSource{img: img}, nil
}

// FromImage wraps an in-memory image.
func FromImage(img image.Image) *ImageSource {
	return &ImageSource{img: img}
}

func (s *ImageSource) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSource) FrameAt(ctx context.Context, ms float64) (image.Image, error) {
	return s.img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
