package system

import (
	"image"
	"sync"
)

// ImagePool recycles frame buffers. Buffers are pooled per bounds, so an
// export at one output size keeps reusing the same few allocations.
type ImagePool struct {
	pools sync.Map // image.Rectangle -> *sync.Pool
}

var frames ImagePool

// GetImage returns a frame buffer from the shared pool. Its contents are
// undefined.
func GetImage(rect image.Rectangle) *image.RGBA {
	return frames.Get(rect)
}

// PutImage hands a buffer back to the shared pool.
func PutImage(img *image.RGBA) {
	frames.Put(img)
}

func (p *ImagePool) pool(rect image.Rectangle) *sync.Pool {
	if v, ok := p.pools.Load(rect); ok {
		return v.(*sync.Pool)
	}
	v, _ := p.pools.LoadOrStore(rect, &sync.Pool{
		New: func() any { return image.NewRGBA(rect) },
	})
	return v.(*sync.Pool)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	return p.pool(rect).Get().(*image.RGBA)
}

// Put ignores nil and sub-images, whose pixel slices are shared.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil || img.Stride != img.Rect.Dx()*4 || len(img.Pix) != img.Stride*img.Rect.Dy() {
		return
	}
	p.pool(img.Rect).Put(img)
}
