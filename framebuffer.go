package postfx

import "fmt"

// FrameBuffer represents a rectangular buffer of linear-HDR pixels.
type FrameBuffer struct {
	width  int
	height int
	pix    []RGB
}

// NewFrameBuffer creates a new frame buffer with the given dimensions.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		pix:    make([]RGB, width*height),
	}
}

// Width returns the width of the buffer in pixels.
func (f *FrameBuffer) Width() int {
	return f.width
}

// Height returns the height of the buffer in pixels.
func (f *FrameBuffer) Height() int {
	return f.height
}

// Pix returns the raw pixel data in row-major order.
func (f *FrameBuffer) Pix() []RGB {
	return f.pix
}

// At returns the color of a single pixel.
// Out-of-bounds coordinates return black.
func (f *FrameBuffer) At(x, y int) RGB {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return RGB{}
	}
	return f.pix[y*f.width+x]
}

// Set sets the color of a single pixel. Out-of-bounds coordinates are ignored.
func (f *FrameBuffer) Set(x, y int, c RGB) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.pix[y*f.width+x] = c
}

// Clear fills the entire buffer with a color.
func (f *FrameBuffer) Clear(c RGB) {
	for i := range f.pix {
		f.pix[i] = c
	}
}

// CopyFrom copies src's pixels into f. The buffers must have identical
// dimensions.
func (f *FrameBuffer) CopyFrom(src *FrameBuffer) error {
	if src.width != f.width || src.height != f.height {
		return fmt.Errorf("postfx: size mismatch: %dx%d vs %dx%d",
			f.width, f.height, src.width, src.height)
	}
	copy(f.pix, src.pix)
	return nil
}

// UV returns the normalized coordinate of the pixel center at (x, y),
// with (0,0) at the top-left corner and (1,1) at the bottom-right.
func (f *FrameBuffer) UV(x, y int) (u, v float32) {
	return (float32(x) + 0.5) / float32(f.width),
		(float32(y) + 0.5) / float32(f.height)
}
