package postfx

import (
	"fmt"
	"image"

	"github.com/mrjoshuak/go-openexr/exr"
)

// WriteEXR writes the buffer to an OpenEXR file at path.
//
// OpenEXR stores linear light, which matches the buffer's contents exactly;
// no encoding is applied. Channels are written as half floats, so values
// survive a round trip only within half precision.
func (f *FrameBuffer) WriteEXR(path string) error {
	img := exr.NewRGBAImage(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := f.pix[y*f.width+x]
			img.SetRGBA(x, y, c.R, c.G, c.B, 1)
		}
	}
	if err := exr.EncodeFile(path, img); err != nil {
		return fmt.Errorf("postfx: writing %s: %w", path, err)
	}
	return nil
}

// ReadEXR loads an OpenEXR file into a new frame buffer.
// The alpha channel, if present, is discarded.
func ReadEXR(path string) (*FrameBuffer, error) {
	img, err := exr.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("postfx: reading %s: %w", path, err)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	f := NewFrameBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.RGBA(x+img.Rect.Min.X, y+img.Rect.Min.Y)
			f.pix[y*w+x] = RGB{r, g, b}
		}
	}
	return f, nil
}
