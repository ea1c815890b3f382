package postfx

import (
	"context"

	"github.com/gogpu/postfx/internal/kernel"
	"github.com/gogpu/postfx/internal/parallel"
)

// EffectPass is one derived-image stage of the pipeline. Each pass consumes
// the scene image and produces a same-size linear-HDR image, parameterized
// by its cold config at construction. Cold parameters are immutable for the
// pass's lifetime; changing them means discarding and recreating the pass.
//
// Passes are independent: none reads another pass's output, so the Pipeline
// may run them concurrently. Only the composite stage waits on all of them.
type EffectPass interface {
	// Process computes the pass's derived image from the scene image.
	Process(ctx context.Context, scene *FrameBuffer) error

	// Output returns the pass's derived image buffer. Valid until the
	// next Process, Resize or Destroy call.
	Output() *FrameBuffer

	// Resize reallocates viewport-sized buffers. Cold parameters are
	// preserved.
	Resize(width, height int)

	// Destroy releases the pass's buffers.
	Destroy()
}

// blurSeparable applies a two-pass separable convolution of src into dst
// using tmp as the intermediate, with edge-clamp addressing. All three
// buffers must share dimensions. Rows and columns are processed in parallel.
func blurSeparable(dst, tmp, src *FrameBuffer, k []float32, workers int) {
	w, h := src.width, src.height
	half := kernel.Center(len(k))

	// Horizontal: src -> tmp
	parallel.For(h, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				var acc RGB
				for i, kv := range k {
					sx := x + i - half
					if sx < 0 {
						sx = 0
					} else if sx >= w {
						sx = w - 1
					}
					c := src.pix[row+sx]
					acc.R += c.R * kv
					acc.G += c.G * kv
					acc.B += c.B * kv
				}
				tmp.pix[row+x] = acc
			}
		}
	})

	// Vertical: tmp -> dst
	parallel.For(h, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				var acc RGB
				for i, kv := range k {
					sy := y + i - half
					if sy < 0 {
						sy = 0
					} else if sy >= h {
						sy = h - 1
					}
					c := tmp.pix[sy*w+x]
					acc.R += c.R * kv
					acc.G += c.G * kv
					acc.B += c.B * kv
				}
				dst.pix[row+x] = acc
			}
		}
	})
}

// sampleClamp bilinearly samples f at the continuous pixel coordinate
// (x, y), clamping addresses to the buffer edge.
func sampleClamp(f *FrameBuffer, x, y float32) RGB {
	x -= 0.5
	y -= 0.5

	x0 := int(floorf(x))
	y0 := int(floorf(y))
	fx := x - float32(x0)
	fy := y - float32(y0)

	c00 := f.atClamp(x0, y0)
	c10 := f.atClamp(x0+1, y0)
	c01 := f.atClamp(x0, y0+1)
	c11 := f.atClamp(x0+1, y0+1)

	top := Mix(c00, c10, fx)
	bot := Mix(c01, c11, fx)
	return Mix(top, bot, fy)
}

func (f *FrameBuffer) atClamp(x, y int) RGB {
	if x < 0 {
		x = 0
	} else if x >= f.width {
		x = f.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.height {
		y = f.height - 1
	}
	return f.pix[y*f.width+x]
}

func floorf(x float32) float32 {
	i := float32(int(x))
	if x < i {
		return i - 1
	}
	return i
}
