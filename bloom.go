package postfx

import (
	"context"

	"github.com/gogpu/postfx/internal/kernel"
	"github.com/gogpu/postfx/internal/parallel"
)

// bloomPass extracts HDR-bright regions above a luminance threshold and
// spreads them with a separable gaussian blur. Threshold, strength and
// radius are cold: they are captured at construction and never re-read
// from the config.
type bloomPass struct {
	threshold float32
	strength  float32
	radius    float32

	bright *FrameBuffer // bright-pass intermediate
	tmp    *FrameBuffer
	out    *FrameBuffer

	workers int
}

func newBloomPass(width, height int, cfg BloomConfig, workers int) *bloomPass {
	return &bloomPass{
		threshold: cfg.Threshold,
		strength:  cfg.Strength,
		radius:    cfg.Radius,
		bright:    NewFrameBuffer(width, height),
		tmp:       NewFrameBuffer(width, height),
		out:       NewFrameBuffer(width, height),
		workers:   workers,
	}
}

func (p *bloomPass) Process(ctx context.Context, scene *FrameBuffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Bright pass: keep pixels whose luminance exceeds the threshold,
	// zero the rest. Branchless so the GPU rendition matches bit-for-bit.
	w := scene.width
	parallel.For(scene.height, p.workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				c := scene.pix[row+x]
				p.bright.pix[row+x] = c.Scale(step(p.threshold, c.Luminance()))
			}
		}
	})

	k := kernel.CachedGaussian(float64(p.radius))
	blurSeparable(p.out, p.tmp, p.bright, k, p.workers)

	// Accumulated glow is scaled by the cold strength.
	for i := range p.out.pix {
		p.out.pix[i] = p.out.pix[i].Scale(p.strength)
	}
	return nil
}

func (p *bloomPass) Output() *FrameBuffer { return p.out }

// BrightPass returns the thresholded intermediate. Exposed for inspection
// by the composite tests and debug dumps.
func (p *bloomPass) BrightPass() *FrameBuffer { return p.bright }

func (p *bloomPass) Resize(width, height int) {
	p.bright = NewFrameBuffer(width, height)
	p.tmp = NewFrameBuffer(width, height)
	p.out = NewFrameBuffer(width, height)
}

func (p *bloomPass) Destroy() {
	p.bright = nil
	p.tmp = nil
	p.out = nil
}
