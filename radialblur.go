package postfx

import (
	"context"

	"github.com/gogpu/postfx/internal/kernel"
)

// radialBlurPass produces a uniformly blurred copy of the scene at a fixed,
// cold strength. The radial shape of the effect is not a property of this
// pass: the composite stage applies a per-pixel distance mask when mixing
// the blurred image in, so the blur itself stays spatially uniform.
type radialBlurPass struct {
	strength float32

	tmp *FrameBuffer
	out *FrameBuffer

	workers int
}

func newRadialBlurPass(width, height int, cfg RadialFocusConfig, workers int) *radialBlurPass {
	return &radialBlurPass{
		strength: cfg.BlurStrength,
		tmp:      NewFrameBuffer(width, height),
		out:      NewFrameBuffer(width, height),
		workers:  workers,
	}
}

func (p *radialBlurPass) Process(ctx context.Context, scene *FrameBuffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := kernel.CachedGaussian(float64(p.strength))
	blurSeparable(p.out, p.tmp, scene, k, p.workers)
	return nil
}

func (p *radialBlurPass) Output() *FrameBuffer { return p.out }

func (p *radialBlurPass) Resize(width, height int) {
	p.tmp = NewFrameBuffer(width, height)
	p.out = NewFrameBuffer(width, height)
}

func (p *radialBlurPass) Destroy() {
	p.tmp = nil
	p.out = nil
}
