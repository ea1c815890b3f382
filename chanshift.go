package postfx

import (
	"context"
	"math"

	"github.com/gogpu/postfx/internal/parallel"
)

// chanShiftPass produces a channel-offset ("fringed") copy of the scene:
// the red channel is sampled at +offset and the blue channel at -offset
// along the cold angle, with green left in place. Strength and angle are
// cold; how strongly the fringe shows at each pixel is decided by the
// composite stage's radial mask.
type chanShiftPass struct {
	offsetX float32 // in pixels
	offsetY float32

	out *FrameBuffer

	workers int
}

func newChanShiftPass(width, height int, cfg ChromaticAberrationConfig, workers int) *chanShiftPass {
	sin, cos := math.Sincos(float64(cfg.Angle))
	return &chanShiftPass{
		offsetX: cfg.Strength * float32(cos),
		offsetY: cfg.Strength * float32(sin),
		out:     NewFrameBuffer(width, height),
		workers: workers,
	}
}

func (p *chanShiftPass) Process(ctx context.Context, scene *FrameBuffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w := scene.width
	parallel.For(scene.height, p.workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			fy := float32(y) + 0.5
			for x := 0; x < w; x++ {
				fx := float32(x) + 0.5
				r := sampleClamp(scene, fx+p.offsetX, fy+p.offsetY)
				g := scene.pix[row+x]
				b := sampleClamp(scene, fx-p.offsetX, fy-p.offsetY)
				p.out.pix[row+x] = RGB{r.R, g.G, b.B}
			}
		}
	})
	return nil
}

func (p *chanShiftPass) Output() *FrameBuffer { return p.out }

func (p *chanShiftPass) Resize(width, height int) {
	p.out = NewFrameBuffer(width, height)
}

func (p *chanShiftPass) Destroy() {
	p.out = nil
}
