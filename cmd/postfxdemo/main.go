// Command postfxdemo renders a procedural particle field through the
// postfx compositor and presents the tone-mapped result in a window.
//
// Controls:
//
//	1 / 2 / 3  toggle bloom / radial focus / chromatic aberration
//	B          cycle the bloom blend mode (add, screen, soft-light)
//	R          rebuild the pipeline (applies cold parameter edits)
package main

import (
	"context"
	"log"
	"log/slog"
	"math"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/postfx"
)

const (
	width  = 640
	height = 360

	particleCount = 180
	invGamma      = 1.0 / 2.2
)

// particle is one orbiting HDR splat.
type particle struct {
	angle  float64
	dist   float64
	speed  float64
	size   float64
	bright float32
	color  postfx.RGB
}

// particleSource is a self-contained FrameSource standing in for an
// external simulator. It draws additive gaussian splats in linear HDR;
// no tone mapping, no gamma, per the compositor's input contract.
type particleSource struct {
	particles []particle
	t         float64
}

func newParticleSource() *particleSource {
	s := &particleSource{particles: make([]particle, particleCount)}
	for i := range s.particles {
		hue := rand.Float64()
		bright := float32(0.3 + rand.Float64()*rand.Float64()*4) // a few HDR-hot ones
		s.particles[i] = particle{
			angle:  rand.Float64() * 2 * math.Pi,
			dist:   0.05 + 0.45*math.Sqrt(rand.Float64()),
			speed:  0.1 + rand.Float64()*0.5,
			size:   2 + rand.Float64()*5,
			bright: bright,
			color: postfx.RGB{
				R: float32(0.4 + 0.6*hue),
				G: float32(0.3 + 0.4*math.Abs(hue-0.5)),
				B: float32(1.0 - 0.6*hue),
			},
		}
	}
	return s
}

func (s *particleSource) advance(dt float64) {
	s.t += dt
	for i := range s.particles {
		s.particles[i].angle += s.particles[i].speed * dt
	}
}

func (s *particleSource) RenderScene(_ context.Context, dst *postfx.FrameBuffer) error {
	dst.Clear(postfx.RGB{R: 0.01, G: 0.012, B: 0.02})

	w, h := dst.Width(), dst.Height()
	aspect := float64(w) / float64(h)
	for _, p := range s.particles {
		cx := (0.5 + p.dist*math.Cos(p.angle)/aspect) * float64(w)
		cy := (0.5 + p.dist*math.Sin(p.angle)) * float64(h)

		r := int(math.Ceil(p.size * 3))
		x0, x1 := int(cx)-r, int(cx)+r
		y0, y1 := int(cy)-r, int(cy)+r
		twoSigmaSq := 2 * p.size * p.size
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				dx := float64(x) + 0.5 - cx
				dy := float64(y) + 0.5 - cy
				g := float32(math.Exp(-(dx*dx + dy*dy) / twoSigmaSq))
				c := dst.At(x, y)
				dst.Set(x, y, c.Add(p.color.Scale(g*p.bright)))
			}
		}
	}
	return nil
}

type game struct {
	src      *particleSource
	pipeline *postfx.Pipeline
	pixels   []byte
	mode     postfx.BloomBlendMode
}

func (g *game) Update() error {
	g.src.advance(1.0 / float64(ebiten.TPS()))

	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		en := !g.pipeline.Config().Bloom.Enabled
		return g.pipeline.UpdateBloom(postfx.BloomUpdate{Enabled: postfx.Bool(en)})
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		en := !g.pipeline.Config().Focus.Enabled
		return g.pipeline.UpdateRadialFocus(postfx.RadialFocusUpdate{Enabled: postfx.Bool(en)})
	}
	if inpututil.IsKeyJustPressed(ebiten.Key3) {
		en := !g.pipeline.Config().Aberration.Enabled
		return g.pipeline.UpdateRadialAberration(postfx.ChromaticAberrationUpdate{Enabled: postfx.Bool(en)})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.mode = (g.mode + 1) % 3
		return g.pipeline.UpdateBloom(postfx.BloomUpdate{BlendMode: postfx.Blend(g.mode)})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return g.pipeline.Rebuild()
	}

	// Drift the focus center slowly around the middle; it is hot, so this
	// costs nothing per frame.
	cx := float32(0.5 + 0.1*math.Cos(g.src.t*0.3))
	cy := float32(0.5 + 0.1*math.Sin(g.src.t*0.2))
	return g.pipeline.UpdateRadialFocus(postfx.RadialFocusUpdate{
		CenterX: postfx.Float(cx),
		CenterY: postfx.Float(cy),
	})
}

func (g *game) Draw(screen *ebiten.Image) {
	if err := g.pipeline.Render(context.Background()); err != nil {
		log.Printf("render failed: %v", err)
		return
	}

	// The compositor output is linear HDR; encode for display here:
	// Reinhard tone map then gamma.
	out := g.pipeline.Output()
	pix := out.Pix()
	for i, c := range pix {
		g.pixels[i*4+0] = encode(c.R)
		g.pixels[i*4+1] = encode(c.G)
		g.pixels[i*4+2] = encode(c.B)
		g.pixels[i*4+3] = 0xff
	}
	screen.WritePixels(g.pixels)
}

func encode(v float32) byte {
	if v < 0 {
		v = 0
	}
	v = v / (1 + v)
	return byte(math.Pow(float64(v), invGamma)*255 + 0.5)
}

func (g *game) Layout(_, _ int) (int, int) { return width, height }

func main() {
	postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	src := newParticleSource()
	pipeline := postfx.NewPipeline(src)
	if err := pipeline.Build(width, height, postfx.DefaultConfig()); err != nil {
		log.Fatalf("build pipeline: %v", err)
	}
	defer pipeline.Dispose()

	g := &game{
		src:      src,
		pipeline: pipeline,
		pixels:   make([]byte, width*height*4),
	}

	ebiten.SetWindowSize(width*2, height*2)
	ebiten.SetWindowTitle("postfx demo")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
