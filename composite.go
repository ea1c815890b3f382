package postfx

import (
	"math"

	"github.com/gogpu/postfx/internal/parallel"
)

// AddBlend adds the glow color to the base color.
func AddBlend(base, glow RGB) RGB {
	return base.Add(glow)
}

// ScreenBlend applies componentwise screen blending:
// 1 - (1-base)*(1-glow).
func ScreenBlend(base, glow RGB) RGB {
	return RGB{
		1 - (1-base.R)*(1-glow.R),
		1 - (1-base.G)*(1-glow.G),
		1 - (1-base.B)*(1-glow.B),
	}
}

// SoftLightBlend applies componentwise soft-light blending:
// mix(base*(glow+0.5), screen(base, glow), step(0.5, glow)).
func SoftLightBlend(base, glow RGB) RGB {
	screen := ScreenBlend(base, glow)
	return RGB{
		softLightChan(base.R, glow.R, screen.R),
		softLightChan(base.G, glow.G, screen.G),
		softLightChan(base.B, glow.B, screen.B),
	}
}

func softLightChan(base, glow, screen float32) float32 {
	dark := base * (glow + 0.5)
	return dark + (screen-dark)*step(0.5, glow)
}

// SelectBloomBlend selects between the three bloom blend modes using the
// continuous mode scalar, without control-flow branching.
//
// The selection starts from additive blend, replaces it with screen when
// mode falls in the inclusive band [0.9, 1.1], then replaces that with
// soft-light when mode >= 1.9. The two replacements are sequential mix
// operations in exactly that order, so mode ~1 selects screen, mode ~2
// selects soft-light, and any other value yields additive blend. The
// thresholded-mix shape keeps the whole composite a single branchless
// expression suitable for per-pixel GPU evaluation.
func SelectBloomBlend(base, glow RGB, mode float32) RGB {
	out := AddBlend(base, glow)

	screenWeight := step(0.9, mode) * step(mode, 1.1)
	out = Mix(out, ScreenBlend(base, glow), screenWeight)

	out = Mix(out, SoftLightBlend(base, glow), step(1.9, mode))
	return out
}

// FocusMask returns the radial focus blur weight for a pixel at normalized
// distance normDist from the focus center: zero inside radius, rising to 1
// at normDist = 1, shaped by the falloff exponent.
func FocusMask(normDist, radius, falloff float32) float32 {
	return powf(smoothstep(radius, 1, normDist), falloff)
}

// AberrationMask returns the chromatic aberration weight at normDist.
// The mask has no upper clamp: beyond the unit distance (viewport corners)
// it exceeds 1 and extrapolates the mix, intensifying the fringe. That is
// the intended edge behavior, not an overflow.
func AberrationMask(normDist, falloff, intensity float32) float32 {
	return powf(normDist, falloff) * intensity
}

// NormDist returns the pipeline's normalized distance of a UV point from a
// center point. The raw UV distance is doubled, rescaling it into the
// 0..~1.4 range the mask constants are tuned against; treat the factor as
// part of the contract.
func NormDist(u, v, cx, cy float32) float32 {
	dx := float64(u - cx)
	dy := float64(v - cy)
	return 2 * float32(math.Sqrt(dx*dx+dy*dy))
}

// CompositeColor evaluates the full composite for one pixel.
//
// scene, bloom, blurred and shifted are the pixel's colors in the scene
// image and the three effect-pass images; (u, v) is the pixel's normalized
// coordinate. All inputs and the result are linear HDR.
//
// The composite is an ordered reduction over an accumulator seeded with the
// scene color: bloom first, then radial focus, then chromatic aberration.
// The order matters: the focus mask blurs bloomed output, and the
// aberration fringe applies over both.
func CompositeColor(scene, bloom, blurred, shifted RGB, u, v float32, p *ParameterSet) RGB {
	normDist := NormDist(u, v, p.FocusCenterX, p.FocusCenterY)

	steps := [...]struct {
		src    RGB
		weight float32
	}{
		{SelectBloomBlend(scene, bloom, p.BloomMode), p.BloomEnabled},
		{blurred, FocusMask(normDist, p.FocusRadius, p.FocusFalloff) * p.FocusEnabled},
		{shifted, AberrationMask(normDist, p.CAFalloff, p.CAEdgeIntensity) * p.CAEnabled},
	}

	out := scene
	for _, s := range steps {
		out = Mix(out, s.src, s.weight)
	}
	return out
}

// Composite evaluates CompositeColor for every pixel, reading the four
// input buffers and the parameter set and writing the result to dst. All
// buffers must share dst's dimensions.
//
// Rows are processed in parallel across the given number of workers
// (0 means GOMAXPROCS).
func Composite(dst, scene, bloom, blurred, shifted *FrameBuffer, p *ParameterSet, workers int) {
	w, h := dst.width, dst.height
	parallel.For(h, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) / float32(w)
				dst.pix[row+x] = CompositeColor(
					scene.pix[row+x],
					bloom.pix[row+x],
					blurred.pix[row+x],
					shifted.pix[row+x],
					u, v, p,
				)
			}
		}
	})
}
