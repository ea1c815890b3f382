package postfx

import "math"

// RGB is a linear-HDR color triple. Values are proportional to physical
// light intensity and may exceed 1.0; no gamma encoding is applied anywhere
// in this package.
type RGB struct {
	R, G, B float32
}

// Add returns the componentwise sum of c and o.
func (c RGB) Add(o RGB) RGB {
	return RGB{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns the componentwise product of c and o.
func (c RGB) Mul(o RGB) RGB {
	return RGB{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale returns c with every component multiplied by s.
func (c RGB) Scale(s float32) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Mix linearly interpolates from a to b by t, componentwise.
// t is used as given: values outside [0, 1] extrapolate. The chromatic
// aberration mask relies on this for weights above 1 near the corners.
func Mix(a, b RGB, t float32) RGB {
	return RGB{
		a.R + (b.R-a.R)*t,
		a.G + (b.G-a.G)*t,
		a.B + (b.B-a.B)*t,
	}
}

// Luminance returns the Rec.709 luminance of c.
func (c RGB) Luminance() float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// step returns 0 if x < edge, 1 otherwise (GLSL step).
func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// smoothstep performs smooth Hermite interpolation between 0 and 1 as x
// moves across [e0, e1] (GLSL smoothstep).
func smoothstep(e0, e1, x float32) float32 {
	t := clampf((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func powf(x, p float32) float32 {
	return float32(math.Pow(float64(x), float64(p)))
}
