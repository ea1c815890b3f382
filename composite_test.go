package postfx

import (
	"math"
	"testing"
)

const eps = 1e-5

func nearf(a, b float32) bool {
	return math.Abs(float64(a-b)) <= eps
}

func nearRGB(a, b RGB) bool {
	return nearf(a.R, b.R) && nearf(a.G, b.G) && nearf(a.B, b.B)
}

func TestSelectBloomBlend(t *testing.T) {
	base := RGB{0.4, 0.5, 0.6}
	glow := RGB{0.3, 0.2, 0.7}

	tests := []struct {
		name string
		mode float32
		want RGB
	}{
		{"mode 0 selects add", 0, AddBlend(base, glow)},
		{"mode 1 selects screen", 1, ScreenBlend(base, glow)},
		{"mode 2 selects soft-light", 2, SoftLightBlend(base, glow)},
		{"mode 0.95 inside screen band", 0.95, ScreenBlend(base, glow)},
		{"mode 1.05 inside screen band", 1.05, ScreenBlend(base, glow)},
		{"band edges are inclusive (0.9)", 0.9, ScreenBlend(base, glow)},
		{"band edges are inclusive (1.1)", 1.1, ScreenBlend(base, glow)},
		{"mode 1.5 falls back to add", 1.5, AddBlend(base, glow)},
		{"mode 1.9 selects soft-light", 1.9, SoftLightBlend(base, glow)},
		{"mode 3 stays soft-light", 3, SoftLightBlend(base, glow)},
		{"negative mode selects add", -1, AddBlend(base, glow)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectBloomBlend(base, glow, tt.mode)
			if !nearRGB(got, tt.want) {
				t.Errorf("SelectBloomBlend(mode=%g) = %+v, want %+v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestScreenBlend(t *testing.T) {
	got := ScreenBlend(RGB{0.5, 0.5, 0.5}, RGB{0.5, 0.5, 0.5})
	want := RGB{0.75, 0.75, 0.75}
	if !nearRGB(got, want) {
		t.Errorf("ScreenBlend = %+v, want %+v", got, want)
	}
}

func TestSoftLightBlend(t *testing.T) {
	base := RGB{0.4, 0.4, 0.4}

	// Below the 0.5 pivot the dark branch applies, at or above it the
	// screen branch does.
	dark := SoftLightBlend(base, RGB{0.2, 0.2, 0.2})
	wantDark := base.Scale(0.2 + 0.5)
	if !nearRGB(dark, wantDark) {
		t.Errorf("soft-light dark branch = %+v, want %+v", dark, wantDark)
	}

	bright := SoftLightBlend(base, RGB{0.8, 0.8, 0.8})
	wantBright := ScreenBlend(base, RGB{0.8, 0.8, 0.8})
	if !nearRGB(bright, wantBright) {
		t.Errorf("soft-light screen branch = %+v, want %+v", bright, wantBright)
	}
}

func TestCompositeColorIdentity(t *testing.T) {
	// With every effect weight at 0 the composite is the identity on the
	// scene color, regardless of what the pass images contain.
	p := &ParameterSet{
		FocusCenterX: 0.5, FocusCenterY: 0.5,
		FocusRadius: 0.3, FocusFalloff: 1.5,
		CAEdgeIntensity: 2, CAFalloff: 2,
	}

	scenes := []RGB{
		{0, 0, 0},
		{0.2, 0.4, 0.8},
		{3.5, 1.0, 0.1}, // HDR values pass through untouched
	}
	for _, scene := range scenes {
		got := CompositeColor(scene, RGB{9, 9, 9}, RGB{5, 5, 5}, RGB{7, 7, 7}, 0.9, 0.1, p)
		if !nearRGB(got, scene) {
			t.Errorf("identity violated: got %+v, want %+v", got, scene)
		}
	}
}

func TestCompositeColorBloomScenario(t *testing.T) {
	// scene 0.2, bloom 0.1, additive mode, bloom enabled: 0.3 before the
	// radial stages apply.
	p := &ParameterSet{
		BloomEnabled: 1,
		BloomMode:    0,
		FocusCenterX: 0.5, FocusCenterY: 0.5,
		FocusRadius: 0.3,
	}
	got := CompositeColor(
		RGB{0.2, 0.2, 0.2}, RGB{0.1, 0.1, 0.1}, RGB{}, RGB{},
		0.5, 0.5, p,
	)
	want := RGB{0.3, 0.3, 0.3}
	if !nearRGB(got, want) {
		t.Errorf("bloom scenario = %+v, want %+v", got, want)
	}
}

func TestFocusMask(t *testing.T) {
	// Boundary values from the mask contract.
	if m := FocusMask(0.3, 0.3, 1); m != 0 {
		t.Errorf("mask at radius = %g, want 0", m)
	}
	if m := FocusMask(0, 0.3, 1); m != 0 {
		t.Errorf("mask at center = %g, want 0", m)
	}
	if m := FocusMask(1.0, 0.3, 1); !nearf(m, 1) {
		t.Errorf("mask at unit distance = %g, want 1", m)
	}
	// Pre-power value of 1 stays 1 under any exponent.
	if m := FocusMask(1.0, 0.3, 4); !nearf(m, 1) {
		t.Errorf("mask at unit distance with falloff 4 = %g, want 1", m)
	}

	// Monotonic non-decrease in normDist for fixed radius and falloff.
	for _, k := range []float32{0.5, 1, 2, 4} {
		prev := float32(-1)
		for d := float32(0); d <= 1.4; d += 0.01 {
			m := FocusMask(d, 0.3, k)
			if m < prev {
				t.Fatalf("mask not monotonic at d=%g k=%g: %g < %g", d, k, m, prev)
			}
			prev = m
		}
	}
}

func TestAberrationMaskUnclamped(t *testing.T) {
	// Beyond the unit distance the mask exceeds 1 and must be used as-is.
	got := AberrationMask(1.5, 2, 2)
	if !nearf(got, 4.5) {
		t.Errorf("AberrationMask(1.5, 2, 2) = %g, want 4.5", got)
	}

	// And the composite really extrapolates with it.
	p := &ParameterSet{
		CAEnabled:       1,
		CAEdgeIntensity: 2,
		CAFalloff:       2,
		FocusCenterX:    0.5,
		FocusCenterY:    0.5,
	}
	scene := RGB{1, 1, 1}
	shifted := RGB{0, 0, 0}
	// Place the pixel at raw UV distance 0.75 from center: normDist 1.5.
	u := float32(0.5 + 0.75)
	got2 := CompositeColor(scene, RGB{}, RGB{}, shifted, u, 0.5, p)
	want := Mix(scene, shifted, 4.5)
	if !nearRGB(got2, want) {
		t.Errorf("extrapolated composite = %+v, want %+v", got2, want)
	}
}

func TestNormDist(t *testing.T) {
	// The raw UV distance is doubled; the factor is part of the contract.
	if d := NormDist(0.5, 0.5, 0.5, 0.5); d != 0 {
		t.Errorf("NormDist at center = %g, want 0", d)
	}
	if d := NormDist(1, 0.5, 0.5, 0.5); !nearf(d, 1) {
		t.Errorf("NormDist at horizontal edge = %g, want 1", d)
	}
	corner := NormDist(1, 1, 0.5, 0.5)
	if !nearf(corner, float32(math.Sqrt2)) {
		t.Errorf("NormDist at corner = %g, want sqrt(2)", corner)
	}
}

func TestCompositeOrderIsBloomFocusAberration(t *testing.T) {
	// With all three effects fully weighted at one pixel the result must
	// equal the hand-applied sequence bloom -> focus -> aberration.
	p := &ParameterSet{
		BloomEnabled: 1, BloomMode: 0,
		FocusEnabled: 1, FocusCenterX: 0.5, FocusCenterY: 0.5,
		FocusRadius: 0.1, FocusFalloff: 1,
		CAEnabled: 1, CAEdgeIntensity: 0.5, CAFalloff: 1,
	}
	scene := RGB{0.2, 0.3, 0.4}
	bloom := RGB{0.1, 0.1, 0.1}
	blurred := RGB{0.6, 0.6, 0.6}
	shifted := RGB{0.9, 0.1, 0.9}
	u, v := float32(0.9), float32(0.8)

	nd := NormDist(u, v, 0.5, 0.5)
	want := Mix(scene, AddBlend(scene, bloom), 1)
	want = Mix(want, blurred, FocusMask(nd, 0.1, 1))
	want = Mix(want, shifted, AberrationMask(nd, 1, 0.5))

	got := CompositeColor(scene, bloom, blurred, shifted, u, v, p)
	if !nearRGB(got, want) {
		t.Errorf("composite order mismatch: got %+v, want %+v", got, want)
	}
}

func TestCompositeFullFrameMatchesPerPixel(t *testing.T) {
	const w, h = 33, 17 // odd sizes exercise chunk boundaries
	scene := NewFrameBuffer(w, h)
	bloom := NewFrameBuffer(w, h)
	blurred := NewFrameBuffer(w, h)
	shifted := NewFrameBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx, fy := float32(x), float32(y)
			scene.Set(x, y, RGB{fx / w, fy / h, 0.2})
			bloom.Set(x, y, RGB{0.1, fx / w * 0.3, 0})
			blurred.Set(x, y, RGB{0.5, 0.5, fy / h})
			shifted.Set(x, y, RGB{fy / h, 0, fx / w})
		}
	}
	p := &ParameterSet{
		BloomEnabled: 1, BloomMode: 1,
		FocusEnabled: 1, FocusCenterX: 0.4, FocusCenterY: 0.6,
		FocusRadius: 0.3, FocusFalloff: 1.5,
		CAEnabled: 1, CAEdgeIntensity: 0.5, CAFalloff: 2,
	}

	for _, workers := range []int{1, 4} {
		dst := NewFrameBuffer(w, h)
		Composite(dst, scene, bloom, blurred, shifted, p, workers)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				u, v := dst.UV(x, y)
				want := CompositeColor(
					scene.At(x, y), bloom.At(x, y), blurred.At(x, y), shifted.At(x, y),
					u, v, p,
				)
				if !nearRGB(dst.At(x, y), want) {
					t.Fatalf("workers=%d pixel (%d,%d): got %+v, want %+v",
						workers, x, y, dst.At(x, y), want)
				}
			}
		}
	}
}

func BenchmarkComposite(b *testing.B) {
	const w, h = 640, 360
	scene := NewFrameBuffer(w, h)
	bloom := NewFrameBuffer(w, h)
	blurred := NewFrameBuffer(w, h)
	shifted := NewFrameBuffer(w, h)
	dst := NewFrameBuffer(w, h)
	p := NewParameterSet(DefaultConfig())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Composite(dst, scene, bloom, blurred, shifted, p, 0)
	}
}
