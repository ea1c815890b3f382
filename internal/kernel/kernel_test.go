package kernel

import (
	"math"
	"testing"
)

func TestGaussianIdentity(t *testing.T) {
	for _, r := range []float64{0, -1, -0.5} {
		k := Gaussian(r)
		if len(k) != 1 || k[0] != 1.0 {
			t.Errorf("Gaussian(%g) = %v, want [1.0]", r, k)
		}
	}
}

func TestGaussianProperties(t *testing.T) {
	for _, r := range []float64{0.5, 1, 2.5, 8} {
		k := Gaussian(r)

		wantSize := 2*int(math.Ceil(r*3)) + 1
		if len(k) != wantSize {
			t.Errorf("radius %g: size = %d, want %d", r, len(k), wantSize)
		}

		sum := float64(0)
		for _, v := range k {
			sum += float64(v)
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("radius %g: sum = %g, want 1", r, sum)
		}

		// Symmetric and peaked at the center.
		c := Center(len(k))
		for i := 0; i < c; i++ {
			if k[i] != k[len(k)-1-i] {
				t.Errorf("radius %g: k[%d] != k[%d]", r, i, len(k)-1-i)
			}
			if k[i] > k[i+1] {
				t.Errorf("radius %g: not monotonic toward center at %d", r, i)
			}
		}
	}
}

func TestCachedGaussianStable(t *testing.T) {
	a := CachedGaussian(4)
	b := CachedGaussian(4)
	if len(a) != len(b) {
		t.Fatalf("cached sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cached kernel differs at %d", i)
		}
	}
}

func TestCenter(t *testing.T) {
	if Center(7) != 3 || Center(1) != 0 {
		t.Error("Center wrong for odd kernel sizes")
	}
}
