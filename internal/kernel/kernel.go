// Package kernel generates and caches 1D convolution kernels for the
// separable blur passes.
package kernel

import (
	"math"
	"sync"
)

// Gaussian generates a 1D Gaussian kernel for the given radius.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is 2*ceil(radius*3)+1, covering three standard
// deviations (99.7% of the distribution). For radius <= 0 it returns the
// single-element identity kernel [1.0].
func Gaussian(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	sigma := radius
	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1

	kernel := make([]float32, size)

	// G(x) = exp(-x^2/(2*sigma^2)); the constant factor drops out in the
	// normalization below.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}

	return kernel
}

// cache caches computed Gaussian kernels keyed by radius quantized to 0.01.
type cache struct {
	mu      sync.RWMutex
	kernels map[int][]float32
	maxLen  int
}

var defaultCache = &cache{kernels: make(map[int][]float32), maxLen: 64}

func (c *cache) get(radius float64) []float32 {
	key := int(radius * 100)

	c.mu.RLock()
	if k, ok := c.kernels[key]; ok {
		c.mu.RUnlock()
		return k
	}
	c.mu.RUnlock()

	k := Gaussian(radius)

	c.mu.Lock()
	if len(c.kernels) >= c.maxLen {
		// Simple eviction: clear half the cache.
		count := 0
		for key := range c.kernels {
			delete(c.kernels, key)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.kernels[key] = k
	c.mu.Unlock()

	return k
}

// CachedGaussian returns a cached Gaussian kernel for the radius.
// The blur passes use a fixed cold radius per pass lifetime, so after the
// first frame this is a map hit.
func CachedGaussian(radius float64) []float32 {
	return defaultCache.get(radius)
}

// Center returns the center index of a kernel of the given size.
func Center(size int) int {
	return size / 2
}
