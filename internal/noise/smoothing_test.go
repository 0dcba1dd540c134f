package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKernelEndpoints(t *testing.T) {
	for _, k := range []Kernel{CosineEase, CubicSmoothstep, Identity} {
		assert.Equal(t, 0.0, k.Apply(0), "%s(0)", k)
		assert.Equal(t, 1.0, k.Apply(1), "%s(1)", k)
	}
	assert.InDelta(t, 0.5, Smoothcos(0.5), 1e-12)
	assert.InDelta(t, 0.5, Smoothstep(0.5), 1e-12)
}

// TestKernelClamp verifies eased kernels saturate outside [0,1] while the
// identity kernel passes values through.
func TestKernelClamp(t *testing.T) {
	assert.Equal(t, 0.0, Smoothcos(-3))
	assert.Equal(t, 1.0, Smoothcos(7))
	assert.Equal(t, 0.0, Smoothstep(-0.1))
	assert.Equal(t, 1.0, Smoothstep(1.1))
	assert.Equal(t, 1.5, Identity.Apply(1.5))
}

func TestKernelMonotonic(t *testing.T) {
	for _, k := range []Kernel{CosineEase, CubicSmoothstep} {
		prev := k.Apply(0)
		for i := 1; i <= 1000; i++ {
			v := k.Apply(float64(i) / 1000)
			if v < prev {
				t.Fatalf("%s decreases at %d/1000: %v < %v", k, i, v, prev)
			}
			prev = v
		}
	}
}

func TestInterpolate(t *testing.T) {
	assert.Equal(t, 10.0, Interpolate(Identity, 0, 0, 4, 10, 20))
	assert.Equal(t, 20.0, Interpolate(Identity, 4, 0, 4, 10, 20))
	assert.InDelta(t, 15.0, Interpolate(Identity, 2, 0, 4, 10, 20), 1e-12)
	assert.InDelta(t, 12.5, Interpolate(Identity, 1, 0, 4, 10, 20), 1e-12)

	// Eased kernels leave the midpoint in place.
	assert.InDelta(t, 15.0, Interpolate(CosineEase, 2, 0, 4, 10, 20), 1e-12)
	assert.InDelta(t, 15.0, Interpolate(CubicSmoothstep, 2, 0, 4, 10, 20), 1e-12)

	// Reversed destination range.
	assert.InDelta(t, 17.5, Interpolate(Identity, 1, 0, 4, 20, 10), 1e-12)
}

func TestInterpolateEmptyRangePanics(t *testing.T) {
	assert.Panics(t, func() { Interpolate(CosineEase, 1, 2, 2, 0, 1) })
}

func TestKernelString(t *testing.T) {
	assert.Equal(t, "cosine", CosineEase.String())
	assert.Equal(t, "smoothstep", CubicSmoothstep.String())
	assert.Equal(t, "identity", Identity.String())
	assert.Equal(t, "Kernel(9)", Kernel(9).String())
}
