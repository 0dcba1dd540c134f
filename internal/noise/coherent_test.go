package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoherentNoAxes(t *testing.T) {
	assert.Equal(t, Hash(nil), Coherent(nil, nil))
	assert.Equal(t, Hash([]int64{4, 2}), Coherent(nil, []int64{4, 2}))
}

// TestCoherentLatticeRecovery verifies integer coordinates reproduce the
// lattice hash exactly, and nearby points converge to it.
func TestCoherentLatticeRecovery(t *testing.T) {
	for n := int64(-5); n <= 5; n++ {
		x := float64(n)
		assert.Equal(t, Hash([]int64{n}), Coherent([]float64{x}, nil), "n=%d", n)
		assert.InDelta(t, Hash([]int64{n}), Coherent([]float64{x + 1e-9}, nil), 1e-9)
		assert.InDelta(t, Hash([]int64{n + 1}), Coherent([]float64{x + 1 - 1e-9}, nil), 1e-9)
	}
	assert.Equal(t, Hash([]int64{7, 3, -2}), Coherent([]float64{3, -2}, []int64{7}))
}

func TestCoherentMidpointBetweenLattice(t *testing.T) {
	lo, hi := Hash([]int64{0}), Hash([]int64{1})
	if lo > hi {
		lo, hi = hi, lo
	}
	v := Coherent([]float64{0.5}, nil)
	assert.Greater(t, v, lo)
	assert.Less(t, v, hi)
}

func TestCoherentGolden(t *testing.T) {
	cases := []struct {
		xs       []float64
		channels []int64
		want     float64
	}{
		{[]float64{0.5}, nil, 0.6583372598863397},
		{[]float64{0.25, 0.75}, []int64{1}, 0.556469389471341},
		{[]float64{1.5, 2.5, 3.5}, []int64{2}, 0.4943985642000203},
		{[]float64{-4.2}, []int64{0}, 0.9124384184577294},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Coherent(tc.xs, tc.channels), 1e-9, "Coherent(%v, %v)", tc.xs, tc.channels)
	}
}

func TestCoherentDeterministic(t *testing.T) {
	xs := []float64{1.5, 2.7, 3.3}
	first := Coherent(xs, []int64{42})
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Coherent(xs, []int64{42}))
	}
}

// TestCoherentDoesNotMutateInputs verifies the channel prefix is shared
// read-only between sibling branches, even when it has spare capacity.
func TestCoherentDoesNotMutateInputs(t *testing.T) {
	channels := make([]int64, 1, 8)
	channels[0] = 9
	backing := channels[:8]
	for i := 1; i < 8; i++ {
		backing[i] = -1
	}
	xs := []float64{0.3, 1.7, -2.2}

	want := Coherent(append([]float64(nil), xs...), []int64{9})
	got := Coherent(xs, channels)

	assert.Equal(t, want, got)
	assert.Equal(t, []int64{9, -1, -1, -1, -1, -1, -1, -1}, backing)
	assert.Equal(t, []float64{0.3, 1.7, -2.2}, xs)
}

func TestCoherentRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 1000; i++ {
		xs := []float64{rng.Float64()*200 - 100, rng.Float64()*200 - 100, rng.Float64()*200 - 100}
		v := Coherent(xs, []int64{int64(i % 4)})
		if v < 0 || v >= 1 {
			t.Fatalf("Coherent(%v) = %v, expected in [0,1)", xs, v)
		}
	}
}

// TestCoherentContinuity verifies nearby samples stay close.
func TestCoherentContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 500; i++ {
		x, y := rng.Float64()*50, rng.Float64()*50
		v1 := Coherent([]float64{x, y}, nil)
		v2 := Coherent([]float64{x + 1e-4, y}, nil)
		if math.Abs(v1-v2) > 1e-3 {
			t.Fatalf("Coherent jumps at (%v,%v): %v -> %v", x, y, v1, v2)
		}
	}
}

// TestCoherentChannelDecorrelation compares two channel-tagged fields over a
// grid: they must differ and be only weakly correlated.
func TestCoherentChannelDecorrelation(t *testing.T) {
	var a, b []float64
	for i := 0; i < 40; i++ {
		for j := 0; j < 40; j++ {
			xs := []float64{float64(i)*0.37 - 7, float64(j)*0.41 - 5}
			a = append(a, Coherent(xs, []int64{1}))
			b = append(b, Coherent(xs, []int64{2}))
		}
	}

	var meanDiff float64
	for i := range a {
		meanDiff += math.Abs(a[i] - b[i])
	}
	meanDiff /= float64(len(a))

	assert.Greater(t, meanDiff, 0.1, "channel fields are near-identical")
	assert.Less(t, math.Abs(correlation(a, b)), 0.5, "channel fields are correlated")
}

func TestCoherentIterativeMatchesRecursive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for dims := 0; dims <= 5; dims++ {
		for i := 0; i < 50; i++ {
			xs := make([]float64, dims)
			for j := range xs {
				xs[j] = rng.Float64()*40 - 20
			}
			channels := []int64{int64(i), 3}
			require.Equal(t, Coherent(xs, channels), CoherentIterative(xs, channels), "dims=%d xs=%v", dims, xs)
		}
	}
}

func correlation(a, b []float64) float64 {
	var ma, mb float64
	for i := range a {
		ma += a[i]
		mb += b[i]
	}
	ma /= float64(len(a))
	mb /= float64(len(b))

	var cov, va, vb float64
	for i := range a {
		cov += (a[i] - ma) * (b[i] - mb)
		va += (a[i] - ma) * (a[i] - ma)
		vb += (b[i] - mb) * (b[i] - mb)
	}
	return cov / math.Sqrt(va*vb)
}
