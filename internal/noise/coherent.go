package noise

import "math"

// Coherent evaluates smooth value noise at xs. Each continuous axis is folded
// by interpolating between the two bracketing lattice values along it; the
// lattice coordinate of that axis is appended to channels before recursing,
// so the leaves hash channels followed by the lattice coordinates in axis
// order. A call with N axes performs 2^N hashes.
//
// channels is never modified.
func Coherent(xs []float64, channels []int64) float64 {
	if len(xs) == 0 {
		return Hash(channels)
	}

	n := math.Floor(xs[0])
	lattice := int64(n)

	// Fresh buffer: siblings must not share a backing array with the caller.
	next := make([]int64, len(channels)+1)
	copy(next, channels)

	next[len(channels)] = lattice
	inf := Coherent(xs[1:], next)
	next[len(channels)] = lattice + 1
	sup := Coherent(xs[1:], next)

	return Interpolate(CosineEase, xs[0]-n, 0, 1, inf, sup)
}

// CoherentIterative computes the same value as Coherent without recursion by
// enumerating all 2^N lattice corners and collapsing them axis by axis,
// innermost first. The result is bit-identical to Coherent.
func CoherentIterative(xs []float64, channels []int64) float64 {
	dims := len(xs)
	lower := make([]int64, dims)
	frac := make([]float64, dims)
	for i, x := range xs {
		n := math.Floor(x)
		lower[i] = int64(n)
		frac[i] = x - n
	}

	// Corner bit dims-1-i selects the upper lattice value on axis i, so corners
	// are laid out in the same order the recursion visits its leaves.
	corners := make([]float64, 1<<dims)
	key := make([]int64, len(channels)+dims)
	copy(key, channels)
	for c := range corners {
		for i := 0; i < dims; i++ {
			key[len(channels)+i] = lower[i] + int64((c>>(dims-1-i))&1)
		}
		corners[c] = Hash(key)
	}

	for axis := dims - 1; axis >= 0; axis-- {
		half := len(corners) / 2
		for j := 0; j < half; j++ {
			corners[j] = Interpolate(CosineEase, frac[axis], 0, 1, corners[2*j], corners[2*j+1])
		}
		corners = corners[:half]
	}
	return corners[0]
}
