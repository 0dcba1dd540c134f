// Package noise provides the deterministic value-noise engine: a lattice hash,
// coherent noise built by recursive interpolation between lattice values, and
// octave summation on top of it.
//
// Every function in this package is pure. There is no seed and no shared
// state; independent fields are obtained by tagging lookups with channels.
package noise

import "math"

// Hash maps a sequence of integers to a value in [0, 1).
// The result depends on the order of coords, not just their multiset.
// Overflow in the mixing steps wraps.
func Hash(coords []int64) float64 {
	var a, b int64
	for i, x := range coords {
		pos := int64(i)
		a ^= x
		b ^= 17*(pos+11) + x
		a, b = b, a
		a ^= a << shiftFor(pos, b)
	}
	return fract(math.Cos(float64(a) + float64(b)))
}

// shiftFor is data dependent; b%11 may be negative.
func shiftFor(pos, b int64) uint {
	m := b%11 + 5
	if m < 1 {
		m = 1
	}
	return uint((pos + 7) % m)
}

func fract(v float64) float64 {
	f := v - math.Floor(v)
	// -tiny - floor(-tiny) rounds to 1.0
	if f >= 1 {
		return 0
	}
	return f
}
