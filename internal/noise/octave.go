package noise

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoOctaves reports an octave count below one.
var ErrNoOctaves = errors.New("octave count must be at least 1")

// CheckOctaves validates an octave count before it reaches Octaves.
func CheckOctaves(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: got %d", ErrNoOctaves, count)
	}
	return nil
}

// Octaves sums count layers of Coherent noise. The first layer samples xs
// as given with weight 1; every following layer doubles the frequency and
// halves the weight. The weighted sum is divided by the total weight, keeping
// the result in the range of a single layer.
//
// A count below one has no defined normalisation and yields NaN.
func Octaves(count int, xs []float64, channels []int64) float64 {
	if count < 1 {
		return math.NaN()
	}

	pos := make([]float64, len(xs))
	copy(pos, xs)

	coef := 1.0
	var sum, weights float64
	for i := 0; i < count; i++ {
		sum += Coherent(pos, channels) * coef
		weights += coef
		coef /= 2
		for j := range pos {
			pos[j] *= 2
		}
	}
	return sum / weights
}
