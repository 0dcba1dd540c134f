package recipe

import (
	"image/color"
	"math"

	"github.com/anima-libera/noizebra/internal/noise"
)

// channel converts an intensity to a byte, clamping to [0, 1].
func channel(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

func rgb(r, g, b float64) color.RGBA {
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 255}
}

func gray(v float64) color.RGBA {
	return rgb(v, v, v)
}

// palette is a colour expressed as unit intensities.
type palette [3]float64

// blend mixes from and to linearly, t in [0, 1].
func blend(t float64, from, to palette) color.RGBA {
	var out palette
	for i := range out {
		out[i] = noise.Interpolate(noise.Identity, t, 0, 1, from[i], to[i])
	}
	return rgb(out[0], out[1], out[2])
}
