package recipe

import (
	"image/color"
	"math"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/anima-libera/noizebra/internal/noise"
)

// Channel tags keep the fields used by different recipes independent.
const (
	chClouds int64 = iota + 1
	chMarble
	chWood
	chRidges
	chWarpX
	chWarpY
	chWarpBase
	chSlice
	chRed
	chGreen
	chBlue
)

var (
	sky   = palette{0.25, 0.45, 0.85}
	cloud = palette{1, 1, 1}

	vein  = palette{0.20, 0.22, 0.30}
	stone = palette{0.92, 0.90, 0.86}

	earlywood = palette{0.80, 0.58, 0.32}
	latewood  = palette{0.45, 0.26, 0.12}
)

func builtin() map[string]Recipe {
	simplex := opensimplex.NewNormalized(0)
	p := perlin.NewPerlin(2, 2, 3, 0)

	return map[string]Recipe{
		"gradient": Gradient,
		"clouds":   Clouds,
		"rgb":      RGB,
		"marble":   Marble,
		"wood":     Wood,
		"ridges":   Ridges,
		"warp":     Warp,
		"slice":    Slice,
		"simplex": func(x, y float64) color.RGBA {
			return gray(layered(simplex.Eval2, x, y, 6, 4))
		},
		"perlin": func(x, y float64) color.RGBA {
			// Noise2D is roughly in [-1, 1].
			eval := func(x, y float64) float64 { return (p.Noise2D(x, y) + 1) / 2 }
			return gray(layered(eval, x, y, 6, 4))
		},
	}
}

// Gradient is the plain coordinate ramp: red follows x, green follows y and
// blue takes the larger of the two.
func Gradient(x, y float64) color.RGBA {
	r := uint8(x * 255)
	g := uint8(y * 255)
	return color.RGBA{R: r, G: g, B: max(r, g), A: 255}
}

// Clouds blends sky to white by six octaves of noise.
func Clouds(x, y float64) color.RGBA {
	n := noise.Octaves(6, []float64{x * 4, y * 4}, []int64{chClouds})
	t := noise.Smoothstep((n - 0.35) / 0.4)
	return blend(t, sky, cloud)
}

// RGB renders three decorrelated fields, one per colour channel.
func RGB(x, y float64) color.RGBA {
	xs := []float64{x * 8, y * 8}
	return rgb(
		noise.Octaves(5, xs, []int64{chRed}),
		noise.Octaves(5, xs, []int64{chGreen}),
		noise.Octaves(5, xs, []int64{chBlue}),
	)
}

// Marble perturbs diagonal sine bands with octave noise.
func Marble(x, y float64) color.RGBA {
	pos := mgl64.Rotate2D(math.Pi / 6).Mul2x1(mgl64.Vec2{x, y})
	n := noise.Octaves(7, []float64{x * 5, y * 5}, []int64{chMarble})
	band := (math.Sin((pos.X()+n*1.6)*math.Pi*6) + 1) / 2
	return blend(math.Pow(band, 0.4), vein, stone)
}

// Wood draws growth rings around an off-centre pith, wobbled by noise.
func Wood(x, y float64) color.RGBA {
	d := mgl64.Vec2{x - 0.3, y - 0.5}.Len()
	n := noise.Octaves(4, []float64{x * 3, y * 12}, []int64{chWood})
	rings := d*18 + n*3
	t := rings - math.Floor(rings)
	return blend(noise.Smoothstep(t), earlywood, latewood)
}

// Ridges folds octave noise around its midpoint for sharp crests.
func Ridges(x, y float64) color.RGBA {
	n := noise.Octaves(6, []float64{x * 6, y * 6}, []int64{chRidges})
	return gray(1 - math.Abs(2*n-1))
}

// Warp offsets the lookup of a base field by two independent fields and
// rotates the offset by the local value.
func Warp(x, y float64) color.RGBA {
	xs := []float64{x * 3, y * 3}
	off := mgl64.Vec2{
		noise.Octaves(4, xs, []int64{chWarpX}) - 0.5,
		noise.Octaves(4, xs, []int64{chWarpY}) - 0.5,
	}
	angle := noise.Coherent(xs, []int64{chWarpBase}) * 2 * math.Pi
	off = mgl64.Rotate2D(angle).Mul2x1(off).Mul(4)

	n := noise.Octaves(5, []float64{x*3 + off.X(), y*3 + off.Y()}, []int64{chWarpBase})
	return rgb(n*0.9, n*0.7+0.1, 1-n)
}

// Slice cuts a three-axis field at a fixed depth.
func Slice(x, y float64) color.RGBA {
	n := noise.Coherent([]float64{x * 10, y * 10, 0.5}, []int64{chSlice})
	return gray(n)
}

// layered sums octaves of a third-party 2D field the same way Octaves does.
func layered(eval func(x, y float64) float64, x, y float64, octaves int, frequency float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += eval(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		frequency *= 2
	}

	return total / maxVal
}
