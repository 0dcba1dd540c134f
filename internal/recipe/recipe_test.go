package recipe

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	reg := Default()
	assert.Equal(t, []string{
		"clouds", "gradient", "marble", "perlin", "rgb",
		"ridges", "simplex", "slice", "warp", "wood",
	}, reg.Names())
	assert.Equal(t, 10, reg.Len())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("plaid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRecipe))
}

func TestRegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register("flat", func(x, y float64) color.RGBA { return color.RGBA{A: 255} })
	reg.Register("flat", func(x, y float64) color.RGBA { return color.RGBA{R: 9, A: 255} })

	fn, err := reg.Lookup("flat")
	require.NoError(t, err)
	assert.Equal(t, uint8(9), fn(0, 0).R)
	assert.Equal(t, 1, reg.Len())
}

func TestGradient(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 0, A: 255}, Gradient(0, 0))
	assert.Equal(t, color.RGBA{R: 127, G: 63, B: 127, A: 255}, Gradient(0.5, 0.25))
	assert.Equal(t, color.RGBA{R: 25, G: 229, B: 229, A: 255}, Gradient(0.1, 0.9))
}

// TestRecipesDeterministic renders a coarse grid twice with every built-in
// recipe and expects opaque, identical output.
func TestRecipesDeterministic(t *testing.T) {
	reg := Default()
	for _, name := range reg.Names() {
		fn, err := reg.Lookup(name)
		require.NoError(t, err)
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				x, y := float64(i)/8, float64(j)/8
				c := fn(x, y)
				assert.Equal(t, uint8(255), c.A, "%s(%v,%v) not opaque", name, x, y)
				assert.Equal(t, c, fn(x, y), "%s(%v,%v) not deterministic", name, x, y)
			}
		}
	}
}

// TestNoiseRecipesVary guards against a recipe collapsing to a flat colour.
func TestNoiseRecipesVary(t *testing.T) {
	reg := Default()
	for _, name := range []string{"clouds", "rgb", "marble", "wood", "ridges", "warp", "slice", "simplex", "perlin"} {
		fn, err := reg.Lookup(name)
		require.NoError(t, err)
		seen := make(map[color.RGBA]bool)
		for i := 0; i < 16; i++ {
			for j := 0; j < 16; j++ {
				seen[fn(float64(i)/16, float64(j)/16)] = true
			}
		}
		assert.Greater(t, len(seen), 4, "%s produced too few distinct colours", name)
	}
}

func TestChannelClamp(t *testing.T) {
	assert.Equal(t, uint8(0), channel(-0.5))
	assert.Equal(t, uint8(255), channel(1.5))
	assert.Equal(t, uint8(127), channel(0.5))
	assert.Equal(t, uint8(0), channel(math.NaN()))
}

func TestBlendEndpoints(t *testing.T) {
	from := palette{0, 0, 0}
	to := palette{1, 1, 1}
	assert.Equal(t, gray(0), blend(0, from, to))
	assert.Equal(t, gray(1), blend(1, from, to))
}
