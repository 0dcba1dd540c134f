package noise

import (
	"fmt"
	"math"
)

// Kernel selects the easing applied to the interpolation ratio.
type Kernel uint8

const (
	CosineEase      Kernel = iota // half-cosine, used by Coherent
	CubicSmoothstep               // t²(3-2t)
	Identity                      // linear
)

// Apply evaluates the kernel at t. Eased kernels clamp outside [0, 1].
func (k Kernel) Apply(t float64) float64 {
	switch k {
	case CosineEase:
		return Smoothcos(t)
	case CubicSmoothstep:
		return Smoothstep(t)
	default:
		return t
	}
}

// String returns the kernel name.
func (k Kernel) String() string {
	switch k {
	case CosineEase:
		return "cosine"
	case CubicSmoothstep:
		return "smoothstep"
	case Identity:
		return "identity"
	default:
		return fmt.Sprintf("Kernel(%d)", uint8(k))
	}
}

// Smoothcos is the half-cosine ease: 0 at 0, 1 at 1, zero slope at both ends.
func Smoothcos(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return (math.Cos((1-t)*math.Pi) + 1) / 2
}

// Smoothstep is the cubic Hermite ease t²(3-2t).
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// Interpolate maps x from [xInf, xSup] onto [dstInf, dstSup], shaping the
// ratio with k. It panics if xInf == xSup.
func Interpolate(k Kernel, x, xInf, xSup, dstInf, dstSup float64) float64 {
	if xInf == xSup {
		panic(fmt.Sprintf("noise: Interpolate over empty range [%v, %v]", xInf, xSup))
	}
	ratio := (x - xInf) / (xSup - xInf)
	return dstInf + k.Apply(ratio)*(dstSup-dstInf)
}
