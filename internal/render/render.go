// Package render evaluates a recipe over a pixel grid and encodes the result.
// Rows are independent and are spread over a bounded set of goroutines.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anima-libera/noizebra/internal/recipe"
)

// MaxSide bounds either image dimension.
const MaxSide = 8192

// ErrBadSize reports a non-positive or oversized image dimension.
var ErrBadSize = errors.New("invalid image size")

// Options controls a render.
type Options struct {
	Width   int
	Height  int
	Workers int // 0 = GOMAXPROCS
}

// Stats summarises a finished render.
type Stats struct {
	Pixels   int
	Workers  int
	Duration time.Duration
}

// Validate checks the dimensions.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 || o.Width > MaxSide || o.Height > MaxSide {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, o.Width, o.Height)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Render evaluates fn once per pixel at (px/width, py/height). The output does
// not depend on the number of workers. Cancelling ctx stops the render between
// rows and returns the context error.
func Render(ctx context.Context, fn recipe.Recipe, opts Options) (*image.RGBA, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	workers := opts.workers()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for py := 0; py < opts.Height; py++ {
		if gCtx.Err() != nil {
			break
		}
		py := py
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			ry := float64(py) / float64(opts.Height)
			for px := 0; px < opts.Width; px++ {
				rx := float64(px) / float64(opts.Width)
				img.SetRGBA(px, py, fn(rx, ry))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Stats{}, fmt.Errorf("render: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("render: %w", err)
	}

	return img, Stats{
		Pixels:   opts.Width * opts.Height,
		Workers:  workers,
		Duration: time.Since(start),
	}, nil
}
