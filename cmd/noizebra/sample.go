package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anima-libera/noizebra/internal/noise"
)

func newSampleCmd(a *app) *cobra.Command {
	var (
		xs       []float64
		channels []int64
		octaves  int
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Evaluate a single noise sample",
		Example: `  noizebra sample --xs 0.5
  noizebra sample --xs 0.3,0.7 --ch 2 --octaves 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var v float64
			if cmd.Flags().Changed("octaves") {
				if err := noise.CheckOctaves(octaves); err != nil {
					return err
				}
				v = noise.Octaves(octaves, xs, channels)
			} else {
				v = noise.Coherent(xs, channels)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.17g\n", v)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64SliceVar(&xs, "xs", nil, "continuous coordinates, comma separated")
	f.Int64SliceVar(&channels, "ch", nil, "channel tags, comma separated")
	f.IntVar(&octaves, "octaves", 1, "sum this many octaves instead of a single coherent sample")
	return cmd
}
