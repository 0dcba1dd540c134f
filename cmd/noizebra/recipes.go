package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anima-libera/noizebra/internal/recipe"
)

func newRecipesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List the texture recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range recipe.Default().Names() {
				marker := " "
				if name == a.cfg.Render.Recipe {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}
