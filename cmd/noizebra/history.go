package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be >= 1, got %d", limit)
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("history disabled: database.path is empty")
			}
			defer db.Close()

			renders, err := db.RecentRenders(limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tRECIPE\tSIZE\tBYTES\tTIME\tPATH")
			for _, r := range renders {
				path := r.Path
				if path == "" {
					path = "(http) " + r.ID
				}
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\t%s\t%s\n",
					humanize.Time(r.CreatedAt), r.Recipe, r.Width, r.Height,
					humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond), path)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of renders to show")
	return cmd
}
