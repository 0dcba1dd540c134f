package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/anima-libera/noizebra/internal/golden"
)

func newGoldenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "golden",
		Short: "Record or verify reference engine outputs",
	}

	record := &cobra.Command{
		Use:   "record",
		Short: "Evaluate the reference cases and store the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("golden values need database.path")
			}
			defer db.Close()

			values, err := golden.Record(golden.DefaultCases())
			if err != nil {
				return err
			}
			if err := db.SaveGolden(values); err != nil {
				return fmt.Errorf("save golden: %w", err)
			}
			if err := db.SaveMeta("golden_recorded_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
				return fmt.Errorf("save meta: %w", err)
			}
			for _, v := range values {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %.17g\n", v.Label, v.Value)
			}
			return nil
		},
	}

	var tolerance float64
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Compare the engine against stored reference outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("golden values need database.path")
			}
			defer db.Close()

			stored, err := db.LoadGolden()
			if err != nil {
				return err
			}
			if len(stored) == 0 {
				return errors.New("no golden values recorded; run `noizebra golden record` first")
			}

			mismatches, err := golden.Verify(stored, tolerance)
			if err != nil {
				return err
			}
			for _, m := range mismatches {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d of %d golden values differ", len(mismatches), len(stored))
			}

			recordedAt, _ := db.GetMeta("golden_recorded_at")
			slog.Info("golden values match", "count", len(stored), "recorded_at", recordedAt)
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d values\n", len(stored))
			return nil
		},
	}
	verify.Flags().Float64Var(&tolerance, "tolerance", 0, "allowed absolute difference, 0 = bit-identical")

	cmd.AddCommand(record, verify)
	return cmd
}
