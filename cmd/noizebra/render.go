package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/anima-libera/noizebra/internal/persistence"
	"github.com/anima-libera/noizebra/internal/recipe"
	"github.com/anima-libera/noizebra/internal/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		width       int
		height      int
		workers     int
		thumbnail   int
		out         string
		compression string
		noHistory   bool
	)

	cmd := &cobra.Command{
		Use:   "render [recipe]",
		Short: "Render a recipe to a PNG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := a.cfg.Render
			name := rc.Recipe
			if len(args) == 1 {
				name = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("width") {
				rc.Width = width
			}
			if flags.Changed("height") {
				rc.Height = height
			}
			if flags.Changed("workers") {
				rc.Workers = workers
			}
			if flags.Changed("thumbnail") {
				rc.Thumbnail = thumbnail
			}
			if flags.Changed("compression") {
				rc.Compression = compression
			}

			fn, err := recipe.Default().Lookup(name)
			if err != nil {
				return err
			}
			comp, err := render.ParseCompression(rc.Compression)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := render.Options{Width: rc.Width, Height: rc.Height, Workers: rc.Workers}
			img, stats, err := render.Render(ctx, fn, opts)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = a.cfg.OutputPath(name, time.Now())
			}
			saved, err := render.Save(path, img, comp)
			if err != nil {
				return err
			}

			slog.Info("render complete",
				"recipe", name,
				"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
				"pixels", humanize.Comma(int64(stats.Pixels)),
				"workers", stats.Workers,
				"elapsed", stats.Duration.Round(time.Millisecond),
				"path", saved.Path,
				"bytes", humanize.Bytes(uint64(saved.Bytes)),
			)

			if rc.Thumbnail > 0 {
				thumb, err := render.Save(render.ThumbnailPath(path), render.Thumbnail(img, rc.Thumbnail), comp)
				if err != nil {
					return err
				}
				slog.Info("thumbnail written", "path", thumb.Path, "bytes", humanize.Bytes(uint64(thumb.Bytes)))
			}

			if !noHistory {
				if err := a.recordRender(name, opts, saved, stats); err != nil {
					slog.Warn("render not recorded", "error", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), saved.Path)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&width, "width", 0, "image width in pixels (default from config)")
	f.IntVar(&height, "height", 0, "image height in pixels (default from config)")
	f.IntVar(&workers, "workers", 0, "parallel row workers, 0 = GOMAXPROCS")
	f.IntVar(&thumbnail, "thumbnail", 0, "also write a thumbnail with this max side")
	f.StringVarP(&out, "out", "o", "", "output file (default from output.pattern)")
	f.StringVar(&compression, "compression", "", "png compression: default, speed, best, none")
	f.BoolVar(&noHistory, "no-history", false, "do not record the render in the history database")
	return cmd
}

func (a *app) recordRender(name string, opts render.Options, saved render.Saved, stats render.Stats) error {
	db, err := a.openDB()
	if err != nil || db == nil {
		return err
	}
	defer db.Close()

	rec, err := db.RecordRender(persistence.RenderRecord{
		Recipe:   name,
		Width:    opts.Width,
		Height:   opts.Height,
		Path:     saved.Path,
		Bytes:    saved.Bytes,
		Checksum: saved.Checksum,
		Duration: stats.Duration,
	})
	if err != nil {
		return err
	}
	slog.Debug("render recorded", "id", rec.ID)
	return nil
}
