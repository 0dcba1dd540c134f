package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/anima-libera/noizebra/internal/config"
	"github.com/anima-libera/noizebra/internal/persistence"
)

// app carries state shared by subcommands after the root pre-run.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "noizebra",
		Short:         "Deterministic procedural noise renderer",
		Long:          "noizebra evaluates a seedless value-noise engine and renders texture recipes built on it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "noizebra.yaml", "path to YAML config")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format override (auto, text, json)")

	root.AddCommand(
		newRenderCmd(a),
		newSampleCmd(a),
		newRecipesCmd(a),
		newHistoryCmd(a),
		newGoldenCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Read(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// openDB opens the history database, or returns nil when history is disabled.
func (a *app) openDB() (*persistence.DB, error) {
	if a.cfg.Database.Path == "" {
		return nil, nil
	}
	db, err := persistence.Open(a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	slog.Debug("database opened", "path", a.cfg.Database.Path)
	return db, nil
}

// newLogger builds the process logger. The auto format picks text for a
// terminal and JSON otherwise.
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	format := lc.Format
	if format == "auto" || format == "" {
		format = "json"
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = "text"
		}
	}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", lc.Format)
	}
}
