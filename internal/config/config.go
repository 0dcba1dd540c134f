// Package config loads noizebra settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	strftime "github.com/ncruces/go-strftime"
	"gopkg.in/yaml.v3"

	"github.com/anima-libera/noizebra/internal/render"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full application configuration.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// RenderConfig holds default render parameters.
type RenderConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Workers     int    `yaml:"workers"` // 0 = GOMAXPROCS
	Recipe      string `yaml:"recipe"`
	Compression string `yaml:"compression"`
	Thumbnail   int    `yaml:"thumbnail"` // max side, 0 = none
}

// OutputConfig controls where renders are written.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"` // strftime layout, {recipe} placeholder
}

// DatabaseConfig locates the render history database.
type DatabaseConfig struct {
	Path string `yaml:"path"` // empty disables history
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	RenderPerHour int    `yaml:"render_per_hour"`
	MaxPixels     int    `yaml:"max_pixels"`
	TrustProxy    bool   `yaml:"trust_proxy"` // honour X-Forwarded-For
}

// LogConfig selects level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // auto, text, json
}

// DefaultConfig returns the built-in settings. The original renderer wrote a
// single 800x800 image.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			Width:       800,
			Height:      800,
			Workers:     0,
			Recipe:      "gradient",
			Compression: string(render.CompressionDefault),
			Thumbnail:   0,
		},
		Output: OutputConfig{
			Dir:     "output",
			Pattern: "%Y%m%d-%H%M%S-{recipe}.png",
		},
		Database: DatabaseConfig{
			Path: "data/noizebra.db",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			RenderPerHour: 120,
			MaxPixels:     1024 * 1024,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads path over the defaults and validates the result. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply overrides first.
func Read(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	opts := render.Options{Width: c.Render.Width, Height: c.Render.Height}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%w: render: %v", ErrInvalid, err)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers must be >= 0", ErrInvalid)
	}
	if c.Render.Thumbnail < 0 {
		return fmt.Errorf("%w: render.thumbnail must be >= 0", ErrInvalid)
	}
	if _, err := render.ParseCompression(c.Render.Compression); err != nil {
		return fmt.Errorf("%w: render.compression: %v", ErrInvalid, err)
	}
	if c.Output.Pattern == "" {
		return fmt.Errorf("%w: output.pattern is empty", ErrInvalid)
	}
	if c.Server.RenderPerHour <= 0 {
		return fmt.Errorf("%w: server.render_per_hour must be > 0", ErrInvalid)
	}
	if c.Server.MaxPixels <= 0 {
		return fmt.Errorf("%w: server.max_pixels must be > 0", ErrInvalid)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// OutputPath expands the output pattern for a render of name at t.
func (c Config) OutputPath(name string, t time.Time) string {
	file := strftime.Format(c.Output.Pattern, t)
	file = strings.ReplaceAll(file, "{recipe}", name)
	return filepath.Join(c.Output.Dir, file)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return lvl, nil
}
