// Package api provides the HTTP API for sampling noise and rendering recipes.
// All endpoints are read-only GETs; the render endpoint is rate limited per
// client IP.
package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anima-libera/noizebra/internal/config"
	"github.com/anima-libera/noizebra/internal/noise"
	"github.com/anima-libera/noizebra/internal/persistence"
	"github.com/anima-libera/noizebra/internal/recipe"
	"github.com/anima-libera/noizebra/internal/render"
)

const (
	defaultRenderSide = 256
	maxSampleAxes     = 8
	maxSampleOctaves  = 64
	maxCoordinate     = 1e12
	maxHistoryLimit   = 500
)

// Server serves the noise engine over HTTP.
type Server struct {
	Recipes     *recipe.Registry
	DB          *persistence.DB // optional; nil disables history
	Addr        string
	MaxPixels   int
	Workers     int
	Compression render.Compression
	TrustProxy  bool // key rate limits on X-Forwarded-For

	limiter  *RateLimiter
	started  time.Time
	rendered atomic.Int64
	srv      *http.Server
	errc     chan error
}

// NewServer builds a server from configuration.
func NewServer(cfg config.Config, reg *recipe.Registry, db *persistence.DB) *Server {
	compression, err := render.ParseCompression(cfg.Render.Compression)
	if err != nil {
		compression = render.CompressionDefault
	}
	return &Server{
		Recipes:     reg,
		DB:          db,
		Addr:        cfg.Server.Addr,
		MaxPixels:   cfg.Server.MaxPixels,
		Workers:     cfg.Render.Workers,
		Compression: compression,
		TrustProxy:  cfg.Server.TrustProxy,
		limiter:     NewRateLimiter(cfg.Server.RenderPerHour, time.Hour),
		started:     time.Now(),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/recipes", s.handleRecipes)
	mux.HandleFunc("/api/v1/sample", s.handleSample)
	mux.HandleFunc("/api/v1/render/", s.handleRender)
	mux.HandleFunc("/api/v1/renders", s.handleRenders)
	mux.Handle("/metrics", promhttp.Handler())

	return getOnly(mux)
}

// Start binds the listen address and begins serving in a goroutine. Bind
// failures are returned; failures after that are delivered on Err.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.errc = make(chan error, 1)
	slog.Info("HTTP API starting", "addr", ln.Addr().String(), "recipes", s.Recipes.Len(), "history", s.DB != nil)

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			s.errc <- err
		}
		close(s.errc)
	}()
	return nil
}

// Err reports a serve failure after Start. It is closed once the server
// stops; nil before Start.
func (s *Server) Err() <-chan error {
	return s.errc
}

// Shutdown stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"name":           "noizebra",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"recipes":        s.Recipes.Len(),
		"renders_served": s.rendered.Load(),
		"history":        s.DB != nil,
	})
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"recipes": s.Recipes.Names()})
}

// handleSample evaluates one noise sample.
// GET /api/v1/sample?xs=0.5,1.25&ch=1,2&octaves=4
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	xs, err := ParseFloats(q.Get("xs"))
	if err != nil {
		http.Error(w, "xs: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(xs) > maxSampleAxes {
		http.Error(w, fmt.Sprintf("xs: at most %d axes", maxSampleAxes), http.StatusBadRequest)
		return
	}
	channels, err := ParseInts(q.Get("ch"))
	if err != nil {
		http.Error(w, "ch: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := map[string]any{"xs": xs, "channels": channels}
	if raw := q.Get("octaves"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "octaves: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := noise.CheckOctaves(count); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if count > maxSampleOctaves {
			http.Error(w, fmt.Sprintf("octaves: at most %d", maxSampleOctaves), http.StatusBadRequest)
			return
		}
		resp["kind"] = "octaves"
		resp["octaves"] = count
		resp["value"] = noise.Octaves(count, xs, channels)
		samplesTotal.WithLabelValues("octaves").Inc()
	} else {
		resp["kind"] = "coherent"
		resp["value"] = noise.Coherent(xs, channels)
		samplesTotal.WithLabelValues("coherent").Inc()
	}
	writeJSON(w, resp)
}

// handleRender renders a recipe to PNG.
// GET /api/v1/render/:recipe.png?w=256&h=256
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/render/")
	name = strings.TrimSuffix(name, ".png")

	fn, err := s.Recipes.Lookup(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	opts := render.Options{Width: defaultRenderSide, Height: defaultRenderSide, Workers: s.Workers}
	if opts.Width, err = intParam(r, "w", opts.Width); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if opts.Height, err = intParam(r, "h", opts.Height); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := opts.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if opts.Width*opts.Height > s.MaxPixels {
		http.Error(w, fmt.Sprintf("image exceeds %d pixels", s.MaxPixels), http.StatusBadRequest)
		return
	}
	if !s.limiter.admit(w, clientIP(r, s.TrustProxy)) {
		return
	}

	img, stats, err := render.Render(r.Context(), fn, opts)
	if err != nil {
		slog.Warn("render aborted", "recipe", name, "error", err)
		http.Error(w, "render aborted", http.StatusServiceUnavailable)
		return
	}
	renderSeconds.Observe(stats.Duration.Seconds())
	rendersTotal.WithLabelValues(name).Inc()
	s.rendered.Add(1)

	var buf bytes.Buffer
	if err := render.Encode(&buf, img, s.Compression); err != nil {
		slog.Error("encode failed", "recipe", name, "error", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	if s.DB != nil {
		sum := sha256.Sum256(buf.Bytes())
		_, err := s.DB.RecordRender(persistence.RenderRecord{
			Recipe:   name,
			Width:    opts.Width,
			Height:   opts.Height,
			Bytes:    int64(buf.Len()),
			Checksum: hex.EncodeToString(sum[:]),
			Duration: stats.Duration,
		})
		if err != nil {
			slog.Warn("failed to record render", "recipe", name, "error", err)
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(buf.Bytes())
}

func (s *Server) handleRenders(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "render history disabled", http.StatusNotFound)
		return
	}
	limit, err := intParam(r, "limit", 20)
	if err != nil || limit <= 0 || limit > maxHistoryLimit {
		http.Error(w, fmt.Sprintf("limit must be in 1..%d", maxHistoryLimit), http.StatusBadRequest)
		return
	}
	renders, err := s.DB.RecentRenders(limit)
	if err != nil {
		slog.Error("history query failed", "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"renders": renders})
}

func intParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// ParseFloats parses a comma-separated list; empty yields nil.
func ParseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.Abs(v) > maxCoordinate {
			return nil, fmt.Errorf("coordinate %q out of range", p)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseInts parses a comma-separated list; empty yields nil.
func ParseInts(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
