package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noizebra_renders_total",
		Help: "Images rendered over HTTP by recipe",
	}, []string{"recipe"})

	renderSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "noizebra_render_seconds",
		Help:    "Wall time spent evaluating a render",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	samplesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noizebra_samples_total",
		Help: "Single noise samples served by entry point",
	}, []string{"kind"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "noizebra_rate_limited_total",
		Help: "Render requests rejected by the rate limiter",
	})
)
