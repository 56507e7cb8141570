// Package metrics exposes frame and asset-load instrumentation to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load outcome label values
const (
	OutcomePrimary  = "primary"
	OutcomeFallback = "fallback"
	OutcomeFailed   = "failed"
)

// Collector bundles the runtime's Prometheus metrics
// A nil *Collector is valid and records nothing
type Collector struct {
	gatherer prometheus.Gatherer

	Frames        prometheus.Counter
	FrameDuration prometheus.Histogram
	Bodies        prometheus.Gauge
	Triangles     prometheus.Gauge
	AssetLoads    *prometheus.CounterVec
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "floating_isle_frames_total",
			Help: "Frames rendered.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "floating_isle_frame_duration_seconds",
			Help:    "Wall time spent simulating, rasterizing and presenting a frame.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.016, 0.025, 0.033, 0.05, 0.1, 0.25},
		}),
		Bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "floating_isle_bodies",
			Help: "Bodies registered with the orbit animator.",
		}),
		Triangles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "floating_isle_triangles",
			Help: "Triangles submitted in the last frame.",
		}),
		AssetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floating_isle_asset_loads_total",
			Help: "Completed model loads, labeled by which candidate served them.",
		}, []string{"outcome"}),
	}

	for name, col := range map[string]prometheus.Collector{
		"floating_isle_frames_total":           c.Frames,
		"floating_isle_frame_duration_seconds": c.FrameDuration,
		"floating_isle_bodies":                 c.Bodies,
		"floating_isle_triangles":              c.Triangles,
		"floating_isle_asset_loads_total":      c.AssetLoads,
	} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
	}
	return c, nil
}

// ObserveFrame records one rendered frame
func (c *Collector) ObserveFrame(d time.Duration, triangles int) {
	if c == nil {
		return
	}
	c.Frames.Inc()
	c.FrameDuration.Observe(d.Seconds())
	c.Triangles.Set(float64(triangles))
}

// SetBodies records the animator's registry size
func (c *Collector) SetBodies(n int) {
	if c == nil {
		return
	}
	c.Bodies.Set(float64(n))
}

// AssetLoaded counts a load outcome
func (c *Collector) AssetLoaded(outcome string) {
	if c == nil {
		return
	}
	c.AssetLoads.WithLabelValues(outcome).Inc()
}

// Handler exposes a ready-to-use /metrics handler
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Serve listens on addr and serves /metrics until ctx is done
func (c *Collector) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return c.ServeListener(ctx, ln)
}

// ServeListener serves /metrics on ln until ctx is done
func (c *Collector) ServeListener(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
