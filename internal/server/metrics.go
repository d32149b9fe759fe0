package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/roadweave/pkg/observability"
)

// Metrics holds the Prometheus collectors exported on /metrics. It
// implements the observability hook interfaces, so registering it with
// [observability] routes pipeline and cache events into the collectors.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	GenerateTotal    *prometheus.CounterVec
	GenerateDuration *prometheus.HistogramVec
	GeneratedEdges   *prometheus.HistogramVec

	RenderTotal    *prometheus.CounterVec
	RenderDuration prometheus.Histogram

	CacheEvents *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadweave_http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roadweave_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "route"},
		),
		GenerateTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadweave_generate_total",
				Help: "Generator runs by strategy and outcome.",
			},
			[]string{"strategy", "status"},
		),
		GenerateDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roadweave_generate_duration_seconds",
				Help:    "Time spent generating and building a road network.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		GeneratedEdges: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roadweave_generated_edges",
				Help:    "Edges in each generated road network.",
				Buckets: prometheus.ExponentialBuckets(4, 2, 10),
			},
			[]string{"strategy"},
		),
		RenderTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadweave_render_total",
				Help: "Render passes by outcome.",
			},
			[]string{"status"},
		),
		RenderDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "roadweave_render_duration_seconds",
				Help:    "Time spent rendering artifacts.",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadweave_cache_events_total",
				Help: "Cache lookups and writes by key type.",
			},
			[]string{"type", "event"},
		),
		CacheBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadweave_cache_written_bytes_total",
				Help: "Bytes written to the cache by key type.",
			},
			[]string{"type"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnGenerateStart(context.Context, string, uint64) {}

func (m *Metrics) OnGenerateComplete(_ context.Context, strategy string, stats observability.GenerateStats, d time.Duration, err error) {
	m.GenerateTotal.WithLabelValues(strategy, status(err)).Inc()
	if err != nil {
		return
	}
	m.GenerateDuration.WithLabelValues(strategy).Observe(d.Seconds())
	m.GeneratedEdges.WithLabelValues(strategy).Observe(float64(stats.Edges))
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.RenderTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.RenderDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
