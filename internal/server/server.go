// Package server exposes the generation pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                         liveness and build version
//	GET  /v1/strategies                   available generators
//	POST /v1/generate                     run one generator, JSON summary
//	POST /v1/generate/all                 run several generators concurrently
//	GET  /v1/networks/{strategy}/{format} run one generator, raw artifact
//	GET  /metrics                         Prometheus metrics
//
// Every request goes through the pipeline [pipeline.Runner], so the cache
// is shared with any other runner pointed at the same directory.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/roadweave/pkg/observability"
	"github.com/matzehuels/roadweave/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used when none is given.
	DefaultAddr = "127.0.0.1:8080"

	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	limits   Limits
	router   chi.Router
}

// New creates a server backed by runner. Metrics are registered on a
// private registry, so several servers can coexist in one process.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s := &Server{
		runner:   runner,
		logger:   logger,
		registry: reg,
		metrics:  NewMetrics(reg),
		limits:   DefaultLimits,
	}
	s.router = s.routes()
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// RegisterHooks installs the server's metrics as the process-wide
// observability hooks.
func (s *Server) RegisterHooks() {
	observability.SetPipelineHooks(s.metrics)
	observability.SetCacheHooks(s.metrics)
	observability.SetServerHooks(s.metrics)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/strategies", s.handleStrategies)
		r.Post("/generate", s.handleGenerate)
		r.Post("/generate/all", s.handleGenerateAll)
		r.Get("/networks/{strategy}/{format}", s.handleArtifact)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// logRequests logs each request and reports it to the server hooks,
// labelled by the matched route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, code, d)

		s.logger.Debug("http request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", code,
			"duration", d,
			"remote", r.RemoteAddr)
	})
}
