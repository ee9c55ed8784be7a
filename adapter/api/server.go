// Package api provides the read-only HTTP API of the tracking engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	server   *http.Server
	logger   *slog.Logger
	handler  *TrackingHandler
	health   *observability.HealthRegistry
	metrics  observability.Metrics
	gatherer prometheus.Gatherer
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration for addr.
func DefaultServerConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:         addr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Option customizes a Server.
type Option func(*Server)

// WithHealth exposes the registry on /health.
func WithHealth(h *observability.HealthRegistry) Option {
	return func(s *Server) { s.health = h }
}

// WithMetrics records request timings and exposes g on /metrics.
func WithMetrics(m observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handler *TrackingHandler, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:  logger,
		handler: handler,
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/projects", s.handler.ListProjects)
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/", s.handler.GetProject)
			r.Get("/tasks", s.handler.ListTasks)
			r.Get("/metrics", s.handler.GetProjectMetrics)
			r.Get("/calendar", s.handler.GetCalendar)
		})
		r.Get("/tasks/{taskID}", s.handler.GetTask)
		r.Get("/tasks/{taskID}/snapshots", s.handler.ListTaskSnapshots)

		r.Get("/alerts", s.handler.ListAlerts)
		r.Get("/kpis", s.handler.GetKPIs)
		r.Get("/summary", s.handler.GetPortfolioSummary)

		r.Get("/snapshots/summary", s.handler.GetWeeklySummary)
		r.Get("/snapshots/trends", s.handler.GetWeeklyTrends)
		r.Get("/snapshots/current-week", s.handler.GetCurrentWeek)
	})

	return r
}

// observe attaches correlation ids and records request timings per route.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ctx = observability.WithCorrelationID(ctx, r.Header.Get("X-Correlation-ID"))
		w.Header().Set("X-Correlation-ID", observability.CorrelationIDFromContext(ctx))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		timer := observability.StartTimer("http.request").WithMetrics(s.metrics)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		var err error
		if ww.Status() >= http.StatusInternalServerError {
			err = errors.New(http.StatusText(ww.Status()))
		}
		timer.WithTags(observability.T("route", route)).StopWithError(err)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": string(observability.HealthStatusHealthy)})
		return
	}
	report := s.health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if report.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// APIError is the JSON body of an error response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func badRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "bad_request", Message: message}
}

// writeError maps domain errors to status codes: not found is 404, invalid
// input 400, anything else 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
	case domain.IsNotFound(err):
		apiErr = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: err.Error()}
	case domain.IsValidation(err):
		apiErr = badRequest(err.Error())
	default:
		logger.Error("request failed", "error", err)
		apiErr = &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "Internal server error"}
	}
	writeJSON(w, apiErr.Status, apiErr)
}
