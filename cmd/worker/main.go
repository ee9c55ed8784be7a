// Command worker relays the outbox to the event broker and runs the
// broker-side consumers.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/pacer/internal/app"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/pacer/pkg/config"
	"github.com/felixgeelhaar/pacer/pkg/observability"
)

var version = "dev"

func main() {
	logger := app.NewLogger(config.Bootstrap(), version, false)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = app.NewLogger(cfg, version, false)
	logger.Info("starting pacer worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if err := run(ctx, container); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker failed", "error", err)
		container.Close()
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

func run(ctx context.Context, c *app.Container) error {
	g, ctx := errgroup.WithContext(ctx)

	if err := c.OutboxProcessor.Start(ctx); err != nil {
		return err
	}

	g.Go(func() error { return cleanupLoop(ctx, c) })

	if c.Config.RabbitMQURL != "" && c.EventBus == nil {
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:    c.Config.RabbitMQURL,
			Logger: observability.LogOperation(c.Logger, "consume"),
		}, eventbus.NewConsumerRegistry(c.Logger))
		if err != nil {
			return err
		}
		for _, sub := range c.Subscribers() {
			consumer.RegisterConsumer(sub)
		}
		g.Go(func() error {
			defer consumer.Close()
			return consumer.Start(ctx)
		})
	}

	if c.Config.WorkerHealthAddr != "" {
		srv := &http.Server{
			Addr:              c.Config.WorkerHealthAddr,
			Handler:           healthRouter(c),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			c.Logger.Info("health server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	<-ctx.Done()
	c.Logger.Info("shutting down worker")
	c.OutboxProcessor.Stop()
	return g.Wait()
}

// cleanupLoop deletes published outbox rows past retention.
func cleanupLoop(ctx context.Context, c *app.Container) error {
	ticker := time.NewTicker(c.Config.OutboxCleanupInterval)
	defer ticker.Stop()

	logger := observability.LogOperation(c.Logger, "outbox.cleanup")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			start := time.Now()
			if _, err := c.OutboxProcessor.Cleanup(ctx); err != nil {
				logger.Error("outbox cleanup failed", "error", err)
				continue
			}
			observability.LogDuration(ctx, logger, "outbox.cleanup", start)
		}
	}
}

func healthRouter(c *app.Container) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := c.OutboxProcessor.GetStats()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"lag_seconds":       stats.LagSeconds,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		report := c.Health.GetOverallHealth(checkCtx)
		status := http.StatusOK
		if report.Status == observability.HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	})

	r.Handle("/metrics", promhttp.HandlerFor(c.MetricsRegistry, promhttp.HandlerOpts{}))
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
