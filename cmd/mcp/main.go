// Command mcp runs the pacer MCP server as a standalone process.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/app"
	mcpinternal "github.com/felixgeelhaar/pacer/internal/mcp"
	"github.com/felixgeelhaar/pacer/pkg/config"
)

func main() {
	logger := app.NewLogger(config.Bootstrap(), mcpinternal.Version, false)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = app.NewLogger(cfg, mcpinternal.Version, false)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.OutboxProcessorEnabled {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Warn("outbox processor not started", "error", err)
		}
	}

	if err := mcpinternal.Serve(ctx, cfg, cli.NewApp(container), logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		container.Close()
		os.Exit(1)
	}
}
