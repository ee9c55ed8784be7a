package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/adapter/cli/dashboard"
	"github.com/felixgeelhaar/pacer/adapter/cli/mcp"
	"github.com/felixgeelhaar/pacer/adapter/cli/project"
	"github.com/felixgeelhaar/pacer/adapter/cli/snapshot"
	"github.com/felixgeelhaar/pacer/adapter/cli/task"
	"github.com/felixgeelhaar/pacer/internal/app"
	"github.com/felixgeelhaar/pacer/pkg/config"
)

func main() {
	logger := app.NewLogger(config.Bootstrap(), cli.Version, false)
	cli.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var container *app.Container
	cli.SetBootstrap(func(ctx context.Context, configPath string, verbose bool) (*cli.App, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger := app.NewLogger(cfg, cli.Version, verbose)
		cli.SetLogger(logger)

		container, err = app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}

		// Long-running commands keep relaying; one-shot commands flush what
		// they wrote before the container closes.
		if cfg.OutboxProcessorEnabled {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				logger.Warn("outbox processor not started", "error", err)
			}
		} else {
			logger.Debug("outbox processor disabled in CLI")
		}
		return cli.NewApp(container), nil
	})

	cli.AddCommand(project.Cmd)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(snapshot.Cmd)
	cli.AddCommand(dashboard.Cmd)
	cli.AddCommand(mcp.Cmd)

	err := cli.Execute(ctx)
	if container != nil {
		if container.OutboxProcessor != nil && container.OutboxProcessor.IsRunning() {
			if flushErr := container.OutboxProcessor.ProcessOnce(context.Background()); flushErr != nil {
				logger.Warn("failed to flush outbox", "error", flushErr)
			}
		}
		container.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
