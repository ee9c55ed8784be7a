package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/pkg/observability"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App    *cli.App
	Logger *slog.Logger
}

// toolset holds the tool handlers. Each handler is a method so tests can call
// it without a transport.
type toolset struct {
	app     *cli.App
	logger  *slog.Logger
	metrics observability.Metrics
}

func newToolset(deps ToolDependencies) *toolset {
	t := &toolset{app: deps.App, logger: deps.Logger, metrics: observability.NoopMetrics{}}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if deps.App != nil && deps.App.Container != nil && deps.App.Container.Metrics != nil {
		t.metrics = deps.App.Container.Metrics
	}
	return t
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	t := newToolset(deps)

	srv.Tool("cli.health").
		Description("Report the health of the database, cache and broker").
		Handler(t.health)

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	registerProjectTools(srv, t)
	registerTaskTools(srv, t)
	registerSnapshotTools(srv, t)
	registerDashboardTools(srv, t)
	return nil
}

func (t *toolset) health(ctx context.Context, _ struct{}) (observability.HealthReport, error) {
	if t.app.Health == nil {
		return observability.HealthReport{Status: observability.HealthStatusHealthy}, nil
	}
	return t.app.Health.GetOverallHealth(ctx), nil
}

// timed wraps a tool handler with a request context and operation metrics.
func timed[I, O any](t *toolset, tool string, fn func(context.Context, I) (O, error)) func(context.Context, I) (O, error) {
	return func(ctx context.Context, input I) (O, error) {
		ctx = observability.NewRequestContext(ctx, observability.CorrelationIDFromContext(ctx))
		out, err := observability.TimeOperationResult(ctx, nil, t.metrics, "mcp."+tool, func() (O, error) {
			return fn(ctx, input)
		})
		if err != nil {
			t.logger.WarnContext(ctx, "mcp tool failed", "tool", tool, "error", err)
		}
		return out, err
	}
}
