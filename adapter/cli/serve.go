package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/pacer/adapter/api"
)

var serveAddr string

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only HTTP API",
	Long: `Start the HTTP API with /health and /metrics.

Examples:
  pacer serve
  pacer serve --addr 0.0.0.0:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		c := app.Container
		if c == nil {
			return errors.New("serve requires a database-backed application")
		}

		addr := c.Config.APIAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := api.NewServer(
			api.DefaultServerConfig(addr),
			api.NewTrackingHandler(api.QueriesFrom(c), c.Logger),
			c.Logger,
			api.WithHealth(c.Health),
			api.WithMetrics(c.Metrics, c.MetricsRegistry),
		)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(srv.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from API_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
