package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/pacer/internal/mcp"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server over streamable HTTP.

Set MCP_AUTH_TOKEN to require a bearer token.

Examples:
  pacer mcp serve
  pacer mcp serve --addr 127.0.0.1:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		container := app.Container
		if container == nil {
			return errors.New("mcp serve requires a database-backed application")
		}

		cfg := *container.Config
		if serveAddr != "" {
			cfg.MCPAddr = serveAddr
		}

		err = mcpinternal.Serve(cmd.Context(), &cfg, app, container.Logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from MCP_ADDR)")
}
