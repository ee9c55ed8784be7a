package app

import (
	"log/slog"
	"os"

	"github.com/felixgeelhaar/pacer/pkg/config"
	"github.com/felixgeelhaar/pacer/pkg/observability"
)

// NewLogger builds the process logger from cfg: text on stderr in
// development, JSON on stdout with source locations elsewhere. verbose
// forces debug level.
func NewLogger(cfg *config.Config, version string, verbose bool) *slog.Logger {
	opts := observability.LoggerOptions{
		Level:   observability.ParseLevel(cfg.LogLevel),
		Output:  os.Stderr,
		Service: "pacer",
		Version: version,
	}
	if !cfg.IsDevelopment() {
		opts.JSON = true
		opts.Output = os.Stdout
		opts.AddSource = true
	}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	return observability.NewLogger(opts)
}
