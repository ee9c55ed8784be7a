package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/pkg/observability"
)

var (
	cfgFile    string
	verbose    bool
	jsonOutput bool
	logger     *slog.Logger
	bootstrap  BootstrapFunc
)

// BootstrapFunc builds the application once flags are parsed.
type BootstrapFunc func(ctx context.Context, configPath string, verbose bool) (*App, error)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// skipAppAnnotation marks commands that run without the application.
const skipAppAnnotation = "pacer/skip-app"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pacer",
	Short: "Pacer - progress and earned-value tracking",
	Long: `Pacer tracks weighted tasks across a portfolio of projects.

It classifies task status, computes delay and earned value, raises
alerts and records weekly planned-versus-actual snapshots.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			logger = slog.Default()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = observability.WithCorrelationID(ctx, info.correlationID.String())
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))

		if app == nil && bootstrap != nil && cmd.Annotations[skipAppAnnotation] == "" {
			a, err := bootstrap(cmd.Context(), cfgFile, verbose)
			if err != nil {
				return err
			}
			SetApp(a)
		}

		logger.InfoContext(cmd.Context(), "command start",
			"command", cmd.CommandPath(),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.InfoContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetBootstrap registers the function that builds the application.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SkipApp marks cmd as runnable without a database.
func SkipApp(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[skipAppAnnotation] = "true"
}

// RequireApp returns the application or an error when it is not initialized.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, errNotInitialized
	}
	return app, nil
}

var errNotInitialized = errors.New("application not initialized - database connection required")
