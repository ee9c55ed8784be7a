package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database, cache and broker health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if app.Health == nil {
			Printf(cmd, "ok\n")
			return nil
		}

		overall := app.Health.GetOverallHealth(cmd.Context())
		if JSONOutput() {
			if err := PrintJSON(cmd, overall); err != nil {
				return err
			}
		} else {
			names := make([]string, 0, len(overall.Components))
			for name := range overall.Components {
				names = append(names, name)
			}
			sort.Strings(names)

			Printf(cmd, "status: %s\n", overall.Status)
			for _, name := range names {
				result := overall.Components[name]
				Printf(cmd, "  %-10s %s", name, result.Status)
				if result.Message != "" {
					Printf(cmd, " (%s)", result.Message)
				}
				Printf(cmd, "\n")
			}
		}

		if overall.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
