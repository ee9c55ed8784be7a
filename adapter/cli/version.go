package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, set with -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: runtime.Version()}
		if JSONOutput() {
			return PrintJSON(cmd, info)
		}
		Printf(cmd, "pacer %s (%s)\n", info.Version, info.GoVersion)
		Printf(cmd, "  commit: %s\n", info.Commit)
		Printf(cmd, "  built:  %s\n", info.BuildDate)
		return nil
	},
}

func init() {
	SkipApp(versionCmd)
	rootCmd.AddCommand(versionCmd)
}
