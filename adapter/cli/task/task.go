package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Create, update and inspect weighted project tasks. Status and delay are derived on every write.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
}
