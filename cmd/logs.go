package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/crew"
)

var logTasksCmd = &cobra.Command{
	Use:   "log-tasks-outputs",
	Short: "List the tasks of the latest run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		store := crew.NewRunStore(filepath.Join(a.cfg.Paths.State, "runs"))
		run, err := store.Latest()
		if err != nil {
			return err
		}
		crew.FormatTaskList(cmd.OutOrStdout(), run)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logTasksCmd)
}
