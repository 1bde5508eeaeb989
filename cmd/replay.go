package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <task_id>",
	Short: "Re-run the latest run from a task",
	Long: `Re-run the most recent run starting at the given task. The task can be named
by its id (see log-tasks-outputs), an id prefix of at least 8 characters, or
its task key. Outputs of earlier tasks are reused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		c, err := a.newCrew(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("Replaying from task: "+args[0]))
		_, err = c.Replay(cmd.Context(), args[0])
		return err
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
