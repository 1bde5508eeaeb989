package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/crew"
)

var trainCmd = &cobra.Command{
	Use:   "train <n_iterations> <filename>",
	Short: "Run the crew repeatedly and collect feedback",
	Long: `Run the crew n times with the platformer inputs. After every task, one line of
feedback is read from stdin and stored in the training file under the task's
agent. Later runs include the feedback in that agent's briefs when the file
is configured as paths.training.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseIterations(args[0])
		if err != nil {
			return err
		}
		inputs, err := crew.LookupInputs(crew.TrainTestInputs)
		if err != nil {
			return err
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		c, err := a.newCrew(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Training crew with "+inputs[crew.InputGame]))
		if err := c.Train(cmd.Context(), n, args[1], inputs, cmd.InOrStdin()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Training complete: "+args[1]))
		return nil
	},
}

func parseIterations(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("n_iterations must be a positive integer, got %q", s)
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
