package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/crew"
)

var testJSON bool

var testCmd = &cobra.Command{
	Use:   "test <n_iterations> <eval_llm>",
	Short: "Evaluate the crew",
	Long: `Run the crew n times with the platformer inputs and have eval_llm score every
task output from 1 to 10 through the agent CLI. Validated tasks also report
how often their output matched the template structure.`,
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

		report, err := c.Test(cmd.Context(), n, args[1], inputs)
		if err != nil {
			return err
		}
		if testJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
		return nil
	},
}

func init() {
	testCmd.Flags().BoolVar(&testJSON, "json", false, "Also print the report as JSON")
	rootCmd.AddCommand(testCmd)
}
