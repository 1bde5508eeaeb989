package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/crew"
)

// inputFlags holds one flag per crew input, keyed by input name.
type inputFlags map[string]*string

func addInputFlags(cmd *cobra.Command) inputFlags {
	flags := make(inputFlags, len(crew.InputKeys))
	for _, key := range crew.InputKeys {
		name := strings.ReplaceAll(key, "_", "-")
		flags[key] = cmd.Flags().String(name, "", fmt.Sprintf("Override the %q input", key))
	}
	return flags
}

// apply overrides preset values with the flags that were set.
func (f inputFlags) apply(cmd *cobra.Command, in crew.Inputs) {
	for key, val := range f {
		if cmd.Flags().Changed(strings.ReplaceAll(key, "_", "-")) {
			in[key] = *val
		}
	}
}

var runInputs inputFlags

var runCmd = &cobra.Command{
	Use:   "run [preset]",
	Short: "Generate a game design document",
	Long: fmt.Sprintf(`Run every task of the crew in order and write the results to the output
directory. The optional preset selects the game inputs (%s);
individual inputs can be overridden with flags.`, strings.Join(crew.InputPresetNames(), ", ")),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		preset := crew.DefaultInputs
		if len(args) == 1 {
			preset = args[0]
		}
		inputs, err := crew.LookupInputs(preset)
		if err != nil {
			return err
		}
		runInputs.apply(cmd, inputs)

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		c, err := a.newCrew(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = c.Kickoff(cmd.Context(), inputs)
		return err
	},
}

func init() {
	runInputs = addInputFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
