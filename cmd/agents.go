package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/crew"
	"github.com/Gil-1/crewai-gamedevs/internal/tools"
)

var (
	agentsFormat string
	agentsInputs string
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Show the crew's agents with resolved model parameters",
	Long: `List every agent with the model parameters the current profile resolves to.
With --format anthropic, print each agent as an Anthropic Messages request
(model, sampling, system prompt and tools) without any messages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := crew.LookupInputs(agentsInputs)
		if err != nil {
			return err
		}
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		def, err := a.crewDef()
		if err != nil {
			return err
		}
		agents, err := crew.ResolveAgents(def, inputs, a.cfg.Profile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch agentsFormat {
		case "text":
			for _, ag := range agents {
				fmt.Fprintf(out, "%s %s\n", titleStyle.Render(ag.Key), dimStyle.Render("("+ag.LLM.Name+")"))
				fmt.Fprintf(out, "  %s %s  %s %.2f  %s %.2f  %s %d\n",
					dimStyle.Render("model:"), ag.LLM.Model,
					dimStyle.Render("temperature:"), ag.LLM.Temperature,
					dimStyle.Render("top_p:"), ag.LLM.TopP,
					dimStyle.Render("max_tokens:"), ag.LLM.MaxTokens)
				fmt.Fprintf(out, "  %s %v\n", dimStyle.Render("tools:"), ag.Tools)
			}
			return nil
		case "anthropic":
			defs := tools.AnthropicTools(tools.Default(a.store).All())
			params := make(map[string]any, len(agents))
			for _, ag := range agents {
				params[ag.Key] = ag.MessageParams(defs)
			}
			data, err := json.MarshalIndent(params, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		default:
			return fmt.Errorf("unknown format: %q (valid options: text, anthropic)", agentsFormat)
		}
	},
}

func init() {
	agentsCmd.Flags().StringVar(&agentsFormat, "format", "text", "Output format (text, anthropic)")
	agentsCmd.Flags().StringVar(&agentsInputs, "inputs", crew.DefaultInputs, "Input preset used to fill placeholders")
	rootCmd.AddCommand(agentsCmd)
}
